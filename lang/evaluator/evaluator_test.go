package evaluator

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/monkey/lang/lexer"
	"github.com/ardnew/monkey/lang/object"
	"github.com/ardnew/monkey/lang/parser"
)

func testEval(t testing.TB, input string, opts ...Option) object.Object {
	t.Helper()

	p := parser.New(lexer.New(input))
	program := p.ParseProgram()

	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse %q: %s", input, strings.Join(errs, "; "))
	}

	return New(opts...).Eval(program, object.NewEnvironment())
}

// expect compares obj against want: an int, bool, string, nil for NULL, or
// an error message wrapped in errMsg.
func expect(t *testing.T, obj object.Object, want any) {
	t.Helper()

	switch want := want.(type) {
	case int:
		i, ok := obj.(*object.Integer)
		if !ok {
			t.Fatalf("object is %T (%s), want *object.Integer", obj, inspect(obj))
		}

		if i.Value != int64(want) {
			t.Errorf("Integer = %d, want %d", i.Value, want)
		}

	case bool:
		b, ok := obj.(*object.Boolean)
		if !ok {
			t.Fatalf("object is %T (%s), want *object.Boolean", obj, inspect(obj))
		}

		if b.Value != want {
			t.Errorf("Boolean = %t, want %t", b.Value, want)
		}

		if b != TRUE && b != FALSE {
			t.Errorf("Boolean is not a singleton")
		}

	case string:
		s, ok := obj.(*object.String)
		if !ok {
			t.Fatalf("object is %T (%s), want *object.String", obj, inspect(obj))
		}

		if s.Value != want {
			t.Errorf("String = %q, want %q", s.Value, want)
		}

	case errMsg:
		e, ok := obj.(*object.Error)
		if !ok {
			t.Fatalf("object is %T (%s), want *object.Error", obj, inspect(obj))
		}

		if e.Message != string(want) {
			t.Errorf("Error = %q, want %q", e.Message, want)
		}

	case nil:
		if obj != NULL {
			t.Errorf("object is %T (%s), want NULL", obj, inspect(obj))
		}

	default:
		t.Fatalf("unsupported expectation %T", want)
	}
}

type errMsg string

func inspect(obj object.Object) string {
	if obj == nil {
		return "<nil>"
	}

	return obj.Inspect()
}

func TestEval(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  any
	}{
		// integers
		{"literal", "5", 5},
		{"negative", "-10", -10},
		{"sum", "5 + 5 + 5 + 5 - 10", 10},
		{"product", "2 * 2 * 2 * 2 * 2", 32},
		{"precedence", "5 + 5 * 2", 15},
		{"mixed", "(5 + 10 * 2 + 15 / 3) * 2 + -10", 50},
		{"division truncates", "7 / 2", 3},
		{"negative division truncates", "-7 / 2", -3},

		// booleans
		{"true", "true", true},
		{"less", "1 < 2", true},
		{"greater", "1 > 2", false},
		{"int equal", "1 == 1", true},
		{"int not equal", "1 != 2", true},
		{"bool equal", "true == true", true},
		{"bool not equal", "true != false", true},
		{"compare results", "(1 < 2) == true", true},
		{"mismatched equal", "1 == true", false},
		{"mismatched not equal", `1 != "1"`, true},
		{"array identity", "[1] == [1]", false},

		// bang
		{"bang true", "!true", false},
		{"bang int", "!5", false},
		{"bang zero is truthy", "!0", false},
		{"double bang", "!!true", true},
		{"bang null", "!if (false) { 1 }", true},

		// conditionals
		{"if true", "if (true) { 10 }", 10},
		{"if false", "if (false) { 10 }", nil},
		{"if truthy", "if (1) { 10 }", 10},
		{"if else", "if (1 > 2) { 10 } else { 20 }", 20},

		// return
		{"return", "return 10; 9;", 10},
		{"return expression", "9; return 2 * 5; 9;", 10},
		{"nested return", "if (10 > 1) { if (10 > 1) { return 10; } return 1; }", 10},
		{"bare return", "return;", nil},
		{"return in function", "let f = fn(x) { return x; x + 10; }; f(10);", 10},
		{"nested function return", "let f = fn(x) { let g = fn() { return 1; }; g(); x }; f(5)", 5},

		// let
		{"let", "let a = 5; a;", 5},
		{"let expression", "let a = 5 * 5; a;", 25},
		{"let chain", "let a = 5; let b = a; let c = a + b + 5; c;", 15},
		{"rebind", "let a = 1; let a = a + 1; a", 2},
		{"let yields null", "let a = 1;", nil},
		{"empty program", "", nil},

		// functions
		{"identity", "let identity = fn(x) { x; }; identity(5);", 5},
		{"double", "let double = fn(x) { x * 2; }; double(5);", 10},
		{"add", "let add = fn(x, y) { x + y; }; add(5 + 5, add(5, 5));", 20},
		{"immediate", "fn(x) { x; }(5)", 5},
		{"empty body", "fn() {}()", nil},
		{"recursion", "let fib = fn(n) { if (n < 2) { n } else { fib(n - 1) + fib(n - 2) } }; fib(15)", 610},

		// strings
		{"string", `"Hello World!"`, "Hello World!"},
		{"concat", `"Hello" + " " + "World!"`, "Hello World!"},

		// arrays and indexing
		{"index first", "[1, 2, 3][0]", 1},
		{"index computed", "[1, 2, 3][1 + 1]", 3},
		{"index variable", "let i = 0; [1][i];", 1},
		{"index sum", "let a = [1, 2, 3]; a[0] + a[1] + a[2];", 6},
		{"index past end", "[1, 2, 3][3]", nil},
		{"index negative", "[1, 2, 3][-1]", nil},

		// hashes
		{"hash string key", `{"foo": 5}["foo"]`, 5},
		{"hash miss", `{"foo": 5}["bar"]`, nil},
		{"hash int key", "{5: 5}[5]", 5},
		{"hash bool key", "{true: 5}[true]", 5},
		{"hash variable key", `let key = "foo"; {"foo": 5}[key]`, 5},
		{"hash empty", `{}["foo"]`, nil},
		{"hash keys distinct by type", `{1: "int", "1": "str", true: "bool"}["1"]`, "str"},
		{"hash last write wins", `{"a": 1, "a": 2}["a"]`, 2},

		// errors
		{"type mismatch", "5 + true;", errMsg("type mismatch: INTEGER + BOOLEAN")},
		{"type mismatch stops program", "5 + true; 5;", errMsg("type mismatch: INTEGER + BOOLEAN")},
		{"minus boolean", "-true", errMsg("unknown operation: -BOOLEAN")},
		{"bool plus", "true + false;", errMsg("unknown operator: BOOLEAN + BOOLEAN")},
		{"bool plus in statements", "5; true + false; 5", errMsg("unknown operator: BOOLEAN + BOOLEAN")},
		{"bool plus in block", "if (10 > 1) { true + false; }", errMsg("unknown operator: BOOLEAN + BOOLEAN")},
		{"string minus", `"Hello" - "World"`, errMsg("unknown operator: STRING - STRING")},
		{"string equal", `"a" == "a"`, errMsg("unknown operator: STRING == STRING")},
		{"identifier not found", "foobar", errMsg("identifier not found: foobar")},
		{"unusable hash key", `{"name": "Monkey"}[fn(x) { x }];`, errMsg("unusable as hash key: FUNCTION")},
		{"unusable literal key", `{[1]: 2}`, errMsg("unusable as hash key: ARRAY")},
		{"index unsupported", "1[0]", errMsg("index operator not supported: INTEGER")},
		{"not a function", "let x = 1; x(2)", errMsg("not a function: INTEGER")},
		{"too many arguments", "fn(x) { x }(1, 2)", errMsg("wrong number of arguments. got=2, want=1")},
		{"too few arguments", "fn(x, y) { x }(1)", errMsg("wrong number of arguments. got=1, want=2")},
		{"division by zero", "1 / 0", errMsg("division by zero: INTEGER / INTEGER")},
		{"error in argument", "len(1 + true)", errMsg("type mismatch: INTEGER + BOOLEAN")},
		{"error stops arguments", "let f = fn(a, b) { a }; f(x, y)", errMsg("identifier not found: x")},
		{"error in array", "[1, -true, 3]", errMsg("unknown operation: -BOOLEAN")},
		{"error in condition", "if (x) { 1 }", errMsg("identifier not found: x")},
		{"error in let", "let a = -true; a", errMsg("unknown operation: -BOOLEAN")},
		{"error in return", "return -true;", errMsg("unknown operation: -BOOLEAN")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expect(t, testEval(t, tt.input), tt.want)
		})
	}
}

func TestHashLiteral(t *testing.T) {
	input := `let two = "two";
{
	"one": 10 - 9,
	two: 1 + 1,
	"thr" + "ee": 6 / 2,
	4: 4,
	true: 5,
	false: 6
}`

	hash, ok := testEval(t, input).(*object.Hash)
	if !ok {
		t.Fatalf("result is not *object.Hash")
	}

	want := map[object.HashKey]int64{
		(&object.String{Value: "one"}).HashKey():   1,
		(&object.String{Value: "two"}).HashKey():   2,
		(&object.String{Value: "three"}).HashKey(): 3,
		(&object.Integer{Value: 4}).HashKey():      4,
		TRUE.HashKey():                             5,
		FALSE.HashKey():                            6,
	}

	if hash.Len() != len(want) {
		t.Fatalf("hash has %d pairs, want %d", hash.Len(), len(want))
	}

	for key, value := range want {
		pair, ok := hash.Pairs[key]
		if !ok {
			t.Errorf("no pair for key %v", key)

			continue
		}

		if got := pair.Value.(*object.Integer).Value; got != value {
			t.Errorf("pair %v = %d, want %d", key, got, value)
		}
	}

	if got, want := hash.Inspect(), "{one: 1, two: 2, three: 3, 4: 4, true: 5, false: 6}"; got != want {
		t.Errorf("Inspect() = %q, want %q", got, want)
	}
}

func TestFunctionObject(t *testing.T) {
	fn, ok := testEval(t, "fn(x) { x + 2; };").(*object.Function)
	if !ok {
		t.Fatalf("result is not *object.Function")
	}

	if len(fn.Parameters) != 1 || fn.Parameters[0].String() != "x" {
		t.Errorf("parameters = %v, want [x]", fn.Parameters)
	}

	if got := fn.Body.String(); got != "(x + 2)" {
		t.Errorf("body = %q, want %q", got, "(x + 2)")
	}
}

func TestClosures(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  any
	}{
		{
			"adder",
			"let newAdder = fn(x) { fn(y) { x + y }; }; let addTwo = newAdder(2); addTwo(2);",
			4,
		},
		{
			"captured after return",
			"let f = fn() { let v = 7; fn() { v } }; let g = f(); g()",
			7,
		},
		{
			"sees later rebinding",
			"let x = 1; let get = fn() { x }; let x = 2; get()",
			2,
		},
		{
			"inner let is local to the call",
			`let makeCounter = fn() {
				let state = {"n": 0};
				let inc = fn(s) { {"n": s["n"] + 1} };
				fn() { let state = inc(state); state["n"] }
			};
			let c = makeCounter();
			c(); c(); c()`,
			1,
		},
		{
			"shared enclosing scope",
			`let outer = fn() {
				let n = 10;
				let set = fn() { n };
				let n = 20;
				set()
			};
			outer()`,
			20,
		},
		{
			"higher order",
			`let map = fn(arr, f) {
				let iter = fn(arr, acc) {
					if (len(arr) == 0) { acc } else { iter(rest(arr), push(acc, f(first(arr)))) }
				};
				iter(arr, [])
			};
			let doubled = map([1, 2, 3], fn(x) { x * 2 });
			doubled[0] + doubled[1] + doubled[2]`,
			12,
		},
		{
			"reduce",
			`let reduce = fn(arr, initial, f) {
				let iter = fn(arr, result) {
					if (len(arr) == 0) { result } else { iter(rest(arr), f(result, first(arr))) }
				};
				iter(arr, initial)
			};
			reduce([1, 2, 3, 4, 5], 0, fn(acc, el) { acc + el })`,
			15,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expect(t, testEval(t, tt.input), tt.want)
		})
	}
}

func TestSharedEnvironment(t *testing.T) {
	env := object.NewEnvironment()
	e := New()

	for _, src := range []string{
		"let counter = 0;",
		"let bump = fn() { counter + 1 };",
		"let counter = bump();",
		"let counter = bump();",
	} {
		p := parser.New(lexer.New(src))
		e.Eval(p.ParseProgram(), env)
	}

	got, ok := env.Get("counter")
	if !ok {
		t.Fatal("counter is not bound")
	}

	expect(t, got, 2)
}

func TestBuiltins(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  any
	}{
		{"len empty", `len("")`, 0},
		{"len four", `len("four")`, 4},
		{"len words", `len("hello world")`, 11},
		{"len runes", `len("größe")`, 5},
		{"len array", "len([1, 2, 3])", 3},
		{"len int", "len(1)", errMsg("argument to 'len' not supported, got INTEGER")},
		{"len arity", `len("one", "two")`, errMsg("wrong number of arguments. got=2, want=1")},
		{"first", "first([1, 2, 3])", 1},
		{"first empty", "first([])", nil},
		{"first int", "first(1)", errMsg("argument to 'first' must be ARRAY, got INTEGER")},
		{"last", "last([1, 2, 3])", 3},
		{"last empty", "last([])", nil},
		{"last string", `last("x")`, errMsg("argument to 'last' must be ARRAY, got STRING")},
		{"rest", "rest([1, 2, 3])[0]", 2},
		{"rest length", "len(rest([1, 2, 3]))", 2},
		{"rest single", "len(rest([1]))", 0},
		{"rest empty", "rest([])", nil},
		{"push", "push([], 1)[0]", 1},
		{"push int", "push(1, 1)", errMsg("argument to 'push' must be ARRAY, got INTEGER")},
		{"push arity", "push([1])", errMsg("wrong number of arguments. got=1, want=2")},
		{"push does not mutate", "let a = []; let b = push(a, 1); len(a)", 0},
		{"rest does not mutate", "let a = [1, 2]; let b = rest(a); len(a)", 2},
		{"shadowed builtin", "let len = fn(x) { 42 }; len([1])", 42},
		{"puts returns null", `puts("x")`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expect(t, testEval(t, tt.input), tt.want)
		})
	}
}

func TestPushInspect(t *testing.T) {
	if got := testEval(t, "push([], 1)").Inspect(); got != "[1]" {
		t.Errorf("Inspect() = %q, want %q", got, "[1]")
	}
}

func TestPuts(t *testing.T) {
	var buf bytes.Buffer

	testEval(t, `puts("hello", 1, [true]); puts()`, WithOutput(&buf))

	if got, want := buf.String(), "hello\n1\n[true]\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestBuiltinNames(t *testing.T) {
	got := strings.Join(Builtins(), ",")
	if want := "first,last,len,push,puts,rest"; got != want {
		t.Errorf("Builtins() = %s, want %s", got, want)
	}
}

func TestQuoteUnquote(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"quote(5)", "5"},
		{"quote(5 + 8)", "(5 + 8)"},
		{"quote(foobar)", "foobar"},
		{"quote(foobar + barfoo)", "(foobar + barfoo)"},
		{"quote(unquote(4))", "4"},
		{"quote(unquote(4 + 4))", "8"},
		{"quote(8 + unquote(4 + 4))", "(8 + 8)"},
		{"quote(unquote(4 + 4) + 8)", "(8 + 8)"},
		{"let foobar = 8; quote(foobar)", "foobar"},
		{"let foobar = 8; quote(unquote(foobar))", "8"},
		{"quote(unquote(true))", "true"},
		{"quote(unquote(true == false))", "false"},
		{`quote(unquote("a" + "b"))`, `"ab"`},
		{"quote(unquote(0 - 3))", "(-3)"},
		{"quote(unquote(quote(4 + 4)))", "(4 + 4)"},
		{
			"let quotedInfix = quote(4 + 4); quote(unquote(4 + 4) + unquote(quotedInfix))",
			"(8 + (4 + 4))",
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			q, ok := testEval(t, tt.input).(*object.Quote)
			if !ok {
				t.Fatalf("result is not *object.Quote")
			}

			if got := q.Node.String(); got != tt.want {
				t.Errorf("quoted = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestQuoteUnquoteError(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"quote(unquote(-true))", "unknown operation: -BOOLEAN"},
		{"quote(1 + unquote(missing))", "identifier not found: missing"},
		{"quote(unquote(1 + true) + unquote(len(1)))", "type mismatch: INTEGER + BOOLEAN"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expect(t, testEval(t, tt.input), errMsg(tt.want))
		})
	}
}

func TestQuoteLeavesProgramIntact(t *testing.T) {
	p := parser.New(lexer.New("let x = 1; quote(unquote(x) + 1)"))
	program := p.ParseProgram()
	before := program.String()

	env := object.NewEnvironment()
	first := New().Eval(program, env).Inspect()
	second := New().Eval(program, object.NewEnvironment()).Inspect()

	if program.String() != before {
		t.Errorf("program changed: %q -> %q", before, program.String())
	}

	if first != second {
		t.Errorf("re-evaluation differs: %q vs %q", first, second)
	}
}

func TestMaxDepth(t *testing.T) {
	input := "let loop = fn(n) { loop(n + 1) }; loop(0)"

	expect(t, testEval(t, input, WithMaxDepth(50)), errMsg("maximum call depth exceeded: 50"))

	expect(t,
		testEval(t, "let f = fn(n) { if (n == 0) { 0 } else { f(n - 1) } }; f(40)", WithMaxDepth(50)),
		0,
	)
}

func TestMaxDepth_UnlimitedByDefault(t *testing.T) {
	input := "let f = fn(n) { if (n == 0) { 0 } else { f(n - 1) } }; f(20000)"

	expect(t, testEval(t, input), 0)
}

func TestCancellation(t *testing.T) {
	cause := errors.New("stop")

	ctx, cancel := context.WithCancelCause(t.Context())
	cancel(cause)

	expect(t,
		testEval(t, "let f = fn() { 1 }; f()", WithContext(ctx)),
		errMsg("evaluation cancelled: stop"),
	)

	expect(t, testEval(t, "1 + 1", WithContext(ctx)), 2)
}

func TestIdempotence(t *testing.T) {
	input := `let fib = fn(n) { if (n < 2) { n } else { fib(n - 1) + fib(n - 2) } };
let h = {"a": [fib(10), "x"]};
h["a"]`

	p := parser.New(lexer.New(input))
	program := p.ParseProgram()

	first := New().Eval(program, object.NewEnvironment()).Inspect()

	for range 3 {
		if got := New().Eval(program, object.NewEnvironment()).Inspect(); got != first {
			t.Fatalf("evaluation differs: %q vs %q", got, first)
		}
	}

	if first != "[55, x]" {
		t.Errorf("result = %q, want %q", first, "[55, x]")
	}
}

func TestPackageEval(t *testing.T) {
	p := parser.New(lexer.New("1 + 2"))

	expect(t, Eval(p.ParseProgram(), object.NewEnvironment()), 3)
}
