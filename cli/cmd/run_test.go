package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/monkey/lang"
	"github.com/ardnew/monkey/pkg"
)

func TestRun(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		want    string
		wantErr error
	}{
		{
			name: "closure",
			source: `
let newAdder = fn(x) { fn(y) { x + y } };
let addTwo = newAdder(2);
addTwo(3);`,
			want: "5\n",
		},
		{
			name:   "puts then result",
			source: `puts("hello", 1); "done"`,
			want:   "hello\n1\ndone\n",
		},
		{
			name:   "null is not printed",
			source: `if (false) { 1 }`,
			want:   "",
		},
		{
			name:   "let is not printed",
			source: `let x = 5;`,
			want:   "",
		},
		{
			name:    "parse error",
			source:  `let x 5;`,
			wantErr: lang.ErrParse,
		},
		{
			name:    "runtime error",
			source:  `5 + true;`,
			wantErr: lang.ErrRuntime,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lang.ClearCache()

			var out bytes.Buffer

			path := writeFile(t, t.TempDir(), "prog.mk", tt.source)

			r := Run{File: path, out: &out}

			err := r.Run(testContext(t, &out))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("Run: %v", err)
			}

			if out.String() != tt.want {
				t.Errorf("output = %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestRun_ParseErrorMessage(t *testing.T) {
	path := writeFile(t, t.TempDir(), "prog.mk", "let x 5;")

	err := (&Run{File: path}).Run(testContext(t, &bytes.Buffer{}))

	var perr *lang.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error = %T, want *lang.ParseError", err)
	}

	if msgs := perr.Messages(); len(msgs) == 0 || msgs[0] != "expected next token to be =, got INT" {
		t.Errorf("Messages() = %q", msgs)
	}
}

func TestRun_Prelude(t *testing.T) {
	dir := t.TempDir()
	prelude := writeFile(t, dir, "lib.mk", `let sum = fn(a) { if (len(a) == 0) { 0 } else { first(a) + sum(rest(a)) } };`)
	prog := writeFile(t, dir, "prog.mk", `sum([1, 2, 3, 4])`)

	var out bytes.Buffer

	if err := (&Run{File: prog, out: &out}).Run(testContext(t, &out, prelude)); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := strings.TrimSpace(out.String()); got != "10" {
		t.Errorf("output = %q, want 10", got)
	}
}

func TestEval(t *testing.T) {
	tests := []struct {
		name   string
		expr   []string
		output string
		indent int
		want   string
	}{
		{
			name:   "inspect",
			expr:   []string{"let", "x", "=", "3;", "x", "*", "x"},
			output: "inspect",
			want:   "9\n",
		},
		{
			name:   "inspect string",
			expr:   []string{`"mon" + "key"`},
			output: "inspect",
			want:   "monkey\n",
		},
		{
			name:   "json",
			expr:   []string{`{"a": 1, "b": [true, "x"]}`},
			output: "json",
			indent: 0,
			want:   `{"a":1,"b":[true,"x"]}` + "\n",
		},
		{
			name:   "json indented",
			expr:   []string{`[1, 2]`},
			output: "json",
			indent: 2,
			want:   "[\n  1,\n  2\n]\n",
		},
		{
			name:   "json null",
			expr:   []string{`if (false) { 1 }`},
			output: "json",
			want:   "null\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer

			e := Eval{Expr: tt.expr, Output: tt.output, Indent: tt.indent, out: &out}

			if err := e.Run(testContext(t, &out)); err != nil {
				t.Fatalf("Run: %v", err)
			}

			if out.String() != tt.want {
				t.Errorf("output = %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestEval_YAML(t *testing.T) {
	var out bytes.Buffer

	e := Eval{Expr: []string{`{"name": "monkey", "year": 2016}`}, Output: "yaml", Indent: 2, out: &out}

	if err := e.Run(testContext(t, &out)); err != nil {
		t.Fatalf("Run: %v", err)
	}

	for _, want := range []string{"name: monkey", "year: 2016"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output %q does not contain %q", out.String(), want)
		}
	}
}

func TestEval_RuntimeError(t *testing.T) {
	e := Eval{Expr: []string{"len(1)"}, Output: "inspect", out: &bytes.Buffer{}}

	err := e.Run(testContext(t, &bytes.Buffer{}))
	if !errors.Is(err, lang.ErrRuntime) {
		t.Fatalf("error = %v, want ErrRuntime", err)
	}

	if !strings.Contains(err.Error(), "argument to 'len' not supported, got INTEGER") {
		t.Errorf("error = %q", err.Error())
	}
}

func TestEval_NoInput(t *testing.T) {
	for _, expr := range [][]string{nil, {"", "  "}} {
		e := Eval{Expr: expr, Output: "inspect", out: &bytes.Buffer{}}

		if err := e.Run(testContext(t, &bytes.Buffer{})); !errors.Is(err, pkg.ErrNoInput) {
			t.Errorf("Eval(%q) error = %v, want ErrNoInput", expr, err)
		}
	}
}
