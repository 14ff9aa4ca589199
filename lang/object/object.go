// Package object defines the runtime values of the Monkey language and the
// environments that bind names to them.
//
// Values are immutable once constructed, with the exception of [Environment],
// which closures share by reference.
package object

import (
	"strconv"
	"strings"

	"github.com/ardnew/monkey/lang/ast"
)

// Type names the kind of an [Object]. The names appear verbatim in runtime
// error messages.
type Type string

// Object kinds.
const (
	INTEGER_OBJ      Type = "INTEGER"
	BOOLEAN_OBJ      Type = "BOOLEAN"
	STRING_OBJ       Type = "STRING"
	NULL_OBJ         Type = "NULL"
	RETURN_VALUE_OBJ Type = "RETURN_VALUE"
	ERROR_OBJ        Type = "ERROR"
	FUNCTION_OBJ     Type = "FUNCTION"
	BUILTIN_OBJ      Type = "BUILTIN"
	ARRAY_OBJ        Type = "ARRAY"
	HASH_OBJ         Type = "HASH"
	QUOTE_OBJ        Type = "QUOTE"
)

// Object is implemented by every runtime value.
type Object interface {
	Type() Type
	// Inspect returns the printable representation of the value.
	Inspect() string
}

// Integer is a 64-bit signed integer value.
type Integer struct {
	Value int64
}

func (i *Integer) Type() Type      { return INTEGER_OBJ }
func (i *Integer) Inspect() string { return strconv.FormatInt(i.Value, 10) }

// Boolean is a truth value. Only the two instances held by the evaluator are
// ever constructed, so booleans compare by identity.
type Boolean struct {
	Value bool
}

func (b *Boolean) Type() Type      { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string { return strconv.FormatBool(b.Value) }

// String is a string value.
type String struct {
	Value string
}

func (s *String) Type() Type      { return STRING_OBJ }
func (s *String) Inspect() string { return s.Value }

// Null is the absence of a value. A single instance exists.
type Null struct{}

func (n *Null) Type() Type      { return NULL_OBJ }
func (n *Null) Inspect() string { return "null" }

// ReturnValue wraps the operand of a return statement while it unwinds the
// enclosing blocks. It never escapes a function call or program.
type ReturnValue struct {
	Value Object
}

func (rv *ReturnValue) Type() Type      { return RETURN_VALUE_OBJ }
func (rv *ReturnValue) Inspect() string { return rv.Value.Inspect() }

// Error is a runtime error value. It propagates through evaluation like any
// other value until it reaches the top level.
type Error struct {
	Message string
}

func (e *Error) Type() Type      { return ERROR_OBJ }
func (e *Error) Inspect() string { return "ERROR: " + e.Message }

// Error implements the error interface so runtime errors can leave the
// language as Go errors.
func (e *Error) Error() string { return e.Message }

// Function is a closure: a function literal paired with the environment it
// was defined in.
type Function struct {
	Parameters []*ast.Identifier
	Body       *ast.BlockStatement
	Env        *Environment
}

func (f *Function) Type() Type { return FUNCTION_OBJ }

func (f *Function) Inspect() string {
	params := make([]string, len(f.Parameters))
	for i, p := range f.Parameters {
		params[i] = p.String()
	}

	return "fn(" + strings.Join(params, ", ") + ") {\n" + f.Body.String() + "\n}"
}

// BuiltinFunction is the native implementation of a [Builtin].
type BuiltinFunction func(args ...Object) Object

// Builtin is a function implemented by the host.
type Builtin struct {
	Name string
	Fn   BuiltinFunction
}

func (b *Builtin) Type() Type      { return BUILTIN_OBJ }
func (b *Builtin) Inspect() string { return "builtin function" }

// Array is an ordered sequence of values.
type Array struct {
	Elements []Object
}

func (a *Array) Type() Type { return ARRAY_OBJ }

func (a *Array) Inspect() string {
	elems := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		elems[i] = e.Inspect()
	}

	return "[" + strings.Join(elems, ", ") + "]"
}

// Quote holds an unevaluated AST node produced by the quote builtin.
type Quote struct {
	Node ast.Node
}

func (q *Quote) Type() Type      { return QUOTE_OBJ }
func (q *Quote) Inspect() string { return "QUOTE(" + q.Node.String() + ")" }
