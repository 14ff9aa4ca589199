// Package evaluator reduces Monkey AST nodes to runtime objects by direct
// recursive interpretation.
//
// Evaluation never panics on language-level failures. Every failure is an
// [*object.Error] returned through the same channel as ordinary values, and
// each step checks its operands for errors before continuing.
package evaluator

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/ardnew/monkey/lang/ast"
	"github.com/ardnew/monkey/lang/object"
	"github.com/ardnew/monkey/log"
)

// DefaultMaxDepth is the suggested limit on nested function applications for
// hosts that want one. An evaluator has no limit unless [WithMaxDepth] is
// given.
const DefaultMaxDepth = 10000

// Singleton values. Booleans and null are compared by identity.
var (
	NULL  = &object.Null{}
	TRUE  = &object.Boolean{Value: true}
	FALSE = &object.Boolean{Value: false}
)

// Evaluator holds the per-run state of an evaluation: output, logging, limits
// and the current call depth. An Evaluator is not safe for concurrent use;
// create one per goroutine.
type Evaluator struct {
	ctx      context.Context
	logger   log.Logger
	out      io.Writer
	maxDepth int
	depth    int
	builtins map[string]*object.Builtin
}

// Option configures an [Evaluator].
type Option func(*Evaluator)

// WithContext sets the context checked for cancellation before each function
// application.
func WithContext(ctx context.Context) Option {
	return func(e *Evaluator) {
		if ctx != nil {
			e.ctx = ctx
		}
	}
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(e *Evaluator) { e.logger = logger }
}

// WithOutput sets the writer used by the puts builtin.
func WithOutput(w io.Writer) Option {
	return func(e *Evaluator) {
		if w != nil {
			e.out = w
		}
	}
}

// WithMaxDepth limits nested function applications to n. Zero or a negative
// value removes the limit.
func WithMaxDepth(n int) Option {
	return func(e *Evaluator) { e.maxDepth = n }
}

// New returns an evaluator configured by opts.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		ctx: context.Background(),
		out: io.Discard,
	}

	for _, opt := range opts {
		opt(e)
	}

	e.builtins = e.makeBuiltins()

	return e
}

// Eval evaluates node in env with a default [Evaluator].
func Eval(node ast.Node, env *object.Environment) object.Object {
	return New().Eval(node, env)
}

// Eval evaluates node in env and returns the resulting object. Runtime errors
// are returned as [*object.Error] values.
func (e *Evaluator) Eval(node ast.Node, env *object.Environment) object.Object {
	switch node := node.(type) {
	// Statements
	case *ast.Program:
		return e.evalProgram(node, env)

	case *ast.ExpressionStatement:
		return e.Eval(node.Expression, env)

	case *ast.BlockStatement:
		return e.evalBlockStatement(node, env)

	case *ast.ReturnStatement:
		if node.ReturnValue == nil {
			return &object.ReturnValue{Value: NULL}
		}

		val := e.Eval(node.ReturnValue, env)
		if isError(val) {
			return val
		}

		return &object.ReturnValue{Value: val}

	case *ast.LetStatement:
		val := e.Eval(node.Value, env)
		if isError(val) {
			return val
		}

		env.Set(node.Name.Value, val)

	// Expressions
	case *ast.IntegerLiteral:
		return &object.Integer{Value: node.Value}

	case *ast.StringLiteral:
		return &object.String{Value: node.Value}

	case *ast.Boolean:
		return nativeBoolToBooleanObject(node.Value)

	case *ast.PrefixExpression:
		right := e.Eval(node.Right, env)
		if isError(right) {
			return right
		}

		return evalPrefixExpression(node.Operator, right)

	case *ast.InfixExpression:
		left := e.Eval(node.Left, env)
		if isError(left) {
			return left
		}

		right := e.Eval(node.Right, env)
		if isError(right) {
			return right
		}

		return evalInfixExpression(node.Operator, left, right)

	case *ast.IfExpression:
		return e.evalIfExpression(node, env)

	case *ast.Identifier:
		return e.evalIdentifier(node, env)

	case *ast.FunctionLiteral:
		return &object.Function{Parameters: node.Parameters, Body: node.Body, Env: env}

	case *ast.CallExpression:
		if isQuoteCall(node) {
			if len(node.Arguments) != 1 {
				return newError("wrong number of arguments. got=%d, want=1", len(node.Arguments))
			}

			return e.quote(node.Arguments[0], env)
		}

		function := e.Eval(node.Function, env)
		if isError(function) {
			return function
		}

		args := e.evalExpressions(node.Arguments, env)
		if len(args) == 1 && isError(args[0]) {
			return args[0]
		}

		return e.applyFunction(function, args)

	case *ast.ArrayLiteral:
		elements := e.evalExpressions(node.Elements, env)
		if len(elements) == 1 && isError(elements[0]) {
			return elements[0]
		}

		return &object.Array{Elements: elements}

	case *ast.IndexExpression:
		left := e.Eval(node.Left, env)
		if isError(left) {
			return left
		}

		index := e.Eval(node.Index, env)
		if isError(index) {
			return index
		}

		return evalIndexExpression(left, index)

	case *ast.HashLiteral:
		return e.evalHashLiteral(node, env)
	}

	return nil
}

func (e *Evaluator) evalProgram(program *ast.Program, env *object.Environment) object.Object {
	var result object.Object = NULL

	for _, stmt := range program.Statements {
		result = e.Eval(stmt, env)

		switch result := result.(type) {
		case *object.ReturnValue:
			return result.Value
		case *object.Error:
			return result
		}
	}

	return orNull(result)
}

func (e *Evaluator) evalBlockStatement(block *ast.BlockStatement, env *object.Environment) object.Object {
	var result object.Object = NULL

	for _, stmt := range block.Statements {
		result = e.Eval(stmt, env)

		if result != nil {
			if rt := result.Type(); rt == object.RETURN_VALUE_OBJ || rt == object.ERROR_OBJ {
				return result
			}
		}
	}

	return orNull(result)
}

func (e *Evaluator) evalExpressions(exps []ast.Expression, env *object.Environment) []object.Object {
	result := make([]object.Object, 0, len(exps))

	for _, exp := range exps {
		evaluated := e.Eval(exp, env)
		if isError(evaluated) {
			return []object.Object{evaluated}
		}

		result = append(result, evaluated)
	}

	return result
}

func (e *Evaluator) evalIfExpression(ie *ast.IfExpression, env *object.Environment) object.Object {
	condition := e.Eval(ie.Condition, env)
	if isError(condition) {
		return condition
	}

	switch {
	case isTruthy(condition):
		return e.Eval(ie.Consequence, env)
	case ie.Alternative != nil:
		return e.Eval(ie.Alternative, env)
	default:
		return NULL
	}
}

func (e *Evaluator) evalIdentifier(node *ast.Identifier, env *object.Environment) object.Object {
	if val, ok := env.Get(node.Value); ok {
		return val
	}

	if builtin, ok := e.builtins[node.Value]; ok {
		return builtin
	}

	return newError("identifier not found: %s", node.Value)
}

func (e *Evaluator) evalHashLiteral(node *ast.HashLiteral, env *object.Environment) object.Object {
	hash := object.NewHash(len(node.Pairs))

	for _, pair := range node.Pairs {
		key := e.Eval(pair.Key, env)
		if isError(key) {
			return key
		}

		hashKey, ok := key.(object.Hashable)
		if !ok {
			return newError("unusable as hash key: %s", key.Type())
		}

		value := e.Eval(pair.Value, env)
		if isError(value) {
			return value
		}

		hash.Set(hashKey, value)
	}

	return hash
}

func (e *Evaluator) applyFunction(fn object.Object, args []object.Object) object.Object {
	switch fn := fn.(type) {
	case *object.Function:
		if len(args) != len(fn.Parameters) {
			return newError("wrong number of arguments. got=%d, want=%d", len(args), len(fn.Parameters))
		}

		if err := context.Cause(e.ctx); err != nil {
			return newError("evaluation cancelled: %v", err)
		}

		if e.maxDepth > 0 && e.depth >= e.maxDepth {
			return newError("maximum call depth exceeded: %d", e.maxDepth)
		}

		e.depth++
		defer func() { e.depth-- }()

		e.logger.TraceContext(e.ctx, "apply function",
			slog.Int("depth", e.depth),
			slog.Int("args", len(args)),
		)

		evaluated := e.Eval(fn.Body, extendFunctionEnv(fn, args))

		return unwrapReturnValue(evaluated)

	case *object.Builtin:
		e.logger.TraceContext(e.ctx, "apply builtin",
			slog.String("name", fn.Name),
			slog.Int("args", len(args)),
		)

		return orNull(fn.Fn(args...))

	default:
		return newError("not a function: %s", fn.Type())
	}
}

func extendFunctionEnv(fn *object.Function, args []object.Object) *object.Environment {
	env := object.NewEnclosedEnvironment(fn.Env)

	for i, param := range fn.Parameters {
		env.Set(param.Value, args[i])
	}

	return env
}

func unwrapReturnValue(obj object.Object) object.Object {
	if rv, ok := obj.(*object.ReturnValue); ok {
		return rv.Value
	}

	return orNull(obj)
}

func evalPrefixExpression(operator string, right object.Object) object.Object {
	switch operator {
	case "!":
		return evalBangOperatorExpression(right)
	case "-":
		return evalMinusPrefixOperatorExpression(right)
	default:
		return newError("unknown operator: %s%s", operator, right.Type())
	}
}

func evalBangOperatorExpression(right object.Object) object.Object {
	return nativeBoolToBooleanObject(!isTruthy(right))
}

func evalMinusPrefixOperatorExpression(right object.Object) object.Object {
	i, ok := right.(*object.Integer)
	if !ok {
		return newError("unknown operation: -%s", right.Type())
	}

	return &object.Integer{Value: -i.Value}
}

func evalInfixExpression(operator string, left, right object.Object) object.Object {
	switch {
	case left.Type() == object.INTEGER_OBJ && right.Type() == object.INTEGER_OBJ:
		return evalIntegerInfixExpression(operator, left, right)

	case left.Type() == object.STRING_OBJ && right.Type() == object.STRING_OBJ:
		return evalStringInfixExpression(operator, left, right)

	case operator == "==":
		return nativeBoolToBooleanObject(left == right)

	case operator == "!=":
		return nativeBoolToBooleanObject(left != right)

	case left.Type() != right.Type():
		return newError("type mismatch: %s %s %s", left.Type(), operator, right.Type())

	default:
		return newError("unknown operator: %s %s %s", left.Type(), operator, right.Type())
	}
}

func evalIntegerInfixExpression(operator string, left, right object.Object) object.Object {
	l := left.(*object.Integer).Value
	r := right.(*object.Integer).Value

	switch operator {
	case "+":
		return &object.Integer{Value: l + r}
	case "-":
		return &object.Integer{Value: l - r}
	case "*":
		return &object.Integer{Value: l * r}
	case "/":
		if r == 0 {
			return newError("division by zero: %s / %s", left.Type(), right.Type())
		}

		return &object.Integer{Value: l / r}
	case "<":
		return nativeBoolToBooleanObject(l < r)
	case ">":
		return nativeBoolToBooleanObject(l > r)
	case "==":
		return nativeBoolToBooleanObject(l == r)
	case "!=":
		return nativeBoolToBooleanObject(l != r)
	default:
		return newError("unknown operator: %s %s %s", left.Type(), operator, right.Type())
	}
}

func evalStringInfixExpression(operator string, left, right object.Object) object.Object {
	if operator != "+" {
		return newError("unknown operator: %s %s %s", left.Type(), operator, right.Type())
	}

	return &object.String{Value: left.(*object.String).Value + right.(*object.String).Value}
}

func evalIndexExpression(left, index object.Object) object.Object {
	switch {
	case left.Type() == object.ARRAY_OBJ && index.Type() == object.INTEGER_OBJ:
		return evalArrayIndexExpression(left, index)
	case left.Type() == object.HASH_OBJ:
		return evalHashIndexExpression(left, index)
	default:
		return newError("index operator not supported: %s", left.Type())
	}
}

func evalArrayIndexExpression(array, index object.Object) object.Object {
	elements := array.(*object.Array).Elements
	idx := index.(*object.Integer).Value

	if idx < 0 || idx >= int64(len(elements)) {
		return NULL
	}

	return elements[idx]
}

func evalHashIndexExpression(hash, index object.Object) object.Object {
	key, ok := index.(object.Hashable)
	if !ok {
		return newError("unusable as hash key: %s", index.Type())
	}

	if val, ok := hash.(*object.Hash).Get(key); ok {
		return val
	}

	return NULL
}

func nativeBoolToBooleanObject(input bool) *object.Boolean {
	if input {
		return TRUE
	}

	return FALSE
}

func isTruthy(obj object.Object) bool {
	switch obj {
	case NULL, FALSE:
		return false
	default:
		return true
	}
}

func isError(obj object.Object) bool {
	return obj != nil && obj.Type() == object.ERROR_OBJ
}

// orNull maps the absence of a value, such as the result of a let
// statement, to NULL.
func orNull(obj object.Object) object.Object {
	if obj == nil {
		return NULL
	}

	return obj
}

func newError(format string, a ...any) *object.Error {
	return &object.Error{Message: fmt.Sprintf(format, a...)}
}
