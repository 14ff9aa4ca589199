package lang

import (
	"context"
	"log/slog"

	"github.com/ardnew/monkey/lang/evaluator"
	"github.com/ardnew/monkey/lang/object"
)

// Interpreter evaluates programs against a persistent top-level environment.
// Bindings made by one call to [Interpreter.Run] are visible to the next.
//
// An Interpreter is not safe for concurrent use.
type Interpreter struct {
	env  *object.Environment
	opts options
}

// New returns an interpreter with an empty environment.
func New(opts ...Option) *Interpreter {
	return &Interpreter{
		env:  object.NewEnvironment(),
		opts: makeOptions(opts...),
	}
}

// Run parses and evaluates source. Parse failures return a [*ParseError];
// a runtime error value reaching the top level is returned wrapped in
// [ErrRuntime] along with the error object itself.
func (in *Interpreter) Run(ctx context.Context, source string) (object.Object, error) {
	prog, err := ParseString(ctx, source, in.options()...)
	if err != nil {
		return nil, err
	}

	return in.Eval(ctx, prog)
}

// Eval evaluates prog in the interpreter's environment.
func (in *Interpreter) Eval(ctx context.Context, prog *Program) (object.Object, error) {
	ev := evaluator.New(append(in.opts.evaluatorOptions(), evaluator.WithContext(ctx))...)

	result := ev.Eval(prog.Program, in.env)

	in.opts.logger.TraceContext(ctx, "evaluation complete",
		slog.String("type", string(result.Type())),
	)

	if rerr, ok := result.(*object.Error); ok {
		return result, ErrRuntime.Wrap(rerr)
	}

	return result, nil
}

// Get returns the value bound to name at top level.
func (in *Interpreter) Get(name string) (object.Object, error) {
	if obj, ok := in.env.Get(name); ok {
		return obj, nil
	}

	return nil, ErrBindingNotFound.With(slog.String("name", name))
}

// Bindings returns the names bound at top level, sorted.
func (in *Interpreter) Bindings() []string {
	return in.env.Names()
}

// Builtins returns the names of the builtin functions, sorted.
func (in *Interpreter) Builtins() []string {
	return evaluator.Builtins()
}

// Reset discards every top-level binding.
func (in *Interpreter) Reset() {
	in.env = object.NewEnvironment()
}

// options reconstructs the Option list the interpreter was built with.
func (in *Interpreter) options() []Option {
	return []Option{
		WithLogger(in.opts.logger),
		WithOutput(in.opts.output),
		WithMaxDepth(in.opts.maxDepth),
	}
}

// Eval evaluates the program in a fresh environment.
func (p *Program) Eval(ctx context.Context) (object.Object, error) {
	in := &Interpreter{env: object.NewEnvironment(), opts: p.opts}

	return in.Eval(ctx, p)
}
