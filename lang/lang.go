package lang

import (
	"io"

	"github.com/ardnew/monkey/lang/evaluator"
	"github.com/ardnew/monkey/log"
)

// DefaultMaxDepth is the call depth limit applied by the monkey command.
// Programs and interpreters have no limit unless [WithMaxDepth] is given.
const DefaultMaxDepth = evaluator.DefaultMaxDepth

// options holds the configuration shared by [Program] and [Interpreter].
type options struct {
	logger   log.Logger // structured logger, zero value discards
	output   io.Writer  // destination of puts
	maxDepth int
}

// Option configures parsing and evaluation.
type Option func(*options)

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithOutput sets the writer that receives the output of puts.
// If not provided, output is discarded.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.output = w
	}
}

// WithMaxDepth sets the maximum depth of nested function applications.
// Zero or a negative value removes the limit.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		o.maxDepth = depth
	}
}

func makeOptions(opts ...Option) options {
	o := options{
		output: io.Discard,
	}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// evaluatorOptions translates o into options for a new evaluator.
func (o options) evaluatorOptions() []evaluator.Option {
	return []evaluator.Option{
		evaluator.WithLogger(o.logger),
		evaluator.WithOutput(o.output),
		evaluator.WithMaxDepth(o.maxDepth),
	}
}
