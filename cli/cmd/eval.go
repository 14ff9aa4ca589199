package cmd

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/ardnew/monkey/lang"
	"github.com/ardnew/monkey/log"
	"github.com/ardnew/monkey/pkg"
)

// Eval evaluates source given on the command line.
type Eval struct {
	Expr   []string `arg:"" help:"Source to evaluate; arguments are joined with spaces" name:"expr"`
	Output string   `default:"inspect" enum:"inspect,json,yaml" help:"Output format" short:"o"`
	Indent int      `default:"2" help:"Indent width for json and yaml output" short:"i"`

	out io.Writer
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	source := strings.Join(e.Expr, " ")
	if strings.TrimSpace(source) == "" {
		return pkg.ErrNoInput
	}

	in, err := newInterpreter(ctx)
	if err != nil {
		return err
	}

	result, err := in.Run(ctx, source)
	if err != nil {
		return err
	}

	log.DebugContext(ctx, "expression evaluated",
		slog.String("type", string(result.Type())),
		slog.String("output", e.Output),
	)

	w := writerOr(e.out)

	if e.Output == "inspect" || e.Output == "" {
		return printResult(w, result)
	}

	if err := lang.FormatValue(ctx, w, result, e.Output, e.Indent); err != nil {
		return ErrWriteOutput.Wrap(err).With(slog.String("format", e.Output))
	}

	return nil
}
