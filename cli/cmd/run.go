package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/ardnew/monkey/lang/object"
	"github.com/ardnew/monkey/log"
)

// Run parses and evaluates a program, printing the value of its last
// statement.
type Run struct {
	File string `arg:"" default:"-" help:"Program file or '-' for stdin" name:"file"`

	out io.Writer
}

// Run executes the run command.
func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	in, err := newInterpreter(ctx)
	if err != nil {
		return err
	}

	prog, err := parseSource(ctx, r.File)
	if err != nil {
		return err
	}

	log.DebugContext(ctx, "program parsed",
		slog.String("file", r.File),
		slog.Int("statements", len(prog.Statements)),
	)

	result, err := in.Eval(ctx, prog)
	if err != nil {
		return err
	}

	return printResult(writerOr(r.out), result)
}

// printResult writes the inspected result followed by a newline. NULL is
// not printed.
func printResult(w io.Writer, result object.Object) error {
	if result == nil || result.Type() == object.NULL_OBJ {
		return nil
	}

	if _, err := fmt.Fprintln(w, result.Inspect()); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
