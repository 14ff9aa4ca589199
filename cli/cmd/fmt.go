package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/monkey/lang"
)

// Fmt parses a program and writes it in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as canonical Monkey source (default)."`
	JSON   JSON   `cmd:""                    help:"Format the syntax tree as JSON."`
	YAML   YAML   `cmd:""                    help:"Format the syntax tree as YAML."`
	AST    AST    `cmd:""                    help:"Format the syntax tree as Go syntax."`
}

// Native formats input as canonical Monkey source.
type Native struct {
	Indent int    `default:"2" help:"Place each statement on its own line when positive" short:"i"`
	Source string `arg:"" default:"-" help:"Source input file or '-' for stdin." name:"source"`

	out io.Writer
}

// Run executes the fmt native command.
func (f *Native) Run(ctx context.Context) error {
	return format(ctx, f.Source, "native", func(p *lang.Program) error {
		return p.Format(ctx, writerOr(f.out), f.Indent)
	})
}

// JSON formats the syntax tree as JSON.
type JSON struct {
	Indent int    `default:"2" help:"Indent width for JSON output; 0 is compact" short:"i"`
	Source string `arg:"" default:"-" help:"Source input file or '-' for stdin." name:"source"`

	out io.Writer
}

// Run executes the fmt json command.
func (j *JSON) Run(ctx context.Context) error {
	return format(ctx, j.Source, "json", func(p *lang.Program) error {
		return p.FormatJSON(ctx, writerOr(j.out), j.Indent)
	})
}

// YAML formats the syntax tree as YAML.
type YAML struct {
	Indent int    `default:"2" help:"Indent width for YAML output; 0 uses flow style" short:"i"`
	Source string `arg:"" default:"-" help:"Source input file or '-' for stdin." name:"source"`

	out io.Writer
}

// Run executes the fmt yaml command.
func (y *YAML) Run(ctx context.Context) error {
	return format(ctx, y.Source, "yaml", func(p *lang.Program) error {
		return p.FormatYAML(ctx, writerOr(y.out), y.Indent)
	})
}

// AST dumps the syntax tree as Go syntax.
type AST struct {
	Indent int    `default:"2" help:"Indent width; 0 prints a single line" short:"i"`
	Source string `arg:"" default:"-" help:"Source input file or '-' for stdin." name:"source"`

	out io.Writer
}

// Run executes the fmt ast command.
func (a *AST) Run(ctx context.Context) error {
	return format(ctx, a.Source, "ast", func(p *lang.Program) error {
		return p.FormatAST(ctx, writerOr(a.out), a.Indent)
	})
}

// format parses source and hands the program to write.
func format(
	ctx context.Context,
	source, name string,
	write func(*lang.Program) error,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	prog, err := parseSource(ctx, source)
	if err != nil {
		return err
	}

	if err := write(prog); err != nil {
		return ErrWriteOutput.Wrap(err).With(slog.String("format", name))
	}

	return nil
}

func writerOr(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}

	return w
}
