package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/repr"
	"github.com/goccy/go-yaml"
)

// Format writes the program in canonical Monkey syntax, one top-level
// statement per line. With indent zero the statements share a single line.
func (p *Program) Format(_ context.Context, w io.Writer, indent int) error {
	for i, stmt := range p.Statements {
		if i > 0 {
			sep := " "
			if indent > 0 {
				sep = "\n"
			}

			if _, err := fmt.Fprint(w, sep); err != nil {
				return ErrFormat.Wrap(err)
			}
		}

		if _, err := fmt.Fprint(w, stmt.String()); err != nil {
			return ErrFormat.Wrap(err)
		}
	}

	// Final newline
	if _, err := fmt.Fprintln(w); err != nil {
		return ErrFormat.Wrap(err)
	}

	return nil
}

// FormatJSON writes the program's syntax tree as JSON to the writer.
func (p *Program) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(p, "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(p)
	}

	if err != nil {
		return ErrFormat.Wrap(err)
	}

	if _, err = fmt.Fprintln(w, string(jsonData)); err != nil {
		return ErrFormat.Wrap(err)
	}

	return nil
}

// FormatYAML writes the program's syntax tree as YAML to the writer.
func (p *Program) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	return writeYAML(ctx, w, p.ToMap(), indent)
}

// FormatAST writes a Go-syntax dump of the syntax tree to the writer.
func (p *Program) FormatAST(_ context.Context, w io.Writer, indent int) error {
	opts := []repr.Option{repr.OmitEmpty(true)}
	if indent > 0 {
		opts = append(opts, repr.Indent(strings.Repeat(" ", indent)))
	} else {
		opts = append(opts, repr.NoIndent())
	}

	repr.New(w, opts...).Println(p.Program)

	return nil
}

// writeYAML encodes v as block YAML, or as flow YAML when indent is zero.
func writeYAML(ctx context.Context, w io.Writer, v any, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, v, opts...)
	if err != nil {
		return ErrFormat.Wrap(err)
	}

	if _, err = fmt.Fprint(w, string(yamlData)); err != nil {
		return ErrFormat.Wrap(err)
	}

	return nil
}
