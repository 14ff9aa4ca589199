package lang

import (
	"context"
	"log/slog"

	"github.com/ardnew/monkey/lang/ast"
	"github.com/ardnew/monkey/lang/lexer"
	"github.com/ardnew/monkey/lang/parser"
)

// Program is a parsed Monkey program together with its source text.
type Program struct {
	*ast.Program

	Source string
	opts   options
}

// ParseString parses source and returns the program. If the parser recorded
// any diagnostic, the error is a [*ParseError] and the program is nil.
//
// Parse results are cached by source digest; see [ClearCache].
func ParseString(ctx context.Context, source string, opts ...Option) (*Program, error) {
	o := makeOptions(opts...)

	o.logger.TraceContext(ctx, "parse start",
		slog.Int("source_length", len(source)),
	)

	tree, err := parseStringCached(ctx, source, o)
	if err != nil {
		return nil, err
	}

	return &Program{Program: tree, Source: source, opts: o}, nil
}

// parse runs the lexer and parser over source without consulting the cache.
func parse(ctx context.Context, source string, o options) (*ast.Program, error) {
	p := parser.New(lexer.New(source))
	tree := p.ParseProgram()

	diags := p.Diagnostics()

	o.logger.TraceContext(ctx, "parse complete",
		slog.Int("statement_count", len(tree.Statements)),
		slog.Int("error_count", len(diags)),
	)

	if len(diags) > 0 {
		return nil, NewParseError(diags, source)
	}

	return tree, nil
}
