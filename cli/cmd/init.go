package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/monkey/lang"
	"github.com/ardnew/monkey/lang/ast"
	"github.com/ardnew/monkey/log"
	"github.com/ardnew/monkey/profile"
)

// defaultConfigIndent places each top-level statement of the generated file on
// its own line.
const defaultConfigIndent = 2

// ignoreFlags lists the prefixes of flags that are not persisted.
var ignoreFlags = []string{"help", "version", profile.Tag}

// Init writes a configuration file holding the current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return ErrConfigUndefined
	}

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok || confPath == "" {
		return ErrConfigUndefined
	}

	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(ErrFileExists)
	}

	file, err := os.Create(confPath)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}
	defer file.Close()

	prog := &lang.Program{Program: buildConfig(ktx)}

	err = prog.Format(ctx, file, defaultConfigIndent)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file",
		slog.String("path", confPath),
		slog.Int("flags", len(prog.Statements)),
	)

	return nil
}

// buildConfig returns a program binding [ConfigIdentifier] to a hash of the
// current flag values keyed by flag name.
func buildConfig(ktx *kong.Context) *ast.Program {
	b := ast.NewBuilder()

	var pairs []ast.HashPair

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(ignoreFlags, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		if val := flagExpr(b, ktx.FlagValue(flag)); val != nil {
			pairs = append(pairs, b.Pair(b.String(flag.Name), val))
		}
	}

	return b.Program(b.Let(ConfigIdentifier, b.Hash(pairs...)))
}

// flagExpr returns the literal for a flag value, or nil if it is unset.
func flagExpr(b *ast.Builder, val any) ast.Expression {
	switch v := val.(type) {
	case nil:
		return nil

	case bool:
		return b.Bool(v)

	case int:
		return b.Int(int64(v))

	case int64:
		return b.Int(v)

	case []string:
		if len(v) == 0 {
			return nil
		}

		elems := make([]ast.Expression, len(v))
		for i, s := range v {
			elems[i] = b.String(s)
		}

		return b.Array(elems...)

	default:
		s := fmt.Sprint(v)
		if s == "" {
			return nil
		}

		return b.String(s)
	}
}
