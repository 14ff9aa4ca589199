package cmd

import (
	"context"

	"github.com/ardnew/monkey/cli/cmd/repl"
	"github.com/ardnew/monkey/log"
	"github.com/ardnew/monkey/pkg"
)

// Repl starts an interactive session.
type Repl struct {
	ParseOnly bool `help:"Print the canonical form of each input instead of evaluating it"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) error {
	cacheDir := pkg.CacheDir()
	if ktx := kongContextFrom(ctx); ktx != nil {
		if dir, ok := ktx.Model.Vars()[CacheIdentifier]; ok && dir != "" {
			cacheDir = dir
		}
	}

	cfg := repl.Config{
		Options:   optionsFrom(ctx),
		CacheDir:  cacheDir,
		ParseOnly: r.ParseOnly,
		Logger:    log.Default(),
	}

	// A nil SourceFiles must not become a non-nil io.Reader.
	if srcs := sourceFilesFrom(ctx); srcs != nil {
		cfg.Prelude = srcs
	}

	return repl.Run(ctx, cfg)
}
