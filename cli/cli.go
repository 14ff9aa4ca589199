package cli

import (
	"context"
	"os"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ardnew/monkey/cli/cmd"
	"github.com/ardnew/monkey/lang"
	"github.com/ardnew/monkey/log"
	"github.com/ardnew/monkey/pkg"
)

// CLI is the top-level command-line interface for monkey.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version  kong.VersionFlag `help:"Print version and exit" short:"V"`
	MaxDepth int              `default:"${maxDepth}" help:"Maximum depth of nested function calls (0 disables the limit)"`
	Source   []string         `help:"Prelude source file(s) or '-' for stdin, evaluated before the command" name:"source" short:"s" type:"existingfile"`

	Run  cmd.Run  `cmd:"" default:"withargs" help:"Evaluate a program"`
	Eval cmd.Eval `cmd:""                    help:"Evaluate inline source"`
	Fmt  cmd.Fmt  `cmd:""                    help:"Format a program"`
	Repl cmd.Repl `cmd:""                    help:"Start an interactive session"`
	Init cmd.Init `cmd:""                    help:"Initialize configuration file"`
}

// Run executes the monkey CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := configPath(baseConfig)

	vars := kong.Vars{
		"version":            pkg.Version,
		"maxDepth":           strconv.Itoa(lang.DefaultMaxDepth),
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  pkg.CacheDir(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Logger flags are applied before kong parses so that parse errors and
	// configuration loading are logged as requested.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configFilePath+".json"),
		kong.Configuration(resolve(ctx, baseConfig), configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// TimeLayout, Caller and Pretty are only final after parsing.
	cli.Log.start(ctx)

	defer cli.Pprof.start(ctx)()

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithSourceFiles(ctx, cli.Source)
	ctx = cmd.WithOptions(ctx,
		lang.WithLogger(log.Default()),
		lang.WithOutput(os.Stdout),
		lang.WithMaxDepth(cli.MaxDepth),
	)

	return ktx.Run(ctx, &cli)
}
