// Package cmd implements the monkey subcommands: run, eval, fmt, repl and
// init.
//
// Commands receive their configuration through the [context.Context] bound by
// the cli package: the kong context ([WithContext]), the interpreter options
// ([WithOptions]) and the prelude files ([WithSourceFiles]).
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the Monkey configuration file.
	ConfigIdentifier = "config"
)
