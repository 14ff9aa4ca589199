// Package cli contains the command line interface for monkey.
//
// # Commands
//
//	monkey [run] [file|-]           evaluate a program (default command)
//	monkey eval EXPR...             evaluate inline source
//	monkey fmt native|json|yaml|ast format a program
//	monkey repl                     start an interactive session
//	monkey init                     write the configuration file
//
// Files given with --source are evaluated first, in the same environment, by
// run, eval and repl.
//
// # Configuration
//
// Flag defaults are read from two files in the user configuration directory
// (for example ~/.config/monkey):
//
//   - config.json: a JSON object keyed by flag name
//   - config: a Monkey program whose top-level binding "config" is a hash
//     keyed by flag name
//
// The second form is evaluated by the interpreter itself, so it may compute
// values:
//
//	let config = {"log-level": "debug", "max-depth": 100 * 5};
//
// monkey init writes that file from the current flag values.
//
// # Logging Options
//
//   - --log-level: minimum log level (trace, debug, info, warn, error)
//   - --log-format: output format (text, json)
//   - --log-time-layout: timestamp format (RFC3339, Kitchen, none, ...)
//   - --[no-]log-caller: include caller information
//   - --[no-]log-pretty: colorize output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o monkey .
//
//   - --pprof-mode: profile to collect (allocs, block, clock, cpu, ...)
//   - --pprof-dir: profile output directory (default ~/.cache/monkey/pprof)
package cli
