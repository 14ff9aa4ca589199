// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// A [Logger] is built once with functional options and then passed by value.
// Its zero value discards everything, so packages can accept a Logger in
// their options and log unconditionally.
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("none"))
//
//	logger.TraceContext(ctx, "apply function", slog.Int("depth", 3))
//
// # Levels
//
// Five levels are defined: [LevelTrace], [LevelDebug], [LevelInfo],
// [LevelWarn], and [LevelError]. Trace sits below slog's debug level and is
// rendered as "TRACE" rather than "DEBUG-4".
//
// # Output
//
// [FormatText] and [FormatJSON] select the record layout. With [WithPretty]
// records are styled with lipgloss; styles degrade to plain text when the
// output is not a terminal. [WithTimeLayout] accepts a [time] layout or a
// named one such as "RFC3339", "kitchen", or "none".
//
// # Package-level logging
//
// Functions such as [Info] and [ErrorContext] log through a default logger
// writing to standard error. [Config] adjusts it and [SetDefault] replaces
// it. Context-unaware functions use [DefaultContextProvider].
package log
