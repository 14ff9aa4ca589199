package cli

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/monkey/lang"
	"github.com/ardnew/monkey/log"
)

// resolve returns a [kong.ConfigurationLoader] for configuration files written
// in Monkey.
//
// The file is evaluated as an ordinary program, and the hash bound to name
// supplies flag values:
//
//	let level = "debug";
//	let config = {
//	  "log-level": level,
//	  "log-pretty": false,
//	  "max-depth": 500
//	};
//
// Keys are flag names; underscores may stand in for hyphens. Integers are
// passed to kong as decimal strings. A file that fails to parse or evaluate,
// or that binds no hash to name, resolves nothing. Command-line flags override
// config file values.
func resolve(ctx context.Context, name string) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		prog, err := lang.ParseReader(ctx, r, lang.WithLogger(log.Default()))
		if err != nil {
			log.WarnContext(ctx, "ignoring configuration", slog.Any("error", err))

			return config{}, nil
		}

		in := lang.New(lang.WithLogger(log.Default()))
		if _, err := in.Eval(ctx, prog); err != nil {
			log.WarnContext(ctx, "ignoring configuration", slog.Any("error", err))

			return config{}, nil
		}

		obj, err := in.Get(name)
		if err != nil {
			return config{}, nil
		}

		native, ok := lang.ToNative(obj).(map[string]any)
		if !ok {
			log.WarnContext(ctx, "ignoring configuration",
				slog.String("binding", name),
				slog.String("type", string(obj.Type())),
			)

			return config{}, nil
		}

		cfg := make(config, len(native))
		for k, v := range native {
			cfg[k] = flagValue(v)
		}

		return cfg, nil
	}
}

// flagValue converts a native Monkey value into a form kong can decode.
func flagValue(v any) any {
	switch v := v.(type) {
	case int64:
		return strconv.FormatInt(v, 10)

	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = flagValue(e)
		}

		return out

	default:
		return v
	}
}

// config implements [kong.Resolver] for Monkey configuration files.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := r[flag.Name]; ok {
		return value, nil
	}

	if value, ok := r[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	return nil, nil
}
