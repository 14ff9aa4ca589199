package cli

import (
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/monkey/lang"
)

func flagNamed(name string) *kong.Flag {
	return &kong.Flag{Value: &kong.Value{Name: name}}
}

func TestResolve(t *testing.T) {
	lang.ClearCache()

	source := `
let level = "debug";
let config = {
	"log-level": level,
	"log_format": "json",
	"log-pretty": false,
	"max-depth": 100 * 5,
	"source": ["a.mk", "b.mk"]
};
let other = {"foo": "bar"};
`

	resolver, err := resolve(t.Context(), "config")(strings.NewReader(source))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	tests := []struct {
		flag string
		want any
	}{
		{"log-level", "debug"},
		{"log-format", "json"},
		{"log-pretty", false},
		{"max-depth", "500"},
		{"source", []any{"a.mk", "b.mk"}},
		{"foo", nil},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			got, err := resolver.Resolve(nil, nil, flagNamed(tt.flag))
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Resolve(%q) mismatch (-want +got):\n%s", tt.flag, diff)
			}
		})
	}
}

func TestResolve_Unusable(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"parse error", `let config = {`},
		{"runtime error", `let config = 1 + true;`},
		{"missing binding", `let settings = {"log-level": "warn"};`},
		{"not a hash", `let config = [1, 2];`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver, err := resolve(t.Context(), "config")(strings.NewReader(tt.source))
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}

			if err := resolver.Validate(nil); err != nil {
				t.Errorf("Validate: %v", err)
			}

			got, err := resolver.Resolve(nil, nil, flagNamed("log-level"))
			if err != nil || got != nil {
				t.Errorf("Resolve = %v, %v; want nil, nil", got, err)
			}
		})
	}
}

func TestLogConfig_Scan(t *testing.T) {
	var f logConfig

	f.scan([]string{
		"run", "--log-level", "debug", "--log-format=json",
		"--no-log-pretty", "--log-caller=true", "prog.mk",
	})

	if f.Level != "debug" || f.Format != "json" {
		t.Errorf("level/format = %q/%q", f.Level, f.Format)
	}

	if f.Pretty || !f.Caller {
		t.Errorf("pretty/caller = %v/%v, want false/true", f.Pretty, f.Caller)
	}

	var g logConfig

	g.scan([]string{"--", "--log-level", "trace"})

	if g.Level != "" {
		t.Errorf("scan read past --: level = %q", g.Level)
	}
}
