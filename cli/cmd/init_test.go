package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/monkey/lang"
)

// initFlags stands in for the top-level flags of the monkey CLI.
type initFlags struct {
	LogLevel string `default:"info"`
	Pretty   bool   `default:"true" negatable:""`
	MaxDepth int    `default:"100"`
	Source   []string
	Version  bool
	PprofDir string `default:"/tmp/pprof"`
}

// initContext returns a context holding a kong context parsed from args.
func initContext(t *testing.T, confPath string, args ...string) context.Context {
	t.Helper()

	var flags initFlags

	parser, err := kong.New(&flags, kong.Vars{ConfigIdentifier: confPath})
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		t.Fatal(err)
	}

	return WithContext(t.Context(), ktx)
}

func TestInit(t *testing.T) {
	tests := []struct {
		name    string
		force   bool
		exists  bool
		wantErr error
	}{
		{name: "create", force: false},
		{name: "overwrite with force", force: true, exists: true},
		{name: "refuse without force", force: false, exists: true, wantErr: ErrFileExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			confPath := filepath.Join(t.TempDir(), "config")

			if tt.exists {
				if err := os.WriteFile(confPath, []byte("existing"), 0o600); err != nil {
					t.Fatal(err)
				}
			}

			err := (&Init{Force: tt.force}).Run(initContext(t, confPath))

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}

				data, _ := os.ReadFile(confPath)
				if string(data) != "existing" {
					t.Errorf("existing file modified: %q", data)
				}

				return
			}

			if err != nil {
				t.Fatalf("Run: %v", err)
			}

			data, err := os.ReadFile(confPath)
			if err != nil {
				t.Fatal(err)
			}

			want := `let config = {"log-level": "info", "pretty": true, "max-depth": 100};` + "\n"
			if string(data) != want {
				t.Errorf("config = %q, want %q", data, want)
			}
		})
	}
}

func TestInit_RoundTrip(t *testing.T) {
	confPath := filepath.Join(t.TempDir(), "config")

	ctx := initContext(t, confPath,
		"--log-level=debug", "--no-pretty", "--max-depth=-1", "--source=a.mk", "--source=b.mk",
	)

	if err := (&Init{}).Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	data, err := os.ReadFile(confPath)
	if err != nil {
		t.Fatal(err)
	}

	in := lang.New()
	if _, err := in.Run(t.Context(), string(data)); err != nil {
		t.Fatalf("generated config does not evaluate: %v\n%s", err, data)
	}

	obj, err := in.Get(ConfigIdentifier)
	if err != nil {
		t.Fatal(err)
	}

	want := map[string]any{
		"log-level": "debug",
		"pretty":    false,
		"max-depth": int64(-1),
		"source":    []any{"a.mk", "b.mk"},
	}

	if diff := cmp.Diff(want, lang.ToNative(obj)); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestInit_NoKongContext(t *testing.T) {
	if err := (&Init{}).Run(t.Context()); !errors.Is(err, ErrConfigUndefined) {
		t.Errorf("error = %v, want ErrConfigUndefined", err)
	}
}
