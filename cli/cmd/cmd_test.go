package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/ardnew/monkey/lang"
)

// writeFile creates a file named name under dir and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

// testContext returns a context whose interpreter writes puts output to out.
func testContext(t *testing.T, out io.Writer, sources ...string) context.Context {
	t.Helper()

	ctx := WithOptions(t.Context(), lang.WithOutput(out))

	return WithSourceFiles(ctx, sources)
}

func TestWithSourceFiles_Empty(t *testing.T) {
	for _, sources := range [][]string{nil, {}} {
		if got := sourceFilesFrom(WithSourceFiles(t.Context(), sources)); got != nil {
			t.Errorf("WithSourceFiles(%v) stored %v, want nil", sources, got)
		}
	}
}

func TestWithSourceFiles_Order(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "first.mk", "let a = 1;\n")
	second := writeFile(t, dir, "second.mk", "let b = 2;\n")

	srcs := sourceFilesFrom(WithSourceFiles(t.Context(), []string{first, second}))
	if srcs == nil || srcs.IsZero() {
		t.Fatal("expected non-empty source files")
	}

	if srcs.Stdin() != nil {
		t.Error("Stdin() should be nil when '-' is not given")
	}

	var buf bytes.Buffer
	if _, err := srcs.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}

	if want := "let a = 1;\nlet b = 2;\n"; buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestWithSourceFiles_Deduplicates(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "prelude.mk", "let a = 1;\n")

	link := filepath.Join(dir, "link.mk")
	if err := os.Symlink(path, link); err != nil {
		t.Skipf("symlink: %v", err)
	}

	t.Chdir(dir)

	srcs := sourceFilesFrom(WithSourceFiles(t.Context(), []string{path, link, "prelude.mk"}))

	data, err := io.ReadAll(srcs)
	if err != nil {
		t.Fatal(err)
	}

	if want := "let a = 1;\n"; string(data) != want {
		t.Errorf("got %q, want %q", data, want)
	}
}

func TestWithSourceFiles_SkipsMissing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.mk")

	if got := sourceFilesFrom(WithSourceFiles(t.Context(), []string{missing})); got != nil {
		t.Errorf("expected nil source files, got %v", got)
	}
}

func TestWithSourceFiles_Stdin(t *testing.T) {
	srcs := sourceFilesFrom(WithSourceFiles(t.Context(), []string{"-"}))
	if srcs == nil || srcs.IsZero() {
		t.Fatal("expected stdin source")
	}

	if srcs.Stdin() != os.Stdin {
		t.Error("Stdin() should return os.Stdin")
	}
}

func TestNewInterpreter_Prelude(t *testing.T) {
	dir := t.TempDir()
	prelude := writeFile(t, dir, "prelude.mk", `let double = fn(x) { x * 2 };`)

	in, err := newInterpreter(testContext(t, io.Discard, prelude))
	if err != nil {
		t.Fatalf("newInterpreter: %v", err)
	}

	result, err := in.Run(t.Context(), "double(21)")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := result.Inspect(); got != "42" {
		t.Errorf("double(21) = %s, want 42", got)
	}
}

func TestNewInterpreter_PreludeErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name   string
		source string
		target error
	}{
		{"parse", "let = 1;", lang.ErrParse},
		{"runtime", "let x = -true;", lang.ErrRuntime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prelude := writeFile(t, dir, tt.name+".mk", tt.source)

			_, err := newInterpreter(testContext(t, io.Discard, prelude))
			if !errors.Is(err, tt.target) {
				t.Errorf("error = %v, want %v", err, tt.target)
			}
		})
	}
}

func TestReadSource_Missing(t *testing.T) {
	_, err := readSource(filepath.Join(t.TempDir(), "missing.mk"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("error = %v, want fs.ErrNotExist in chain", err)
	}
}

func TestError(t *testing.T) {
	err := ErrWriteConfig.Wrap(ErrFileExists)

	if !errors.Is(err, ErrWriteConfig) || !errors.Is(err, ErrFileExists) {
		t.Errorf("errors.Is failed for %v", err)
	}

	if want := "write configuration file: file exists (use --force to overwrite)"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	if errors.Is(err, ErrWriteOutput) {
		t.Error("unexpected match with ErrWriteOutput")
	}
}
