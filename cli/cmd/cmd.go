package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/monkey/lang"
	"github.com/ardnew/monkey/pkg"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, _ := ctx.Value(contextKey{}).(*kong.Context)

	return ktx
}

type optionsKey struct{}

// WithOptions returns a new context.Context carrying the interpreter options
// used by every command.
func WithOptions(ctx context.Context, opts ...lang.Option) context.Context {
	return context.WithValue(ctx, optionsKey{}, opts)
}

func optionsFrom(ctx context.Context) []lang.Option {
	opts, _ := ctx.Value(optionsKey{}).([]lang.Option)

	return opts
}

type (
	sourceFilesKey struct{}

	// SourceFiles reads the prelude files named on the command line in order.
	SourceFiles interface {
		IsZero() bool
		Stdin() io.Reader
		io.Reader
		io.WriterTo
	}

	sourceFiles struct {
		read     []io.Reader
		hasStdin bool
		all      io.Reader
	}
)

// IsZero reports whether there are no source files.
func (s *sourceFiles) IsZero() bool { return len(s.read) == 0 && !s.hasStdin }

// Stdin returns os.Stdin if stdin was included as a source, or nil otherwise.
func (s *sourceFiles) Stdin() io.Reader {
	if s.hasStdin {
		return os.Stdin
	}

	return nil
}

// reader returns the concatenation of all sources, stdin last.
func (s *sourceFiles) reader() io.Reader {
	if s.all == nil {
		readers := s.read
		if s.hasStdin {
			readers = append(readers[:len(readers):len(readers)], os.Stdin)
		}

		s.all = io.MultiReader(readers...)
	}

	return s.all
}

// Read implements io.Reader.
func (s *sourceFiles) Read(p []byte) (n int, err error) {
	return s.reader().Read(p)
}

// WriteTo implements io.WriterTo.
func (s *sourceFiles) WriteTo(w io.Writer) (n int64, err error) {
	return io.Copy(w, s.reader())
}

// fileKey uniquely identifies a file by its device and inode numbers.
type fileKey struct {
	dev uint64
	ino uint64
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// WithSourceFiles returns a new context.Context containing a [SourceFiles]
// that reads from the given source files.
//
// Files are deduplicated by device and inode, so a file named twice, through
// a symlink or by a relative path, is read once. Every "-" is replaced with a
// single stdin reader placed after all regular files.
func WithSourceFiles(ctx context.Context, sources []string) context.Context {
	return context.WithValue(ctx, sourceFilesKey{}, buildSourceFiles(sources))
}

func buildSourceFiles(sources []string) SourceFiles {
	if len(sources) == 0 {
		return nil
	}

	var srcs sourceFiles

	srcs.read = make([]io.Reader, 0, len(sources))
	seen := make(map[fileKey]struct{})

	stdinKey, hasStdinKey := fileKey{}, false
	if info, err := os.Stdin.Stat(); err == nil {
		stdinKey, hasStdinKey = makeFileKey(info)
	}

	for _, src := range sources {
		if src == stdinSource {
			srcs.hasStdin = true

			continue
		}

		reader, key, ok := openUniqueFile(src, seen)
		if !ok {
			continue
		}

		// Stdin named as a file, such as /dev/stdin, is read last.
		if hasStdinKey && key == stdinKey {
			srcs.hasStdin = true

			continue
		}

		srcs.read = append(srcs.read, reader)
	}

	if srcs.IsZero() {
		return nil
	}

	return &srcs
}

// openUniqueFile opens the file at path unless a file with the same identity
// was already seen.
func openUniqueFile(path string, seen map[fileKey]struct{}) (io.Reader, fileKey, bool) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fileKey{}, false
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, fileKey{}, false
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, fileKey{}, false
	}

	key, ok := makeFileKey(info)
	if !ok {
		return nil, fileKey{}, false
	}

	if _, exists := seen[key]; exists {
		return nil, key, false
	}

	seen[key] = struct{}{}

	file, err := os.Open(resolved)
	if err != nil {
		return nil, key, false
	}

	return file, key, true
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}

// sourceFilesFrom retrieves the SourceFiles stored in ctx by WithSourceFiles.
func sourceFilesFrom(ctx context.Context) SourceFiles {
	r, _ := ctx.Value(sourceFilesKey{}).(SourceFiles)

	return r
}

// newInterpreter returns an interpreter configured from ctx with the prelude
// source files already evaluated.
func newInterpreter(ctx context.Context) (*lang.Interpreter, error) {
	opts := optionsFrom(ctx)
	in := lang.New(opts...)

	srcs := sourceFilesFrom(ctx)
	if srcs == nil {
		return in, nil
	}

	prog, err := lang.ParseReader(ctx, srcs, opts...)
	if err != nil {
		return nil, err
	}

	if _, err := in.Eval(ctx, prog); err != nil {
		return nil, err
	}

	return in, nil
}

// readSource returns the content of the named file, or of stdin for "-".
func readSource(name string) (string, error) {
	if name == stdinSource {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", pkg.ErrReadInput.Wrap(err)
		}

		return string(data), nil
	}

	data, err := os.ReadFile(name)
	if err != nil {
		return "", pkg.ErrReadInput.Wrap(err)
	}

	return string(data), nil
}

// parseSource reads and parses the named file, or stdin for "-".
func parseSource(ctx context.Context, name string) (*lang.Program, error) {
	src, err := readSource(name)
	if err != nil {
		return nil, err
	}

	return lang.ParseString(ctx, src, optionsFrom(ctx)...)
}
