package lang

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"

	"github.com/ardnew/monkey/lang/ast"
)

// globalRegistry stores parse results keyed by source digest.
var globalRegistry sync.Map

// cacheLimit bounds the number of entries in globalRegistry. Reaching it
// drops every entry before the next one is stored.
var cacheLimit int64 = 1024

// cacheSize counts the entries stored since the last clear.
var cacheSize atomic.Int64

// state holds the outcome of parsing one source text. The parse runs once
// no matter how many callers request it concurrently.
type state struct {
	once    sync.Once
	program *ast.Program
	err     error
}

// ParseReader parses a program read from r.
// The content is cached after first parse like [ParseString].
func ParseReader(ctx context.Context, r io.Reader, opts ...Option) (*Program, error) {
	// Wrap reader with async read-ahead so the next chunk is fetched while
	// the previous one is copied.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	o := makeOptions(opts...)

	o.logger.TraceContext(ctx, "read input",
		slog.Int("source_bytes", len(data)),
		slog.Bool("read_ahead", true),
	)

	return ParseString(ctx, string(data), opts...)
}

// parseStringCached parses source at most once per distinct source text.
func parseStringCached(ctx context.Context, source string, o options) (*ast.Program, error) {
	sourceHash := xxh3.HashString(source)
	sourceKey := strconv.FormatUint(sourceHash, 36)

	if _, ok := globalRegistry.Load(sourceKey); !ok && cacheSize.Load() >= cacheLimit {
		o.logger.TraceContext(ctx, "cache evict",
			slog.Int64("entries", cacheSize.Load()),
		)

		ClearCache()
	}

	entry := new(state)

	value, cacheHit := globalRegistry.LoadOrStore(sourceKey, entry)
	if !cacheHit {
		cacheSize.Add(1)
	}

	cached, ok := value.(*state)
	if !ok {
		return nil, ErrInvalidCache.
			With(slog.String("key", sourceKey))
	}

	o.logger.TraceContext(ctx, "cache lookup",
		slog.String("source_hash", strconv.FormatUint(sourceHash, 16)),
		slog.Bool("cache_hit", cacheHit),
	)

	cached.once.Do(func() {
		cached.program, cached.err = parse(ctx, source, o)
	})

	return cached.program, cached.err
}

// ClearCache removes all cached parse results.
// This is primarily useful for testing or when memory needs to be reclaimed.
func ClearCache() {
	globalRegistry.Clear()
	cacheSize.Store(0)
}
