package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles used by the pretty handlers. Styles are bound to
// a renderer for the destination writer, so output that is not a terminal
// carries no escape sequences.
type palette struct {
	key, str, num, boolean, null, dur, when lipgloss.Style
	levels                                  map[slog.Level]lipgloss.Style
}

func newPalette(w io.Writer) *palette {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style { return r.NewStyle().Foreground(lipgloss.Color(c)) }

	return &palette{
		key:     fg("8"),
		str:     fg("6"),
		num:     fg("3"),
		boolean: fg("2"),
		null:    fg("8"),
		dur:     fg("5"),
		when:    fg("4"),
		levels: map[slog.Level]lipgloss.Style{
			slog.Level(LevelTrace): fg("8"),
			slog.LevelDebug:        fg("4"),
			slog.LevelInfo:         fg("2"),
			slog.LevelWarn:         fg("3").Bold(true),
			slog.LevelError:        fg("1").Bold(true),
		},
	}
}

// level returns the style of the nearest named level at or below l.
func (p *palette) level(l slog.Level) lipgloss.Style {
	switch {
	case l >= slog.LevelError:
		return p.levels[slog.LevelError]
	case l >= slog.LevelWarn:
		return p.levels[slog.LevelWarn]
	case l >= slog.LevelInfo:
		return p.levels[slog.LevelInfo]
	case l >= slog.LevelDebug:
		return p.levels[slog.LevelDebug]
	default:
		return p.levels[slog.Level(LevelTrace)]
	}
}

// value renders a resolved attribute value.
func (p *palette) value(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return p.str.Render(v.String())

	case slog.KindInt64:
		return p.num.Render(strconv.FormatInt(v.Int64(), 10))

	case slog.KindUint64:
		return p.num.Render(strconv.FormatUint(v.Uint64(), 10))

	case slog.KindFloat64:
		return p.num.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64))

	case slog.KindBool:
		return p.boolean.Render(strconv.FormatBool(v.Bool()))

	case slog.KindDuration:
		return p.dur.Render(v.Duration().String())

	case slog.KindTime:
		return p.when.Render(v.Time().Format(time.RFC3339))

	case slog.KindAny:
		if v.Any() == nil {
			return p.null.Render("null")
		}

		if level, ok := v.Any().(slog.Level); ok {
			return p.level(level).Render(strings.ToUpper(Level(level).String()))
		}

		return p.str.Render(fmt.Sprint(v.Any()))

	default:
		return p.str.Render(v.String())
	}
}

// prettyCore is the state shared by both pretty handlers: options, output,
// attributes added with WithAttrs, and the open group path.
type prettyCore struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	style  *palette
	attrs  []slog.Attr
	groups []string
}

func newPrettyCore(w io.Writer, opts *slog.HandlerOptions) prettyCore {
	return prettyCore{
		opts:  *opts,
		mu:    &sync.Mutex{},
		w:     w,
		style: newPalette(w),
	}
}

func (c prettyCore) enabled(level slog.Level) bool {
	threshold := slog.LevelInfo
	if c.opts.Level != nil {
		threshold = c.opts.Level.Level()
	}

	return level >= threshold
}

// withAttrs returns a copy of c carrying attrs qualified by the open groups.
func (c prettyCore) withAttrs(attrs []slog.Attr) prettyCore {
	for _, a := range attrs {
		for i := len(c.groups) - 1; i >= 0; i-- {
			a = slog.Attr{Key: c.groups[i], Value: slog.GroupValue(a)}
		}

		c.attrs = append(c.attrs[:len(c.attrs):len(c.attrs)], a)
	}

	return c
}

func (c prettyCore) withGroup(name string) prettyCore {
	if name == "" {
		return c
	}

	c.groups = append(c.groups[:len(c.groups):len(c.groups)], name)

	return c
}

// fields returns the record's header and attributes after ReplaceAttr, in
// output order. Groups are flattened into dotted keys.
func (c prettyCore) fields(r slog.Record) []slog.Attr {
	out := make([]slog.Attr, 0, 4+len(c.attrs)+r.NumAttrs())

	add := func(groups []string, a slog.Attr) {
		out = appendAttr(out, c.opts.ReplaceAttr, groups, a)
	}

	if !r.Time.IsZero() {
		add(nil, slog.Time(slog.TimeKey, r.Time))
	}

	add(nil, slog.Any(slog.LevelKey, r.Level))

	if c.opts.AddSource {
		if src := r.Source(); src != nil {
			add(nil, slog.String(slog.SourceKey, src.File+":"+strconv.Itoa(src.Line)))
		}
	}

	add(nil, slog.String(slog.MessageKey, r.Message))

	for _, a := range c.attrs {
		add(nil, a)
	}

	r.Attrs(func(a slog.Attr) bool {
		for i := len(c.groups) - 1; i >= 0; i-- {
			a = slog.Attr{Key: c.groups[i], Value: slog.GroupValue(a)}
		}

		add(nil, a)

		return true
	})

	return out
}

func appendAttr(
	out []slog.Attr,
	replace func([]string, slog.Attr) slog.Attr,
	groups []string,
	a slog.Attr,
) []slog.Attr {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		sub := groups
		if a.Key != "" {
			sub = append(groups[:len(groups):len(groups)], a.Key)
		}

		for _, g := range a.Value.Group() {
			out = appendAttr(out, replace, sub, g)
		}

		return out
	}

	if replace != nil {
		a = replace(groups, a)
		a.Value = a.Value.Resolve()
	}

	if a.Equal(slog.Attr{}) {
		return out
	}

	if len(groups) > 0 {
		a.Key = strings.Join(groups, ".") + "." + a.Key
	}

	return append(out, a)
}

// render styles the value of a. The level field keeps the record's level
// color after ReplaceAttr has turned it into a string.
func (c prettyCore) render(a slog.Attr, level slog.Level, quote bool) string {
	if a.Value.Kind() != slog.KindString {
		return c.style.value(a.Value)
	}

	text := a.Value.String()
	if quote {
		text = strconv.Quote(text)
	}

	if a.Key == slog.LevelKey {
		return c.style.level(level).Render(text)
	}

	return c.style.str.Render(text)
}

func (c prettyCore) write(buf *bytes.Buffer) error {
	buf.WriteByte('\n')

	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.w.Write(buf.Bytes())

	return err
}

// prettyTextHandler writes one styled key=value line per record.
type prettyTextHandler struct{ prettyCore }

func newPrettyTextHandler(w io.Writer, opts *slog.HandlerOptions) *prettyTextHandler {
	return &prettyTextHandler{newPrettyCore(w, opts)}
}

func (h *prettyTextHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.enabled(level)
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	for _, a := range h.fields(r) {
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(h.style.key.Render(a.Key))
		buf.WriteByte('=')
		buf.WriteString(h.render(a, r.Level, false))
	}

	return h.write(buf)
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyTextHandler{h.withAttrs(attrs)}
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	return &prettyTextHandler{h.withGroup(name)}
}

// prettyJSONHandler writes each record as an indented, styled object.
type prettyJSONHandler struct{ prettyCore }

func newPrettyJSONHandler(w io.Writer, opts *slog.HandlerOptions) *prettyJSONHandler {
	return &prettyJSONHandler{newPrettyCore(w, opts)}
}

func (h *prettyJSONHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.enabled(level)
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	buf.WriteString("{")

	for i, a := range h.fields(r) {
		if i > 0 {
			buf.WriteByte(',')
		}

		buf.WriteString("\n  ")
		buf.WriteString(h.style.key.Render(strconv.Quote(a.Key)))
		buf.WriteString(": ")

		buf.WriteString(h.render(a, r.Level, true))
	}

	buf.WriteString("\n}")

	return h.write(buf)
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyJSONHandler{h.withAttrs(attrs)}
}

func (h *prettyJSONHandler) WithGroup(name string) slog.Handler {
	return &prettyJSONHandler{h.withGroup(name)}
}
