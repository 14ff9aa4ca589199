package lang

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ardnew/monkey/lang/parser"
)

// Predefined errors (sentinel values).
var (
	ErrParse           = NewError("parse failed")
	ErrReadInput       = NewError("failed to read input")
	ErrRuntime         = NewError("runtime error")
	ErrBindingNotFound = NewError("binding not found")
	ErrInvalidCache    = NewError("invalid cache entry")
	ErrFormat          = NewError("failed to format program")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// "<msg>: <err>", "<msg>", "<err>", or "" depending on which are set.
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the same sentinel as e, so that
// errors.Is(ErrRuntime.Wrap(x), ErrRuntime) holds.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.msg != "" && t.msg == e.msg
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs, // Share attrs
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}

// ParseError reports every diagnostic recorded while parsing a program.
type ParseError struct {
	Diagnostics []parser.Diagnostic
	Source      string // The original source input
}

// NewParseError returns a ParseError for diags found in source.
func NewParseError(diags []parser.Diagnostic, source string) *ParseError {
	return &ParseError{Diagnostics: diags, Source: source}
}

// Messages returns the diagnostic messages in the order found.
func (e *ParseError) Messages() []string {
	msgs := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		msgs[i] = d.Message
	}

	return msgs
}

// Unwrap allows errors.Is(err, ErrParse).
func (e *ParseError) Unwrap() error { return ErrParse }

// Error implements the error interface. The first diagnostic is shown with
// its source line when the source is known; the rest follow one per line.
func (e *ParseError) Error() string {
	if len(e.Diagnostics) == 0 {
		return "parse error"
	}

	var buf strings.Builder

	first := e.Diagnostics[0]

	buf.WriteString("parse error at line ")
	buf.WriteString(strconv.Itoa(first.Line))
	buf.WriteString(", column ")
	buf.WriteString(strconv.Itoa(first.Column))
	buf.WriteString(": ")
	buf.WriteString(first.Message)

	if snippet := e.snippet(first); snippet != "" {
		buf.WriteRune('\n')
		buf.WriteString(snippet)
	}

	for _, d := range e.Diagnostics[1:] {
		buf.WriteString("\n\t")
		buf.WriteString(d.String())
	}

	return buf.String()
}

// snippet returns the source line of d followed by a caret under its column.
func (e *ParseError) snippet(d parser.Diagnostic) string {
	lines := strings.Split(e.Source, "\n")
	if e.Source == "" || d.Line < 1 || d.Line > len(lines) {
		return ""
	}

	var src strings.Builder

	num := strconv.Itoa(d.Line)

	src.WriteString("  ")
	src.WriteString(num)
	src.WriteString(" | ")
	src.WriteString(lines[d.Line-1])
	src.WriteRune('\n')

	// 2 leading spaces + " | " (3 chars)
	padding := strings.Repeat(" ", len(num)+5)
	if d.Column > 0 {
		padding += strings.Repeat(" ", d.Column-1)
	}

	src.WriteString(padding + "^")

	return src.String()
}
