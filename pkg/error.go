package pkg

import (
	"fmt"
	"slices"
	"strings"
)

// Error is a chain of errors, innermost first. It unwraps to every member so
// that errors.Is matches any sentinel in the chain.
type Error []error

// ErrCreateDir is returned when a runtime directory cannot be created.
var ErrCreateDir = MakeErrorf("create runtime directory")

// ErrReadInput is returned when a source file or stream cannot be read.
var ErrReadInput = MakeErrorf("read input")

// ErrNoInput is returned when a command needs source text and none was given.
var ErrNoInput = MakeErrorf("no input")

// MakeError constructs an Error from the given errors.
// The first argument is the innermost error in the chain; nil errors are
// skipped.
func MakeError(errs ...error) Error {
	var e Error

	for _, err := range errs {
		if err != nil {
			e = append(e, UnwrapErrors(err)...)
		}
	}

	return e
}

// MakeErrorf constructs an Error from a formatted error message.
func MakeErrorf(format string, args ...any) Error {
	return MakeError(fmt.Errorf(format, args...))
}

// Error joins the messages of the chain with ": ", innermost first.
func (e Error) Error() string {
	var sb strings.Builder

	for i, err := range e {
		if i > 0 {
			sb.WriteString(": ")
		}

		sb.WriteString(err.Error())
	}

	return sb.String()
}

// Wrap returns a copy of e with err appended.
func (e Error) Wrap(err ...error) Error {
	return append(e[:len(e):len(e)], err...)
}

// Wrapf returns a copy of e with a formatted error appended.
func (e Error) Wrapf(format string, args ...any) Error {
	return e.Wrap(fmt.Errorf(format, args...))
}

// Unwrap returns the errors contained in e.
func (e Error) Unwrap() []error {
	return e
}

// Is reports whether target is an Error whose innermost member is also a
// member of e. This lets a sentinel Error match every Error wrapped from it.
func (e Error) Is(target error) bool {
	t, ok := target.(Error)
	if !ok || len(t) == 0 {
		return false
	}

	return slices.Contains(e, t[0])
}

// UnwrapErrors flattens an error tree into a chain ordered from the
// innermost error outward.
func UnwrapErrors(err error) Error {
	if err == nil {
		return nil
	}

	chain := Error{}

	switch e := err.(type) {
	case interface{ Unwrap() []error }:
		for _, wrapped := range e.Unwrap() {
			chain = append(chain, UnwrapErrors(wrapped)...)
		}

	case interface{ Unwrap() error }:
		chain = append(chain, UnwrapErrors(e.Unwrap())...)
	}

	return append(chain, err)
}
