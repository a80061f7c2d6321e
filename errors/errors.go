// Package errors provides typed faults for the archive engine.
//
// Every fault raised by the engine carries a numeric CodeError (the
// taxonomy from spec.md §7: invalid arguments, not-enough-memory, io,
// internal, unknown, password), a human message, an optional parent error
// chain and the file/line where it was raised. The shape mirrors
// github.com/nabbar/golib/errors: a small interface wrapping the standard
// error, compatible with errors.Is/errors.As via Unwrap() []error.
package errors

import (
	"fmt"
	"runtime"
	"strings"
)

// CodeError classifies a fault the way the engine's callback boundary
// re-emits codec/container failures: a small enum, not an HTTP-style
// registry (the engine has no network surface to number status codes for).
type CodeError uint8

const (
	CodeUnknown CodeError = iota
	CodeInvalidArguments
	CodeNotEnoughMemory
	CodeIO
	CodeInternal
	CodePassword
)

func (c CodeError) String() string {
	switch c {
	case CodeInvalidArguments:
		return "invalid_arguments"
	case CodeNotEnoughMemory:
		return "not_enough_memory"
	case CodeIO:
		return "io"
	case CodeInternal:
		return "internal"
	case CodePassword:
		return "password"
	default:
		return "unknown"
	}
}

// Error is the fault type threaded across the engine's callback boundary.
type Error interface {
	error

	Code() CodeError
	IsCode(code CodeError) bool
	HasCode(code CodeError) bool

	Parent() []error
	Add(parent ...error)

	File() string
	Line() int

	Unwrap() []error
}

type ers struct {
	code CodeError
	msg  string
	file string
	line int
	p    []error
}

func getFrame() (file string, line int) {
	// skip getFrame + the constructor that calls it
	_, file, line, _ = runtime.Caller(2)
	return file, line
}

// New builds an Error with the given code and message, capturing the
// caller's (the constructor's caller's) source location.
func New(code CodeError, msg string, parent ...error) Error {
	f, l := getFrame()
	return &ers{code: code, msg: msg, file: f, line: l, p: filterNil(parent)}
}

// Newf is New with fmt.Sprintf-style formatting.
func Newf(code CodeError, pattern string, args ...any) Error {
	f, l := getFrame()
	return &ers{code: code, msg: fmt.Sprintf(pattern, args...), file: f, line: l}
}

func filterNil(in []error) []error {
	out := make([]error, 0, len(in))
	for _, e := range in {
		if e != nil {
			out = append(out, e)
		}
	}
	return out
}

// Wrap re-raises a non-Error fault (e.g. an os.PathError from a stream)
// as an Error carrying code and msg, with err recorded as its parent.
// If err is already a typed Error it is returned unchanged.
func Wrap(code CodeError, msg string, err error) Error {
	if err == nil {
		return nil
	}
	if e, ok := err.(Error); ok {
		return e
	}
	f, l := getFrame()
	return &ers{code: code, msg: msg, file: f, line: l, p: []error{err}}
}

func (e *ers) Error() string {
	if len(e.p) == 0 {
		return fmt.Sprintf("[%s] %s", e.code, e.msg)
	}
	parts := make([]string, 0, len(e.p)+1)
	parts = append(parts, fmt.Sprintf("[%s] %s", e.code, e.msg))
	for _, p := range e.p {
		parts = append(parts, p.Error())
	}
	return strings.Join(parts, ": ")
}

func (e *ers) Code() CodeError { return e.code }

func (e *ers) IsCode(code CodeError) bool { return e.code == code }

func (e *ers) HasCode(code CodeError) bool {
	if e.code == code {
		return true
	}
	for _, p := range e.p {
		if pe, ok := p.(Error); ok && pe.HasCode(code) {
			return true
		}
	}
	return false
}

func (e *ers) Parent() []error { return e.p }

func (e *ers) Add(parent ...error) { e.p = append(e.p, filterNil(parent)...) }

func (e *ers) File() string { return e.file }

func (e *ers) Line() int { return e.line }

func (e *ers) Unwrap() []error { return e.p }

// Is reports whether code and message match; used by errors.Is.
func (e *ers) Is(target error) bool {
	t, ok := target.(*ers)
	if !ok {
		return false
	}
	return e.code == t.code && e.msg == t.msg
}

// IsCodeError reports whether err carries the given CodeError, looking
// through the parent chain. Mirrors the teacher's package-level IsCode.
func IsCodeError(err error, code CodeError) bool {
	if err == nil {
		return false
	}
	if e, ok := err.(Error); ok {
		return e.HasCode(code)
	}
	return false
}
