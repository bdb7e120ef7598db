// Package errors annotates errors with the place they pass through.
//
//	if err != nil {
//		return xe.Wrap(err)
//	}
//
// The message of a wrapped error reads as a chain of
//
//	@ <func> "<file>" l<line> <- <cause>
//
// so replacing " <- " with newlines gives a pseudo stack trace.
package errors

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrWithCaller is an error which knows the function, file and line where it was wrapped.
type ErrWithCaller struct {
	file     string
	line     int
	funcname string
	note     string
	err      error
}

func (e *ErrWithCaller) File() string {
	return e.file
}

func (e *ErrWithCaller) Line() int {
	return e.line
}

func (e *ErrWithCaller) Func() string {
	return e.funcname
}

func (e *ErrWithCaller) Error() string {
	if e.note == "" {
		return fmt.Sprintf(`@ %s "%s" l%d <- %s`, e.funcname, e.file, e.line, e.err.Error())
	}
	return fmt.Sprintf(`@ %s "%s" l%d (%s) <- %s`, e.funcname, e.file, e.line, e.note, e.err.Error())
}

func (e *ErrWithCaller) Unwrap() error {
	return e.err
}

// New creates a new error with message and caller.
func New(text string) error {
	return annotate("", errors.New(text), 1)
}

// Errorf is fmt.Errorf with caller. %w works as usual.
func Errorf(format string, args ...any) error {
	return annotate("", fmt.Errorf(format, args...), 1)
}

// Wrap annotates err with its caller. Wrap(nil) is nil.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	return annotate("", err, 1)
}

// WrapWithNote is Wrap with a short human readable note.
func WrapWithNote(note string, err error) error {
	if err == nil {
		return nil
	}
	return annotate(note, err, 1)
}

func annotate(note string, err error, depth int) error {
	pc, file, line, ok := runtime.Caller(depth + 1)
	funcname := "(unknown func)"
	if !ok {
		file = "?"
		line = -1
	}
	if fn := runtime.FuncForPC(pc); fn != nil {
		funcname = fn.Name()
	}

	return &ErrWithCaller{
		funcname: funcname,
		file:     file,
		line:     line,
		note:     note,
		err:      err,
	}
}
