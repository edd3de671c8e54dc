package retrieval

import (
	"errors"
	"fmt"
)

var (
	// ErrState is returned when an operation is invoked in the wrong lifecycle state.
	ErrState = errors.New("invalid model state")
	// ErrValidation is returned for wrong-shaped input.
	ErrValidation = errors.New("invalid input")
	// ErrCache is returned when a cache bundle is incomplete or unreadable.
	ErrCache = errors.New("invalid cache bundle")
	// ErrIO is returned when the underlying storage fails.
	ErrIO = errors.New("storage failure")
)

// Error carries the failed operation, the path involved (if any) and the
// error class. errors.Is matches it against its class sentinel.
type Error struct {
	Op    string
	Path  string
	Class error
	Err   error
}

func (e *Error) Error() string {
	msg := e.Op
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Class != nil {
		msg += ": " + e.Class.Error()
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the class sentinel of e.
func (e *Error) Is(target error) bool {
	return e.Class != nil && e.Class == target
}

func stateError(op, format string, args ...any) error {
	return &Error{Op: op, Class: ErrState, Err: fmt.Errorf(format, args...)}
}

func validationError(op, format string, args ...any) error {
	return &Error{Op: op, Class: ErrValidation, Err: fmt.Errorf(format, args...)}
}

func cacheError(op, path string, err error) error {
	return &Error{Op: op, Path: path, Class: ErrCache, Err: err}
}

func ioError(op, path string, err error) error {
	return &Error{Op: op, Path: path, Class: ErrIO, Err: err}
}
