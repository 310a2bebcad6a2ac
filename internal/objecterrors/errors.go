// Package objecterrors defines the error taxonomy shared by the catalog,
// blob filesystem, and orchestration layers of the object store.
package objecterrors

import (
	"errors"
	"fmt"
)

// Code classifies an error the way callers of the public API need to see it.
type Code int

const (
	// NotFound means the named bucket, object, or part does not exist.
	NotFound Code = iota + 1

	// Busy means a conflicting long-running operation already holds the
	// task slot (at most one archive and at most one check may run at once).
	Busy

	// InvalidInput means a type or size constraint was violated by the caller.
	InvalidInput

	// Internal covers database, filesystem, configuration, and external
	// tool failures. It always carries a human-readable diagnostic.
	Internal
)

func (c Code) String() string {
	switch c {
	case NotFound:
		return "NotFound"
	case Busy:
		return "Busy"
	case InvalidInput:
		return "InvalidInput"
	case Internal:
		return "Internal"
	default:
		return fmt.Sprintf("Unknown(%d)", int(c))
	}
}

// Error is the concrete error type returned across the object store's
// public surface.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NotFoundf builds a NotFound error.
func NotFoundf(format string, args ...any) error {
	return &Error{Code: NotFound, Message: fmt.Sprintf(format, args...)}
}

// Busyf builds a Busy error.
func Busyf(format string, args ...any) error {
	return &Error{Code: Busy, Message: fmt.Sprintf(format, args...)}
}

// InvalidInputf builds an InvalidInput error.
func InvalidInputf(format string, args ...any) error {
	return &Error{Code: InvalidInput, Message: fmt.Sprintf(format, args...)}
}

// Internalf builds an Internal error.
func Internalf(format string, args ...any) error {
	return &Error{Code: Internal, Message: fmt.Sprintf(format, args...)}
}

// Is reports whether err carries the given code, unwrapping as needed.
func Is(err error, code Code) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Code == code
}

// IsNotFound reports whether err is a NotFound error.
func IsNotFound(err error) bool { return Is(err, NotFound) }

// IsBusy reports whether err is a Busy error.
func IsBusy(err error) bool { return Is(err, Busy) }
