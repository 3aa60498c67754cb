// Package apperror defines the error taxonomy shared by the ledger, services
// and handlers. Handlers map a Kind to an HTTP status; everything below them
// only decides which Kind an error is.
package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the caller.
type Kind int

const (
	Internal Kind = iota
	InvalidArgument
	NotFound
	Unauthorized
	Conflict
	Unavailable
)

func (k Kind) String() string {
	switch k {
	case InvalidArgument:
		return "INVALID_ARGUMENT"
	case NotFound:
		return "NOT_FOUND"
	case Unauthorized:
		return "UNAUTHORIZED"
	case Conflict:
		return "CONFLICT"
	case Unavailable:
		return "UNAVAILABLE"
	default:
		return "INTERNAL_ERROR"
	}
}

// Error carries a Kind, a caller-safe message and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same Kind, so errors.Is(err, apperror.ErrNotFound) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Err == nil && t.Kind == e.Kind
}

// Sentinels for errors.Is comparisons.
var (
	ErrInvalidArgument = &Error{Kind: InvalidArgument}
	ErrNotFound        = &Error{Kind: NotFound}
	ErrUnauthorized    = &Error{Kind: Unauthorized}
	ErrConflict        = &Error{Kind: Conflict}
	ErrUnavailable     = &Error{Kind: Unavailable}
)

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

func Invalid(format string, args ...any) *Error {
	return New(InvalidArgument, format, args...)
}

func NotFoundf(format string, args ...any) *Error {
	return New(NotFound, format, args...)
}

func Forbidden(format string, args ...any) *Error {
	return New(Unauthorized, format, args...)
}

// KindOf returns the Kind of the first *Error in err's chain, or Internal.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return Internal
}

// MessageOf returns the caller-safe message, falling back to a generic one
// for errors outside the taxonomy.
func MessageOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	return "Internal server error"
}
