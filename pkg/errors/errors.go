package errors

import (
	"errors"
	"fmt"
	"io"

	pkgerrors "github.com/pkg/errors"
)

// Standard error types
var (
	ErrAuthentication = errors.New("authentication error")
	ErrConfiguration  = errors.New("configuration error")
	ErrHTTPRequest    = errors.New("HTTP request error")
	ErrHTTPResponse   = errors.New("HTTP response error")
	ErrGraphQL        = errors.New("GraphQL error")
	ErrDecode         = errors.New("response decoding error")
	ErrPagination     = errors.New("pagination error")
	ErrExport         = errors.New("export error")
)

// Error pairs one of the standard error types with the underlying cause.
// The cause carries the stack of the call site that wrapped it.
type Error struct {
	Kind  error
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: %v", e.Kind, e.cause)
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	return []error{e.Kind, e.cause}
}

// Format prints the stack trace of the cause with %+v.
func (e *Error) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			fmt.Fprintf(s, "%v: %+v", e.Kind, e.cause)
			return
		}
		fallthrough
	case 's':
		io.WriteString(s, e.Error())
	case 'q':
		fmt.Fprintf(s, "%q", e.Error())
	}
}

// WrapError wraps an error with a standard error type
func WrapError(err error, errType error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: errType, cause: pkgerrors.Wrap(err, message)}
}

// Newf builds a new error of the given type.
func Newf(errType error, format string, args ...interface{}) error {
	return &Error{Kind: errType, cause: pkgerrors.Errorf(format, args...)}
}

// WithMessage annotates err with message and keeps its error type.
func WithMessage(err error, message string) error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		return &Error{Kind: e.Kind, cause: pkgerrors.WithMessage(e.cause, message)}
	}
	return pkgerrors.WithMessage(err, message)
}

// Is provides a convenience wrapper around errors.Is
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As provides a convenience wrapper around errors.As
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Unwrap provides a convenience wrapper around errors.Unwrap
func Unwrap(err error) error {
	return errors.Unwrap(err)
}
