// Package domainerrors carries failure categories across layers. The backend
// maps codes to HTTP statuses at the edge and the dispatcher client maps the
// statuses back, so both sides branch on the same codes.
package domainerrors

import (
	"errors"
	"fmt"
	"slices"
)

// Code names what went wrong in business terms.
type Code string

const (
	CodeNotFound           Code = "not_found"
	CodeBadRequest         Code = "bad_request"
	CodeInvalidInput       Code = "invalid_input"
	CodeValidation         Code = "validation_failed"
	CodeInternal           Code = "internal_error"
	CodeConflict           Code = "conflict"
	CodeUnauthorized       Code = "unauthorized"
	CodeForbidden          Code = "forbidden"
	CodeTimeout            Code = "timeout"
	CodeUnavailable        Code = "unavailable"
	CodeInvariantViolation Code = "invariant_violation"
	CodeRateLimited        Code = "rate_limited"
)

// Error is a coded failure. Message is safe to show to a dispatcher; Err
// keeps the underlying cause for logs.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same code, so errors.Is(err, New(code, ""))
// works as a code check.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e.Code == t.Code
}

func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Newf is New with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches code and msg to err. A code already present in err's chain
// wins over code.
func Wrap(err error, code Code, msg string) error {
	var inner *Error
	if errors.As(err, &inner) {
		code = inner.Code
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// WrapAs attaches code and msg to err, replacing any code in err's chain.
func WrapAs(err error, code Code, msg string) error {
	return &Error{Code: code, Message: msg, Err: err}
}

// CodeOf returns the code in err's chain. Uncoded errors are CodeInternal and
// nil has no code.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var e *Error
	if !errors.As(err, &e) {
		return CodeInternal
	}
	return e.Code
}

// HasCode reports whether err carries code. Uncoded errors match nothing.
func HasCode(err error, code Code) bool {
	return HasAnyCode(err, code)
}

// HasAnyCode reports whether err carries one of codes.
func HasAnyCode(err error, codes ...Code) bool {
	var e *Error
	return errors.As(err, &e) && slices.Contains(codes, e.Code)
}
