// Package apperr defines the error kinds repository operations report.
// Handlers translate these to HTTP status codes; nothing below the
// handler layer knows about HTTP.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
)

// Error pairs a user-facing message with one of the sentinel kinds so
// callers can match with errors.Is while the message stays clean.
type Error struct {
	kind error
	msg  string
}

func (e *Error) Error() string { return e.msg }
func (e *Error) Unwrap() error { return e.kind }

func NotFound(format string, args ...any) error {
	return &Error{kind: ErrNotFound, msg: fmt.Sprintf(format, args...)}
}

func BadRequest(format string, args ...any) error {
	return &Error{kind: ErrBadRequest, msg: fmt.Sprintf(format, args...)}
}

// Unauthorized deliberately carries a fixed message. Authentication
// failures must be indistinguishable between "no such user" and
// "wrong password".
func Unauthorized() error {
	return &Error{kind: ErrUnauthorized, msg: "invalid username/password"}
}

func IsNotFound(err error) bool     { return errors.Is(err, ErrNotFound) }
func IsBadRequest(err error) bool   { return errors.Is(err, ErrBadRequest) }
func IsUnauthorized(err error) bool { return errors.Is(err, ErrUnauthorized) }
