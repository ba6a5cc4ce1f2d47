package service

import "errors"

// Error kinds. Handlers map each kind to an HTTP status.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrUpstream     = errors.New("upstream failure")
)

// Error is a domain failure with a message safe to show to clients.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func notFound(message string) error     { return newError(ErrNotFound, message) }
func unauthorized(message string) error { return newError(ErrUnauthorized, message) }
func forbidden(message string) error    { return newError(ErrForbidden, message) }
func invalid(message string) error      { return newError(ErrValidation, message) }
func conflict(message string) error     { return newError(ErrConflict, message) }
