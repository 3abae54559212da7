package endpoint

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel kinds for endpoint construction and lookup errors.
var (
	ErrUnknownMethod   = errors.New("unknown HTTP method")
	ErrNilHandler      = errors.New("nil handler")
	ErrDuplicateMethod = errors.New("handler already registered")
	ErrInvalidPageSize = errors.New("invalid page size")

	// ErrNotFound marks a missing resource. Storage layers wrap it so
	// collection endpoints can translate lookups to 404 responses.
	ErrNotFound = errors.New("resource not found")
)

// Error is an application error carrying the HTTP status and message the
// client should see. It is the only error kind the dispatcher handles
// itself; everything else propagates.
type Error struct {
	Status  int
	Message string

	// Details is merged into the JSON error body next to "error".
	Details map[string]any
}

// NewError creates a domain error with the given status and message.
func NewError(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

// NewErrorf creates a domain error with a formatted message.
func NewErrorf(status int, format string, args ...any) *Error {
	return &Error{Status: status, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return fmt.Sprintf("http %d: %s", e.Status, e.Message)
}

// WithDetail attaches an extra key to the JSON error body.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithDetails attaches extra keys to the JSON error body.
func (e *Error) WithDetails(details map[string]any) *Error {
	for k, v := range details {
		e.WithDetail(k, v)
	}
	return e
}

// response renders the error as {"error": message} plus any details.
// Detail keys are merged after the message and may override it.
func (e *Error) response() *Response {
	body := map[string]any{"error": e.Message}
	for k, v := range e.Details {
		body[k] = v
	}
	return NewResponse(e.Status, body)
}

// Shorthand constructors for the common client error statuses.

// BadRequest creates a 400 error.
func BadRequest(message string) *Error {
	return NewError(http.StatusBadRequest, message)
}

// BadRequestf creates a 400 error with a formatted message.
func BadRequestf(format string, args ...any) *Error {
	return NewErrorf(http.StatusBadRequest, format, args...)
}

// Forbidden creates a 403 error.
func Forbidden(message string) *Error {
	return NewError(http.StatusForbidden, message)
}

// NotFound creates a 404 error.
func NotFound(message string) *Error {
	return NewError(http.StatusNotFound, message)
}

// Conflict creates a 409 error.
func Conflict(message string) *Error {
	return NewError(http.StatusConflict, message)
}

// Conflictf creates a 409 error with a formatted message.
func Conflictf(format string, args ...any) *Error {
	return NewErrorf(http.StatusConflict, format, args...)
}

// Internal creates a 500 error whose message is still shown to clients;
// for failures that should stay opaque, return the underlying error
// instead and let the dispatcher surface a generic 500.
func Internal(message string) *Error {
	return NewError(http.StatusInternalServerError, message)
}
