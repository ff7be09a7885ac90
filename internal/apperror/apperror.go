// Package apperror defines the error taxonomy shared by all layers.
//
// Services return these typed errors; only the HTTP layer translates them
// into status codes (see internal/handler/response.go). Nothing in this
// package knows about HTTP.
package apperror

import (
	"errors"
	"fmt"
)

// Sentinel errors — one per taxonomy kind. Match with errors.Is.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrInternal     = errors.New("internal error")
)

// AppError pairs a sentinel kind with a human-readable message.
type AppError struct {
	Err     error  // sentinel (possibly wrapping a cause)
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound reports a missing resource, e.g. NotFound("member not found").
func NotFound(message string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: message,
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Conflict reports a uniqueness violation, e.g. a duplicate email.
func Conflict(message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
	}
}

// Unauthorized reports a failed authentication attempt (bad credentials,
// missing or invalid token). HTTP handlers map this to 401.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}

// Forbidden returns an AppError indicating the caller lacks permission.
// HTTP handlers map this to 403 Forbidden.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// Internal wraps an unexpected failure (broken seed data, store errors).
// The cause stays on the error chain for logging; handlers redact the
// message and answer 500.
func Internal(cause error, message string) *AppError {
	err := ErrInternal
	if cause != nil {
		err = fmt.Errorf("%w: %w", ErrInternal, cause)
	}
	return &AppError{
		Err:     err,
		Message: message,
	}
}
