// Package apperror defines the application's error taxonomy.
//
// Services return these typed errors; the HTTP layer maps each kind to a
// fixed status code. Keeping the mapping out of the service layer means the
// services never import net/http.
package apperror

import (
	"errors"
	"fmt"
)

// Sentinel errors. Use errors.Is to classify a wrapped error chain.
var (
	ErrValidation      = errors.New("validation failed")   // 400
	ErrUnauthenticated = errors.New("unauthenticated")     // 401
	ErrForbidden       = errors.New("forbidden")           // 403
	ErrNotFound        = errors.New("not found")           // 404
	ErrConflict        = errors.New("conflict")            // 409
	ErrUnavailable     = errors.New("service unavailable") // 503
)

// AppError pairs a sentinel with a human-readable message that is safe to
// return to the caller.
type AppError struct {
	Err     error  // sentinel, matched via errors.Is
	Message string // safe for the response body
	Field   string // optional: the input field at fault
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
	}
}

// Unauthenticated returns an AppError for requests without a verified
// identity. HTTP handlers map this to 401.
func Unauthenticated(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthenticated,
		Message: message,
	}
}

// Forbidden returns an AppError indicating the caller lacks permission.
// HTTP handlers map this to 403.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// Unavailable returns an AppError for store or dependency failures that the
// caller may retry later. HTTP handlers map this to 503.
func Unavailable(message string) *AppError {
	return &AppError{
		Err:     ErrUnavailable,
		Message: message,
	}
}
