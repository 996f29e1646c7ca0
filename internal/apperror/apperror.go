// Package apperror defines the domain error taxonomy shared by the service
// and handler layers. Handlers translate these to HTTP status codes; the
// service layer never imports net/http.
package apperror

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks caller faults: missing or unsupported parameters.
	ErrValidation = errors.New("validation error")
	// ErrExecution marks environment faults raised while trying to run a
	// snippet: command not found, workspace I/O failure, launch failure.
	// Distinct from a non-zero exit code, which is a normal result.
	ErrExecution = errors.New("execution error")
	// ErrNotFound marks lookups of records that do not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized marks requests without valid credentials.
	ErrUnauthorized = errors.New("unauthorized")
)

// AppError carries a sentinel for errors.Is matching plus a human-readable
// message safe to show to callers.
type AppError struct {
	Err     error  // sentinel (ErrValidation, ErrExecution, ...)
	Message string // human-readable error message
	Field   string // optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// ValidationFailed reports a caller fault on a specific request field.
func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// ExecutionFailed reports an execution-phase fault. The wrapped cause stays
// available via errors.Is/As; Message is what callers see.
func ExecutionFailed(message string) *AppError {
	return &AppError{
		Err:     ErrExecution,
		Message: message,
	}
}

// NotFound reports a missing record.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

// Unauthorized reports missing or invalid credentials.
// HTTP handlers map this to 401 Unauthorized.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}
