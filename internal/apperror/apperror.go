// Package apperror defines the domain errors shared by every layer.
//
// The service layer returns these; the handler layer maps them to HTTP status
// codes (see handler/response.go) and the CLI maps them to messages.
package apperror

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("Validation Error")
	ErrGateway    = errors.New("gateway failure")
)

type AppError struct {
	Err     error  // actual error
	Message string // Human-readable error message
	Field   string // Optional: field causing the error

	// Fields holds every field -> message pair when a whole form was
	// validated at once. Empty for single-field errors.
	Fields map[string]string

	// Cause is the underlying failure for gateway errors. It is kept out of
	// Message so internals never reach a client.
	Cause error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the caller may retry the operation as-is.
// Only gateway failures are retryable; the core logic itself never retries.
func (e *AppError) Retryable() bool {
	return errors.Is(e.Err, ErrGateway)
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

// ValidationErrors builds a single error out of a field -> message map.
// The message lists the fields in sorted order so it is stable in logs.
func ValidationErrors(fields map[string]string) *AppError {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, fields[name]))
	}

	return &AppError{
		Err:     ErrValidation,
		Message: "validation failed: " + strings.Join(parts, "; "),
		Fields:  fields,
	}
}

// Gateway wraps a failure of the remote collection.
// HTTP handlers map this to 503 and flag the response as retryable.
func Gateway(op string, cause error) *AppError {
	return &AppError{
		Err:     ErrGateway,
		Message: fmt.Sprintf("%s failed, please try again", op),
		Cause:   cause,
	}
}
