package errors

import (
	"net/http"
	"sort"
	"strings"
)

// ValidationError carries field-level form errors. Form endpoints render it
// with status 200 and the per-field messages inline, the way a server-side
// form round-trip reports problems back to the submitting page.
type ValidationError struct {
	fields map[string]string
}

// NewValidationError creates a ValidationError from a field -> message map.
func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{fields: fields}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.fields))
	for field, msg := range e.fields {
		parts = append(parts, field+": "+msg)
	}
	sort.Strings(parts)

	return "validation failed: " + strings.Join(parts, "; ")
}

// HTTPCode returns the HTTP status code.
func (e *ValidationError) HTTPCode() int {
	return http.StatusBadRequest
}

// ErrorCode returns the business error code.
func (e *ValidationError) ErrorCode() string {
	return "VALIDATION_FAILED"
}

// Message returns the user-friendly error message.
func (e *ValidationError) Message() string {
	return "Input validation failed"
}

// Details returns detailed error information.
func (e *ValidationError) Details() string {
	return e.Error()
}

// Fields returns the field -> message map.
func (e *ValidationError) Fields() map[string]string {
	return e.fields
}
