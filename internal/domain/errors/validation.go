package errors

import (
	"maps"
	"net/http"
	"slices"
	"strings"
)

// ValidationError carries one message per rejected form field.
type ValidationError struct {
	message string
	fields  map[string]string
}

func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{message: ErrValidationFailed.Message(), fields: fields}
}

// WithMessage replaces the generic summary, e.g. for login failures.
func (e *ValidationError) WithMessage(message string) *ValidationError {
	return &ValidationError{message: message, fields: e.fields}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.fields))
	for _, field := range slices.Sorted(maps.Keys(e.fields)) {
		parts = append(parts, field+": "+e.fields[field])
	}

	return e.message + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) HTTPCode() int     { return http.StatusBadRequest }
func (e *ValidationError) ErrorCode() string { return ErrValidationFailed.ErrorCode() }
func (e *ValidationError) Message() string   { return e.message }

// Fields maps each rejected field to its message.
func (e *ValidationError) Fields() map[string]string {
	return e.fields
}

// Is matches ErrValidationFailed.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}
