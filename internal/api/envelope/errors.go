package envelope

import "strings"

// ValidationError is returned by handlers for rejected input. It renders as
// a 400 with the individual field errors attached.
type ValidationError struct {
	Message string
	Fields  []FieldError
}

// NewValidationError creates a validation error with optional field details.
func NewValidationError(message string, fields ...FieldError) *ValidationError {
	return &ValidationError{Message: message, Fields: fields}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return e.Message + " (" + strings.Join(parts, "; ") + ")"
}
