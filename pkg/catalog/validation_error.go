package catalog

import (
	"encoding/json"
	"fmt"
)

// ValidationError is returned when a table definition, record or request
// payload is malformed. Errors maps the offending field to its messages.
type ValidationError struct {
	Errors map[string][]string `json:"errors"`
}

func (e *ValidationError) Error() string {
	jsonString, _ := json.Marshal(e.Errors)

	return fmt.Sprintf("validation error: %s", string(jsonString))
}

func NewValidationError(errors map[string][]string) *ValidationError {
	return &ValidationError{
		errors,
	}
}

// Create a validation error for a single field.
func NewFieldValidationError(field, message string) *ValidationError {
	return NewValidationError(map[string][]string{field: {message}})
}
