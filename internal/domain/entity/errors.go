// Package entity defines the value types that flow through one aggregation run:
// entries as parsed from source feeds, the enriched records built from them,
// and the output feed handed to the writer.
package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput indicates a value failed structural checks.
	ErrInvalidInput = errors.New("invalid input")

	// ErrValidationFailed wraps one or more field-level validation errors.
	ErrValidationFailed = errors.New("validation failed")
)

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}
