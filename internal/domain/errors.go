package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks at the API boundary.
var (
	// ErrInvalidInput marks caller-correctable configuration errors.
	ErrInvalidInput = errors.New("invalid input")

	// ErrBeneficiaryNotFound is returned when a referenced beneficiary doesn't exist.
	ErrBeneficiaryNotFound = errors.New("beneficiary not found")
)

// ValidationError identifies the offending field of a caller-correctable
// input error. The engine reports these per-field instead of silently
// clamping or defaulting.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// Invalid builds a ValidationError for a field.
func Invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether the error chain contains a caller-correctable
// input error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
