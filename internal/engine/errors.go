package engine

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is the base error for malformed caller input.
var ErrInvalidInput = errors.New("invalid input")

// ErrInsufficientData signals the history is too short for the requested
// strategy or for classifier training.
var ErrInsufficientData = errors.New("insufficient data")

// ValidationError carries the specific reason an input was rejected, with the
// minimum required count where one applies.
type ValidationError struct {
	Reason   string
	Required int
	Got      int
}

func (e *ValidationError) Error() string {
	if e.Required > 0 {
		return fmt.Sprintf("%s: need %d, got %d", e.Reason, e.Required, e.Got)
	}
	return e.Reason
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

func insufficientData(reason string, required, got int) error {
	return fmt.Errorf("%s: need %d, got %d: %w", reason, required, got, ErrInsufficientData)
}
