package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Input errors
	ErrInputMissing  = errors.New("required input file missing")
	ErrFaceMissing   = fmt.Errorf("%w: audit face series", ErrInputMissing)
	ErrShortSequence = errors.New("audit sequence needs at least two rows")
	ErrColumnMissing = errors.New("required column missing from header")
	ErrEmptyChannel  = errors.New("channel contains no numeric samples")

	// Calibration errors
	ErrBadCalibration = errors.New("calibration scale b must be positive")

	// Certificate errors
	ErrLengthMismatch = errors.New("face series lengths differ")
	ErrBadAlpha       = errors.New("significance level must be in (0,1)")
)

// Error constructors with context
func NewInputMissingError(path string) error {
	return fmt.Errorf("%w: %s", ErrInputMissing, path)
}

func NewColumnMissingError(column string) error {
	return fmt.Errorf("%w: %s", ErrColumnMissing, column)
}

// Error checking helpers
func IsInputMissingError(err error) bool {
	return errors.Is(err, ErrInputMissing)
}

func IsSequenceError(err error) bool {
	return errors.Is(err, ErrShortSequence) ||
		errors.Is(err, ErrLengthMismatch)
}
