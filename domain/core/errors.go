package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Input errors
	ErrInsufficientData = errors.New("insufficient data: empty score batch")
	ErrInvalidRecord    = errors.New("invalid score record")

	// Configuration errors
	ErrInvalidThreshold = errors.New("invalid significance threshold")

	// Lookup errors
	ErrRunNotFound = errors.New("screening run not found")
)

// Error constructors with context

func NewInvalidRecordError(identifier string, reason string) error {
	return fmt.Errorf("%w %q: %s", ErrInvalidRecord, identifier, reason)
}

func NewInvalidThresholdError(value float64) error {
	return fmt.Errorf("%w: %v is not a finite number", ErrInvalidThreshold, value)
}

// Error checking helpers

func IsDataError(err error) bool {
	return errors.Is(err, ErrInsufficientData) || errors.Is(err, ErrInvalidRecord)
}

func IsConfigError(err error) bool {
	return errors.Is(err, ErrInvalidThreshold)
}
