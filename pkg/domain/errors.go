package domain

import (
	"errors"
	"fmt"
)

// ErrEmptySelection is returned when no sample satisfies a mover's replica
// and ensemble constraints.
var ErrEmptySelection = errors.New("no legal sample to select")

// ErrInvalidConfiguration is returned when a mover is built from malformed input.
var ErrInvalidConfiguration = errors.New("invalid mover configuration")

// ErrIncompleteMove is returned by movers and factories that are declared but
// not implemented.
var ErrIncompleteMove = errors.New("move is not implemented")

// ErrRunNotFound is returned when a run ID cannot be found in the step store.
var ErrRunNotFound = errors.New("run not found")

// InvalidConfigurationError reports which mover rejected its configuration.
type InvalidConfigurationError struct {
	Mover  string
	Reason string
}

func (e *InvalidConfigurationError) Error() string {
	if e.Mover == "" {
		return fmt.Sprintf("%s: %s", ErrInvalidConfiguration, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrInvalidConfiguration, e.Mover, e.Reason)
}

// Unwrap makes errors.Is(err, ErrInvalidConfiguration) hold.
func (e *InvalidConfigurationError) Unwrap() error {
	return ErrInvalidConfiguration
}

// InvalidConfiguration builds an InvalidConfigurationError.
func InvalidConfiguration(mover, format string, args ...any) error {
	return &InvalidConfigurationError{Mover: mover, Reason: fmt.Sprintf(format, args...)}
}
