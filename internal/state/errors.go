package state

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks a command rejected at the boundary for bad input.
	ErrValidation = errors.New("validation failed")
	// ErrLayerLocked marks a mutation aimed at a locked layer.
	ErrLayerLocked = errors.New("layer is locked")
	// ErrLastLayer marks an attempt to delete the only layer.
	ErrLastLayer = errors.New("cannot delete the last layer")
	// ErrNotFound marks an unknown layer or primitive id.
	ErrNotFound = errors.New("not found")
	// ErrCorrupt marks a persisted board that could not be adopted.
	ErrCorrupt = errors.New("corrupt board")
)

// ValidationError describes which input was refused and why.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Invalid builds a ValidationError.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// LoadError is returned by Decode when a blob cannot become a Board.
type LoadError struct {
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("load board: %s: %v", e.Reason, e.Err)
	}
	return "load board: " + e.Reason
}

func (e *LoadError) Unwrap() error { return e.Err }

func (e *LoadError) Is(target error) bool { return target == ErrCorrupt }
