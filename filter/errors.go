package filter

import (
	"errors"
	"fmt"
)

// ErrUnknownFilter is returned when a named filter is not registered
var ErrUnknownFilter = errors.New("unknown filter")

// Error types for filter operations
type (
	// CompilationError indicates a filter expression could not be compiled
	CompilationError struct {
		Expression string
		Reason     string
		Err        error
	}

	// EvaluationError indicates a filter failed at runtime for one item
	EvaluationError struct {
		Expression string
		ItemID     int
		Err        error
	}
)

func (e *CompilationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("compilation error in '%s': %s: %v", e.Expression, e.Reason, e.Err)
	}
	return fmt.Sprintf("compilation error in '%s': %s", e.Expression, e.Reason)
}

func (e *CompilationError) Unwrap() error {
	return e.Err
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("evaluation error for '%s' on item %d: %v", e.Expression, e.ItemID, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}
