// Package errors provides standardized error types for preprocessing
// operations. A PipelineError carries the failing stage and, when relevant,
// the column involved, so a single descriptive failure surfaces to the
// caller with its full context. There is no retry and no partial result:
// any failure aborts the run.
package errors

import (
	"fmt"
)

// PipelineError represents standardized errors across all pipeline stages
type PipelineError struct {
	Stage   string // Stage name (e.g., "Fit", "Transform", "Resample")
	Column  string // Column name if applicable
	Message string // Human-readable error description
	Cause   error  // Underlying error cause
}

// Error implements the error interface
func (e *PipelineError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s failed on column '%s': %s", e.Stage, e.Column, e.Message)
	}
	return fmt.Sprintf("%s failed: %s", e.Stage, e.Message)
}

// Unwrap returns the underlying cause for error wrapping support
func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// Is implements error equality checking for errors.Is()
func (e *PipelineError) Is(target error) bool {
	if pe, ok := target.(*PipelineError); ok {
		return e.Stage == pe.Stage && e.Column == pe.Column && e.Message == pe.Message
	}
	return false
}

// Constructors covering the pipeline failure taxonomy.

// NewIOError creates an error for input file read/write failures
func NewIOError(stage, path string, cause error) *PipelineError {
	return &PipelineError{
		Stage:   stage,
		Message: fmt.Sprintf("reading or writing %s", path),
		Cause:   cause,
	}
}

// NewColumnNotFoundError creates an error for operations on non-existent columns
func NewColumnNotFoundError(stage, column string) *PipelineError {
	return &PipelineError{
		Stage:   stage,
		Column:  column,
		Message: "column does not exist",
	}
}

// NewUnseenValueError creates an error for categorical values absent from the
// mapping learned at fit time
func NewUnseenValueError(stage, column, value string) *PipelineError {
	return &PipelineError{
		Stage:   stage,
		Column:  column,
		Message: fmt.Sprintf("value %q was not seen at fit time", value),
	}
}

// NewNotFittedError creates an error for transforms invoked before fitting
func NewNotFittedError(stage string) *PipelineError {
	return &PipelineError{
		Stage:   stage,
		Message: "transformer has not been fitted",
	}
}

// NewDegenerateStatError creates an error for statistics that cannot be
// computed from the fit data (e.g. a median over zero observed values)
func NewDegenerateStatError(stage, column, message string) *PipelineError {
	return &PipelineError{
		Stage:   stage,
		Column:  column,
		Message: message,
	}
}

// NewResampleError creates an error for class-rebalancing failures
func NewResampleError(stage, message string) *PipelineError {
	return &PipelineError{
		Stage:   stage,
		Message: message,
	}
}

// NewInvalidInputError creates an error for invalid stage inputs
func NewInvalidInputError(stage, message string) *PipelineError {
	return &PipelineError{
		Stage:   stage,
		Message: message,
	}
}

// Wrap attaches stage context to an arbitrary failure before propagation
func Wrap(stage string, cause error) *PipelineError {
	return &PipelineError{
		Stage:   stage,
		Message: cause.Error(),
		Cause:   cause,
	}
}
