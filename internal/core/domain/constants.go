package domain

import (
	"errors"
	"fmt"
)

var (
	ErrProcessingFailure = errors.New("processing failed")
	ErrInvalidSize       = errors.New("invalid size")
	ErrEmptyPath         = errors.New("empty path")
	ErrEmptyImage        = errors.New("empty image")
	ErrUnknownEngine     = errors.New("unknown resize engine")
)

// ProcessingError wraps any failure of a resize job together with the stage it happened in.
type ProcessingError struct {
	Stage Stage
	Path  string
	Err   error
}

func NewProcessingError(stage Stage, path string, err error) *ProcessingError {
	return &ProcessingError{Stage: stage, Path: path, Err: err}
}

func (e *ProcessingError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Stage, e.Err)
	}

	return fmt.Sprintf("%s %q: %v", e.Stage, e.Path, e.Err)
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}

func (e *ProcessingError) Is(target error) bool {
	return target == ErrProcessingFailure
}
