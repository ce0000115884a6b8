package dto

import "errors"

// Execution errors
var (
	ErrMissingGraphID   = errors.New("graph ID is required")
	ErrInvalidConfig    = errors.New("invalid execution configuration")
	ErrExecutionFailed  = errors.New("graph execution failed")
	ErrExecutionTimeout = errors.New("graph execution timeout")
	ErrStepFailed       = errors.New("step execution failed")
)
