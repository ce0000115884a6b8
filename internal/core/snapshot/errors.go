// Package snapshot defines domain-specific errors
package snapshot

import "errors"

// Domain errors - DRY principle: defined once, used everywhere
var (
	ErrInvalidGraphID   = errors.New("invalid graph ID")
	ErrNilGraph         = errors.New("graph cannot be nil")
	ErrSnapshotNotFound = errors.New("snapshot not found")

	// Filter validation errors
	ErrInvalidLimit     = errors.New("limit cannot be negative")
	ErrInvalidOffset    = errors.New("offset cannot be negative")
	ErrInvalidTimeRange = errors.New("invalid time range: since is after before")
)
