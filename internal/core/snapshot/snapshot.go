// Package snapshot provides the persistence contract for serialized graphs
// following Clean Architecture principles with zero external dependencies.
package snapshot

import (
	"time"

	"github.com/nodeflow/nodeflow/internal/core/graph"
)

// Info describes a stored graph snapshot without loading its payload.
type Info struct {
	GraphID   string              `json:"graph_id"`
	Name      string              `json:"name"`
	Category  graph.GraphCategory `json:"category"`
	Size      int64               `json:"size"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// Filter for snapshot listing queries
type Filter struct {
	Category graph.GraphCategory `json:"category,omitempty"`
	Limit    int                 `json:"limit,omitempty"`
	Offset   int                 `json:"offset,omitempty"`
	Since    *time.Time          `json:"since,omitempty"`
	Before   *time.Time          `json:"before,omitempty"`
}

// Validate ensures filter parameters are valid
func (f *Filter) Validate() error {
	if f.Limit < 0 {
		return ErrInvalidLimit
	}
	if f.Offset < 0 {
		return ErrInvalidOffset
	}
	if f.Since != nil && f.Before != nil && f.Since.After(*f.Before) {
		return ErrInvalidTimeRange
	}
	return nil
}
