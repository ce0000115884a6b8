// Package snapshot provides snapshot persistence interfaces
package snapshot

import (
	"context"

	"github.com/nodeflow/nodeflow/internal/core/graph"
)

// Store interface for graph snapshot persistence (DIP - Dependency Inversion)
// PRINCIPLES:
// - ISP: Interface segregation with ≤5 methods
// - DIP: Callers depend on this interface, not on a concrete backend
// - SRP: Single responsibility - snapshot persistence
type Store interface {
	// Save persists a graph snapshot keyed by the graph ID
	Save(ctx context.Context, g *graph.Graph) error

	// Load retrieves a graph by ID and relinks its in-memory references
	Load(ctx context.Context, graphID string) (*graph.Graph, error)

	// List returns snapshot metadata matching the filter
	List(ctx context.Context, filter Filter) ([]Info, error)

	// Delete removes a snapshot by graph ID
	Delete(ctx context.Context, graphID string) error
}
