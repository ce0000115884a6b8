package graphrepo

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/nodeflow/nodeflow/internal/core/graph"
	"github.com/nodeflow/nodeflow/pkg/validation"
)

// InMemoryGraphRepository provides an in-memory implementation of a graph repository
// PRINCIPLES:
// - KISS: Simple map-based storage
// - SRP: Only responsible for graph persistence
// - Thread-safe

type InMemoryGraphRepository struct {
	mu     sync.RWMutex
	graphs map[string]*graph.Graph
}

func NewInMemoryGraphRepository() *InMemoryGraphRepository {
	return &InMemoryGraphRepository{
		graphs: make(map[string]*graph.Graph),
	}
}

func (r *InMemoryGraphRepository) Save(ctx context.Context, g *graph.Graph) error {
	// Validate graph structure before saving (no cycle check by default)
	if err := validation.ValidateGraph(g); err != nil {
		return fmt.Errorf("invalid graph: %w", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.graphs[g.ID] = g
	return nil
}

func (r *InMemoryGraphRepository) Get(ctx context.Context, id string) (*graph.Graph, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.graphs[id]
	if !ok {
		return nil, graph.ErrGraphNotFound
	}
	return g, nil
}

func (r *InMemoryGraphRepository) List(ctx context.Context) ([]*graph.Graph, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*graph.Graph, 0, len(r.graphs))
	for _, g := range r.graphs {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *InMemoryGraphRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.graphs[id]; !ok {
		return graph.ErrGraphNotFound
	}
	delete(r.graphs, id)
	return nil
}
