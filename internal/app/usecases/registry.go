package usecases

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/nodeflow/nodeflow/internal/core/graph"
)

// ErrNoEvaluator is returned when a node's type has no registered hook.
var ErrNoEvaluator = errors.New("no evaluator registered for node type")

// EvaluateFunc is the function form of a node evaluation hook.
type EvaluateFunc func(ctx context.Context, node *graph.Node) ([]string, error)

// EvaluatorRegistry maps node types to their evaluation hooks. It is the
// concrete form of the externally supplied node-type registry; hosts
// register one hook per constructible node type.
// PRINCIPLES:
// - KISS: A locked map, nothing more
// - OCP: New node types register without touching the engines
type EvaluatorRegistry struct {
	mu    sync.RWMutex
	hooks map[string]EvaluateFunc
}

// NewEvaluatorRegistry creates an empty registry.
func NewEvaluatorRegistry() *EvaluatorRegistry {
	return &EvaluatorRegistry{hooks: make(map[string]EvaluateFunc)}
}

// Register binds a node type to its evaluation hook, replacing any
// previous binding.
func (r *EvaluatorRegistry) Register(nodeType string, fn EvaluateFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks[nodeType] = fn
}

// Evaluate dispatches to the hook registered for the node's type.
func (r *EvaluatorRegistry) Evaluate(ctx context.Context, node *graph.Node) ([]string, error) {
	r.mu.RLock()
	fn, ok := r.hooks[node.Type]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoEvaluator, node.Type)
	}
	return fn(ctx, node)
}

// Types returns the registered node types.
func (r *EvaluatorRegistry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.hooks))
	for t := range r.hooks {
		out = append(out, t)
	}
	return out
}
