package usecases

import (
	"context"

	"github.com/nodeflow/nodeflow/internal/app/dto"
	"github.com/nodeflow/nodeflow/internal/core/graph"
)

// GraphRepository defines the interface for graph storage and retrieval
// PRINCIPLES:
// - SRP: Only responsible for graph persistence
// - DIP: Used for dependency injection
type GraphRepository interface {
	Save(ctx context.Context, g *graph.Graph) error
	Get(ctx context.Context, id string) (*graph.Graph, error)
	List(ctx context.Context) ([]*graph.Graph, error)
	Delete(ctx context.Context, id string) error
}

// NodeEvaluator supplies the evaluation hook for node types. The node-type
// registry implements it; engines only require this one method.
type NodeEvaluator interface {
	// Evaluate runs one node step. The node reads its input pin values and
	// writes its output pin values. The returned names select which of the
	// node's flow-output pins fired; nil selects all of them. Data-flow
	// execution ignores the selection.
	Evaluate(ctx context.Context, node *graph.Node) ([]string, error)
}

// Engine executes a whole graph under one discipline
// PRINCIPLES:
// - OCP: Open for extension with different execution strategies
// - DIP: Callers dispatch by graph category, not concrete type
type Engine interface {
	Execute(ctx context.Context, g *graph.Graph) (*dto.ExecutionResponse, error)
}
