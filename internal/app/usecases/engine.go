package usecases

import (
	"fmt"

	"github.com/nodeflow/nodeflow/internal/core/graph"
)

// EngineFor returns the scheduler matching a graph category. The two
// disciplines share the Engine capability but nothing else; dispatch is
// by category tag rather than inheritance.
func EngineFor(category graph.GraphCategory, evaluator NodeEvaluator) (Engine, error) {
	switch category {
	case graph.CategoryControlFlow:
		return NewControlFlowEngine(evaluator), nil
	case graph.CategoryDataFlow:
		return NewDataFlowEngine(evaluator), nil
	default:
		return nil, fmt.Errorf("%w: %q", graph.ErrInvalidCategory, category)
	}
}
