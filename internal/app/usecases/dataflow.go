package usecases

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/nodeflow/nodeflow/internal/app/dto"
	"github.com/nodeflow/nodeflow/internal/core/graph"
	"github.com/nodeflow/nodeflow/internal/infrastructure/metrics"
)

// DataFlowEngine evaluates a graph in data dependency order. A node is
// ready once every data-input pin is either unconnected (it keeps its
// default value) or fed by a connection whose source node has already
// produced output. Simultaneously ready nodes are evaluated in
// lexicographic node-ID order, which is one valid topological order and
// keeps runs deterministic. Each Execute call is a fresh pass; pin values
// are re-derived from current connections, never memoized across runs.
type DataFlowEngine struct {
	evaluator NodeEvaluator
}

// NewDataFlowEngine creates a data-flow scheduler using the given
// evaluation hooks.
func NewDataFlowEngine(evaluator NodeEvaluator) *DataFlowEngine {
	return &DataFlowEngine{evaluator: evaluator}
}

// Execute evaluates every reachable node and collects, for each sink
// node, the mapping from pin name to resolved value. A node evaluation
// fault aborts the whole pass since later nodes may depend on the faulted
// node's output. An empty ready set with unevaluated nodes remaining is
// reported as a cyclic dependency error.
func (e *DataFlowEngine) Execute(ctx context.Context, g *graph.Graph) (*dto.ExecutionResponse, error) {
	resp := newResponse(g)
	metrics.IncRuns(string(graph.CategoryDataFlow))
	metrics.IncDataPasses()

	main, err := confirmedMainNode(g)
	if err != nil {
		return finishResponse(resp, err), err
	}
	if !main.IsSink() {
		err := fmt.Errorf("node %s: %w", main.ID, graph.ErrInvalidSinkNode)
		return finishResponse(resp, err), err
	}

	evaluated := make(map[string]bool, len(g.Nodes))
	for len(evaluated) < len(g.Nodes) {
		if err := ctx.Err(); err != nil {
			resp.Outputs = collectSinkOutputs(g, evaluated)
			return finishResponse(resp, err), err
		}

		node := e.nextReady(g, evaluated)
		if node == nil {
			metrics.IncCycleErrors()
			err := fmt.Errorf("%w: unevaluated nodes %s",
				graph.ErrCyclicDependency, strings.Join(unevaluatedIDs(g, evaluated), ", "))
			resp.Outputs = collectSinkOutputs(g, evaluated)
			return finishResponse(resp, err), err
		}

		if err := e.evaluate(ctx, resp, node); err != nil {
			resp.Outputs = collectSinkOutputs(g, evaluated)
			return finishResponse(resp, err), err
		}
		evaluated[node.ID] = true

		// Push fresh outputs downstream before recomputing readiness.
		for _, pin := range node.DataOutputs() {
			for _, conn := range g.ConnectionsFrom(pin) {
				conn.Propagate()
			}
		}
	}

	resp.Outputs = collectSinkOutputs(g, evaluated)
	return finishResponse(resp, nil), nil
}

// nextReady returns the lexicographically first unevaluated ready node,
// or nil when none is ready.
func (e *DataFlowEngine) nextReady(g *graph.Graph, evaluated map[string]bool) *graph.Node {
	var ids []string
	for id := range g.Nodes {
		if !evaluated[id] {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	for _, id := range ids {
		if e.isReady(g, g.Nodes[id], evaluated) {
			return g.Nodes[id]
		}
	}
	return nil
}

// isReady reports whether every data-input pin of the node is satisfied.
func (e *DataFlowEngine) isReady(g *graph.Graph, node *graph.Node, evaluated map[string]bool) bool {
	for _, pin := range node.DataInputs() {
		conn := g.ConnectionTo(pin)
		if conn == nil {
			continue // unconnected inputs keep their default value
		}
		source := conn.SourcePin()
		if source == nil || source.Node() == nil {
			continue // unresolved endpoint cannot gate readiness
		}
		if !evaluated[source.Node().ID] {
			return false
		}
	}
	return true
}

// evaluate invokes the node hook and records the step.
func (e *DataFlowEngine) evaluate(ctx context.Context, resp *dto.ExecutionResponse, node *graph.Node) error {
	start := time.Now()
	_, err := e.evaluator.Evaluate(ctx, node)
	metrics.IncNodeEvals()

	step := dto.StepResult{
		StepNumber: len(resp.Steps) + 1,
		NodeID:     node.ID,
		NodeType:   node.Type,
		StartTime:  start,
		EndTime:    time.Now(),
		Duration:   time.Since(start),
		Status:     dto.StepStatusCompleted,
	}
	if err != nil {
		step.Status = dto.StepStatusFailed
		step.Error = err.Error()
		resp.Steps = append(resp.Steps, step)
		return fmt.Errorf("node %s evaluation failed: %w", node.ID, err)
	}
	resp.Steps = append(resp.Steps, step)
	return nil
}

// collectSinkOutputs gathers, for every evaluated sink node, its resolved
// input values keyed by pin name.
func collectSinkOutputs(g *graph.Graph, evaluated map[string]bool) map[string]map[string]interface{} {
	out := make(map[string]map[string]interface{})
	for id, node := range g.Nodes {
		if !node.IsSink() || !evaluated[id] {
			continue
		}
		values := make(map[string]interface{}, len(node.DataInputs()))
		for _, pin := range node.DataInputs() {
			values[pin.Name] = pin.Value
		}
		out[id] = values
	}
	return out
}

func unevaluatedIDs(g *graph.Graph, evaluated map[string]bool) []string {
	var out []string
	for id := range g.Nodes {
		if !evaluated[id] {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}
