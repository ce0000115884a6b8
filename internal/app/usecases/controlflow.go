package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nodeflow/nodeflow/internal/app/dto"
	"github.com/nodeflow/nodeflow/internal/core/graph"
	"github.com/nodeflow/nodeflow/internal/infrastructure/metrics"
)

// ControlFlowEngine interprets a graph as a state machine over flow pins:
// each node is a state, and a flow connection from one of its flow-output
// pins is a transition. Execution starts at the confirmed main (entry)
// node and follows fired flow outputs depth-first. Revisiting a node is
// legal (loop constructs) and bounded by the graph's visit budget.
// The engine is stateless; each Execute call is an independent run.
type ControlFlowEngine struct {
	evaluator NodeEvaluator
}

// NewControlFlowEngine creates a control-flow scheduler using the given
// evaluation hooks.
func NewControlFlowEngine(evaluator NodeEvaluator) *ControlFlowEngine {
	return &ControlFlowEngine{evaluator: evaluator}
}

// Execute runs the graph from its main node. A node evaluation fault
// aborts the remaining traversal and surfaces to the caller; steps
// already executed are reported, not rolled back.
func (e *ControlFlowEngine) Execute(ctx context.Context, g *graph.Graph) (*dto.ExecutionResponse, error) {
	resp := newResponse(g)
	metrics.IncRuns(string(graph.CategoryControlFlow))

	main, err := confirmedMainNode(g)
	if err != nil {
		return finishResponse(resp, err), err
	}
	if !main.IsEntry() {
		err := fmt.Errorf("node %s: %w", main.ID, graph.ErrInvalidEntryNode)
		return finishResponse(resp, err), err
	}

	run := &flowRun{
		graph:     g,
		evaluator: e.evaluator,
		remaining: g.MaxNodeVisits(),
	}
	err = run.visit(ctx, main)
	resp.Steps = run.steps
	return finishResponse(resp, err), err
}

// flowRun carries the mutable state of one traversal.
type flowRun struct {
	graph     *graph.Graph
	evaluator NodeEvaluator
	steps     []dto.StepResult
	remaining int
}

// visit evaluates one node and recursively follows its fired flow outputs:
// flow-output pins in declaration order, connections per pin in
// registration order, every fan-out target executed.
func (r *flowRun) visit(ctx context.Context, node *graph.Node) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.remaining <= 0 {
		metrics.IncVisitBudgetHits()
		return fmt.Errorf("%w at node %s", graph.ErrVisitBudget, node.ID)
	}
	r.remaining--

	fired, err := r.evaluate(ctx, node)
	if err != nil {
		return err
	}

	for _, pin := range node.FlowOutputs() {
		if !pinFired(fired, pin.Name) {
			continue
		}
		for _, conn := range r.graph.ConnectionsFrom(pin) {
			target := conn.TargetPin()
			if target == nil || target.Node() == nil {
				continue
			}
			if err := r.visit(ctx, target.Node()); err != nil {
				return err
			}
		}
	}
	return nil
}

// evaluate invokes the node hook and records the step either way.
func (r *flowRun) evaluate(ctx context.Context, node *graph.Node) ([]string, error) {
	start := time.Now()
	fired, err := r.evaluator.Evaluate(ctx, node)
	metrics.IncNodeEvals()
	metrics.IncFlowSteps()

	step := dto.StepResult{
		StepNumber: len(r.steps) + 1,
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
		r.steps = append(r.steps, step)
		return nil, fmt.Errorf("node %s evaluation failed: %w", node.ID, err)
	}
	r.steps = append(r.steps, step)
	return fired, nil
}

// pinFired applies the evaluator's flow selection: nil means every
// flow-output pin fired.
func pinFired(fired []string, name string) bool {
	if fired == nil {
		return true
	}
	for _, f := range fired {
		if f == name {
			return true
		}
	}
	return false
}

// confirmedMainNode resolves the graph's main node or reports the
// precondition failure before any node executes.
func confirmedMainNode(g *graph.Graph) (*graph.Node, error) {
	if g.MainNodeID == "" {
		return nil, graph.ErrNoMainNode
	}
	main := g.MainNode()
	if main == nil {
		return nil, graph.ErrMainNodeNotFound
	}
	return main, nil
}

// newResponse initializes a response envelope for one run.
func newResponse(g *graph.Graph) *dto.ExecutionResponse {
	return &dto.ExecutionResponse{
		ExecutionID: uuid.NewString(),
		GraphID:     g.ID,
		Category:    g.Category,
		Status:      dto.ExecutionStatusRunning,
		StartTime:   time.Now(),
	}
}

// finishResponse stamps timing and final status.
func finishResponse(resp *dto.ExecutionResponse, err error) *dto.ExecutionResponse {
	resp.EndTime = time.Now()
	resp.Duration = resp.EndTime.Sub(resp.StartTime)
	switch {
	case err == nil:
		resp.Status = dto.ExecutionStatusCompleted
	case isCancellation(err):
		resp.Status = dto.ExecutionStatusCancelled
		resp.Error = err.Error()
	default:
		resp.Status = dto.ExecutionStatusFailed
		resp.Error = err.Error()
	}
	return resp
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
