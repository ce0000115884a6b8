package nodeflow

import (
	"context"
	"errors"

	graphrepo "github.com/nodeflow/nodeflow/internal/adapters/repository/graph"
	"github.com/nodeflow/nodeflow/internal/app/dto"
	"github.com/nodeflow/nodeflow/internal/app/services"
	"github.com/nodeflow/nodeflow/internal/app/usecases"
	coregraph "github.com/nodeflow/nodeflow/internal/core/graph"
	"github.com/nodeflow/nodeflow/internal/infrastructure/metrics"
	"github.com/nodeflow/nodeflow/pkg/validation"
)

// Re-export core graph types for convenience
type Graph = coregraph.Graph
type Node = coregraph.Node
type Pin = coregraph.Pin
type Connection = coregraph.Connection
type NodeGroup = coregraph.NodeGroup
type GraphCategory = coregraph.GraphCategory
type GraphConfig = coregraph.GraphConfig
type Point = coregraph.Point
type Rect = coregraph.Rect

// EvaluateFunc is the per-node-type evaluation hook registered on a Runtime.
type EvaluateFunc = usecases.EvaluateFunc

// ExecutionRequest configures one graph run.
type ExecutionRequest = dto.ExecutionRequest

// ExecutionResponse reports the outcome of one graph run.
type ExecutionResponse = dto.ExecutionResponse

const (
	CategoryControlFlow = coregraph.CategoryControlFlow
	CategoryDataFlow    = coregraph.CategoryDataFlow
	PinInput            = coregraph.PinInput
	PinOutput           = coregraph.PinOutput
	DataTypeAny         = coregraph.DataTypeAny
)

// Constructors re-exported from the core package
var (
	NewGraph   = coregraph.NewGraph
	NewNode    = coregraph.NewNode
	NewPin     = coregraph.NewPin
	NewFlowPin = coregraph.NewFlowPin
	NewGroup   = coregraph.NewGroup
)

// Runtime is a simple façade to construct and run graphs without importing
// internal packages directly. The default runtime uses in-memory components and
// is suitable for local usage and tests.
type Runtime struct {
	repo     usecases.GraphRepository
	registry *usecases.EvaluatorRegistry
	groups   *services.GroupService
}

// NewRuntime constructs a default runtime with in-memory services suitable for local usage.
func NewRuntime() *Runtime {
	return &Runtime{
		repo:     graphrepo.NewInMemoryGraphRepository(),
		registry: usecases.NewEvaluatorRegistry(),
		groups:   services.NewGroupService(),
	}
}

// Register installs the evaluation hook for a node type.
func (rt *Runtime) Register(nodeType string, fn EvaluateFunc) {
	rt.registry.Register(nodeType, fn)
}

// Groups returns the group layout service bound to this runtime.
func (rt *Runtime) Groups() *services.GroupService {
	return rt.groups
}

// SaveGraph persists a graph to the runtime repository.
func (rt *Runtime) SaveGraph(ctx context.Context, g *Graph) error {
	return rt.repo.Save(ctx, g)
}

// Graph retrieves a stored graph by ID.
func (rt *Runtime) Graph(ctx context.Context, id string) (*Graph, error) {
	return rt.repo.Get(ctx, id)
}

// Connect wires two pins on graph g, recording rejected attempts in the
// runtime metrics.
func (rt *Runtime) Connect(g *Graph, source, target *Pin) (*Connection, error) {
	conn, err := g.Connect(source, target)
	if err != nil {
		metrics.ConnectRejected(rejectReason(err))
		return nil, err
	}
	return conn, nil
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, coregraph.ErrPinDirection):
		return "direction"
	case errors.Is(err, coregraph.ErrFlowKindMismatch):
		return "flow_kind"
	case errors.Is(err, coregraph.ErrTypeMismatch):
		return "type_mismatch"
	case errors.Is(err, coregraph.ErrPinOccupied):
		return "occupied"
	case errors.Is(err, coregraph.ErrDetachedPin):
		return "detached"
	case errors.Is(err, coregraph.ErrNodeNotInGraph):
		return "foreign_node"
	case errors.Is(err, coregraph.ErrNilPin):
		return "nil_pin"
	default:
		return "other"
	}
}

// Execute runs a stored graph with the provided request.
func (rt *Runtime) Execute(ctx context.Context, req *ExecutionRequest) (*ExecutionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	g, err := rt.repo.Get(ctx, req.GraphID)
	if err != nil {
		return nil, err
	}

	if req.Config.ValidateGraph {
		opts := validation.GraphValidationOptions{
			CheckDataCycles: g.Category == CategoryDataFlow,
		}
		if err := validation.ValidateGraph(g, opts); err != nil {
			return nil, err
		}
	}

	engine, err := usecases.EngineFor(g.Category, rt.registry)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, req.Config.Timeout)
	defer cancel()

	return engine.Execute(ctx, g)
}

// RunSimple saves the graph (if not already) and executes it with a minimal
// request configuration.
func (rt *Runtime) RunSimple(ctx context.Context, g *Graph) (*ExecutionResponse, error) {
	if err := rt.repo.Save(ctx, g); err != nil {
		return nil, err
	}
	req := &ExecutionRequest{
		GraphID: g.ID,
		Config: dto.ExecutionConfig{
			ValidateGraph: true,
		},
	}
	return rt.Execute(ctx, req)
}
