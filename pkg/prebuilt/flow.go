package prebuilt

import (
	"context"
	"fmt"

	"github.com/nodeflow/nodeflow/pkg/nodeflow"
)

// Flow node type names
const (
	TypeStart   = "prebuilt.start"
	TypeStep    = "prebuilt.step"
	TypeBranch  = "prebuilt.branch"
	TypeCounter = "prebuilt.counter"
)

// NewStartNode creates an entry node with a single "next" flow output.
func NewStartNode(name string) *nodeflow.Node {
	n := nodeflow.NewNode(TypeStart, name)
	n.AddOutputPin(nodeflow.NewFlowPin("next", nodeflow.PinOutput))
	return n
}

// NewStepNode creates a pass-through node: one flow input, one flow output.
func NewStepNode(name string) *nodeflow.Node {
	n := nodeflow.NewNode(TypeStep, name)
	n.AddInputPin(nodeflow.NewFlowPin("in", nodeflow.PinInput))
	n.AddOutputPin(nodeflow.NewFlowPin("next", nodeflow.PinOutput))
	return n
}

// NewBranchNode creates a two-way branch. The "condition" data input selects
// which of the "true"/"false" flow outputs fires; a missing condition selects
// "false".
func NewBranchNode(name string) *nodeflow.Node {
	n := nodeflow.NewNode(TypeBranch, name)
	n.AddInputPin(nodeflow.NewFlowPin("in", nodeflow.PinInput))
	n.AddInputPin(nodeflow.NewPin("condition", nodeflow.PinInput, "bool"))
	n.AddOutputPin(nodeflow.NewFlowPin("true", nodeflow.PinOutput))
	n.AddOutputPin(nodeflow.NewFlowPin("false", nodeflow.PinOutput))
	return n
}

// NewCounterNode creates a bounded loop head. Each visit below the limit
// fires "again"; the visit that reaches the limit fires "done".
func NewCounterNode(name string, limit int) *nodeflow.Node {
	n := nodeflow.NewNode(TypeCounter, name)
	n.Config = map[string]interface{}{"limit": limit}
	n.AddInputPin(nodeflow.NewFlowPin("in", nodeflow.PinInput))
	n.AddOutputPin(nodeflow.NewFlowPin("again", nodeflow.PinOutput))
	n.AddOutputPin(nodeflow.NewFlowPin("done", nodeflow.PinOutput))
	return n
}

func evalStart(_ context.Context, _ *nodeflow.Node) ([]string, error) {
	return nil, nil
}

func evalStep(_ context.Context, _ *nodeflow.Node) ([]string, error) {
	return nil, nil
}

func evalBranch(_ context.Context, n *nodeflow.Node) ([]string, error) {
	v, ok := n.Input("condition")
	if !ok {
		return []string{"false"}, nil
	}
	cond, ok := v.(bool)
	if !ok {
		return nil, fmt.Errorf("node %s: condition must be bool, got %T", n.ID, v)
	}
	if cond {
		return []string{"true"}, nil
	}
	return []string{"false"}, nil
}

func evalCounter(_ context.Context, n *nodeflow.Node) ([]string, error) {
	if n.Config == nil {
		n.Config = make(map[string]interface{})
	}
	limit, err := toInt(n.Config["limit"])
	if err != nil {
		return nil, fmt.Errorf("node %s: %w", n.ID, err)
	}

	count, _ := toInt(n.Config["count"])
	count++
	n.Config["count"] = count

	if count < limit {
		return []string{"again"}, nil
	}
	return []string{"done"}, nil
}

func toInt(v interface{}) (int, error) {
	switch x := v.(type) {
	case int:
		return x, nil
	case int64:
		return int(x), nil
	case float64:
		return int(x), nil
	default:
		return 0, fmt.Errorf("expected integer, got %T", v)
	}
}
