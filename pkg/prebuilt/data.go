package prebuilt

import (
	"context"
	"fmt"

	"github.com/nodeflow/nodeflow/pkg/nodeflow"
)

// Data node type names
const (
	TypeConst   = "prebuilt.const"
	TypeSum     = "prebuilt.sum"
	TypeConcat  = "prebuilt.concat"
	TypeRelay   = "prebuilt.relay"
	TypeCollect = "prebuilt.collect"
)

// NewConstNode creates a source node emitting a fixed value on its "value" output.
func NewConstNode(name string, value interface{}) *nodeflow.Node {
	n := nodeflow.NewNode(TypeConst, name)
	n.Config = map[string]interface{}{"value": value}
	n.AddOutputPin(nodeflow.NewPin("value", nodeflow.PinOutput, nodeflow.DataTypeAny))
	return n
}

// NewSumNode creates a node adding numeric inputs "a" and "b" into "sum".
func NewSumNode(name string) *nodeflow.Node {
	n := nodeflow.NewNode(TypeSum, name)
	n.AddInputPin(nodeflow.NewPin("a", nodeflow.PinInput, "float"))
	n.AddInputPin(nodeflow.NewPin("b", nodeflow.PinInput, "float"))
	n.AddOutputPin(nodeflow.NewPin("sum", nodeflow.PinOutput, "float"))
	return n
}

// NewConcatNode creates a node joining inputs "a" and "b" into a "text" string.
func NewConcatNode(name string) *nodeflow.Node {
	n := nodeflow.NewNode(TypeConcat, name)
	n.AddInputPin(nodeflow.NewPin("a", nodeflow.PinInput, nodeflow.DataTypeAny))
	n.AddInputPin(nodeflow.NewPin("b", nodeflow.PinInput, nodeflow.DataTypeAny))
	n.AddOutputPin(nodeflow.NewPin("text", nodeflow.PinOutput, "string"))
	return n
}

// NewRelayNode creates a node forwarding its "in" value to "out" unchanged.
func NewRelayNode(name string) *nodeflow.Node {
	n := nodeflow.NewNode(TypeRelay, name)
	n.AddInputPin(nodeflow.NewPin("in", nodeflow.PinInput, nodeflow.DataTypeAny))
	n.AddOutputPin(nodeflow.NewPin("out", nodeflow.PinOutput, nodeflow.DataTypeAny))
	return n
}

// NewCollectNode creates a terminal sink with a single "value" data input.
func NewCollectNode(name string) *nodeflow.Node {
	n := nodeflow.NewNode(TypeCollect, name)
	n.AddInputPin(nodeflow.NewPin("value", nodeflow.PinInput, nodeflow.DataTypeAny))
	return n
}

func evalConst(_ context.Context, n *nodeflow.Node) ([]string, error) {
	if n.Config == nil {
		return nil, fmt.Errorf("node %s: const value not configured", n.ID)
	}
	n.SetOutput("value", n.Config["value"])
	return nil, nil
}

func evalSum(_ context.Context, n *nodeflow.Node) ([]string, error) {
	a, err := floatInput(n, "a")
	if err != nil {
		return nil, err
	}
	b, err := floatInput(n, "b")
	if err != nil {
		return nil, err
	}
	n.SetOutput("sum", a+b)
	return nil, nil
}

func evalConcat(_ context.Context, n *nodeflow.Node) ([]string, error) {
	a, _ := n.Input("a")
	b, _ := n.Input("b")
	n.SetOutput("text", fmt.Sprint(a) + fmt.Sprint(b))
	return nil, nil
}

func evalRelay(_ context.Context, n *nodeflow.Node) ([]string, error) {
	v, _ := n.Input("in")
	n.SetOutput("out", v)
	return nil, nil
}

func evalCollect(_ context.Context, _ *nodeflow.Node) ([]string, error) {
	return nil, nil
}

func floatInput(n *nodeflow.Node, name string) (float64, error) {
	v, ok := n.Input(name)
	if !ok {
		return 0, fmt.Errorf("node %s: input %q has no value", n.ID, name)
	}
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	default:
		return 0, fmt.Errorf("node %s: input %q must be numeric, got %T", n.ID, name, v)
	}
}
