package nodeflow

import (
	"context"
	"testing"

	coregraph "github.com/nodeflow/nodeflow/internal/core/graph"
	"github.com/nodeflow/nodeflow/internal/app/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuntime_DataFlowRoundTrip(t *testing.T) {
	rt := NewRuntime()
	rt.Register("const", func(ctx context.Context, n *Node) ([]string, error) {
		n.SetOutput("value", 21.0)
		return nil, nil
	})
	rt.Register("double", func(ctx context.Context, n *Node) ([]string, error) {
		x, _ := n.Input("x")
		n.SetOutput("y", x.(float64)*2)
		return nil, nil
	})
	rt.Register("result", func(ctx context.Context, n *Node) ([]string, error) {
		return nil, nil
	})

	g := NewGraph("double-pipeline", CategoryDataFlow)
	g.ID = "pipeline"

	src := NewNode("const", "source")
	src.ID = "src"
	src.AddOutputPin(NewPin("value", PinOutput, "float"))
	require.NoError(t, g.AddNode(src))

	dbl := NewNode("double", "doubler")
	dbl.ID = "dbl"
	dbl.AddInputPin(NewPin("x", PinInput, "float"))
	dbl.AddOutputPin(NewPin("y", PinOutput, "float"))
	require.NoError(t, g.AddNode(dbl))

	sink := NewNode("result", "out")
	sink.ID = "out"
	sink.AddInputPin(NewPin("value", PinInput, "float"))
	require.NoError(t, g.AddNode(sink))

	_, err := rt.Connect(g, src.OutputPin("value"), dbl.InputPin("x"))
	require.NoError(t, err)
	_, err = rt.Connect(g, dbl.OutputPin("y"), sink.InputPin("value"))
	require.NoError(t, err)
	require.NoError(t, g.SetMainNode(sink))

	resp, err := rt.RunSimple(context.Background(), g)
	require.NoError(t, err)
	assert.Equal(t, dto.ExecutionStatusCompleted, resp.Status)
	require.Contains(t, resp.Outputs, "out")
	assert.Equal(t, 42.0, resp.Outputs["out"]["value"])
}

func TestRuntime_ControlFlowExecute(t *testing.T) {
	rt := NewRuntime()
	var order []string
	for _, typ := range []string{"start", "step"} {
		typ := typ
		rt.Register(typ, func(ctx context.Context, n *Node) ([]string, error) {
			order = append(order, n.ID)
			return nil, nil
		})
	}

	g := NewGraph("two-steps", CategoryControlFlow)
	g.ID = "steps"

	a := NewNode("start", "a")
	a.ID = "a"
	a.AddOutputPin(NewFlowPin("next", PinOutput))
	require.NoError(t, g.AddNode(a))

	b := NewNode("step", "b")
	b.ID = "b"
	b.AddInputPin(NewFlowPin("in", PinInput))
	require.NoError(t, g.AddNode(b))

	_, err := rt.Connect(g, a.OutputPin("next"), b.InputPin("in"))
	require.NoError(t, err)
	require.NoError(t, g.SetMainNode(a))
	require.NoError(t, rt.SaveGraph(context.Background(), g))

	resp, err := rt.Execute(context.Background(), &ExecutionRequest{GraphID: "steps"})
	require.NoError(t, err)
	assert.Equal(t, dto.ExecutionStatusCompleted, resp.Status)
	assert.Equal(t, []string{"a", "b"}, order)
	assert.Len(t, resp.Steps, 2)
}

func TestRuntime_ExecuteMissingGraph(t *testing.T) {
	rt := NewRuntime()

	_, err := rt.Execute(context.Background(), &ExecutionRequest{GraphID: "nope"})
	assert.ErrorIs(t, err, coregraph.ErrGraphNotFound)
}

func TestRuntime_ConnectRejected(t *testing.T) {
	rt := NewRuntime()

	g := NewGraph("mismatch", CategoryDataFlow)
	a := NewNode("const", "a")
	a.AddOutputPin(NewPin("out", PinOutput, "string"))
	require.NoError(t, g.AddNode(a))

	b := NewNode("double", "b")
	b.AddInputPin(NewPin("in", PinInput, "float"))
	require.NoError(t, g.AddNode(b))

	conn, err := rt.Connect(g, a.OutputPin("out"), b.InputPin("in"))
	assert.Nil(t, conn)
	assert.ErrorIs(t, err, coregraph.ErrTypeMismatch)
	assert.Empty(t, g.Connections)
}

func TestRuntime_GraphRetrieval(t *testing.T) {
	rt := NewRuntime()

	g := NewGraph("kept", CategoryDataFlow)
	g.ID = "kept"
	n := NewNode("const", "n")
	n.AddOutputPin(NewPin("out", PinOutput, "float"))
	require.NoError(t, g.AddNode(n))
	require.NoError(t, rt.SaveGraph(context.Background(), g))

	loaded, err := rt.Graph(context.Background(), "kept")
	require.NoError(t, err)
	assert.Same(t, g, loaded)
}
