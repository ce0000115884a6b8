package prebuilt

import (
	"context"
	"testing"

	"github.com/nodeflow/nodeflow/internal/app/dto"
	"github.com/nodeflow/nodeflow/pkg/nodeflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRuntime() *nodeflow.Runtime {
	rt := nodeflow.NewRuntime()
	Register(rt)
	return rt
}

func TestDataNodes_SumPipeline(t *testing.T) {
	rt := newRuntime()

	g := nodeflow.NewGraph("sum-demo", nodeflow.CategoryDataFlow)
	g.ID = "sum-demo"

	left := NewConstNode("left", 19.0)
	left.ID = "left"
	right := NewConstNode("right", 23.0)
	right.ID = "right"
	add := NewSumNode("add")
	add.ID = "add"
	out := NewCollectNode("out")
	out.ID = "out"

	for _, n := range []*nodeflow.Node{left, right, add, out} {
		require.NoError(t, g.AddNode(n))
	}
	_, err := rt.Connect(g, left.OutputPin("value"), add.InputPin("a"))
	require.NoError(t, err)
	_, err = rt.Connect(g, right.OutputPin("value"), add.InputPin("b"))
	require.NoError(t, err)
	_, err = rt.Connect(g, add.OutputPin("sum"), out.InputPin("value"))
	require.NoError(t, err)
	require.NoError(t, g.SetMainNode(out))

	resp, err := rt.RunSimple(context.Background(), g)
	require.NoError(t, err)
	assert.Equal(t, dto.ExecutionStatusCompleted, resp.Status)
	assert.Equal(t, 42.0, resp.Outputs["out"]["value"])
}

func TestDataNodes_ConcatAndRelay(t *testing.T) {
	rt := newRuntime()

	g := nodeflow.NewGraph("concat-demo", nodeflow.CategoryDataFlow)
	g.ID = "concat-demo"

	hello := NewConstNode("hello", "node")
	hello.ID = "hello"
	world := NewConstNode("world", "flow")
	world.ID = "world"
	join := NewConcatNode("join")
	join.ID = "join"
	relay := NewRelayNode("relay")
	relay.ID = "relay"
	out := NewCollectNode("out")
	out.ID = "out"

	for _, n := range []*nodeflow.Node{hello, world, join, relay, out} {
		require.NoError(t, g.AddNode(n))
	}
	_, err := rt.Connect(g, hello.OutputPin("value"), join.InputPin("a"))
	require.NoError(t, err)
	_, err = rt.Connect(g, world.OutputPin("value"), join.InputPin("b"))
	require.NoError(t, err)
	_, err = rt.Connect(g, join.OutputPin("text"), relay.InputPin("in"))
	require.NoError(t, err)
	_, err = rt.Connect(g, relay.OutputPin("out"), out.InputPin("value"))
	require.NoError(t, err)
	require.NoError(t, g.SetMainNode(out))

	resp, err := rt.RunSimple(context.Background(), g)
	require.NoError(t, err)
	assert.Equal(t, "nodeflow", resp.Outputs["out"]["value"])
}

func TestFlowNodes_BranchSelection(t *testing.T) {
	branch := NewBranchNode("gate")

	// Missing condition selects the false output
	fired, err := evalBranch(context.Background(), branch)
	require.NoError(t, err)
	assert.Equal(t, []string{"false"}, fired)

	branch.InputPin("condition").Value = true
	fired, err = evalBranch(context.Background(), branch)
	require.NoError(t, err)
	assert.Equal(t, []string{"true"}, fired)

	branch.InputPin("condition").Value = "yes"
	_, err = evalBranch(context.Background(), branch)
	assert.Error(t, err)
}

func TestFlowNodes_CounterLoop(t *testing.T) {
	rt := newRuntime()

	g := nodeflow.NewGraph("loop-demo", nodeflow.CategoryControlFlow)
	g.ID = "loop-demo"

	start := NewStartNode("start")
	start.ID = "start"
	loop := NewCounterNode("loop", 3)
	loop.ID = "loop"
	tail := NewStepNode("tail")
	tail.ID = "tail"

	for _, n := range []*nodeflow.Node{start, loop, tail} {
		require.NoError(t, g.AddNode(n))
	}
	_, err := rt.Connect(g, start.OutputPin("next"), loop.InputPin("in"))
	require.NoError(t, err)
	_, err = rt.Connect(g, loop.OutputPin("again"), loop.InputPin("in"))
	require.NoError(t, err)
	_, err = rt.Connect(g, loop.OutputPin("done"), tail.InputPin("in"))
	require.NoError(t, err)
	require.NoError(t, g.SetMainNode(start))

	resp, err := rt.RunSimple(context.Background(), g)
	require.NoError(t, err)
	assert.Equal(t, dto.ExecutionStatusCompleted, resp.Status)

	// start + three counter visits + tail
	require.Len(t, resp.Steps, 5)
	assert.Equal(t, "tail", resp.Steps[4].NodeID)
	assert.Equal(t, 3, loop.Config["count"])
}

func TestEvaluators_CoverAllTypes(t *testing.T) {
	evals := Evaluators()
	for _, typ := range []string{
		TypeStart, TypeStep, TypeBranch, TypeCounter,
		TypeConst, TypeSum, TypeConcat, TypeRelay, TypeCollect,
	} {
		assert.Contains(t, evals, typ)
	}
}
