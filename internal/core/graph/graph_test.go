package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// producer builds a node with one data output pin.
func producer(id, dataType string) *Node {
	n := &Node{ID: id, Type: "producer", Name: id}
	n.AddOutputPin(&Pin{ID: id + ".out", Name: "out", DataType: dataType})
	return n
}

// consumer builds a node with one data input pin.
func consumer(id, dataType string) *Node {
	n := &Node{ID: id, Type: "consumer", Name: id}
	n.AddInputPin(&Pin{ID: id + ".in", Name: "in", DataType: dataType})
	return n
}

// flowNode builds a node with optional flow input and output pins.
func flowNode(id string, flowIn, flowOut bool) *Node {
	n := &Node{ID: id, Type: "step", Name: id}
	if flowIn {
		n.AddInputPin(&Pin{ID: id + ".in", Name: "in", IsFlow: true})
	}
	if flowOut {
		n.AddOutputPin(&Pin{ID: id + ".out", Name: "out", IsFlow: true})
	}
	return n
}

func TestGraph_AddNode(t *testing.T) {
	g := NewGraph("test-graph", CategoryDataFlow)

	t.Run("add valid node", func(t *testing.T) {
		n := producer("p1", "number")
		require.NoError(t, g.AddNode(n))
		assert.Equal(t, n, g.Node("p1"))
	})

	t.Run("add is idempotent", func(t *testing.T) {
		n := g.Node("p1")
		require.NoError(t, g.AddNode(n))
		assert.Len(t, g.Nodes, 1)
	})

	t.Run("add nil node", func(t *testing.T) {
		assert.ErrorIs(t, g.AddNode(nil), ErrNilNode)
	})

	t.Run("add invalid node", func(t *testing.T) {
		assert.ErrorIs(t, g.AddNode(&Node{ID: ""}), ErrInvalidNodeID)
	})
}

func TestGraph_Connect(t *testing.T) {
	tests := []struct {
		name    string
		source  func(g *Graph) *Pin
		target  func(g *Graph) *Pin
		wantErr error
	}{
		{
			name:   "compatible data pins",
			source: func(g *Graph) *Pin { return g.Node("p").OutputPin("out") },
			target: func(g *Graph) *Pin { return g.Node("c").InputPin("in") },
		},
		{
			name:    "direction mismatch",
			source:  func(g *Graph) *Pin { return g.Node("c").InputPin("in") },
			target:  func(g *Graph) *Pin { return g.Node("p").OutputPin("out") },
			wantErr: ErrPinDirection,
		},
		{
			name:    "flow kind mismatch",
			source:  func(g *Graph) *Pin { return g.Node("f").OutputPin("out") },
			target:  func(g *Graph) *Pin { return g.Node("c").InputPin("in") },
			wantErr: ErrFlowKindMismatch,
		},
		{
			name:    "data type mismatch",
			source:  func(g *Graph) *Pin { return g.Node("p").OutputPin("out") },
			target:  func(g *Graph) *Pin { return g.Node("s").InputPin("in") },
			wantErr: ErrTypeMismatch,
		},
		{
			name:    "any accepts every type",
			source:  func(g *Graph) *Pin { return g.Node("p").OutputPin("out") },
			target:  func(g *Graph) *Pin { return g.Node("a").InputPin("in") },
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGraph("test-graph", CategoryDataFlow)
			require.NoError(t, g.AddNode(producer("p", "number")))
			require.NoError(t, g.AddNode(consumer("c", "number")))
			require.NoError(t, g.AddNode(consumer("s", "string")))
			require.NoError(t, g.AddNode(consumer("a", DataTypeAny)))
			require.NoError(t, g.AddNode(flowNode("f", false, true)))

			before := len(g.Connections)
			conn, err := g.Connect(tt.source(g), tt.target(g))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, conn)
				assert.Len(t, g.Connections, before, "edge set must be unchanged")
			} else {
				require.NoError(t, err)
				require.NotNil(t, conn)
				assert.Len(t, g.Connections, before+1)
			}
		})
	}
}

func TestGraph_Connect_PropagatesInitialValue(t *testing.T) {
	g := NewGraph("test-graph", CategoryDataFlow)
	p := producer("p", "number")
	c := consumer("c", "number")
	require.NoError(t, g.AddNode(p))
	require.NoError(t, g.AddNode(c))

	p.OutputPin("out").Value = 42.0
	_, err := g.Connect(p.OutputPin("out"), c.InputPin("in"))
	require.NoError(t, err)
	assert.Equal(t, 42.0, c.InputPin("in").Value)
}

func TestGraph_Connect_OccupiedTarget(t *testing.T) {
	g := NewGraph("test-graph", CategoryDataFlow)
	p1 := producer("p1", "number")
	p2 := producer("p2", "number")
	c := consumer("c", "number")
	require.NoError(t, g.AddNode(p1))
	require.NoError(t, g.AddNode(p2))
	require.NoError(t, g.AddNode(c))

	first, err := g.Connect(p1.OutputPin("out"), c.InputPin("in"))
	require.NoError(t, err)

	t.Run("rejected by default", func(t *testing.T) {
		_, err := g.Connect(p2.OutputPin("out"), c.InputPin("in"))
		assert.ErrorIs(t, err, ErrPinOccupied)
	})

	t.Run("replaced when policy allows", func(t *testing.T) {
		g.Config.ReplaceConnections = true
		second, err := g.Connect(p2.OutputPin("out"), c.InputPin("in"))
		require.NoError(t, err)
		assert.Len(t, g.Connections, 1)
		assert.NotEqual(t, first.ID, second.ID)
		assert.Nil(t, first.SourcePin())
	})
}

func TestGraph_Connect_FlowInputAcceptsMultiple(t *testing.T) {
	g := NewGraph("test-graph", CategoryControlFlow)
	a := flowNode("a", false, true)
	b := flowNode("b", false, true)
	c := flowNode("c", true, false)
	require.NoError(t, g.AddNode(a))
	require.NoError(t, g.AddNode(b))
	require.NoError(t, g.AddNode(c))

	// Flow inputs merge: two sources into the same input pin are legal.
	_, err := g.Connect(a.OutputPin("out"), c.InputPin("in"))
	require.NoError(t, err)
	_, err = g.Connect(b.OutputPin("out"), c.InputPin("in"))
	require.NoError(t, err)
	assert.Len(t, g.Connections, 2)
}

func TestGraph_Connect_DetachedAndForeign(t *testing.T) {
	g := NewGraph("test-graph", CategoryDataFlow)
	p := producer("p", "number")
	require.NoError(t, g.AddNode(p))

	t.Run("detached pin", func(t *testing.T) {
		loose := &Pin{ID: "loose", Name: "loose", Direction: PinInput}
		_, err := g.Connect(p.OutputPin("out"), loose)
		assert.ErrorIs(t, err, ErrDetachedPin)
	})

	t.Run("node outside graph", func(t *testing.T) {
		foreign := consumer("foreign", "number")
		_, err := g.Connect(p.OutputPin("out"), foreign.InputPin("in"))
		assert.ErrorIs(t, err, ErrNodeNotInGraph)
	})
}

func TestGraph_RemoveNode_Cascades(t *testing.T) {
	g := NewGraph("test-graph", CategoryDataFlow)
	p := producer("p", "number")
	mid := &Node{ID: "mid", Type: "relay", Name: "mid"}
	mid.AddInputPin(&Pin{ID: "mid.in", Name: "in", DataType: "number"})
	mid.AddOutputPin(&Pin{ID: "mid.out", Name: "out", DataType: "number"})
	c := consumer("c", "number")
	require.NoError(t, g.AddNode(p))
	require.NoError(t, g.AddNode(mid))
	require.NoError(t, g.AddNode(c))

	_, err := g.Connect(p.OutputPin("out"), mid.InputPin("in"))
	require.NoError(t, err)
	_, err = g.Connect(mid.OutputPin("out"), c.InputPin("in"))
	require.NoError(t, err)

	grp := NewGroup("stage")
	require.NoError(t, g.MoveNodeToGroup(mid, grp))

	require.True(t, g.RemoveNode(mid))

	assert.Nil(t, g.Node("mid"))
	assert.Empty(t, g.Connections, "no connection may reference the removed node's pins")
	assert.False(t, grp.ContainsNode("mid"))
	assert.False(t, g.RemoveNode(mid), "second removal reports false")
}

func TestGraph_MoveNodeToGroup(t *testing.T) {
	g := NewGraph("test-graph", CategoryControlFlow)
	n := flowNode("n", true, true)
	require.NoError(t, g.AddNode(n))

	first := NewGroup("first")
	second := NewGroup("second")

	require.NoError(t, g.MoveNodeToGroup(n, first))
	assert.Equal(t, first, n.Group())
	assert.Contains(t, g.Groups, first, "foreign group is registered as a root")

	require.NoError(t, g.MoveNodeToGroup(n, second))
	assert.Equal(t, second, n.Group())
	assert.False(t, first.ContainsNode("n"), "single-owner membership")

	require.NoError(t, g.MoveNodeToGroup(n, nil))
	assert.Nil(t, n.Group())
	assert.Empty(t, n.GroupID)
}

func TestGraph_CandidateMainNodes(t *testing.T) {
	t.Run("control flow entries", func(t *testing.T) {
		g := NewGraph("cf", CategoryControlFlow)
		entry := flowNode("entry", false, true)
		middle := flowNode("middle", true, true)
		terminal := flowNode("terminal", true, false)
		require.NoError(t, g.AddNode(entry))
		require.NoError(t, g.AddNode(middle))
		require.NoError(t, g.AddNode(terminal))

		candidates := g.CandidateMainNodes()
		require.Len(t, candidates, 1)
		assert.Equal(t, "entry", candidates[0].ID)
	})

	t.Run("data flow sinks", func(t *testing.T) {
		g := NewGraph("df", CategoryDataFlow)
		src := producer("src", "number")
		sink := consumer("sink", "number")
		require.NoError(t, g.AddNode(src))
		require.NoError(t, g.AddNode(sink))

		candidates := g.CandidateMainNodes()
		require.Len(t, candidates, 1)
		assert.Equal(t, "sink", candidates[0].ID)
	})
}

func TestGraph_SetMainNode(t *testing.T) {
	g := NewGraph("cf", CategoryControlFlow)
	entry := flowNode("entry", false, true)
	middle := flowNode("middle", true, true)
	require.NoError(t, g.AddNode(entry))
	require.NoError(t, g.AddNode(middle))

	assert.ErrorIs(t, g.SetMainNode(middle), ErrInvalidEntryNode)
	require.NoError(t, g.SetMainNode(entry))
	assert.Equal(t, entry, g.MainNode())

	foreign := flowNode("foreign", false, true)
	assert.ErrorIs(t, g.SetMainNode(foreign), ErrNodeNotInGraph)
}

func TestGraph_Validate(t *testing.T) {
	g := NewGraph("test-graph", CategoryDataFlow)
	p := producer("p", "number")
	c := consumer("c", "number")
	require.NoError(t, g.AddNode(p))
	require.NoError(t, g.AddNode(c))
	_, err := g.Connect(p.OutputPin("out"), c.InputPin("in"))
	require.NoError(t, err)

	assert.NoError(t, g.Validate())

	t.Run("unresolved connection fails", func(t *testing.T) {
		g.Connections[0].sourcePin = nil
		assert.ErrorIs(t, g.Validate(), ErrUnresolvedConnection)
	})
}
