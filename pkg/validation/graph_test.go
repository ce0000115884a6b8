package validation

import (
	"testing"

	coregraph "github.com/nodeflow/nodeflow/internal/core/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dataNode(t *testing.T, g *coregraph.Graph, name string) *coregraph.Node {
	t.Helper()
	n := coregraph.NewNode("transform", name)
	n.ID = name
	n.AddInputPin(coregraph.NewPin("x", coregraph.PinInput, "float"))
	n.AddOutputPin(coregraph.NewPin("y", coregraph.PinOutput, "float"))
	require.NoError(t, g.AddNode(n))
	return n
}

func TestValidateGraph_Valid(t *testing.T) {
	g := coregraph.NewGraph("pipeline", coregraph.CategoryDataFlow)
	a := dataNode(t, g, "a")
	b := dataNode(t, g, "b")

	_, err := g.Connect(a.OutputPin("y"), b.InputPin("x"))
	require.NoError(t, err)

	assert.NoError(t, ValidateGraph(g))
	assert.NoError(t, ValidateGraph(g, GraphValidationOptions{CheckDataCycles: true}))
}

func TestValidateGraph_Nil(t *testing.T) {
	assert.Error(t, ValidateGraph(nil))
}

func TestValidateGraph_BadCategory(t *testing.T) {
	g := coregraph.NewGraph("weird", "spreadsheet")
	assert.ErrorIs(t, ValidateGraph(g), coregraph.ErrInvalidCategory)
}

func TestValidateGraph_DuplicatePinID(t *testing.T) {
	g := coregraph.NewGraph("dup", coregraph.CategoryDataFlow)
	a := dataNode(t, g, "a")
	b := dataNode(t, g, "b")

	// Force a pin ID collision across nodes
	b.InputPin("x").ID = a.OutputPin("y").ID

	assert.ErrorIs(t, ValidateGraph(g), coregraph.ErrInvalidPinID)
}

func TestValidateGraph_DanglingGroupReference(t *testing.T) {
	g := coregraph.NewGraph("grouped", coregraph.CategoryDataFlow)
	a := dataNode(t, g, "a")
	a.GroupID = "no-such-group"

	assert.ErrorIs(t, ValidateGraph(g), coregraph.ErrGroupNotFound)
}

func TestValidateGraph_DataCycle(t *testing.T) {
	g := coregraph.NewGraph("cycle", coregraph.CategoryDataFlow)
	a := dataNode(t, g, "a")
	b := dataNode(t, g, "b")

	_, err := g.Connect(a.OutputPin("y"), b.InputPin("x"))
	require.NoError(t, err)
	_, err = g.Connect(b.OutputPin("y"), a.InputPin("x"))
	require.NoError(t, err)

	// Structurally fine without the optional check
	assert.NoError(t, ValidateGraph(g))
	assert.ErrorIs(t,
		ValidateGraph(g, GraphValidationOptions{CheckDataCycles: true}),
		coregraph.ErrCyclicDependency)
}
