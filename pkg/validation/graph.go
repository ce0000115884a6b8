package validation

import (
	"fmt"

	coregraph "github.com/nodeflow/nodeflow/internal/core/graph"
)

// GraphValidationOptions controls optional validation checks.
type GraphValidationOptions struct {
	// CheckDataCycles enables detection of cycles in the data dependency graph.
	// A data-flow graph with a data cycle can never complete an evaluation pass.
	CheckDataCycles bool
}

// ValidateGraph performs structural validation on the core graph entity.
// It is intended for graphs loaded from external sources where in-method
// guards (e.g., AddNode/Connect) may have been bypassed.
func ValidateGraph(g *coregraph.Graph, opts ...GraphValidationOptions) error {
	if g == nil {
		return fmt.Errorf("graph is nil")
	}

	if g.ID == "" {
		return coregraph.ErrInvalidGraphID
	}
	if g.Category != coregraph.CategoryControlFlow && g.Category != coregraph.CategoryDataFlow {
		return coregraph.ErrInvalidCategory
	}

	// Validate all nodes and check pin ID uniqueness across the graph
	seenPins := make(map[string]struct{})
	for _, n := range g.Nodes {
		if n == nil {
			return coregraph.ErrNilNode
		}
		if err := n.Validate(); err != nil {
			return err
		}
		for _, p := range append(n.InputPins, n.OutputPins...) {
			if _, dup := seenPins[p.ID]; dup {
				return fmt.Errorf("duplicate pin ID %q: %w", p.ID, coregraph.ErrInvalidPinID)
			}
			seenPins[p.ID] = struct{}{}
		}
	}

	// Validate connections and endpoint membership
	for _, c := range g.Connections {
		if c == nil {
			return coregraph.ErrNilConnection
		}
		if err := c.Validate(); err != nil {
			return err
		}
		src, dst := c.SourcePin(), c.TargetPin()
		if _, ok := g.Nodes[src.NodeID]; !ok {
			return fmt.Errorf("connection %s source: %w", c.ID, coregraph.ErrNodeNotInGraph)
		}
		if _, ok := g.Nodes[dst.NodeID]; !ok {
			return fmt.Errorf("connection %s target: %w", c.ID, coregraph.ErrNodeNotInGraph)
		}
	}

	// Node group references must resolve
	for _, n := range g.Nodes {
		if n.GroupID != "" && g.Group(n.GroupID) == nil {
			return fmt.Errorf("node %s references group %q: %w", n.ID, n.GroupID, coregraph.ErrGroupNotFound)
		}
	}

	// Main node, if set, must be a member with the right role
	if err := g.Validate(); err != nil {
		return err
	}

	var cfg GraphValidationOptions
	if len(opts) > 0 {
		cfg = opts[0]
	}
	if cfg.CheckDataCycles && hasDataCycle(g) {
		return coregraph.ErrCyclicDependency
	}

	return nil
}

// hasDataCycle detects cycles in the data dependency graph using DFS with coloring.
func hasDataCycle(g *coregraph.Graph) bool {
	const (
		white = 0 // unvisited
		gray  = 1 // visiting
		black = 2 // visited
	)
	color := make(map[string]int, len(g.Nodes))
	adj := make(map[string][]string, len(g.Nodes))
	for _, c := range g.Connections {
		src, dst := c.SourcePin(), c.TargetPin()
		if src == nil || dst == nil || src.IsFlow {
			continue
		}
		adj[src.NodeID] = append(adj[src.NodeID], dst.NodeID)
	}
	var dfs func(string) bool
	dfs = func(u string) bool {
		color[u] = gray
		for _, v := range adj[u] {
			if color[v] == gray {
				return true // back-edge
			}
			if color[v] == white {
				if dfs(v) {
					return true
				}
			}
		}
		color[u] = black
		return false
	}
	for id := range g.Nodes {
		if color[id] == white {
			if dfs(id) {
				return true
			}
		}
	}
	return false
}
