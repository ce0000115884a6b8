// Package graph provides node group definitions
package graph

import (
	"sort"

	"github.com/google/uuid"
)

// NodeGroup is a hierarchical, non-owning clustering of nodes with a
// bounding region. Groups form a forest rooted at the graph's group
// collection; a node belongs to at most one group. Membership is
// persisted twice (group member IDs and each node's group ID) and the
// node-side ID wins during relinking.
type NodeGroup struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Bounds   Rect         `json:"bounds"`
	ParentID string       `json:"parent_id,omitempty"`
	Children []*NodeGroup `json:"children,omitempty"`
	NodeIDs  []string     `json:"node_ids,omitempty"`

	parent *NodeGroup
	nodes  map[string]*Node
}

// NewGroup creates an empty group with a generated ID.
func NewGroup(name string) *NodeGroup {
	return &NodeGroup{
		ID:    uuid.NewString(),
		Name:  name,
		nodes: make(map[string]*Node),
	}
}

// Parent returns the parent group, or nil for a root group.
func (g *NodeGroup) Parent() *NodeGroup { return g.parent }

// Nodes returns the member nodes sorted by ID.
func (g *NodeGroup) Nodes() []*Node {
	out := make([]*Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ContainsNode reports whether the node with the given ID is a direct member.
func (g *NodeGroup) ContainsNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// AddChild attaches child under g, detaching it from any previous parent.
// Reparenting a group into its own descendant is rejected to keep the
// hierarchy a forest.
func (g *NodeGroup) AddChild(child *NodeGroup) error {
	if child == nil {
		return ErrNilGroup
	}
	if child == g || g.IsDescendantOf(child) {
		return ErrGroupCycle
	}
	if child.parent == g {
		return nil
	}
	if child.parent != nil {
		child.parent.RemoveChild(child)
	}
	child.parent = g
	child.ParentID = g.ID
	g.Children = append(g.Children, child)
	return nil
}

// RemoveChild detaches child from g. Returns whether removal occurred.
func (g *NodeGroup) RemoveChild(child *NodeGroup) bool {
	for i, c := range g.Children {
		if c == child {
			g.Children = append(g.Children[:i], g.Children[i+1:]...)
			child.parent = nil
			child.ParentID = ""
			return true
		}
	}
	return false
}

// IsDescendantOf reports whether g sits somewhere below other.
func (g *NodeGroup) IsDescendantOf(other *NodeGroup) bool {
	for p := g.parent; p != nil; p = p.parent {
		if p == other {
			return true
		}
	}
	return false
}

// Walk visits g and all nested children in pre-order.
func (g *NodeGroup) Walk(fn func(*NodeGroup)) {
	fn(g)
	for _, c := range g.Children {
		c.Walk(fn)
	}
}

// addNode records direct membership and sets the node's back-reference.
func (g *NodeGroup) addNode(n *Node) {
	if g.nodes == nil {
		g.nodes = make(map[string]*Node)
	}
	if _, ok := g.nodes[n.ID]; !ok {
		g.NodeIDs = append(g.NodeIDs, n.ID)
	}
	g.nodes[n.ID] = n
	n.group = g
	n.GroupID = g.ID
}

// removeNode clears direct membership and the node's back-reference.
func (g *NodeGroup) removeNode(n *Node) {
	if _, ok := g.nodes[n.ID]; !ok {
		return
	}
	delete(g.nodes, n.ID)
	for i, id := range g.NodeIDs {
		if id == n.ID {
			g.NodeIDs = append(g.NodeIDs[:i], g.NodeIDs[i+1:]...)
			break
		}
	}
	if n.group == g {
		n.group = nil
		n.GroupID = ""
	}
}

// relink rebuilds parent back-references and resets the member map; node
// membership itself is re-derived from node group IDs by the graph.
func (g *NodeGroup) relink(parent *NodeGroup) {
	g.parent = parent
	if parent != nil {
		g.ParentID = parent.ID
	}
	g.nodes = make(map[string]*Node)
	g.NodeIDs = nil
	for _, c := range g.Children {
		c.relink(g)
	}
}
