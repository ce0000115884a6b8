package services

import (
	"github.com/nodeflow/nodeflow/internal/core/graph"
)

// DefaultGroupPadding is the margin kept between a group's bounds and the
// rectangles of the nodes it contains.
const DefaultGroupPadding = 20.0

// GroupService implements group lifecycle and spatial bookkeeping on top
// of the core group model. All geometry operations are pure functions of
// rectangles and points; no hidden global state.
// PRINCIPLES:
// - SRP: Group management only, execution never touches it
// - KISS: Thin orchestration over core graph mutations
type GroupService struct {
	padding float64
}

// NewGroupService creates a group service with the default padding.
func NewGroupService() *GroupService {
	return &GroupService{padding: DefaultGroupPadding}
}

// NewGroupServiceWithPadding creates a group service with custom padding.
func NewGroupServiceWithPadding(padding float64) *GroupService {
	return &GroupService{padding: padding}
}

// CreateGroup makes a named root group on the graph.
func (s *GroupService) CreateGroup(g *graph.Graph, name string, bounds graph.Rect) (*graph.NodeGroup, error) {
	group := graph.NewGroup(name)
	group.Bounds = bounds
	if err := g.AddGroup(group); err != nil {
		return nil, err
	}
	return group, nil
}

// CreateChildGroup makes a named group nested under parent.
func (s *GroupService) CreateChildGroup(parent *graph.NodeGroup, name string, bounds graph.Rect) (*graph.NodeGroup, error) {
	if parent == nil {
		return nil, graph.ErrNilGroup
	}
	group := graph.NewGroup(name)
	group.Bounds = bounds
	if err := parent.AddChild(group); err != nil {
		return nil, err
	}
	return group, nil
}

// DeleteGroup removes a group, cascading to its children; member nodes of
// the whole subtree are detached, never deleted. Returns whether removal
// occurred.
func (s *GroupService) DeleteGroup(g *graph.Graph, group *graph.NodeGroup) bool {
	if group == nil {
		return false
	}
	group.Walk(func(grp *graph.NodeGroup) {
		for _, n := range grp.Nodes() {
			_ = g.MoveNodeToGroup(n, nil)
		}
	})
	if parent := group.Parent(); parent != nil {
		return parent.RemoveChild(group)
	}
	return g.RemoveRootGroup(group)
}

// AddNodeToGroup assigns the node to the group. With expand set, the
// group's bounds grow to contain the node's rectangle plus padding.
func (s *GroupService) AddNodeToGroup(g *graph.Graph, node *graph.Node, group *graph.NodeGroup, expand bool) error {
	if group == nil {
		return graph.ErrNilGroup
	}
	if err := g.MoveNodeToGroup(node, group); err != nil {
		return err
	}
	if expand {
		group.Bounds = s.ExpandBoundsToIncludeNode(group.Bounds, node)
	}
	return nil
}

// RemoveNodeFromGroup detaches the node from whatever group owns it.
func (s *GroupService) RemoveNodeFromGroup(g *graph.Graph, node *graph.Node) error {
	return g.MoveNodeToGroup(node, nil)
}

// ExpandBoundsToIncludeNode returns bounds grown to contain the node's
// rectangle plus padding. Existing bounds never shrink; zero-value bounds
// collapse to the padded node rectangle.
func (s *GroupService) ExpandBoundsToIncludeNode(bounds graph.Rect, node *graph.Node) graph.Rect {
	padded := node.Bounds().Outset(s.padding)
	if bounds.IsZero() {
		return padded
	}
	return bounds.Union(padded)
}

// MoveGroupBy translates a group's bounds by offset. With moveNodes set,
// direct member node positions follow; with moveChildren set, nested
// groups (and their members, when moveNodes is set) follow too.
func (s *GroupService) MoveGroupBy(group *graph.NodeGroup, offset graph.Point, moveNodes, moveChildren bool) {
	if group == nil {
		return
	}
	group.Bounds = group.Bounds.Translate(offset)
	if moveNodes {
		for _, n := range group.Nodes() {
			n.Position = n.Position.Add(offset)
		}
	}
	if moveChildren {
		for _, child := range group.Children {
			s.MoveGroupBy(child, offset, moveNodes, true)
		}
	}
}

// RecomputeBounds tightens the group's bounds around its current members,
// including nested children recursively, plus padding. Groups with no
// members and no children keep their explicit bounds.
func (s *GroupService) RecomputeBounds(group *graph.NodeGroup) graph.Rect {
	if group == nil {
		return graph.Rect{}
	}
	var fit graph.Rect
	have := false
	for _, n := range group.Nodes() {
		r := n.Bounds().Outset(s.padding)
		if !have {
			fit = r
			have = true
			continue
		}
		fit = fit.Union(r)
	}
	for _, child := range group.Children {
		r := s.RecomputeBounds(child)
		if r.IsZero() {
			continue
		}
		if !have {
			fit = r
			have = true
			continue
		}
		fit = fit.Union(r)
	}
	if have {
		group.Bounds = fit
	}
	return group.Bounds
}

// ConstrainOrExpand resolves a desired node position against the group's
// bounds: with expand set, the bounds grow to contain the node at the
// desired position and the position is returned unchanged; otherwise the
// position is clamped so the node's rectangle stays inside the bounds.
func (s *GroupService) ConstrainOrExpand(group *graph.NodeGroup, node *graph.Node, desired graph.Point, expand bool) graph.Point {
	if group == nil || node == nil {
		return desired
	}
	at := graph.Rect{X: desired.X, Y: desired.Y, Width: node.Width, Height: node.Height}
	if expand {
		group.Bounds = group.Bounds.Union(at.Outset(s.padding))
		return desired
	}
	return group.Bounds.ClampRect(desired, at)
}
