// Package graph provides the core node-graph domain entities: pins,
// connections, nodes, groups and the graph aggregate that owns them.
// Cross-references between entities are stored as identifiers and resolved
// into navigation pointers on demand or during an explicit relink pass,
// so the ownership graph stays cycle-free and survives serialization.
package graph

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// GraphCategory selects which execution discipline interprets a graph.
type GraphCategory string

const (
	// CategoryControlFlow graphs execute as a state machine over flow pins.
	CategoryControlFlow GraphCategory = "control_flow"
	// CategoryDataFlow graphs execute in data dependency order.
	CategoryDataFlow GraphCategory = "data_flow"
)

// DefaultMaxNodeVisits bounds a control-flow run when the graph does not
// set its own budget. Flow loops are legal, so a total step budget is the
// guard against unbounded traversal.
const DefaultMaxNodeVisits = 1000

// GraphConfig holds per-graph policy knobs.
type GraphConfig struct {
	// MaxNodeVisits is the total evaluation budget for one control-flow run.
	MaxNodeVisits int `json:"max_node_visits,omitempty"`
	// ReplaceConnections lets Connect replace an occupied input pin
	// instead of failing.
	ReplaceConnections bool `json:"replace_connections,omitempty"`
	// Metadata carries host-defined annotations.
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// Graph is the aggregate root owning nodes, connections and root groups.
// PRINCIPLES:
// - SRP: Responsible for structure and consistency, not execution
// - KISS: Maps and slices, no hidden indexes to keep in sync
type Graph struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Category    GraphCategory    `json:"category"`
	MainNodeID  string           `json:"main_node_id,omitempty"`
	Nodes       map[string]*Node `json:"nodes"`
	Connections []*Connection    `json:"connections"`
	Groups      []*NodeGroup     `json:"groups,omitempty"`
	Config      GraphConfig      `json:"config"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// NewGraph creates an empty graph of the given category.
func NewGraph(name string, category GraphCategory) *Graph {
	now := time.Now()
	return &Graph{
		ID:        uuid.NewString(),
		Name:      name,
		Category:  category,
		Nodes:     make(map[string]*Node),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddNode inserts a node into the graph. The insert is idempotent: adding
// a node that is already present is a no-op.
func (g *Graph) AddNode(node *Node) error {
	if node == nil {
		return ErrNilNode
	}
	if err := node.Validate(); err != nil {
		return err
	}
	if g.Nodes == nil {
		g.Nodes = make(map[string]*Node)
	}
	if _, exists := g.Nodes[node.ID]; exists {
		return nil
	}
	node.relinkPins()
	g.Nodes[node.ID] = node
	g.UpdatedAt = time.Now()
	return nil
}

// RemoveNode removes a node and cascades: every connection touching one of
// its pins is disconnected and removed, and the node leaves its group.
// Returns whether removal occurred.
func (g *Graph) RemoveNode(node *Node) bool {
	if node == nil {
		return false
	}
	if _, exists := g.Nodes[node.ID]; !exists {
		return false
	}
	for _, c := range g.connectionsTouching(node) {
		g.RemoveConnection(c)
	}
	if node.group != nil {
		node.group.removeNode(node)
	}
	delete(g.Nodes, node.ID)
	g.UpdatedAt = time.Now()
	return true
}

// Node looks up a node by ID.
func (g *Graph) Node(id string) *Node { return g.Nodes[id] }

// MainNode returns the confirmed main node, or nil.
func (g *Graph) MainNode() *Node {
	if g.MainNodeID == "" {
		return nil
	}
	return g.Nodes[g.MainNodeID]
}

// SetMainNode confirms the main node. The node must belong to the graph and
// match the role its category requires: an entry for control flow, a sink
// for data flow.
func (g *Graph) SetMainNode(node *Node) error {
	if node == nil {
		return ErrNilNode
	}
	if _, exists := g.Nodes[node.ID]; !exists {
		return ErrNodeNotInGraph
	}
	switch g.Category {
	case CategoryControlFlow:
		if !node.IsEntry() {
			return ErrInvalidEntryNode
		}
	case CategoryDataFlow:
		if !node.IsSink() {
			return ErrInvalidSinkNode
		}
	default:
		return ErrInvalidCategory
	}
	g.MainNodeID = node.ID
	g.UpdatedAt = time.Now()
	return nil
}

// Connect validates pin compatibility and creates a connection from source
// to target. On success the source pin's current value is propagated into
// the target immediately. Structural failures are reported as errors with
// no connection created and the edge set unchanged.
func (g *Graph) Connect(source, target *Pin) (*Connection, error) {
	if source == nil || target == nil {
		return nil, ErrNilPin
	}
	if source.Node() == nil || target.Node() == nil {
		return nil, ErrDetachedPin
	}
	if _, ok := g.Nodes[source.Node().ID]; !ok {
		return nil, fmt.Errorf("source pin %s: %w", source.ID, ErrNodeNotInGraph)
	}
	if _, ok := g.Nodes[target.Node().ID]; !ok {
		return nil, fmt.Errorf("target pin %s: %w", target.ID, ErrNodeNotInGraph)
	}
	if err := source.CanConnectTo(target); err != nil {
		return nil, err
	}
	// A data input holds a single value, so it accepts one connection.
	// Flow inputs merge and may receive any number of connections.
	if !target.IsFlow {
		if existing := g.ConnectionTo(target); existing != nil {
			if !g.Config.ReplaceConnections {
				return nil, ErrPinOccupied
			}
			g.RemoveConnection(existing)
		}
	}
	c := NewConnection(source, target)
	c.Propagate()
	g.Connections = append(g.Connections, c)
	g.UpdatedAt = time.Now()
	return c, nil
}

// RemoveConnection disconnects both pin ends, clearing any propagated
// value, and removes the connection. Returns whether removal occurred.
func (g *Graph) RemoveConnection(c *Connection) bool {
	if c == nil {
		return false
	}
	for i, existing := range g.Connections {
		if existing == c {
			c.disconnect()
			g.Connections = append(g.Connections[:i], g.Connections[i+1:]...)
			g.UpdatedAt = time.Now()
			return true
		}
	}
	return false
}

// ConnectionsFrom returns the connections leaving pin, in registration order.
func (g *Graph) ConnectionsFrom(pin *Pin) []*Connection {
	var out []*Connection
	for _, c := range g.Connections {
		if c.sourcePin == pin {
			out = append(out, c)
		}
	}
	return out
}

// ConnectionTo returns the connection feeding pin, or nil. Input pins hold
// at most one incoming connection.
func (g *Graph) ConnectionTo(pin *Pin) *Connection {
	for _, c := range g.Connections {
		if c.targetPin == pin {
			return c
		}
	}
	return nil
}

// AddGroup registers a group as a root of the graph's group forest.
// Registering a group that is already part of the forest is a no-op.
func (g *Graph) AddGroup(group *NodeGroup) error {
	if group == nil {
		return ErrNilGroup
	}
	if _, ok := g.allGroups()[group.ID]; ok {
		return nil
	}
	g.Groups = append(g.Groups, group)
	g.UpdatedAt = time.Now()
	return nil
}

// RemoveRootGroup unregisters a root group. Returns whether removal occurred.
func (g *Graph) RemoveRootGroup(group *NodeGroup) bool {
	for i, existing := range g.Groups {
		if existing == group {
			g.Groups = append(g.Groups[:i], g.Groups[i+1:]...)
			g.UpdatedAt = time.Now()
			return true
		}
	}
	return false
}

// Group looks up a group anywhere in the forest by ID.
func (g *Graph) Group(id string) *NodeGroup { return g.allGroups()[id] }

// MoveNodeToGroup reassigns single-owner group membership. A nil group
// detaches the node. A group foreign to the graph is first registered as
// a root group.
func (g *Graph) MoveNodeToGroup(node *Node, group *NodeGroup) error {
	if node == nil {
		return ErrNilNode
	}
	if _, exists := g.Nodes[node.ID]; !exists {
		return ErrNodeNotInGraph
	}
	if node.group != nil {
		node.group.removeNode(node)
	}
	if group == nil {
		return nil
	}
	if err := g.AddGroup(group); err != nil {
		return err
	}
	group.addNode(node)
	g.UpdatedAt = time.Now()
	return nil
}

// CandidateMainNodes returns, sorted by ID, the nodes eligible to become
// the main node under the graph's category: entries (no flow inputs, at
// least one flow output) for control flow, sinks (at least one data input,
// no data outputs) for data flow. Roles are computed from current topology,
// never cached.
func (g *Graph) CandidateMainNodes() []*Node {
	var out []*Node
	for _, n := range g.Nodes {
		switch g.Category {
		case CategoryControlFlow:
			if n.IsEntry() {
				out = append(out, n)
			}
		case CategoryDataFlow:
			if n.IsSink() {
				out = append(out, n)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// OnDeserialized rebuilds every navigation reference from stored
// identifiers: pin to node, node to group, connection to pins. Identifiers
// with no match leave the reference unset rather than failing the whole
// reconstruction, so graphs that lost an endpoint to a prior edit still load.
func (g *Graph) OnDeserialized() {
	for _, n := range g.Nodes {
		n.relinkPins()
		n.group = nil
	}

	groups := g.allGroups()
	for _, grp := range g.Groups {
		grp.relink(nil)
	}
	for _, n := range g.Nodes {
		if n.GroupID == "" {
			continue
		}
		grp, ok := groups[n.GroupID]
		if !ok {
			n.GroupID = ""
			continue
		}
		grp.addNode(n)
	}

	pins := g.pinIndex()
	for _, c := range g.Connections {
		c.resolve(pins)
	}
}

// Validate returns nil only if every connection individually validates.
func (g *Graph) Validate() error {
	for _, c := range g.Connections {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("connection %s: %w", c.ID, err)
		}
	}
	if g.MainNodeID != "" && g.Nodes[g.MainNodeID] == nil {
		return ErrMainNodeNotFound
	}
	return nil
}

// allGroups flattens the group forest into an ID map, pre-order.
func (g *Graph) allGroups() map[string]*NodeGroup {
	out := make(map[string]*NodeGroup)
	for _, root := range g.Groups {
		root.Walk(func(grp *NodeGroup) {
			out[grp.ID] = grp
		})
	}
	return out
}

// pinIndex flattens all nodes' pins into an ID map.
func (g *Graph) pinIndex() map[string]*Pin {
	out := make(map[string]*Pin)
	for _, n := range g.Nodes {
		for _, p := range n.InputPins {
			out[p.ID] = p
		}
		for _, p := range n.OutputPins {
			out[p.ID] = p
		}
	}
	return out
}

// connectionsTouching returns connections where either endpoint belongs to node.
func (g *Graph) connectionsTouching(node *Node) []*Connection {
	var out []*Connection
	for _, c := range g.Connections {
		if (c.sourcePin != nil && c.sourcePin.Node() == node) ||
			(c.targetPin != nil && c.targetPin.Node() == node) {
			out = append(out, c)
		}
	}
	return out
}

// MaxNodeVisits returns the configured visit budget or the default.
func (g *Graph) MaxNodeVisits() int {
	if g.Config.MaxNodeVisits > 0 {
		return g.Config.MaxNodeVisits
	}
	return DefaultMaxNodeVisits
}
