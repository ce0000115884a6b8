// Package graph provides node definitions
package graph

import "github.com/google/uuid"

// Node is an executable unit owning a fixed, ordered set of input and
// output pins. Nodes never own other nodes; the graph owns all of them.
// Pin values are mutated only by the node's evaluation step or by an
// incoming connection's propagation.
// PRINCIPLES:
// - KISS: Nodes are data; evaluation hooks live in a type registry
// - SRP: Only responsible for node structure and pin access
type Node struct {
	ID         string                 `json:"id"`
	Type       string                 `json:"type"`
	Name       string                 `json:"name"`
	Position   Point                  `json:"position"`
	Width      float64                `json:"width,omitempty"`
	Height     float64                `json:"height,omitempty"`
	GroupID    string                 `json:"group_id,omitempty"`
	InputPins  []*Pin                 `json:"input_pins"`
	OutputPins []*Pin                 `json:"output_pins"`
	Config     map[string]interface{} `json:"config,omitempty"`

	group *NodeGroup
}

// NewNode creates a node of the given type with a generated ID.
func NewNode(nodeType, name string) *Node {
	return &Node{
		ID:   uuid.NewString(),
		Type: nodeType,
		Name: name,
	}
}

// Group returns the group the node belongs to, or nil.
func (n *Node) Group() *NodeGroup { return n.group }

// Bounds returns the node's rectangle on the canvas.
func (n *Node) Bounds() Rect {
	return Rect{X: n.Position.X, Y: n.Position.Y, Width: n.Width, Height: n.Height}
}

// AddInputPin appends a pin to the ordered input list and attaches it.
func (n *Node) AddInputPin(p *Pin) *Pin {
	p.Direction = PinInput
	p.attach(n)
	n.InputPins = append(n.InputPins, p)
	return p
}

// AddOutputPin appends a pin to the ordered output list and attaches it.
func (n *Node) AddOutputPin(p *Pin) *Pin {
	p.Direction = PinOutput
	p.attach(n)
	n.OutputPins = append(n.OutputPins, p)
	return p
}

// Pin looks up a pin by ID across both pin lists.
func (n *Node) Pin(id string) *Pin {
	for _, p := range n.InputPins {
		if p.ID == id {
			return p
		}
	}
	for _, p := range n.OutputPins {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// InputPin looks up an input pin by name.
func (n *Node) InputPin(name string) *Pin {
	for _, p := range n.InputPins {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// OutputPin looks up an output pin by name.
func (n *Node) OutputPin(name string) *Pin {
	for _, p := range n.OutputPins {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// FlowInputs returns the flow input pins in declaration order.
func (n *Node) FlowInputs() []*Pin { return filterPins(n.InputPins, true) }

// FlowOutputs returns the flow output pins in declaration order.
func (n *Node) FlowOutputs() []*Pin { return filterPins(n.OutputPins, true) }

// DataInputs returns the data input pins in declaration order.
func (n *Node) DataInputs() []*Pin { return filterPins(n.InputPins, false) }

// DataOutputs returns the data output pins in declaration order.
func (n *Node) DataOutputs() []*Pin { return filterPins(n.OutputPins, false) }

// IsEntry reports whether the node is shaped like a control-flow entry:
// no flow inputs and at least one flow output.
func (n *Node) IsEntry() bool {
	return len(n.FlowInputs()) == 0 && len(n.FlowOutputs()) > 0
}

// IsSink reports whether the node is shaped like a data-flow sink:
// at least one data input and no data outputs.
func (n *Node) IsSink() bool {
	return len(n.DataInputs()) > 0 && len(n.DataOutputs()) == 0
}

// Input returns the current value of the named input pin.
func (n *Node) Input(name string) (interface{}, bool) {
	p := n.InputPin(name)
	if p == nil || p.Value == nil {
		return nil, false
	}
	return p.Value, true
}

// SetOutput writes a value to the named output pin.
func (n *Node) SetOutput(name string, v interface{}) bool {
	p := n.OutputPin(name)
	if p == nil {
		return false
	}
	p.Value = v
	return true
}

// Validate ensures node integrity
func (n *Node) Validate() error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if n.Type == "" {
		return ErrInvalidType
	}
	for _, p := range n.InputPins {
		if err := p.Validate(); err != nil {
			return err
		}
		if p.Direction != PinInput {
			return ErrPinDirection
		}
	}
	for _, p := range n.OutputPins {
		if err := p.Validate(); err != nil {
			return err
		}
		if p.Direction != PinOutput {
			return ErrPinDirection
		}
	}
	return nil
}

// relinkPins rebuilds pin-to-node back-references after deserialization.
func (n *Node) relinkPins() {
	for _, p := range n.InputPins {
		p.attach(n)
	}
	for _, p := range n.OutputPins {
		p.attach(n)
	}
}

func filterPins(pins []*Pin, flow bool) []*Pin {
	var out []*Pin
	for _, p := range pins {
		if p.IsFlow == flow {
			out = append(out, p)
		}
	}
	return out
}
