// Package graph provides pin definitions
package graph

import "github.com/google/uuid"

// PinDirection tells whether a pin consumes or produces.
type PinDirection string

const (
	// PinInput marks a pin that receives a signal or value.
	PinInput PinDirection = "input"
	// PinOutput marks a pin that emits a signal or value.
	PinOutput PinDirection = "output"
)

// DataTypeAny is compatible with every other data type.
const DataTypeAny = "any"

// Pin is a typed, directional connection point owned by exactly one node.
// A flow pin sequences control-flow execution and never carries a payload;
// a data pin carries a value filled in by evaluation or by propagation from
// an upstream connection. Direction never changes after creation.
// PRINCIPLES:
// - KISS: Plain struct, id-based back-reference to the owning node
// - SRP: Only responsible for pin data and connectability rules
type Pin struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Direction PinDirection `json:"direction"`
	DataType  string       `json:"data_type,omitempty"`
	IsFlow    bool         `json:"is_flow,omitempty"`
	Value     interface{}  `json:"value,omitempty"`
	NodeID    string       `json:"node_id,omitempty"`

	node *Node
}

// NewPin creates a data pin with a generated ID.
func NewPin(name string, direction PinDirection, dataType string) *Pin {
	return &Pin{
		ID:        uuid.NewString(),
		Name:      name,
		Direction: direction,
		DataType:  dataType,
	}
}

// NewFlowPin creates a flow pin with a generated ID.
func NewFlowPin(name string, direction PinDirection) *Pin {
	return &Pin{
		ID:        uuid.NewString(),
		Name:      name,
		Direction: direction,
		IsFlow:    true,
	}
}

// Node returns the owning node, or nil before relinking.
func (p *Pin) Node() *Node { return p.node }

// HasValue reports whether the pin currently holds a value.
func (p *Pin) HasValue() bool { return p.Value != nil }

// Validate ensures pin integrity
func (p *Pin) Validate() error {
	if p.ID == "" {
		return ErrInvalidPinID
	}
	if p.Direction != PinInput && p.Direction != PinOutput {
		return ErrPinDirection
	}
	return nil
}

// CanConnectTo reports whether a connection from p to target would be valid.
// The check covers direction, flow-kind and data-type compatibility; whether
// the target is already occupied is a graph-level policy checked by Connect.
func (p *Pin) CanConnectTo(target *Pin) error {
	if target == nil {
		return ErrNilPin
	}
	if p.Direction != PinOutput || target.Direction != PinInput {
		return ErrPinDirection
	}
	if p.IsFlow != target.IsFlow {
		return ErrFlowKindMismatch
	}
	if !p.IsFlow && !compatibleDataTypes(p.DataType, target.DataType) {
		return ErrTypeMismatch
	}
	return nil
}

func (p *Pin) attach(n *Node) {
	p.node = n
	if n != nil {
		p.NodeID = n.ID
	}
}

// compatibleDataTypes applies the type compatibility rule: exact match, or
// either side declared as "any" (an empty type is treated like "any").
func compatibleDataTypes(a, b string) bool {
	if a == "" || b == "" || a == DataTypeAny || b == DataTypeAny {
		return true
	}
	return a == b
}
