// Package graph provides connection definitions
package graph

import "github.com/google/uuid"

// Connection is a directed edge from one output pin to one input pin.
// The persisted form stores only pin IDs; the live pin references are
// rebuilt from those IDs during relinking.
type Connection struct {
	ID          string `json:"id"`
	SourcePinID string `json:"source_pin_id"`
	TargetPinID string `json:"target_pin_id"`

	sourcePin *Pin
	targetPin *Pin
}

// NewConnection wires two already-attached pins together. It does not
// validate compatibility; Graph.Connect is the validated entry point.
func NewConnection(source, target *Pin) *Connection {
	c := &Connection{ID: uuid.NewString()}
	c.sourcePin = source
	c.targetPin = target
	if source != nil {
		c.SourcePinID = source.ID
	}
	if target != nil {
		c.TargetPinID = target.ID
	}
	return c
}

// SourcePin returns the resolved source pin, or nil when unresolved.
func (c *Connection) SourcePin() *Pin { return c.sourcePin }

// TargetPin returns the resolved target pin, or nil when unresolved.
func (c *Connection) TargetPin() *Pin { return c.targetPin }

// Propagate pushes the source pin's current value into the target pin.
// Flow connections carry no payload and are left untouched.
func (c *Connection) Propagate() {
	if c.sourcePin == nil || c.targetPin == nil || c.sourcePin.IsFlow {
		return
	}
	c.targetPin.Value = c.sourcePin.Value
}

// Validate ensures both endpoints are resolved and mutually compatible.
func (c *Connection) Validate() error {
	if c.sourcePin == nil || c.targetPin == nil {
		return ErrUnresolvedConnection
	}
	return c.sourcePin.CanConnectTo(c.targetPin)
}

// disconnect detaches both ends and clears any value the connection had
// propagated into its target.
func (c *Connection) disconnect() {
	if c.targetPin != nil && !c.targetPin.IsFlow {
		c.targetPin.Value = nil
	}
	c.sourcePin = nil
	c.targetPin = nil
}

// resolve rebuilds pin references from the stored IDs. Unknown IDs leave
// the reference unset; a prior edit may have removed the endpoint.
func (c *Connection) resolve(pins map[string]*Pin) {
	c.sourcePin = pins[c.SourcePinID]
	c.targetPin = pins[c.TargetPinID]
}
