// Package graph defines domain-specific errors
package graph

import "errors"

// Domain errors - DRY principle: defined once, used everywhere
var (
	// Graph errors
	ErrGraphNotFound    = errors.New("graph not found")
	ErrInvalidGraphID   = errors.New("invalid graph ID")
	ErrInvalidCategory  = errors.New("invalid graph category")
	ErrNoMainNode       = errors.New("no main node confirmed for graph")
	ErrMainNodeNotFound = errors.New("main node not found in graph")
	ErrInvalidEntryNode = errors.New("main node is not a valid entry node")
	ErrInvalidSinkNode  = errors.New("main node is not a valid sink node")
	ErrCyclicDependency = errors.New("cyclic data dependency detected")
	ErrVisitBudget      = errors.New("node visit budget exceeded")

	// Node errors
	ErrNilNode        = errors.New("node cannot be nil")
	ErrInvalidNodeID  = errors.New("invalid node ID")
	ErrInvalidType    = errors.New("invalid node type")
	ErrNodeNotFound   = errors.New("node not found")
	ErrNodeNotInGraph = errors.New("node does not belong to the graph")

	// Pin errors
	ErrNilPin           = errors.New("pin cannot be nil")
	ErrInvalidPinID     = errors.New("invalid pin ID")
	ErrDetachedPin      = errors.New("pin is not attached to a node")
	ErrPinDirection     = errors.New("source must be an output pin and target an input pin")
	ErrFlowKindMismatch = errors.New("flow pins connect only to flow pins")
	ErrTypeMismatch     = errors.New("pin data types are not compatible")
	ErrPinOccupied      = errors.New("target pin already has a connection")

	// Connection errors
	ErrNilConnection        = errors.New("connection cannot be nil")
	ErrUnresolvedConnection = errors.New("connection endpoints are unresolved")

	// Group errors
	ErrNilGroup      = errors.New("group cannot be nil")
	ErrGroupNotFound = errors.New("group not found")
	ErrGroupCycle    = errors.New("group cannot become a descendant of itself")
)
