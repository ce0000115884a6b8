package dto

import (
	"time"

	"github.com/nodeflow/nodeflow/internal/core/graph"
)

// ExecutionRequest asks the runtime to execute a stored graph
type ExecutionRequest struct {
	GraphID string          `json:"graph_id"`
	Config  ExecutionConfig `json:"config"`
}

// ExecutionConfig contains configuration for graph execution
type ExecutionConfig struct {
	Timeout       time.Duration `json:"timeout"`        // Execution timeout
	DebugMode     bool          `json:"debug_mode"`     // Enable debug logging
	ValidateGraph bool          `json:"validate_graph"` // Validate graph structure before execute
}

// ExecutionResponse represents the result of one engine run.
// Steps lists node evaluations in the order they happened; Outputs is
// populated by data-flow runs with every sink node's resolved pin values.
type ExecutionResponse struct {
	ExecutionID string                            `json:"execution_id"`
	GraphID     string                            `json:"graph_id"`
	Category    graph.GraphCategory               `json:"category"`
	Status      ExecutionStatus                   `json:"status"`
	Steps       []StepResult                      `json:"steps"`
	Outputs     map[string]map[string]interface{} `json:"outputs,omitempty"`
	StartTime   time.Time                         `json:"start_time"`
	EndTime     time.Time                         `json:"end_time"`
	Duration    time.Duration                     `json:"duration"`
	Error       string                            `json:"error,omitempty"`
}

// ExecutionStatus represents the status of graph execution
type ExecutionStatus string

const (
	ExecutionStatusRunning   ExecutionStatus = "running"
	ExecutionStatusCompleted ExecutionStatus = "completed"
	ExecutionStatusFailed    ExecutionStatus = "failed"
	ExecutionStatusCancelled ExecutionStatus = "cancelled"
)

// StepResult represents the result of executing a single node step
type StepResult struct {
	StepNumber int           `json:"step_number"`
	NodeID     string        `json:"node_id"`
	NodeType   string        `json:"node_type"`
	StartTime  time.Time     `json:"start_time"`
	EndTime    time.Time     `json:"end_time"`
	Duration   time.Duration `json:"duration"`
	Status     StepStatus    `json:"status"`
	Error      string        `json:"error,omitempty"`
}

// StepStatus represents the status of a single step
type StepStatus string

const (
	StepStatusCompleted StepStatus = "completed"
	StepStatusFailed    StepStatus = "failed"
	StepStatusSkipped   StepStatus = "skipped"
)

// Validate validates the execution request and fills in defaults
func (req *ExecutionRequest) Validate() error {
	if req.GraphID == "" {
		return ErrMissingGraphID
	}
	if req.Config.Timeout <= 0 {
		req.Config.Timeout = 5 * time.Minute
	}
	return nil
}
