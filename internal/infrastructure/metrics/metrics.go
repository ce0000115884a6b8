package metrics

import (
	"expvar"
)

// Engine metrics.
var (
	flowStepsTotal      = new(expvar.Int)
	dataPassesTotal     = new(expvar.Int)
	nodeEvalsTotal      = new(expvar.Int)
	cycleErrorsTotal    = new(expvar.Int)
	visitBudgetHits     = new(expvar.Int)
	runsTotal           = expvar.NewMap("nodeflow_runs_total")
	connectsRejected    = expvar.NewMap("nodeflow_connects_rejected_total")
	snapshotBytesStored = new(expvar.Int)
)

func init() {
	expvar.Publish("nodeflow_flow_steps_total", flowStepsTotal)
	expvar.Publish("nodeflow_data_passes_total", dataPassesTotal)
	expvar.Publish("nodeflow_node_evaluations_total", nodeEvalsTotal)
	expvar.Publish("nodeflow_cycle_errors_total", cycleErrorsTotal)
	expvar.Publish("nodeflow_visit_budget_hits_total", visitBudgetHits)
	expvar.Publish("nodeflow_snapshot_bytes_stored", snapshotBytesStored)
}

// Engine helpers
func IncFlowSteps()                 { flowStepsTotal.Add(1) }
func IncDataPasses()                { dataPassesTotal.Add(1) }
func IncNodeEvals()                 { nodeEvalsTotal.Add(1) }
func IncCycleErrors()               { cycleErrorsTotal.Add(1) }
func IncVisitBudgetHits()           { visitBudgetHits.Add(1) }
func IncRuns(category string)       { runsTotal.Add(category, 1) }
func ConnectRejected(reason string) { connectsRejected.Add(reason, 1) }

// Snapshot helpers
func AddSnapshotBytes(n int64) { snapshotBytesStored.Add(n) }
