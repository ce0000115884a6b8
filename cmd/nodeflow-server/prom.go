package main

import (
	"expvar"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// promMetricsHandler renders expvar-published metrics in Prometheus text
// exposition format. It supports the known NodeFlow metrics and falls back to
// a minimal conversion for other numeric expvar vars.
func promMetricsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

	type meta struct {
		typ, help string
		isMap     bool
		label     string
	}
	metas := map[string]meta{
		"nodeflow_flow_steps_total":        {typ: "counter", help: "Control-flow node steps executed"},
		"nodeflow_data_passes_total":       {typ: "counter", help: "Data-flow evaluation passes completed"},
		"nodeflow_node_evaluations_total":  {typ: "counter", help: "Node evaluation hook invocations"},
		"nodeflow_cycle_errors_total":      {typ: "counter", help: "Data-flow runs aborted on a cyclic dependency"},
		"nodeflow_visit_budget_hits_total": {typ: "counter", help: "Control-flow runs aborted on the visit budget"},
		"nodeflow_snapshot_bytes_stored":   {typ: "counter", help: "Serialized snapshot bytes written to stores"},
		"nodeflow_runs_total":              {typ: "counter", help: "Engine runs by graph category", isMap: true, label: "category"},
		"nodeflow_connects_rejected_total": {typ: "counter", help: "Rejected connection attempts by reason", isMap: true, label: "reason"},
	}

	// Collect variable names deterministically
	varNames := make([]string, 0, 64)
	expvar.Do(func(kv expvar.KeyValue) {
		varNames = append(varNames, kv.Key)
	})
	sort.Strings(varNames)

	for _, name := range varNames {
		v := expvar.Get(name)
		m, known := metas[name]
		if !known {
			// Minimal rendering: publish as an untyped gauge if numeric
			if iv, ok := v.(*expvar.Int); ok {
				fmt.Fprintf(w, "# TYPE %s gauge\n", name)
				fmt.Fprintf(w, "%s %s\n", name, iv.String())
			}
			continue
		}

		fmt.Fprintf(w, "# HELP %s %s\n", name, sanitizeHelp(m.help))
		fmt.Fprintf(w, "# TYPE %s %s\n", name, m.typ)
		if m.isMap {
			if mp, ok := v.(*expvar.Map); ok {
				sub := make([]expvar.KeyValue, 0, 8)
				mp.Do(func(kv expvar.KeyValue) { sub = append(sub, kv) })
				sort.Slice(sub, func(i, j int) bool { return sub[i].Key < sub[j].Key })
				for _, kv := range sub {
					fmt.Fprintf(w, "%s{%s=\"%s\"} %s\n", name, m.label, escapeLabel(kv.Key), kv.Value.String())
				}
			}
		} else {
			fmt.Fprintf(w, "%s %s\n", name, v.String())
		}
	}
}

func sanitizeHelp(s string) string {
	// Replace newlines with spaces to satisfy Prometheus text format
	return strings.ReplaceAll(s, "\n", " ")
}

func escapeLabel(s string) string {
	// Escape backslash, double-quote, and newline per Prometheus format
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
