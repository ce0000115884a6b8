// Package metrics exposes expvar-published counters and gauges used by the
// nodeflow engines and graph mutation paths. It intentionally avoids
// external dependencies and is consumed by the optional nodeflow-server for
// /debug/vars and /metrics endpoints.
package metrics
