// Package nodeflow provides a minimal public façade for constructing and
// executing node graphs without importing internal packages. It re-exports
// the core graph types for convenience and exposes a Runtime with simple
// methods to register node evaluators, save graphs and run them.
package nodeflow
