// Package prebuilt provides ready-made node types for common graph patterns:
// flow nodes (start, step, branch, counter) and data nodes (const, sum,
// concat, relay, collect). Each type ships a constructor that declares the
// right pins and an evaluator that can be registered on a runtime, so demo
// graphs and tests can be assembled without writing node logic first.
package prebuilt
