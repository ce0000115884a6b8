// Package main provides the NodeFlow CLI application
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/nodeflow/nodeflow/pkg/nodeflow"
	"github.com/nodeflow/nodeflow/pkg/prebuilt"
	"github.com/nodeflow/nodeflow/pkg/serialization"
)

// Version information set during build
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	if len(args) == 0 {
		printUsage(out)
		return nil
	}

	switch args[0] {
	case "version":
		fmt.Fprintf(out, "NodeFlow %s (commit: %s, built: %s)\n", Version, Commit, BuildTime)
		return nil
	case "run":
		if len(args) < 2 {
			return fmt.Errorf("usage: nodeflow run <graph-file>")
		}
		return runGraphFile(context.Background(), args[1], out)
	default:
		printUsage(out)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func printUsage(out io.Writer) {
	fmt.Fprintln(out, "NodeFlow - visual node-graph execution engine")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Usage:")
	fmt.Fprintln(out, "  nodeflow version            print version information")
	fmt.Fprintln(out, "  nodeflow run <graph-file>   execute a serialized graph")
}

// runGraphFile loads a serialized graph, executes it with the prebuilt node
// types registered, and prints the execution response as JSON.
func runGraphFile(ctx context.Context, path string, out io.Writer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading graph file: %w", err)
	}

	g, err := serialization.Restore(serialization.DefaultSerializer(), data)
	if err != nil {
		return fmt.Errorf("decoding graph: %w", err)
	}

	rt := nodeflow.NewRuntime()
	prebuilt.Register(rt)

	resp, err := rt.RunSimple(ctx, g)
	if err != nil {
		return fmt.Errorf("executing graph %s: %w", g.ID, err)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
