package serialization

import (
	"fmt"

	"github.com/nodeflow/nodeflow/internal/core/graph"
)

// Snapshot serializes a graph into its identifier-keyed persisted form.
// All cross-references (pin to node, node to group, connection to pins)
// travel as stored IDs; live pointers never leave the process.
func Snapshot(s *Serializer, g *graph.Graph) ([]byte, error) {
	if g == nil {
		return nil, fmt.Errorf("cannot snapshot a nil graph")
	}
	data, err := s.Serialize(g)
	if err != nil {
		return nil, fmt.Errorf("snapshot graph %s: %w", g.ID, err)
	}
	return data, nil
}

// Restore deserializes a snapshot and relinks every navigation reference
// from the stored identifiers. Dangling IDs are tolerated: the affected
// reference stays unresolved instead of failing the whole load.
func Restore(s *Serializer, data []byte) (*graph.Graph, error) {
	var g graph.Graph
	if err := s.Deserialize(data, &g); err != nil {
		return nil, fmt.Errorf("restore graph: %w", err)
	}
	g.OnDeserialized()
	return &g, nil
}
