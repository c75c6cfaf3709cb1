package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/occugraph/pkg/graph"
)

// WriteAdjacency encodes g as an adjacency JSON document and writes it to w.
// The output can be re-imported with [ReadAdjacency].
func WriteAdjacency(g *graph.Graph, w io.Writer) error {
	nodes := g.Nodes()
	doc := document{
		Directed:  true,
		Graph:     map[string]any{},
		Nodes:     make([]nodeRecord, len(nodes)),
		Adjacency: make([][]targetRecord, len(nodes)),
	}
	for i, n := range nodes {
		weight := n.Weight
		doc.Nodes[i] = nodeRecord{ID: n.ID, Weight: &weight}

		targets := make([]targetRecord, 0, g.OutDegree(n.ID))
		for _, s := range g.Successors(n.ID) {
			ew, _ := g.EdgeWeight(n.ID, s)
			targets = append(targets, targetRecord{ID: s, Weight: &ew})
		}
		doc.Adjacency[i] = targets
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportAdjacency writes g to an adjacency JSON file at path.
func ExportAdjacency(g *graph.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteAdjacency(g, f)
}
