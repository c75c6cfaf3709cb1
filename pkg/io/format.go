package io

type document struct {
	Directed   bool             `json:"directed"`
	Multigraph bool             `json:"multigraph"`
	Graph      map[string]any   `json:"graph"`
	Nodes      []nodeRecord     `json:"nodes"`
	Adjacency  [][]targetRecord `json:"adjacency"`
}

type nodeRecord struct {
	ID     string   `json:"id"`
	Weight *float64 `json:"weight,omitempty"`
}

type targetRecord struct {
	ID     string   `json:"id"`
	Weight *float64 `json:"weight,omitempty"`
}

// defaultWeight applies to nodes and edges without an explicit weight.
const defaultWeight = 1.0

func weightOr(w *float64) float64 {
	if w == nil {
		return defaultWeight
	}
	return *w
}
