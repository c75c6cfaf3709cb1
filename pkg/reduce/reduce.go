// Package reduce prunes a graph before edge selection.
package reduce

import "github.com/matzehuels/occugraph/pkg/graph"

// FilterNodes removes, in place, every node whose weight is below minWeight,
// together with its incident edges. It returns the number of removed nodes.
// A threshold of zero or below keeps every node.
func FilterNodes(g *graph.Graph, minWeight float64) int {
	if minWeight <= 0 {
		return 0
	}
	removed := 0
	for _, n := range g.Nodes() {
		if n.Weight < minWeight {
			g.RemoveNode(n.ID)
			removed++
		}
	}
	return removed
}
