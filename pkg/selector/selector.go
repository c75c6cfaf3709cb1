// Package selector keeps, for every node, the top fraction of its outgoing
// edges by score and writes them to a render network.
//
// For a node with successors s1..sk the selector scores each edge with a
// [score.Policy], takes the (1 - proportion)-quantile of those scores as a
// per-node cutoff, and keeps every edge whose score is at least the cutoff.
// The comparison is inclusive, so a tie group straddling the cutoff is kept
// whole and a node may retain more than ceil(k * proportion) edges.
package selector

import (
	"github.com/matzehuels/occugraph/pkg/errors"
	"github.com/matzehuels/occugraph/pkg/graph"
	"github.com/matzehuels/occugraph/pkg/network"
	"github.com/matzehuels/occugraph/pkg/score"
	"github.com/matzehuels/occugraph/pkg/stats"
)

// Stats summarizes a BuildEdges run.
type Stats struct {
	Considered int // outgoing edges scored
	Retained   int // edges written to the network
	Skipped    int // nodes without outgoing edges
}

// Cutoff returns the minimum accepted score for a node's outgoing scores.
// It returns false for an empty distribution.
func Cutoff(scores []float64, proportion float64) (float64, bool) {
	if len(scores) == 0 {
		return 0, false
	}
	q := 1 - proportion
	if q < 0 {
		q = 0
	}
	c, err := stats.Quantile(scores, q)
	if err != nil {
		return 0, false
	}
	return c, true
}

// BuildEdges scores the outgoing edges of every node of g with policy and
// adds the retained ones to net, in graph order.
//
// proportion must lie in (0, 1]. Every node of g must already be in net.
func BuildEdges(g *graph.Graph, net *network.Network, policy score.Policy, proportion float64) (Stats, error) {
	var st Stats
	if err := errors.ValidateProportion(proportion); err != nil {
		return st, err
	}
	if policy == nil {
		policy = score.Mutual
	}

	for _, id := range g.NodeIDs() {
		succ := g.Successors(id)
		if len(succ) == 0 {
			st.Skipped++
			continue
		}
		scores := score.Successors(policy, g, id)
		st.Considered += len(scores)

		cutoff, _ := Cutoff(scores, proportion)
		for k, s := range succ {
			if scores[k] < cutoff {
				continue
			}
			if err := net.AddEdge(id, s, scores[k]); err != nil {
				return st, errors.Wrap(errors.ErrCodePrecondition, err, "add edge %s->%s", id, s)
			}
			st.Retained++
		}
	}
	return st, nil
}
