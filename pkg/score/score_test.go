package score

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/occugraph/pkg/graph"
)

func fixture(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	require.NoError(t, g.AddNode(graph.Node{ID: "A", Weight: 100}))
	require.NoError(t, g.AddNode(graph.Node{ID: "B", Weight: 50}))
	require.NoError(t, g.AddNode(graph.Node{ID: "C", Weight: 10}))
	require.NoError(t, g.AddNode(graph.Node{ID: "Z", Weight: 0}))
	require.NoError(t, g.AddEdge(graph.Edge{From: "A", To: "B", Weight: 40}))
	require.NoError(t, g.AddEdge(graph.Edge{From: "A", To: "C", Weight: 5}))
	require.NoError(t, g.AddEdge(graph.Edge{From: "B", To: "C", Weight: 20}))
	require.NoError(t, g.AddEdge(graph.Edge{From: "A", To: "Z", Weight: 5}))
	return g
}

func TestPolicies(t *testing.T) {
	g := fixture(t)
	tests := []struct {
		policy Policy
		from   string
		to     string
		want   float64
	}{
		{Raw, "A", "B", 40},
		{Mutual, "A", "B", 40.0 / 5000},
		{Target, "A", "B", 40.0 / 50},
		{OutShare, "A", "B", 40.0 / 50},
		{OutShare, "A", "C", 5.0 / 50},
		{Mutual, "B", "C", 20.0 / 500},
		{Target, "B", "C", 2},
	}

	for _, tt := range tests {
		t.Run(tt.policy.Name()+"/"+tt.from+tt.to, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.policy.Score(g, tt.from, tt.to), 1e-12)
		})
	}
}

func TestZeroDenominator(t *testing.T) {
	g := fixture(t)
	for _, p := range []Policy{Mutual, Target} {
		got := p.Score(g, "A", "Z")
		assert.False(t, math.IsNaN(got) || math.IsInf(got, 0), "%s produced %v", p.Name(), got)
		assert.Zero(t, got)
	}
}

func TestLookup(t *testing.T) {
	p, err := Lookup("")
	require.NoError(t, err)
	assert.Equal(t, NameMutual, p.Name())

	p, err = Lookup("OutShare")
	require.NoError(t, err)
	assert.Equal(t, NameOutShare, p.Name())

	_, err = Lookup("pagerank")
	assert.True(t, errors.Is(err, ErrUnknownPolicy))
	assert.Equal(t, []string{"mutual", "outshare", "raw", "target"}, Names())
}

func TestSuccessorsAndIncoming(t *testing.T) {
	g := fixture(t)
	assert.Equal(t, []float64{40, 5, 5}, Successors(Raw, g, "A"))
	assert.Empty(t, Successors(Raw, g, "C"))
	assert.InDelta(t, 25, Incoming(Raw, g, "C"), 1e-12)
	assert.Zero(t, Incoming(Raw, g, "A"))
}
