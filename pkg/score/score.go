// Package score defines the pluggable policies that turn a raw edge weight
// into the value used for edge selection and incoming-weight coloring.
//
// Four policies are available:
//
//   - [Raw]: the edge weight itself
//   - [Mutual]: w(u,v) / (weight(u) * weight(v)), the default
//   - [Target]: w(u,v) / weight(v)
//   - [OutShare]: w(u,v) / sum of u's outgoing weights
//
// The relative policies keep heavily populated nodes from dominating purely
// by magnitude. A zero denominator scores 0.
package score

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/matzehuels/occugraph/pkg/graph"
)

// Policy names.
const (
	NameRaw      = "raw"
	NameMutual   = "mutual"
	NameTarget   = "target"
	NameOutShare = "outshare"
)

// DefaultName is the policy used when none is configured.
const DefaultName = NameMutual

// Policy scores the directed edge from→to of g.
// Callers guarantee the edge exists.
type Policy interface {
	Name() string
	Score(g *graph.Graph, from, to string) float64
}

// PolicyFunc adapts a function to the Policy interface.
type PolicyFunc struct {
	N string
	F func(g *graph.Graph, from, to string) float64
}

// Name returns the policy name.
func (p PolicyFunc) Name() string { return p.N }

// Score calls F.
func (p PolicyFunc) Score(g *graph.Graph, from, to string) float64 { return p.F(g, from, to) }

func edge(g *graph.Graph, from, to string) float64 {
	w, _ := g.EdgeWeight(from, to)
	return w
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

var (
	// Raw scores an edge by its weight.
	Raw Policy = PolicyFunc{NameRaw, func(g *graph.Graph, from, to string) float64 {
		return edge(g, from, to)
	}}

	// Mutual scores an edge relative to the weights of both endpoints.
	Mutual Policy = PolicyFunc{NameMutual, func(g *graph.Graph, from, to string) float64 {
		return ratio(edge(g, from, to), g.Weight(from)*g.Weight(to))
	}}

	// Target scores an edge relative to the weight of its target.
	Target Policy = PolicyFunc{NameTarget, func(g *graph.Graph, from, to string) float64 {
		return ratio(edge(g, from, to), g.Weight(to))
	}}

	// OutShare scores an edge as its share of the source's outgoing weight.
	OutShare Policy = PolicyFunc{NameOutShare, func(g *graph.Graph, from, to string) float64 {
		return ratio(edge(g, from, to), g.OutWeight(from))
	}}
)

var registry = map[string]Policy{
	NameRaw:      Raw,
	NameMutual:   Mutual,
	NameTarget:   Target,
	NameOutShare: OutShare,
}

// ErrUnknownPolicy is wrapped by [Lookup] for unregistered names.
var ErrUnknownPolicy = errors.New("unknown scoring policy")

// Lookup returns the policy registered under name. An empty name selects
// [DefaultName]. Lookup is case-insensitive.
func Lookup(name string) (Policy, error) {
	if name == "" {
		name = DefaultName
	}
	p, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q (must be one of: %s)", ErrUnknownPolicy, name, strings.Join(Names(), ", "))
	}
	return p, nil
}

// Names returns the registered policy names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Successors scores every outgoing edge of id in successor order.
func Successors(p Policy, g *graph.Graph, id string) []float64 {
	succ := g.Successors(id)
	scores := make([]float64, len(succ))
	for i, s := range succ {
		scores[i] = p.Score(g, id, s)
	}
	return scores
}

// Incoming sums the scores of every incoming edge of id.
func Incoming(p Policy, g *graph.Graph, id string) float64 {
	var sum float64
	for _, pred := range g.Predecessors(id) {
		sum += p.Score(g, pred, id)
	}
	return sum
}
