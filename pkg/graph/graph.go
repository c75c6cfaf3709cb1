package graph

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the From node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the To node
	// does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrDuplicateEdge is returned by [Graph.AddEdge] when an edge between the
	// same ordered pair already exists. Multi-edges are not supported.
	ErrDuplicateEdge = errors.New("duplicate edge")

	// ErrNegativeWeight is returned when a node or edge weight is below zero.
	ErrNegativeWeight = errors.New("weight must not be negative")

	// ErrInvalidEdgeEndpoint is returned by [Graph.Validate] when an edge
	// references a node that doesn't exist.
	ErrInvalidEdgeEndpoint = errors.New("invalid edge endpoint")
)

// Node is a weighted vertex.
type Node struct {
	ID     string  // Unique identifier, also the display label
	Weight float64 // Aggregate importance, e.g. speaker count
}

// Edge is a weighted directed connection between two nodes.
type Edge struct {
	From   string  // Source node ID
	To     string  // Target node ID
	Weight float64 // Co-occurrence strength
}

type pair struct{ from, to string }

// Graph is a directed weighted graph with at most one edge per ordered pair.
//
// The zero value is not usable - use New.
type Graph struct {
	nodes    map[string]*Node
	order    []string
	weights  map[pair]float64
	outgoing map[string][]string
	incoming map[string][]string
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[string]*Node),
		weights:  make(map[pair]float64),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
	}
}

// AddNode appends a node. The node keeps its position in [Graph.Nodes] for
// the lifetime of the graph.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateNodeID, n.ID)
	}
	if n.Weight < 0 {
		return fmt.Errorf("node %s: %w", n.ID, ErrNegativeWeight)
	}
	node := n
	g.nodes[n.ID] = &node
	g.order = append(g.order, n.ID)
	return nil
}

// AddEdge adds a directed edge between two existing nodes.
func (g *Graph) AddEdge(e Edge) error {
	if _, ok := g.nodes[e.From]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSourceNode, e.From)
	}
	if _, ok := g.nodes[e.To]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTargetNode, e.To)
	}
	if e.Weight < 0 {
		return fmt.Errorf("edge %s->%s: %w", e.From, e.To, ErrNegativeWeight)
	}
	key := pair{e.From, e.To}
	if _, exists := g.weights[key]; exists {
		return fmt.Errorf("%w: %s->%s", ErrDuplicateEdge, e.From, e.To)
	}
	g.weights[key] = e.Weight
	g.outgoing[e.From] = append(g.outgoing[e.From], e.To)
	g.incoming[e.To] = append(g.incoming[e.To], e.From)
	return nil
}

// RemoveNode deletes the node and every edge incident to it.
// Removing an unknown node is a no-op.
func (g *Graph) RemoveNode(id string) {
	if _, ok := g.nodes[id]; !ok {
		return
	}
	for _, succ := range g.outgoing[id] {
		delete(g.weights, pair{id, succ})
		g.incoming[succ] = slices.DeleteFunc(g.incoming[succ], func(s string) bool { return s == id })
	}
	for _, pred := range g.incoming[id] {
		delete(g.weights, pair{pred, id})
		g.outgoing[pred] = slices.DeleteFunc(g.outgoing[pred], func(s string) bool { return s == id })
	}
	delete(g.outgoing, id)
	delete(g.incoming, id)
	delete(g.nodes, id)
	g.order = slices.DeleteFunc(g.order, func(s string) bool { return s == id })
}

// Node returns the node with the given ID and true, or nil and false.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Weight returns the weight of node id, or 0 if it does not exist.
func (g *Graph) Weight(id string) float64 {
	if n, ok := g.nodes[id]; ok {
		return n.Weight
	}
	return 0
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, len(g.order))
	for i, id := range g.order {
		nodes[i] = g.nodes[id]
	}
	return nodes
}

// NodeIDs returns all node IDs in insertion order.
func (g *Graph) NodeIDs() []string { return slices.Clone(g.order) }

// Edges returns all edges, grouped by source in node order and by target in
// successor order.
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, 0, len(g.weights))
	for _, from := range g.order {
		for _, to := range g.outgoing[from] {
			edges = append(edges, Edge{From: from, To: to, Weight: g.weights[pair{from, to}]})
		}
	}
	return edges
}

// EdgeWeight returns the weight of the edge from→to and whether it exists.
func (g *Graph) EdgeWeight(from, to string) (float64, bool) {
	w, ok := g.weights[pair{from, to}]
	return w, ok
}

// HasEdge reports whether the edge from→to exists.
func (g *Graph) HasEdge(from, to string) bool {
	_, ok := g.weights[pair{from, to}]
	return ok
}

// Successors returns the targets of the node's outgoing edges in insertion
// order. The returned slice should not be modified.
func (g *Graph) Successors(id string) []string { return g.outgoing[id] }

// Predecessors returns the sources of the node's incoming edges in insertion
// order. The returned slice should not be modified.
func (g *Graph) Predecessors(id string) []string { return g.incoming[id] }

// OutDegree returns the number of outgoing edges from the node.
func (g *Graph) OutDegree(id string) int { return len(g.outgoing[id]) }

// InDegree returns the number of incoming edges to the node.
func (g *Graph) InDegree(id string) int { return len(g.incoming[id]) }

// OutWeight returns the sum of the node's outgoing edge weights.
func (g *Graph) OutWeight(id string) float64 {
	var sum float64
	for _, s := range g.outgoing[id] {
		sum += g.weights[pair{id, s}]
	}
	return sum
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.weights) }

// Clone returns a deep copy of the graph.
func (g *Graph) Clone() *Graph {
	c := New()
	for _, n := range g.Nodes() {
		_ = c.AddNode(*n)
	}
	for _, e := range g.Edges() {
		_ = c.AddEdge(e)
	}
	return c
}

// Validate checks that every edge references existing nodes and that all
// weights are non-negative.
func (g *Graph) Validate() error {
	for _, n := range g.nodes {
		if n.Weight < 0 {
			return fmt.Errorf("node %s: %w", n.ID, ErrNegativeWeight)
		}
	}
	for p, w := range g.weights {
		if _, ok := g.nodes[p.from]; !ok {
			return fmt.Errorf("%w: %s->%s", ErrInvalidEdgeEndpoint, p.from, p.to)
		}
		if _, ok := g.nodes[p.to]; !ok {
			return fmt.Errorf("%w: %s->%s", ErrInvalidEdgeEndpoint, p.from, p.to)
		}
		if w < 0 {
			return fmt.Errorf("edge %s->%s: %w", p.from, p.to, ErrNegativeWeight)
		}
	}
	return nil
}
