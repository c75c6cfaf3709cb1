// Package network is the render target of the occugraph pipeline.
//
// A [Network] collects node records (id, label, value, color) and edge
// records (source, target, value) in insertion order. Nodes are addressed by
// ID through a stable ID → index map, so coloring passes never depend on
// the order in which nodes were inserted.
//
// Renderers in pkg/render consume a finished Network; the pipeline stages
// only append to it.
package network

import (
	"errors"
	"fmt"

	"github.com/matzehuels/occugraph/pkg/graph"
)

var (
	// ErrDuplicateNode is returned by [Network.AddNode] for an ID that is
	// already present.
	ErrDuplicateNode = errors.New("duplicate network node")

	// ErrUnknownNode is returned when an edge or color refers to an ID that
	// was never added.
	ErrUnknownNode = errors.New("unknown network node")
)

// Node is a rendered node.
type Node struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Color string  `json:"color,omitempty"`
}

// Edge is a rendered directed edge carrying its selection score.
type Edge struct {
	From  string  `json:"from"`
	To    string  `json:"to"`
	Value float64 `json:"value"`
}

// Network is the write-mostly collection handed to renderers.
//
// The zero value is not usable - use New.
type Network struct {
	nodes []Node
	index map[string]int
	edges []Edge
}

// New creates an empty network.
func New() *Network {
	return &Network{index: make(map[string]int)}
}

// FromGraph creates a network holding every node of g, labelled by ID and
// valued by node weight, in graph order.
func FromGraph(g *graph.Graph) *Network {
	n := New()
	for _, node := range g.Nodes() {
		_ = n.AddNode(node.ID, node.ID, node.Weight)
	}
	return n
}

// AddNode appends a node record.
func (n *Network) AddNode(id, label string, value float64) error {
	if _, ok := n.index[id]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateNode, id)
	}
	n.index[id] = len(n.nodes)
	n.nodes = append(n.nodes, Node{ID: id, Label: label, Value: value})
	return nil
}

// AddEdge appends an edge record between two existing nodes.
func (n *Network) AddEdge(from, to string, value float64) error {
	if _, ok := n.index[from]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownNode, from)
	}
	if _, ok := n.index[to]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownNode, to)
	}
	n.edges = append(n.edges, Edge{From: from, To: to, Value: value})
	return nil
}

// SetColor assigns the display color of node id.
func (n *Network) SetColor(id, color string) error {
	i, ok := n.index[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	n.nodes[i].Color = color
	return nil
}

// Has reports whether node id exists.
func (n *Network) Has(id string) bool {
	_, ok := n.index[id]
	return ok
}

// Node returns a copy of the node record for id.
func (n *Network) Node(id string) (Node, bool) {
	i, ok := n.index[id]
	if !ok {
		return Node{}, false
	}
	return n.nodes[i], true
}

// Index returns the insertion position of node id, or -1.
func (n *Network) Index(id string) int {
	if i, ok := n.index[id]; ok {
		return i
	}
	return -1
}

// Nodes returns a copy of the node records in insertion order.
func (n *Network) Nodes() []Node { return append([]Node(nil), n.nodes...) }

// Edges returns a copy of the edge records in insertion order.
func (n *Network) Edges() []Edge { return append([]Edge(nil), n.edges...) }

// NodeIDs returns the node IDs in insertion order.
func (n *Network) NodeIDs() []string {
	ids := make([]string, len(n.nodes))
	for i, node := range n.nodes {
		ids[i] = node.ID
	}
	return ids
}

// NodeCount returns the number of nodes.
func (n *Network) NodeCount() int { return len(n.nodes) }

// EdgeCount returns the number of edges.
func (n *Network) EdgeCount() int { return len(n.edges) }
