package io

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/occugraph/pkg/errors"
	"github.com/matzehuels/occugraph/pkg/graph"
)

// ReadAdjacency decodes an adjacency JSON document from r into a graph.
//
// ReadAdjacency returns an INVALID_INPUT error if the JSON is malformed,
// the document is a multigraph, a node ID is duplicated, a weight is
// negative, or the adjacency list is longer than the node list. An edge to
// an unlisted node is a PRECONDITION error. ReadAdjacency does not close r.
func ReadAdjacency(r io.Reader) (*graph.Graph, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode adjacency")
	}
	if doc.Multigraph {
		return nil, errors.New(errors.ErrCodeInvalidInput, "multigraphs are not supported")
	}
	if len(doc.Adjacency) > len(doc.Nodes) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "adjacency has %d entries for %d nodes", len(doc.Adjacency), len(doc.Nodes))
	}

	g := graph.New()
	for _, n := range doc.Nodes {
		if err := g.AddNode(graph.Node{ID: n.ID, Weight: weightOr(n.Weight)}); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "node %q", n.ID)
		}
	}
	for i, targets := range doc.Adjacency {
		from := doc.Nodes[i].ID
		for _, t := range targets {
			err := g.AddEdge(graph.Edge{From: from, To: t.ID, Weight: weightOr(t.Weight)})
			switch {
			case err == nil:
			case isMissingEndpoint(err):
				return nil, errors.Wrap(errors.ErrCodePrecondition, err, "edge %s->%s", from, t.ID)
			default:
				return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "edge %s->%s", from, t.ID)
			}
		}
	}
	return g, nil
}

// ImportAdjacency reads an adjacency JSON file at path.
func ImportAdjacency(path string) (*graph.Graph, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadAdjacency(f)
}

func isMissingEndpoint(err error) bool {
	return stderrors.Is(err, graph.ErrUnknownSourceNode) || stderrors.Is(err, graph.ErrUnknownTargetNode)
}
