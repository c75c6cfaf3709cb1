// Package sink exports a network as JSON.
//
// The document carries the build parameters next to the nodes and edges so
// that external tools can tell how a given selection was produced:
//
//	{
//	  "build_id": "6f1c...",
//	  "params": {"min_weight": 500, "edges_proportion": 0.05, ...},
//	  "nodes": [{"id": "doctor_female", "label": "doctor_female", "value": 1200, "color": "rgba(0,0,0,1.0)"}],
//	  "edges": [{"from": "doctor_female", "to": "lawyer_male", "value": 0.0004}]
//	}
package sink

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/matzehuels/occugraph/pkg/network"
)

// Params records the pipeline settings that produced a network.
type Params struct {
	MinWeight       float64 `json:"min_weight"`
	EdgesProportion float64 `json:"edges_proportion"`
	Policy          string  `json:"policy"`
	Coloring        string  `json:"coloring"`
}

// Document is the JSON export format.
type Document struct {
	BuildID string         `json:"build_id,omitempty"`
	Params  *Params        `json:"params,omitempty"`
	Nodes   []network.Node `json:"nodes"`
	Edges   []network.Edge `json:"edges"`
}

// Options configures the JSON export.
type Options struct {
	BuildID string
	Params  *Params
	Compact bool // disable indentation
}

// NewDocument snapshots net into a Document.
func NewDocument(net *network.Network, opts Options) Document {
	doc := Document{
		BuildID: opts.BuildID,
		Params:  opts.Params,
		Nodes:   net.Nodes(),
		Edges:   net.Edges(),
	}
	if doc.Nodes == nil {
		doc.Nodes = []network.Node{}
	}
	if doc.Edges == nil {
		doc.Edges = []network.Edge{}
	}
	return doc
}

// WriteJSON writes net as a JSON document to w.
func WriteJSON(net *network.Network, w io.Writer, opts Options) error {
	enc := json.NewEncoder(w)
	if !opts.Compact {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(NewDocument(net, opts)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// RenderJSON returns net as JSON bytes.
func RenderJSON(net *network.Network, opts Options) ([]byte, error) {
	doc := NewDocument(net, opts)
	if opts.Compact {
		return json.Marshal(doc)
	}
	return json.MarshalIndent(doc, "", "  ")
}

// ReadJSON decodes a Document previously written by [WriteJSON] back into
// a network.
func ReadJSON(r io.Reader) (*network.Network, Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, doc, fmt.Errorf("decode: %w", err)
	}
	net := network.New()
	for _, n := range doc.Nodes {
		if err := net.AddNode(n.ID, n.Label, n.Value); err != nil {
			return nil, doc, err
		}
		if n.Color != "" {
			_ = net.SetColor(n.ID, n.Color)
		}
	}
	for _, e := range doc.Edges {
		if err := net.AddEdge(e.From, e.To, e.Value); err != nil {
			return nil, doc, err
		}
	}
	return net, doc, nil
}
