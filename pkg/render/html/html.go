// Package html renders a network as a self-contained interactive page.
//
// The page loads vis-network from a CDN and lets the browser run the
// force-directed physics layout. Node size follows the node value, node
// color follows the colorizer output and edge width follows the edge score.
// With PhysicsControls enabled the page also shows vis-network's physics
// configurator so the layout can be tuned live.
package html

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"strconv"

	"github.com/matzehuels/occugraph/pkg/network"
)

// Defaults match the dimensions of the original notebook viewer.
const (
	DefaultHeight = "750px"
	DefaultWidth  = "100%"
	DefaultTitle  = "occugraph"

	// DefaultScript is the vis-network bundle loaded by the page.
	DefaultScript = "https://unpkg.com/vis-network@9.1.9/standalone/umd/vis-network.min.js"
)

// Options configures the HTML page.
type Options struct {
	Title           string
	Height          string
	Width           string
	Directed        bool
	PhysicsControls bool
	BuildID         string
	ScriptURL       string
}

// DefaultOptions returns the options used by the CLI.
func DefaultOptions() Options {
	return Options{
		Title:           DefaultTitle,
		Height:          DefaultHeight,
		Width:           DefaultWidth,
		Directed:        true,
		PhysicsControls: true,
		ScriptURL:       DefaultScript,
	}
}

type visNode struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Title string  `json:"title"`
	Color string  `json:"color,omitempty"`
}

type visEdge struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Value  float64 `json:"value"`
	Title  string  `json:"title"`
	Arrows string  `json:"arrows,omitempty"`
}

type page struct {
	Options
	Nodes []visNode
	Edges []visEdge
}

//go:embed page.html.tmpl
var pageSource string

var pageTmpl = template.Must(template.New("page").Parse(pageSource))

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Title == "" {
		o.Title = d.Title
	}
	if o.Height == "" {
		o.Height = d.Height
	}
	if o.Width == "" {
		o.Width = d.Width
	}
	if o.ScriptURL == "" {
		o.ScriptURL = d.ScriptURL
	}
	return o
}

// Write renders net as an HTML page to w.
func Write(net *network.Network, w io.Writer, opts Options) error {
	opts = opts.withDefaults()
	p := page{Options: opts, Nodes: []visNode{}, Edges: []visEdge{}}

	for _, n := range net.Nodes() {
		p.Nodes = append(p.Nodes, visNode{
			ID:    n.ID,
			Label: n.Label,
			Value: n.Value,
			Title: fmt.Sprintf("%s\nweight: %s", n.Label, strconv.FormatFloat(n.Value, 'g', -1, 64)),
			Color: n.Color,
		})
	}
	arrows := ""
	if opts.Directed {
		arrows = "to"
	}
	for _, e := range net.Edges() {
		p.Edges = append(p.Edges, visEdge{
			From:   e.From,
			To:     e.To,
			Value:  e.Value,
			Title:  "score: " + strconv.FormatFloat(e.Value, 'g', 6, 64),
			Arrows: arrows,
		})
	}

	if err := pageTmpl.Execute(w, p); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

// Render returns net as HTML bytes.
func Render(net *network.Network, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(net, &buf, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
