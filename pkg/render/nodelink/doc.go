// Package nodelink renders a network as a Graphviz node-link diagram.
//
// # Overview
//
// Nodes appear as rounded boxes filled with their assigned color; edges are
// arrows whose pen width grows with the edge's selection score. This is the
// static counterpart of the interactive HTML viewer.
//
// # Usage
//
//	dot := nodelink.ToDOT(net, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, use [RenderPDF] and [RenderPNG].
//
// # Options
//
//   - Detailed: node labels include the node value and edge labels the score
//   - RankDir: Graphviz rankdir, "LR" by default
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
