// Package render turns a finished [network.Network] into viewable output.
//
// # Overview
//
// Three renderers are provided in subpackages:
//
//   - [html]: a self-contained interactive page driven by vis-network, with
//     physics layout and an optional physics control panel
//   - [nodelink]: Graphviz DOT source and SVG produced in-process
//   - [sink]: the network as JSON for external tools
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). A [Rasterizer] picks a
// different converter binary or PNG background. A missing converter is an
// UNSUPPORTED error.
//
//	svg, err := nodelink.RenderSVG(ctx, nodelink.ToDOT(net, nodelink.Options{}))
//	pdf, err := render.ToPDF(ctx, svg)
//
// [network.Network]: github.com/matzehuels/occugraph/pkg/network.Network
// [html]: github.com/matzehuels/occugraph/pkg/render/html
// [nodelink]: github.com/matzehuels/occugraph/pkg/render/nodelink
// [sink]: github.com/matzehuels/occugraph/pkg/render/sink
package render
