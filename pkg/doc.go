// Package pkg provides the core libraries of occugraph.
//
// # Overview
//
// Occugraph turns a weighted occupation/gender co-occurrence graph into a
// readable network: light nodes are dropped, every node keeps only its
// strongest out-edges relative to its own distribution, and nodes are
// colored by how much weight flows into them or by their category suffix.
//
// # Architecture
//
// The data flow through occugraph:
//
//	adjacency JSON (file or URL)
//	         ↓
//	    [io] package (decode into a graph)
//	         ↓
//	    [reduce] package (node filter, in place)
//	         ↓
//	    [selector] package (quantile edge selection, scored by [score])
//	         ↓
//	    [colorize] package (incoming or categorical colors)
//	         ↓
//	    [render] packages (HTML viewer, Graphviz DOT/SVG/PNG/PDF, JSON)
//
// [pipeline] wires the stages together and caches rendered artifacts
// through [cache]; [server] exposes the same pipeline over HTTP.
//
// # Quick Start
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input:           "speakers.json",
//	    MinWeight:       500,
//	    EdgesProportion: 0.05,
//	    Formats:         []string{pipeline.FormatHTML},
//	})
//	os.WriteFile("speakers.html", result.Artifacts[pipeline.FormatHTML], 0o644)
//
// # Main Packages
//
//   - [graph]: directed weighted graph with cascading node removal
//   - [network]: the render target of nodes, selected edges and colors
//   - [score], [stats]: edge scoring policies and quantile helpers
//   - [config]: the occugraph.toml configuration file
//   - [observability]: hooks for logging and metrics
//   - [errors]: error codes shared by CLI and server
//
// [io]: github.com/matzehuels/occugraph/pkg/io
// [reduce]: github.com/matzehuels/occugraph/pkg/reduce
// [selector]: github.com/matzehuels/occugraph/pkg/selector
// [score]: github.com/matzehuels/occugraph/pkg/score
// [colorize]: github.com/matzehuels/occugraph/pkg/colorize
// [render]: github.com/matzehuels/occugraph/pkg/render
// [pipeline]: github.com/matzehuels/occugraph/pkg/pipeline
// [cache]: github.com/matzehuels/occugraph/pkg/cache
// [server]: github.com/matzehuels/occugraph/pkg/server
// [graph]: github.com/matzehuels/occugraph/pkg/graph
// [network]: github.com/matzehuels/occugraph/pkg/network
// [stats]: github.com/matzehuels/occugraph/pkg/stats
// [config]: github.com/matzehuels/occugraph/pkg/config
// [observability]: github.com/matzehuels/occugraph/pkg/observability
// [errors]: github.com/matzehuels/occugraph/pkg/errors
package pkg
