package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/occugraph/pkg/colorize"
	"github.com/matzehuels/occugraph/pkg/errors"
	"github.com/matzehuels/occugraph/pkg/graph"
	occuio "github.com/matzehuels/occugraph/pkg/io"
	"github.com/matzehuels/occugraph/pkg/network"
	"github.com/matzehuels/occugraph/pkg/observability"
	"github.com/matzehuels/occugraph/pkg/reduce"
	"github.com/matzehuels/occugraph/pkg/score"
	"github.com/matzehuels/occugraph/pkg/selector"
)

// Load parses adjacency JSON bytes into a graph.
func Load(ctx context.Context, source string, data []byte) (*graph.Graph, error) {
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, source)
	start := time.Now()

	g, err := occuio.ReadAdjacency(bytes.NewReader(data))
	if err != nil {
		hooks.OnLoadComplete(ctx, source, 0, time.Since(start), err)
		return nil, err
	}
	hooks.OnLoadComplete(ctx, source, g.NodeCount(), time.Since(start), nil)
	return g, nil
}

// Build filters g in place and returns the selected, colored network.
//
// g is owned by the call: nodes below opts.MinWeight are removed from it,
// and the colorizer reads the filtered graph.
func Build(ctx context.Context, g *graph.Graph, opts Options) (*network.Network, Stats, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, Stats{}, err
	}
	hooks := observability.Pipeline()
	logger := opts.Logger
	start := time.Now()

	stats := Stats{InputNodes: g.NodeCount(), InputEdges: g.EdgeCount()}

	stats.RemovedNodes = reduce.FilterNodes(g, opts.MinWeight)
	hooks.OnFilter(ctx, opts.MinWeight, stats.RemovedNodes, g.NodeCount())
	logger.Debug("filtered nodes",
		"min_weight", opts.MinWeight,
		"removed", stats.RemovedNodes,
		"remaining", g.NodeCount())

	policy, err := score.Lookup(opts.Policy)
	if err != nil {
		return nil, Stats{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "select edges")
	}

	net := network.FromGraph(g)

	selectStart := time.Now()
	sel, err := selector.BuildEdges(g, net, policy, opts.EdgesProportion)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("select edges: %w", err)
	}
	stats.Selection = sel
	hooks.OnSelect(ctx, policy.Name(), sel.Considered, sel.Retained, time.Since(selectStart))
	logger.Debug("selected edges",
		"policy", policy.Name(),
		"proportion", opts.EdgesProportion,
		"retained", net.EdgeCount())

	palette, err := colorize.ParsePalette(opts.Palette)
	if err != nil {
		return nil, Stats{}, err
	}
	c, err := colorize.New(colorize.Options{
		Mode:      opts.Coloring,
		Policy:    policy,
		Palette:   palette,
		Separator: opts.Separator,
		Opacity:   opts.Opacity,
	})
	if err != nil {
		return nil, Stats{}, err
	}

	colorStart := time.Now()
	err = c.Colorize(g, net)
	hooks.OnColor(ctx, opts.Coloring, time.Since(colorStart), err)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("color nodes: %w", err)
	}

	stats.NodeCount = net.NodeCount()
	stats.EdgeCount = net.EdgeCount()
	stats.BuildTime = time.Since(start)
	return net, stats, nil
}
