package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/occugraph/pkg/network"
	"github.com/matzehuels/occugraph/pkg/observability"
	"github.com/matzehuels/occugraph/pkg/render/html"
	"github.com/matzehuels/occugraph/pkg/render/nodelink"
	"github.com/matzehuels/occugraph/pkg/render/sink"
)

// Params returns the build parameters recorded in JSON exports.
func (o *Options) Params() *sink.Params {
	return &sink.Params{
		MinWeight:       o.MinWeight,
		EdgesProportion: o.EdgesProportion,
		Policy:          o.Policy,
		Coloring:        o.Coloring,
	}
}

// HTMLOptions returns the viewer page options for this build.
func (o *Options) HTMLOptions(buildID string) html.Options {
	h := html.DefaultOptions()
	if o.Title != "" {
		h.Title = o.Title
	}
	h.PhysicsControls = !o.NoPhysicsControl
	h.BuildID = buildID
	return h
}

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, net *network.Network, buildID string, opts Options) (map[string][]byte, error) {
	return renderFormats(ctx, net, buildID, opts, opts.Formats)
}

func renderFormats(ctx context.Context, net *network.Network, buildID string, opts Options, formats []string) (map[string][]byte, error) {
	if err := ValidateFormats(formats); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, formats)
	start := time.Now()

	artifacts := make(map[string][]byte, len(formats))
	var dot string
	dotFor := func() string {
		if dot == "" {
			dot = nodelink.ToDOT(net, nodelink.Options{Detailed: opts.Detailed})
		}
		return dot
	}

	for _, format := range formats {
		var data []byte
		var err error

		switch format {
		case FormatHTML:
			data, err = html.Render(net, opts.HTMLOptions(buildID))
		case FormatJSON:
			data, err = sink.RenderJSON(net, sink.Options{BuildID: buildID, Params: opts.Params()})
		case FormatDOT:
			data = []byte(dotFor())
		case FormatSVG:
			data, err = nodelink.RenderSVG(ctx, dotFor())
		case FormatPNG:
			data, err = nodelink.RenderPNG(ctx, dotFor(), 2.0)
		case FormatPDF:
			data, err = nodelink.RenderPDF(ctx, dotFor())
		default:
			err = fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			err = fmt.Errorf("render %s: %w", format, err)
			hooks.OnRenderComplete(ctx, formats, time.Since(start), err)
			return nil, err
		}
		artifacts[format] = data
	}

	hooks.OnRenderComplete(ctx, formats, time.Since(start), nil)
	return artifacts, nil
}
