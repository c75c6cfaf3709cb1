package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/occugraph/pkg/colorize"
	"github.com/matzehuels/occugraph/pkg/network"
	"github.com/matzehuels/occugraph/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds node values and edge scores to the labels.
	Detailed bool
	// RankDir is the Graphviz layout direction; empty means "LR".
	RankDir string
}

const (
	minPenWidth = 1.0
	maxPenWidth = 5.0
)

// ToDOT converts a network to Graphviz DOT format.
// Uncolored nodes are drawn white; colored nodes use their rgba color as a
// translucent fill.
func ToDOT(net *network.Network, opts Options) string {
	rankdir := opts.RankDir
	if rankdir == "" {
		rankdir = "LR"
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [arrowsize=0.6, color=\"#555555\"];\n")
	buf.WriteString("\n")

	for _, n := range net.Nodes() {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(n, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	edges := net.Edges()
	var maxValue float64
	for _, e := range edges {
		maxValue = max(maxValue, e.Value)
	}
	for _, e := range edges {
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.From, e.To, strings.Join(edgeAttrs(e, maxValue, opts.Detailed), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n network.Node, detailed bool) []string {
	label := n.Label
	if detailed {
		label += "\n" + strconv.FormatFloat(n.Value, 'g', 6, 64)
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}

	if n.Color == "" {
		return attrs
	}
	rgb, opacity, err := colorize.ParseRGBA(n.Color)
	if err != nil {
		return attrs
	}
	attrs = append(attrs, fmt.Sprintf("fillcolor=%q", rgb.Hex(opacity)))
	if isDark(rgb, opacity) {
		attrs = append(attrs, "fontcolor=white")
	}
	return attrs
}

func edgeAttrs(e network.Edge, maxValue float64, detailed bool) []string {
	width := minPenWidth
	if maxValue > 0 {
		width += (maxPenWidth - minPenWidth) * e.Value / maxValue
	}
	attrs := []string{fmt.Sprintf("penwidth=%.2f", width)}
	if detailed {
		attrs = append(attrs, fmt.Sprintf("label=%q", strconv.FormatFloat(e.Value, 'g', 4, 64)))
	}
	return attrs
}

// isDark reports whether black text would be hard to read on the fill.
func isDark(c colorize.RGB, opacity float64) bool {
	lum := (0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)) / 255
	// blend with the white background
	visible := 1 - opacity*(1-lum)
	return visible < 0.5
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
