// Package colorize assigns display colors to the nodes of a render network.
//
// Two strategies are provided:
//
//   - [Incoming]: opacity proportional to the node's summed incoming edge
//     score, normalized so the heaviest node is fully opaque
//   - [Categorical]: a palette color chosen by the category suffix of the
//     node ID (e.g. "doctor_female" → "female") at a fixed opacity
//
// Colors are assigned by node ID and are formatted as "rgba(r,g,b,a)".
// Neither strategy touches edges.
package colorize

import (
	"strings"

	"github.com/matzehuels/occugraph/pkg/errors"
	"github.com/matzehuels/occugraph/pkg/graph"
	"github.com/matzehuels/occugraph/pkg/network"
	"github.com/matzehuels/occugraph/pkg/score"
	"github.com/matzehuels/occugraph/pkg/stats"
)

// Coloring modes.
const (
	ModeNone        = "none"
	ModeIncoming    = "incoming"
	ModeCategorical = "categorical"
)

// Defaults for categorical coloring.
const (
	DefaultSeparator = "_"
	DefaultOpacity   = 0.5
)

// Colorizer sets the color of every node in net. g is the filtered graph
// the network was built from.
type Colorizer interface {
	Colorize(g *graph.Graph, net *network.Network) error
}

// None leaves every node uncolored.
type None struct{}

// Colorize does nothing.
func (None) Colorize(*graph.Graph, *network.Network) error { return nil }

// Incoming colors nodes by their normalized incoming score.
type Incoming struct {
	Policy score.Policy // scoring of incoming edges; nil means score.Mutual
	Base   RGB          // base color, black by default
}

// Weights returns the normalized incoming score of every network node, in
// network order. When no node receives any score all weights are 0.
func (c Incoming) Weights(g *graph.Graph, net *network.Network) []float64 {
	policy := c.Policy
	if policy == nil {
		policy = score.Mutual
	}
	ids := net.NodeIDs()
	raw := make([]float64, len(ids))
	for i, id := range ids {
		raw[i] = score.Incoming(policy, g, id)
	}
	return stats.Normalize(raw)
}

// Colorize implements Colorizer.
func (c Incoming) Colorize(g *graph.Graph, net *network.Network) error {
	ids := net.NodeIDs()
	for i, w := range c.Weights(g, net) {
		if err := net.SetColor(ids[i], c.Base.RGBA(w)); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "color %s", ids[i])
		}
	}
	return nil
}

// Categorical colors nodes from a palette keyed by the ID suffix.
type Categorical struct {
	Palette   Palette
	Separator string  // defaults to "_"
	Opacity   float64 // defaults to 0.5 when zero
}

// Category extracts the substring after the last separator of id.
func Category(id, sep string) (string, error) {
	if sep == "" {
		sep = DefaultSeparator
	}
	i := strings.LastIndex(id, sep)
	if i < 0 || i+len(sep) == len(id) {
		return "", errors.New(errors.ErrCodePrecondition, "node %q has no category suffix after %q", id, sep)
	}
	return id[i+len(sep):], nil
}

// Colorize implements Colorizer. Every node is checked before any color is
// written, so a failure leaves the network unchanged.
func (c Categorical) Colorize(_ *graph.Graph, net *network.Network) error {
	opacity := c.Opacity
	if opacity == 0 {
		opacity = DefaultOpacity
	}
	ids := net.NodeIDs()
	colors := make([]string, len(ids))
	for i, id := range ids {
		cat, err := Category(id, c.Separator)
		if err != nil {
			return err
		}
		rgb, ok := c.Palette[cat]
		if !ok {
			return errors.New(errors.ErrCodeInvalidConfig, "category %q of node %q not in palette (have: %s)",
				cat, id, strings.Join(c.Palette.Categories(), ", "))
		}
		colors[i] = rgb.RGBA(opacity)
	}
	for i, id := range ids {
		if err := net.SetColor(id, colors[i]); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "color %s", id)
		}
	}
	return nil
}

// Options configures [New].
type Options struct {
	Mode      string
	Policy    score.Policy
	Palette   Palette
	Separator string
	Opacity   float64
}

// New returns the Colorizer for opts.Mode. An empty mode means none.
func New(opts Options) (Colorizer, error) {
	switch opts.Mode {
	case "", ModeNone:
		return None{}, nil
	case ModeIncoming:
		return Incoming{Policy: opts.Policy, Base: Black}, nil
	case ModeCategorical:
		if len(opts.Palette) == 0 {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "categorical coloring requires a palette")
		}
		if opts.Separator != "" {
			if err := errors.ValidateSeparator(opts.Separator); err != nil {
				return nil, err
			}
		}
		if err := errors.ValidateOpacity(opts.Opacity); err != nil {
			return nil, err
		}
		return Categorical{Palette: opts.Palette, Separator: opts.Separator, Opacity: opts.Opacity}, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "invalid coloring mode: %q (must be one of: none, incoming, categorical)", opts.Mode)
	}
}
