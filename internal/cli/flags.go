package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/occugraph/pkg/colorize"
	"github.com/matzehuels/occugraph/pkg/errors"
	"github.com/matzehuels/occugraph/pkg/pipeline"
	"github.com/matzehuels/occugraph/pkg/score"
)

// buildFlags holds the flags shared by build, inspect and serve. Only flags
// the user sets override the configuration file.
type buildFlags struct {
	minWeight  float64
	proportion float64
	policy     string
	coloring   string
	palette    []string // category=r,g,b
	separator  string
	opacity    float64
	allEdges   bool
}

func (f *buildFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.Float64Var(&f.minWeight, "min-weight", pipeline.DefaultMinWeight, "drop nodes lighter than this weight (0 keeps all)")
	fs.Float64VarP(&f.proportion, "edges-proportion", "p", pipeline.DefaultEdgesProportion, "share of each node's out-edges to keep, in (0, 1]")
	fs.StringVar(&f.policy, "policy", pipeline.DefaultPolicy, "edge scoring policy: "+strings.Join(score.Names(), ", "))
	fs.StringVar(&f.coloring, "coloring", pipeline.DefaultColoring, "node coloring: none, incoming, categorical")
	fs.StringArrayVar(&f.palette, "palette", nil, "categorical color as category=r,g,b (repeatable, replaces the configured palette)")
	fs.StringVar(&f.separator, "separator", colorize.DefaultSeparator, "separator before the category suffix of node IDs")
	fs.Float64Var(&f.opacity, "opacity", colorize.DefaultOpacity, "opacity of categorical colors")
	fs.BoolVar(&f.allEdges, "all-edges", false, "keep every edge with raw weights and no coloring")

	_ = cmd.RegisterFlagCompletionFunc("policy", fixedCompletion(score.Names()...))
	_ = cmd.RegisterFlagCompletionFunc("coloring", fixedCompletion(colorize.ModeNone, colorize.ModeIncoming, colorize.ModeCategorical))
}

// apply copies every flag the user set onto opts.
func (f *buildFlags) apply(cmd *cobra.Command, opts *pipeline.Options) error {
	fs := cmd.Flags()
	if fs.Changed("min-weight") {
		opts.MinWeight = f.minWeight
	}
	if fs.Changed("edges-proportion") {
		if err := errors.ValidateProportion(f.proportion); err != nil {
			return err
		}
		opts.EdgesProportion = f.proportion
	}
	if fs.Changed("policy") {
		opts.Policy = f.policy
	}
	if fs.Changed("coloring") {
		opts.Coloring = f.coloring
	}
	if fs.Changed("palette") {
		palette, err := parsePaletteFlags(f.palette)
		if err != nil {
			return err
		}
		opts.Palette = palette
	}
	if fs.Changed("separator") {
		opts.Separator = f.separator
	}
	if fs.Changed("opacity") {
		if err := errors.ValidateOpacity(f.opacity); err != nil {
			return err
		}
		opts.Opacity = f.opacity
	}
	if fs.Changed("all-edges") {
		opts.AllEdges = f.allEdges
	}
	return nil
}

// parsePaletteFlags parses repeated category=r,g,b values.
func parsePaletteFlags(entries []string) (map[string]string, error) {
	palette := make(map[string]string, len(entries))
	for _, e := range entries {
		category, rgb, ok := strings.Cut(e, "=")
		category = strings.TrimSpace(category)
		if !ok || category == "" {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "invalid --palette %q (want category=r,g,b)", e)
		}
		if _, err := colorize.ParseRGB(rgb); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "--palette %s", category)
		}
		palette[category] = strings.TrimSpace(rgb)
	}
	return palette, nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	var formats []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(strings.ToLower(f)); f != "" {
			formats = append(formats, f)
		}
	}
	return formats
}
