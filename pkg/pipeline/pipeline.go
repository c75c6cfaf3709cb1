// Package pipeline runs the occugraph build: load → filter → select →
// color → render.
//
// This package is shared by the build and inspect commands and by the
// viewer server, so that every entry point applies the same defaults and
// validation.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Load: read the adjacency JSON into a graph
//  2. Filter: drop nodes below the weight threshold
//  3. Select and color: keep the top-scoring out-edges of every node and
//     color nodes by incoming score or by category
//  4. Render: produce artifacts (HTML, SVG, DOT, JSON, PNG, PDF)
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input:   "graph.json",
//	    Formats: []string{"html"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	page := result.Artifacts["html"]
//
// Run the in-memory stages on an existing graph:
//
//	net, stats, err := pipeline.Build(ctx, g, opts)
package pipeline

import (
	"io"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/occugraph/pkg/cache"
	"github.com/matzehuels/occugraph/pkg/colorize"
	"github.com/matzehuels/occugraph/pkg/errors"
	"github.com/matzehuels/occugraph/pkg/graph"
	"github.com/matzehuels/occugraph/pkg/network"
	"github.com/matzehuels/occugraph/pkg/score"
	"github.com/matzehuels/occugraph/pkg/selector"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, config and server
// =============================================================================

const (
	// DefaultMinWeight is the node weight threshold used by the CLI and the
	// default configuration file.
	DefaultMinWeight = 500.0

	// DefaultEdgesProportion is the share of each node's out-edges kept.
	DefaultEdgesProportion = 0.05

	// DefaultColoring is the default coloring mode.
	DefaultColoring = colorize.ModeIncoming

	// DefaultPolicy is the default edge scoring policy.
	DefaultPolicy = score.DefaultName
)

// DefaultPalette returns the gender palette used by categorical coloring.
func DefaultPalette() map[string]string {
	return map[string]string{
		"female": "200,50,120",
		"male":   "50,50,200",
	}
}

// Format constants for output formats.
const (
	FormatHTML = "html"
	FormatSVG  = "svg"
	FormatDOT  = "dot"
	FormatJSON = "json"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatHTML: true,
	FormatSVG:  true,
	FormatDOT:  true,
	FormatJSON: true,
	FormatPNG:  true,
	FormatPDF:  true,
}

// ValidColorings is the set of supported coloring modes.
var ValidColorings = map[string]bool{
	colorize.ModeNone:        true,
	colorize.ModeIncoming:    true,
	colorize.ModeCategorical: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a build.
// This struct supports JSON serialization for the viewer API.
//
// Zero values mean "use the default" for EdgesProportion, Policy, Coloring,
// Separator, Opacity and Formats. MinWeight is taken as given: zero keeps
// every node.
type Options struct {
	// Load options
	Input string `json:"input,omitempty"`

	// Build options
	MinWeight       float64           `json:"min_weight"`
	EdgesProportion float64           `json:"edges_proportion,omitempty"`
	Policy          string            `json:"policy,omitempty"`
	Coloring        string            `json:"coloring,omitempty"`
	Palette         map[string]string `json:"palette,omitempty"`
	Separator       string            `json:"separator,omitempty"`
	Opacity         float64           `json:"opacity,omitempty"`
	AllEdges        bool              `json:"all_edges,omitempty"` // keep every edge, raw scores, no color

	// Render options
	Formats          []string `json:"formats,omitempty"`
	Title            string   `json:"title,omitempty"`
	NoPhysicsControl bool     `json:"no_physics_controls,omitempty"`
	Detailed         bool     `json:"detailed,omitempty"`
	Refresh          bool     `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// BuildID identifies the inputs and options of this build. Equal inputs
	// and options always yield the same ID.
	BuildID string

	// InputHash is the SHA-256 of the input file.
	InputHash string

	// Graph is the filtered graph.
	Graph *graph.Graph

	// Network is the selected and colored render target.
	Network *network.Network

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheHit is true when every artifact came from the cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	InputNodes   int
	InputEdges   int
	RemovedNodes int
	NodeCount    int
	EdgeCount    int
	Selection    selector.Stats
	LoadTime     time.Duration
	BuildTime    time.Duration
	RenderTime   time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: html, svg, dot, json, png, pdf)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateColoring checks that a coloring mode is valid.
func ValidateColoring(mode string) error {
	if !ValidColorings[mode] {
		return errors.New(errors.ErrCodeInvalidConfig,
			"invalid coloring: %q (must be one of: none, incoming, categorical)", mode)
	}
	return nil
}

// ValidatePolicy checks that a scoring policy name is known.
func ValidatePolicy(name string) error {
	if _, err := score.Lookup(name); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err,
			"invalid policy (must be one of: %s)", strings.Join(score.Names(), ", "))
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills unset fields. It is idempotent.
func (o *Options) SetDefaults() {
	if o.EdgesProportion == 0 {
		o.EdgesProportion = DefaultEdgesProportion
	}
	if o.Policy == "" {
		o.Policy = DefaultPolicy
	}
	o.Policy = strings.ToLower(o.Policy)
	if o.Coloring == "" {
		o.Coloring = DefaultColoring
	}
	if len(o.Palette) == 0 {
		o.Palette = DefaultPalette()
	}
	if o.Separator == "" {
		o.Separator = colorize.DefaultSeparator
	}
	if o.Opacity == 0 {
		o.Opacity = colorize.DefaultOpacity
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatHTML}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.AllEdges {
		o.EdgesProportion = 1
		o.Policy = score.NameRaw
		o.Coloring = colorize.ModeNone
	}
}

// ValidateAndSetDefaults applies defaults and checks every build and render
// option. Calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if err := errors.ValidateMinWeight(o.MinWeight); err != nil {
		return err
	}
	if err := errors.ValidateProportion(o.EdgesProportion); err != nil {
		return err
	}
	if err := ValidatePolicy(o.Policy); err != nil {
		return err
	}
	if err := ValidateColoring(o.Coloring); err != nil {
		return err
	}
	if err := errors.ValidateSeparator(o.Separator); err != nil {
		return err
	}
	if err := errors.ValidateOpacity(o.Opacity); err != nil {
		return err
	}
	if _, err := colorize.ParsePalette(o.Palette); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// Clone returns an unvalidated deep copy, so callers can override fields
// and validate again.
func (o Options) Clone() Options {
	c := o
	c.Palette = maps.Clone(o.Palette)
	c.Formats = slices.Clone(o.Formats)
	c.validated = false
	return c
}

// ArtifactKeyOpts returns cache key options for one artifact format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format:          format,
		MinWeight:       o.MinWeight,
		EdgesProportion: o.EdgesProportion,
		Policy:          o.Policy,
		Coloring:        o.Coloring,
		AllEdges:        o.AllEdges,
		Detailed:        o.Detailed,
	}
	if o.Coloring == colorize.ModeCategorical {
		k.Palette = o.Palette
		k.Separator = o.Separator
		k.Opacity = o.Opacity
	}
	if format == FormatHTML {
		// Title and controls only change the page.
		k.Format = format + "|" + o.Title
		if o.NoPhysicsControl {
			k.Format += "|static"
		}
	}
	return k
}
