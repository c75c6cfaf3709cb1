package cli

import (
	"context"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/occugraph/pkg/config"
	"github.com/matzehuels/occugraph/pkg/errors"
	"github.com/matzehuels/occugraph/pkg/httputil"
	"github.com/matzehuels/occugraph/pkg/pipeline"
)

// buildOpts holds the command-line flags for the build command.
type buildOpts struct {
	output    string // output file (single format) or base path
	formats   string // comma-separated output formats
	title     string // viewer page title
	noPhysics bool   // hide the physics configurator in the viewer
	detailed  bool   // weights and scores in Graphviz labels
	refresh   bool   // ignore cached artifacts
	build     buildFlags
}

// buildCommand creates the build command.
//
// Settings are resolved in order: built-in defaults, the configuration
// file, then flags the user set.
func (c *CLI) buildCommand() *cobra.Command {
	var opts buildOpts

	cmd := &cobra.Command{
		Use:   "build [graph.json|url]",
		Short: "Filter, select, color and render a graph",
		Long: `Build loads an adjacency-list graph, drops nodes below --min-weight, keeps the
top --edges-proportion of every node's out-edges by score, colors the nodes
and writes the requested formats.`,
		Example: `  occugraph build speakers.json
  occugraph build speakers.json -f html,svg -o out/network
  occugraph build speakers.json --coloring categorical --palette female=200,50,120 --palette male=50,50,200
  occugraph build speakers.json --all-edges --min-weight 0
  occugraph build https://example.org/data/speakers.json -f svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBuild(cmd.Context(), cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (default: input name)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): html (default), svg, dot, json, png, pdf (comma-separated)")
	cmd.Flags().StringVar(&opts.title, "title", "", "viewer page title")
	cmd.Flags().BoolVar(&opts.noPhysics, "no-physics-controls", false, "hide the physics controls in the viewer")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show weights and scores in Graphviz output")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached artifacts")
	opts.build.register(cmd)

	_ = cmd.RegisterFlagCompletionFunc("format", fixedCompletion(
		pipeline.FormatHTML, pipeline.FormatSVG, pipeline.FormatDOT,
		pipeline.FormatJSON, pipeline.FormatPNG, pipeline.FormatPDF))

	return cmd
}

// resolveOptions layers the flags the user set over the configuration.
func (c *CLI) resolveOptions(cmd *cobra.Command, cfg config.Config, flags *buildFlags) (pipeline.Options, error) {
	popts := cfg.Options()
	if err := flags.apply(cmd, &popts); err != nil {
		return pipeline.Options{}, err
	}
	popts.Logger = c.Logger
	return popts, nil
}

func (c *CLI) runBuild(ctx context.Context, cmd *cobra.Command, input string, opts *buildOpts) error {
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	popts, err := c.resolveOptions(cmd, cfg, &opts.build)
	if err != nil {
		return err
	}
	popts.Input = input
	if cmd.Flags().Changed("format") {
		popts.Formats = parseFormats(opts.formats)
	}
	if opts.title != "" {
		popts.Title = opts.title
	}
	if cmd.Flags().Changed("no-physics-controls") {
		popts.NoPhysicsControl = opts.noPhysics
	}
	if cmd.Flags().Changed("detailed") {
		popts.Detailed = opts.detailed
	}
	popts.Refresh = opts.refresh

	runner, err := c.newRunner(ctx, cfg)
	if err != nil {
		return err
	}
	defer runner.Close()

	logger.Infof("Building %s", input)
	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, "Building network...")
	spinner.Start()
	result, err := runner.Execute(ctx, popts)
	spinner.Stop()
	if err != nil {
		return err
	}
	prog.done("Built network", append(statsFields(result.Stats), "cached", result.CacheHit)...)

	output := opts.output
	if output == "" {
		output = cfg.Render.Output
	}
	paths, err := writeArtifacts(result, popts.Formats, output, input)
	if err != nil {
		return err
	}

	printSuccess("Built %s", StyleHighlight.Render(filepath.Base(input)))
	printStats(result.Stats, result.CacheHit)
	for _, p := range paths {
		printFile(p)
	}
	printDetail("build %s", result.BuildID)
	if result.Stats.EdgeCount == 0 && result.Stats.NodeCount > 0 {
		printWarning("No edges selected; try a lower --min-weight or a larger --edges-proportion")
	}
	return nil
}

// writeArtifacts writes every rendered format and returns the paths in
// format order. A derived path that would replace the input graph gets a
// ".network" suffix instead; an explicit output naming the input is an
// INVALID_PATH error.
func writeArtifacts(result *pipeline.Result, formats []string, output, input string) ([]string, error) {
	single := len(formats) == 1 && output != "" && filepath.Ext(output) != ""
	base := basePath(output, input)

	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		path := base + "." + format
		if single {
			path = output
		}
		if samePath(path, input) {
			if output != "" {
				return nil, errors.New(errors.ErrCodeInvalidPath, "output %s would overwrite the input graph", path)
			}
			path = base + ".network." + format
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", dir)
			}
		}
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// samePath reports whether a and b name the same local file. URL inputs
// never match.
func samePath(a, b string) bool {
	if httputil.IsURL(b) {
		return false
	}
	if filepath.Clean(a) == filepath.Clean(b) {
		return true
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input; URL inputs write
// next to the working directory under their last path segment.
// If output has a format extension (.html, .svg, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		if httputil.IsURL(input) {
			input = urlBase(input)
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// urlBase returns the last path segment of a URL, or "graph".
func urlBase(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "graph"
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" {
		return "graph"
	}
	return name
}
