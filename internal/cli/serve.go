package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/occugraph/pkg/cache"
	"github.com/matzehuels/occugraph/pkg/observability"
	"github.com/matzehuels/occugraph/pkg/pipeline"
	"github.com/matzehuels/occugraph/pkg/server"
)

type serveOpts struct {
	addr  string
	title string
	build buildFlags
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve [graph.json|url]",
		Short: "Serve the interactive viewer over HTTP",
		Long: `Serve loads a graph once and rebuilds the network per request. Query
parameters (min_weight, edges_proportion, policy, coloring, all_edges)
override the flags for a single request.`,
		Example: `  occugraph serve speakers.json
  occugraph serve speakers.json --addr :9000 --policy sender`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, 127.0.0.1:8080)")
	cmd.Flags().StringVar(&opts.title, "title", "", "viewer page title")
	opts.build.register(cmd)
	return cmd
}

func (c *CLI) runServe(ctx context.Context, cmd *cobra.Command, input string, opts *serveOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	popts, err := c.resolveOptions(cmd, cfg, &opts.build)
	if err != nil {
		return err
	}
	if opts.title != "" {
		popts.Title = opts.title
	}
	check := popts.Clone()
	if err := check.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, cfg)
	if err != nil {
		return err
	}
	defer runner.Close()
	runner.Keyer = cache.NewScopedKeyer(runner.Keyer, "serve:")

	prog := newProgress(loggerFromContext(ctx))
	data, err := runner.ReadInput(ctx, input, false)
	if err != nil {
		return err
	}
	g, err := pipeline.Load(ctx, input, data)
	if err != nil {
		return err
	}

	prog.done("Loaded graph", "nodes", g.NodeCount(), "edges", g.EdgeCount())

	addr := opts.addr
	if addr == "" {
		addr = cfg.Serve.Addr
	}

	printSuccess("Loaded %s", StyleHighlight.Render(input))
	printDetail("%d nodes, %d edges", g.NodeCount(), g.EdgeCount())
	printKeyValue("Viewer", StyleLink.Render("http://"+addr+"/"))
	printKeyValue("JSON", StyleLink.Render("http://"+addr+"/api/network"))

	observability.SetServerHooks(observability.NewLogHooks(loggerFromContext(ctx)))
	return server.New(runner, input, data, popts, c.Logger).ListenAndServe(ctx, addr)
}
