// Package cli implements the occugraph command-line interface.
//
// # Commands
//
// The main commands are:
//   - build: Filter, select, color and render a graph to files
//   - inspect: Browse the nodes of a built network in a terminal table
//   - serve: Serve the interactive viewer over HTTP
//   - cache: Manage the artifact cache
//   - config: Write or print the configuration file
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Each
// subcommand gets the CLI logger prefixed with its command path ("build",
// "cache clear") through context.Context.
package cli

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/occugraph/pkg/pipeline"
)

// newLogger creates the CLI logger. Timestamps read "HH:MM:SS.ms".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// commandLogger scopes l to cmd's path below the root. The root command
// itself logs without a prefix.
func commandLogger(l *log.Logger, cmd *cobra.Command) *log.Logger {
	if cmd == nil || !cmd.HasParent() {
		return l
	}
	name := strings.TrimPrefix(cmd.CommandPath(), cmd.Root().Name()+" ")
	return l.WithPrefix(name)
}

// progress times one command stage.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with keyvals and the elapsed time, e.g.
// "Built network nodes=2 edges=2 elapsed=12ms".
func (p *progress) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "elapsed", time.Since(p.start).Round(time.Millisecond))
	p.logger.Info(msg, keyvals...)
}

// statsFields flattens build statistics into logger key/value pairs.
func statsFields(s pipeline.Stats) []any {
	return []any{
		"nodes", s.NodeCount,
		"edges", s.EdgeCount,
		"removed", s.RemovedNodes,
		"considered", s.Selection.Considered,
		"sinks", s.Selection.Skipped,
	}
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if ctx == nil {
		return log.Default()
	}
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
