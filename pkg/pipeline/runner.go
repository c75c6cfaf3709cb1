package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/occugraph/pkg/cache"
	"github.com/matzehuels/occugraph/pkg/errors"
	"github.com/matzehuels/occugraph/pkg/httputil"
	"github.com/matzehuels/occugraph/pkg/observability"
)

// buildNamespace seeds the name-based build IDs.
var buildNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/matzehuels/occugraph"))

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	TTL    time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    cache.DefaultTTL,
	}
}

// BuildID derives the build identifier of an input hash and options.
func BuildID(inputHash string, opts Options) string {
	key, _ := json.Marshal(opts.ArtifactKeyOpts(""))
	return uuid.NewSHA1(buildNamespace, append([]byte(inputHash+":"), key...)).String()
}

// Execute reads opts.Input and runs the complete pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	data, err := r.ReadInput(ctx, opts.Input, opts.Refresh)
	if err != nil {
		return nil, err
	}
	return r.ExecuteBytes(ctx, opts.Input, data, opts)
}

// ReadInput returns the adjacency JSON named by input, a file path or an
// http(s) URL. Downloads are cached like artifacts; refresh bypasses the
// cached copy.
func (r *Runner) ReadInput(ctx context.Context, input string, refresh bool) ([]byte, error) {
	if input == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "input is required")
	}
	if err := errors.ValidatePath(input); err != nil {
		return nil, err
	}
	if httputil.IsURL(input) {
		f := httputil.NewFetcher(r.Cache, r.Keyer)
		f.TTL = r.TTL
		data, hit, err := f.Fetch(ctx, input, refresh)
		if err != nil {
			return nil, err
		}
		r.Logger.Debug("fetched input", "url", input, "bytes", len(data), "cached", hit)
		return data, nil
	}
	data, err := os.ReadFile(input)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "input %s", input)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", input)
	}
	return data, nil
}

// ExecuteBytes runs the complete pipeline on adjacency JSON held in memory.
// source names the data in logs.
func (r *Runner) ExecuteBytes(ctx context.Context, source string, data []byte, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{InputHash: cache.Hash(data)}
	result.BuildID = BuildID(result.InputHash, opts)

	// Stage 1: Load
	loadStart := time.Now()
	g, err := Load(ctx, source, data)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Stats.LoadTime = time.Since(loadStart)

	r.Logger.Info("loaded graph",
		"source", source,
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"duration", result.Stats.LoadTime)

	// Stage 2: Filter, select and color
	net, stats, err := Build(ctx, g, opts)
	if err != nil {
		return nil, err
	}
	stats.LoadTime = result.Stats.LoadTime
	result.Stats = stats
	result.Graph = g
	result.Network = net

	r.Logger.Info("built network",
		"nodes", stats.NodeCount,
		"edges", stats.EdgeCount,
		"removed", stats.RemovedNodes,
		"duration", stats.BuildTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, hit, err := r.renderCached(ctx, result, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.CacheHit = hit
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// renderCached serves each requested format from the cache and renders the
// rest in one pass.
func (r *Runner) renderCached(ctx context.Context, result *Result, opts Options) (map[string][]byte, bool, error) {
	hooks := observability.Cache()
	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string

	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(result.InputHash, opts.ArtifactKeyOpts(format))
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				hooks.OnCacheHit(ctx, "artifact:"+format)
				artifacts[format] = data
				continue
			} else if err != nil {
				r.Logger.Warn("cache read failed", "format", format, "error", err)
			}
		}
		hooks.OnCacheMiss(ctx, "artifact:"+format)
		missing = append(missing, format)
	}

	if len(missing) == 0 {
		return artifacts, true, nil
	}

	rendered, err := renderFormats(ctx, result.Network, result.BuildID, opts, missing)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		artifacts[format] = data
		key := r.Keyer.ArtifactKey(result.InputHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "error", err)
			continue
		}
		hooks.OnCacheSet(ctx, "artifact:"+format, len(data))
	}
	return artifacts, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
