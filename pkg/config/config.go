// Package config reads and writes the occugraph.toml configuration file.
//
// A configuration file mirrors the command-line flags of the build command:
//
//	[filter]
//	min_weight = 500.0
//
//	[edges]
//	proportion = 0.05
//	policy = "mutual"
//
//	[color]
//	mode = "incoming"
//	separator = "_"
//	opacity = 0.5
//
//	[color.palette]
//	female = "200,50,120"
//	male = "50,50,200"
//
// Command-line flags override file values.
package config

import (
	"bytes"
	"io"
	"maps"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/occugraph/pkg/cache"
	"github.com/matzehuels/occugraph/pkg/errors"
	"github.com/matzehuels/occugraph/pkg/pipeline"
	"github.com/matzehuels/occugraph/pkg/render/html"
)

// DefaultFile is the configuration file looked up in the working directory.
const DefaultFile = "occugraph.toml"

// Config is the decoded configuration file.
type Config struct {
	Filter Filter `toml:"filter"`
	Edges  Edges  `toml:"edges"`
	Color  Color  `toml:"color"`
	Render Render `toml:"render"`
	Cache  Cache  `toml:"cache"`
	Serve  Serve  `toml:"serve"`
}

// Filter configures the node filter.
type Filter struct {
	MinWeight float64 `toml:"min_weight"`
}

// Edges configures edge selection.
type Edges struct {
	Proportion float64 `toml:"proportion"`
	Policy     string  `toml:"policy"`
	All        bool    `toml:"all"`
}

// Color configures the node colorizer.
type Color struct {
	Mode      string            `toml:"mode"`
	Separator string            `toml:"separator"`
	Opacity   float64           `toml:"opacity"`
	Palette   map[string]string `toml:"palette"`
}

// Render configures output artifacts.
type Render struct {
	Formats         []string `toml:"formats"`
	Output          string   `toml:"output,omitempty"` // base path; empty derives it from the input
	Title           string   `toml:"title"`
	PhysicsControls bool     `toml:"physics_controls"`
	Detailed        bool     `toml:"detailed"`
}

// Cache configures the artifact cache.
type Cache struct {
	Backend  string `toml:"backend"`
	Dir      string `toml:"dir,omitempty"`
	RedisURL string `toml:"redis_url,omitempty"`
	TTL      string `toml:"ttl"`
}

// Serve configures the viewer server.
type Serve struct {
	Addr string `toml:"addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Filter: Filter{MinWeight: pipeline.DefaultMinWeight},
		Edges: Edges{
			Proportion: pipeline.DefaultEdgesProportion,
			Policy:     pipeline.DefaultPolicy,
		},
		Color: Color{
			Mode:      pipeline.DefaultColoring,
			Separator: "_",
			Opacity:   0.5,
			Palette:   pipeline.DefaultPalette(),
		},
		Render: Render{
			Formats:         []string{pipeline.FormatHTML},
			Title:           html.DefaultTitle,
			PhysicsControls: true,
		},
		Cache: Cache{
			Backend: cache.BackendFile,
			TTL:     cache.DefaultTTL.String(),
		},
		Serve: Serve{Addr: "127.0.0.1:8080"},
	}
}

// Load reads path on top of the defaults. Keys the file sets replace the
// default value; a palette in the file replaces the default palette as a
// whole. Unknown keys are rejected.
func Load(path string) (Config, error) {
	if err := errors.ValidatePath(path); err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
	}
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	cfg, err := Decode(data)
	if err != nil {
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "config %s: %s", path, errors.UserMessage(err))
	}
	return cfg, nil
}

// LoadOptional loads path when it exists and returns the defaults
// otherwise. An empty path means DefaultFile.
func LoadOptional(path string) (Config, bool, error) {
	if path == "" {
		path = DefaultFile
	}
	cfg, err := Load(path)
	if errors.Is(err, errors.ErrCodeFileNotFound) {
		return Default(), false, nil
	}
	return cfg, err == nil, err
}

// Decode parses TOML data on top of the defaults.
func Decode(data []byte) (Config, error) {
	cfg := Default()
	cfg.Color.Palette = nil

	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
	}
	if !md.IsDefined("color", "palette") {
		cfg.Color.Palette = pipeline.DefaultPalette()
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every value through the pipeline's own validation.
func (c Config) Validate() error {
	if err := errors.ValidateProportion(c.Edges.Proportion); err != nil {
		return err
	}
	opts := c.Options()
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	if _, err := c.TTL(); err != nil {
		return err
	}
	switch c.Cache.Backend {
	case "", cache.BackendFile, cache.BackendNone:
	case cache.BackendRedis:
		if c.Cache.RedisURL == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache backend redis requires redis_url")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "invalid cache backend: %q (must be one of: file, redis, none)", c.Cache.Backend)
	}
	return nil
}

// TTL parses the cache lifetime. An empty value means no expiry.
func (c Config) TTL() (time.Duration, error) {
	if c.Cache.TTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil || d < 0 {
		return 0, errors.New(errors.ErrCodeInvalidConfig, "invalid cache ttl %q", c.Cache.TTL)
	}
	return d, nil
}

// Options converts the configuration into pipeline options.
func (c Config) Options() pipeline.Options {
	return pipeline.Options{
		MinWeight:        c.Filter.MinWeight,
		EdgesProportion:  c.Edges.Proportion,
		Policy:           c.Edges.Policy,
		AllEdges:         c.Edges.All,
		Coloring:         c.Color.Mode,
		Palette:          maps.Clone(c.Color.Palette),
		Separator:        c.Color.Separator,
		Opacity:          c.Color.Opacity,
		Formats:          append([]string(nil), c.Render.Formats...),
		Title:            c.Render.Title,
		NoPhysicsControl: !c.Render.PhysicsControls,
		Detailed:         c.Render.Detailed,
	}
}

// CacheOptions converts the cache section for cache.Open.
func (c Config) CacheOptions() cache.Options {
	return cache.Options{
		Backend:  c.Cache.Backend,
		Dir:      c.Cache.Dir,
		RedisURL: c.Cache.RedisURL,
	}
}

// Encode writes the configuration as TOML.
func (c Config) Encode(w io.Writer) error {
	enc := toml.NewEncoder(w)
	enc.Indent = ""
	return enc.Encode(c)
}

// Bytes returns the TOML form of the configuration.
func (c Config) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := c.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write saves the configuration to path. It refuses to overwrite an
// existing file unless force is set.
func (c Config) Write(path string, force bool) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	if !force {
		if _, err := os.Stat(path); err == nil {
			return errors.New(errors.ErrCodePrecondition, "%s already exists (use --force to overwrite)", path)
		}
	}
	data, err := c.Bytes()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode config")
	}
	return os.WriteFile(path, data, 0o644)
}
