package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/occugraph/pkg/errors"
	"github.com/matzehuels/occugraph/pkg/pipeline"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 500.0, cfg.Filter.MinWeight)
	assert.Equal(t, 0.05, cfg.Edges.Proportion)
	assert.Equal(t, "mutual", cfg.Edges.Policy)
	assert.Equal(t, "incoming", cfg.Color.Mode)
	assert.Equal(t, "200,50,120", cfg.Color.Palette["female"])
	assert.Equal(t, "50,50,200", cfg.Color.Palette["male"])

	ttl, err := cfg.TTL()
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, ttl)
}

func TestDecodeOverridesDefaults(t *testing.T) {
	cfg, err := Decode([]byte(`
[filter]
min_weight = 100.0

[edges]
policy = "target"

[color]
mode = "categorical"
opacity = 0.3

[color.palette]
nonbinary = "10,20,30"

[render]
formats = ["html", "svg"]
`))
	require.NoError(t, err)

	assert.Equal(t, 100.0, cfg.Filter.MinWeight)
	assert.Equal(t, 0.05, cfg.Edges.Proportion, "unset keys keep their default")
	assert.Equal(t, "target", cfg.Edges.Policy)
	assert.Equal(t, "categorical", cfg.Color.Mode)
	assert.Equal(t, map[string]string{"nonbinary": "10,20,30"}, cfg.Color.Palette, "palette replaces the default")
	assert.Equal(t, []string{"html", "svg"}, cfg.Render.Formats)
	assert.True(t, cfg.Render.PhysicsControls)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"Syntax", "[filter\nmin_weight = 1", "decode"},
		{"UnknownKey", "[filter]\nmax_weight = 1.0", "unknown keys: filter.max_weight"},
		{"ZeroProportion", "[edges]\nproportion = 0.0", "edges proportion"},
		{"ProportionTooLarge", "[edges]\nproportion = 1.5", "edges proportion"},
		{"UnknownPolicy", "[edges]\npolicy = \"pagerank\"", "invalid policy"},
		{"UnknownMode", "[color]\nmode = \"rainbow\"", "invalid coloring"},
		{"BadPalette", "[color.palette]\nmale = \"1,2\"", "palette entry"},
		{"BadFormat", "[render]\nformats = [\"gif\"]", "invalid format"},
		{"BadTTL", "[cache]\nttl = \"soon\"", "invalid cache ttl"},
		{"RedisWithoutURL", "[cache]\nbackend = \"redis\"", "requires redis_url"},
		{"UnknownBackend", "[cache]\nbackend = \"memcached\"", "invalid cache backend"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestOptions(t *testing.T) {
	cfg := Default()
	cfg.Edges.All = true
	cfg.Render.PhysicsControls = false

	opts := cfg.Options()
	assert.Equal(t, 500.0, opts.MinWeight)
	assert.True(t, opts.AllEdges)
	assert.True(t, opts.NoPhysicsControl)
	assert.Equal(t, []string{pipeline.FormatHTML}, opts.Formats)

	opts.Palette["female"] = "0,0,0"
	assert.Equal(t, "200,50,120", cfg.Color.Palette["female"], "options must not alias the config palette")
}

func TestWriteAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)

	cfg := Default()
	cfg.Filter.MinWeight = 42
	require.NoError(t, cfg.Write(path, false))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	err = cfg.Write(path, false)
	assert.True(t, errors.Is(err, errors.ErrCodePrecondition))
	assert.NoError(t, cfg.Write(path, true))
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.toml"))
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[edges]\nproportion = 2.0\n"), 0o644))
	_, err = Load(bad)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
	assert.True(t, strings.Contains(err.Error(), bad))
}

func TestLoadOptional(t *testing.T) {
	cfg, found, err := LoadOptional(filepath.Join(t.TempDir(), "none.toml"))
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, Default(), cfg)
}

func TestEncodeContainsSections(t *testing.T) {
	data, err := Default().Bytes()
	require.NoError(t, err)
	out := string(data)
	for _, section := range []string{"[filter]", "[edges]", "[color]", "[color.palette]", "[render]", "[cache]", "[serve]"} {
		assert.Contains(t, out, section)
	}
	assert.NotContains(t, out, "redis_url", "empty optional keys are omitted")
}
