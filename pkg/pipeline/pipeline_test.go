package pipeline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/occugraph/pkg/cache"
	"github.com/matzehuels/occugraph/pkg/errors"
	"github.com/matzehuels/occugraph/pkg/render/sink"
)

const sample = `{
  "directed": true,
  "multigraph": false,
  "graph": {},
  "nodes": [
    {"id": "doctor_female", "weight": 1200},
    {"id": "lawyer_male", "weight": 800},
    {"id": "nurse_female", "weight": 100}
  ],
  "adjacency": [
    [{"id": "lawyer_male", "weight": 40}, {"id": "nurse_female", "weight": 12}],
    [{"id": "doctor_female", "weight": 10}],
    [{"id": "doctor_female", "weight": 3}]
  ]
}`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "graph.json")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))
	return path
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"html", false},
		{"svg", false},
		{"dot", false},
		{"json", false},
		{"png", false},
		{"pdf", false},
		{"invalid", true},
		{"HTML", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, errors.GetCode(err))
		}
	}
}

func TestSetDefaults(t *testing.T) {
	var o Options
	o.SetDefaults()

	assert.Equal(t, DefaultEdgesProportion, o.EdgesProportion)
	assert.Equal(t, "mutual", o.Policy)
	assert.Equal(t, "incoming", o.Coloring)
	assert.Equal(t, "_", o.Separator)
	assert.Equal(t, 0.5, o.Opacity)
	assert.Equal(t, []string{FormatHTML}, o.Formats)
	assert.Equal(t, DefaultPalette(), o.Palette)
	assert.NotNil(t, o.Logger)
	assert.Zero(t, o.MinWeight, "min weight has no implicit default")
}

func TestSetDefaultsAllEdges(t *testing.T) {
	o := Options{AllEdges: true, EdgesProportion: 0.2, Policy: "target", Coloring: "categorical"}
	o.SetDefaults()

	assert.Equal(t, 1.0, o.EdgesProportion)
	assert.Equal(t, "raw", o.Policy)
	assert.Equal(t, "none", o.Coloring)
}

func TestValidateAndSetDefaults(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"ProportionAboveOne", Options{EdgesProportion: 1.5}, errors.ErrCodeInvalidConfig},
		{"NegativeProportion", Options{EdgesProportion: -0.1}, errors.ErrCodeInvalidConfig},
		{"UnknownPolicy", Options{Policy: "pagerank"}, errors.ErrCodeInvalidConfig},
		{"UnknownColoring", Options{Coloring: "rainbow"}, errors.ErrCodeInvalidConfig},
		{"BadPalette", Options{Palette: map[string]string{"male": "1,2"}}, errors.ErrCodeInvalidConfig},
		{"BadOpacity", Options{Opacity: 2}, errors.ErrCodeInvalidConfig},
		{"BadSeparator", Options{Separator: " "}, errors.ErrCodeInvalidConfig},
		{"BadFormat", Options{Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err))
		})
	}

	o := Options{Policy: "RAW"}
	require.NoError(t, o.ValidateAndSetDefaults())
	assert.Equal(t, "raw", o.Policy, "policy names are case-insensitive")
}

func TestArtifactKeyOpts(t *testing.T) {
	o := Options{Coloring: "incoming", Palette: map[string]string{"x": "1,2,3"}}
	o.SetDefaults()
	assert.Nil(t, o.ArtifactKeyOpts(FormatSVG).Palette, "palette only matters for categorical coloring")

	o.Coloring = "categorical"
	assert.NotNil(t, o.ArtifactKeyOpts(FormatSVG).Palette)

	a := o.ArtifactKeyOpts(FormatHTML)
	o.Title = "Other"
	assert.NotEqual(t, a, o.ArtifactKeyOpts(FormatHTML))
}

func TestBuildIDDeterministic(t *testing.T) {
	a := Options{MinWeight: 500}
	a.SetDefaults()
	b := Options{MinWeight: 500}
	b.SetDefaults()

	assert.Equal(t, BuildID("h", a), BuildID("h", b))
	assert.NotEqual(t, BuildID("h", a), BuildID("h2", a))

	b.MinWeight = 100
	assert.NotEqual(t, BuildID("h", a), BuildID("h", b))
}

func TestExecute(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	result, err := runner.Execute(context.Background(), Options{
		Input:     writeSample(t),
		MinWeight: 500,
		Formats:   []string{FormatHTML, FormatJSON, FormatDOT},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Stats.InputNodes)
	assert.Equal(t, 1, result.Stats.RemovedNodes)
	assert.Equal(t, 2, result.Network.NodeCount())
	assert.Equal(t, 2, result.Network.EdgeCount(), "single out-edges are always kept")
	assert.False(t, result.Graph.HasEdge("doctor_female", "nurse_female"))

	lawyer, ok := result.Network.Node("lawyer_male")
	require.True(t, ok)
	assert.Equal(t, "rgba(0,0,0,1.0)", lawyer.Color)

	assert.Contains(t, string(result.Artifacts[FormatHTML]), result.BuildID)
	assert.True(t, strings.HasPrefix(string(result.Artifacts[FormatDOT]), "digraph"))

	_, doc, err := sink.ReadJSON(strings.NewReader(string(result.Artifacts[FormatJSON])))
	require.NoError(t, err)
	assert.Equal(t, result.BuildID, doc.BuildID)
	require.NotNil(t, doc.Params)
	assert.Equal(t, 500.0, doc.Params.MinWeight)
	assert.Equal(t, "mutual", doc.Params.Policy)
}

func TestExecuteAllEdges(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	result, err := runner.Execute(context.Background(), Options{
		Input:    writeSample(t),
		AllEdges: true,
		Formats:  []string{FormatJSON},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Network.NodeCount())
	assert.Equal(t, 4, result.Network.EdgeCount())
	for _, n := range result.Network.Nodes() {
		assert.Empty(t, n.Color, "all-edges builds are uncolored")
	}
}

func TestExecuteErrors(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	ctx := context.Background()

	_, err := runner.Execute(ctx, Options{})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	_, err = runner.Execute(ctx, Options{Input: filepath.Join(t.TempDir(), "missing.json")})
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))

	_, err = runner.ExecuteBytes(ctx, "inline", []byte("{"), Options{})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	_, err = runner.ExecuteBytes(ctx, "inline", []byte(sample), Options{EdgesProportion: 3})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
}

func TestExecuteCategoricalMissingCategory(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	_, err := runner.ExecuteBytes(context.Background(), "inline", []byte(sample), Options{
		Coloring: "categorical",
		Palette:  map[string]string{"female": "200,50,120"},
		Formats:  []string{FormatJSON},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
}

// countingCache records Set calls on top of a map.
type countingCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newCountingCache() *countingCache { return &countingCache{data: map[string][]byte{}} }

func (c *countingCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *countingCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.sets++
	return nil
}

func (c *countingCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *countingCache) Close() error { return nil }

var _ cache.Cache = (*countingCache)(nil)

func TestExecuteCaching(t *testing.T) {
	c := newCountingCache()
	runner := NewRunner(c, nil, nil)
	ctx := context.Background()
	opts := Options{Input: writeSample(t), MinWeight: 500, Formats: []string{FormatHTML, FormatJSON}}

	first, err := runner.Execute(ctx, opts)
	require.NoError(t, err)
	assert.False(t, first.CacheHit)
	assert.Equal(t, 2, c.sets)

	second, err := runner.Execute(ctx, opts)
	require.NoError(t, err)
	assert.True(t, second.CacheHit)
	assert.Equal(t, first.BuildID, second.BuildID)
	assert.Equal(t, first.Artifacts, second.Artifacts)
	assert.Equal(t, 2, c.sets)

	opts.Formats = []string{FormatHTML, FormatDOT}
	third, err := runner.Execute(ctx, opts)
	require.NoError(t, err)
	assert.False(t, third.CacheHit)
	assert.Equal(t, 3, c.sets, "only the missing format is rendered and stored")

	opts.Refresh = true
	_, err = runner.Execute(ctx, opts)
	require.NoError(t, err)
	assert.Equal(t, 5, c.sets)
}

func TestExecuteURL(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		mu.Unlock()
		_, _ = w.Write([]byte(sample))
	}))
	defer srv.Close()

	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	runner := NewRunner(fc, nil, nil)
	opts := Options{Input: srv.URL + "/graph.json", MinWeight: 500, Formats: []string{FormatJSON}}

	first, err := runner.Execute(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Network.NodeCount())

	second, err := runner.Execute(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, first.BuildID, second.BuildID)
	assert.True(t, second.CacheHit)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, calls, "input download is cached")
}
