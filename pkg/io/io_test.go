package io

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/occugraph/pkg/errors"
	"github.com/matzehuels/occugraph/pkg/graph"
)

const sample = `{
  "directed": true,
  "multigraph": false,
  "graph": {},
  "nodes": [
    {"id": "doctor_female", "weight": 1200},
    {"id": "lawyer_male", "weight": 800},
    {"id": "nurse_female"}
  ],
  "adjacency": [
    [{"id": "lawyer_male", "weight": 40}, {"id": "nurse_female", "weight": 12}],
    [{"id": "doctor_female"}],
    []
  ]
}`

func TestReadAdjacency(t *testing.T) {
	g, err := ReadAdjacency(strings.NewReader(sample))
	require.NoError(t, err)

	assert.Equal(t, []string{"doctor_female", "lawyer_male", "nurse_female"}, g.NodeIDs())
	assert.Equal(t, 3, g.EdgeCount())
	assert.Equal(t, 1200.0, g.Weight("doctor_female"))
	assert.Equal(t, 1.0, g.Weight("nurse_female"), "missing node weight defaults to 1")

	w, ok := g.EdgeWeight("lawyer_male", "doctor_female")
	require.True(t, ok)
	assert.Equal(t, 1.0, w, "missing edge weight defaults to 1")
	assert.Equal(t, []string{"lawyer_male", "nurse_female"}, g.Successors("doctor_female"))
}

func TestReadAdjacencyErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  errors.Code
	}{
		{"Malformed", `{"nodes": [`, errors.ErrCodeInvalidInput},
		{"Multigraph", `{"multigraph": true, "nodes": [], "adjacency": []}`, errors.ErrCodeInvalidInput},
		{"DuplicateNode", `{"nodes": [{"id": "a"}, {"id": "a"}], "adjacency": []}`, errors.ErrCodeInvalidInput},
		{"NegativeWeight", `{"nodes": [{"id": "a", "weight": -3}], "adjacency": []}`, errors.ErrCodeInvalidInput},
		{"LongAdjacency", `{"nodes": [{"id": "a"}], "adjacency": [[], []]}`, errors.ErrCodeInvalidInput},
		{"DuplicateEdge", `{"nodes": [{"id": "a"}, {"id": "b"}], "adjacency": [[{"id": "b"}, {"id": "b"}], []]}`, errors.ErrCodeInvalidInput},
		{"UnknownTarget", `{"nodes": [{"id": "a"}], "adjacency": [[{"id": "ghost"}]]}`, errors.ErrCodePrecondition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadAdjacency(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.code), "err = %v", err)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	g, err := ReadAdjacency(strings.NewReader(sample))
	require.NoError(t, err)
	g.RemoveNode("nurse_female")

	var buf bytes.Buffer
	require.NoError(t, WriteAdjacency(g, &buf))

	back, err := ReadAdjacency(&buf)
	require.NoError(t, err)
	assert.Equal(t, g.NodeIDs(), back.NodeIDs())
	assert.Equal(t, g.Edges(), back.Edges())
}

func TestImportExportFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.json")

	g := graph.New()
	require.NoError(t, g.AddNode(graph.Node{ID: "a", Weight: 2}))
	require.NoError(t, g.AddNode(graph.Node{ID: "b", Weight: 0}))
	require.NoError(t, g.AddEdge(graph.Edge{From: "a", To: "b", Weight: 0.5}))
	require.NoError(t, ExportAdjacency(g, path))

	back, err := ImportAdjacency(path)
	require.NoError(t, err)
	assert.Equal(t, 0.0, back.Weight("b"), "explicit zero weight survives export")
	assert.Equal(t, g.Edges(), back.Edges())

	_, err = ImportAdjacency(filepath.Join(dir, "missing.json"))
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))

	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)
}
