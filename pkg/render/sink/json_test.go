package sink

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/occugraph/pkg/network"
)

func sample() *network.Network {
	net := network.New()
	_ = net.AddNode("a_female", "a_female", 10)
	_ = net.AddNode("b_male", "b_male", 5)
	_ = net.AddEdge("a_female", "b_male", 0.25)
	_ = net.SetColor("b_male", "rgba(0,0,0,1.0)")
	return net
}

func TestRenderJSON(t *testing.T) {
	data, err := RenderJSON(sample(), Options{
		BuildID: "build-1",
		Params:  &Params{MinWeight: 500, EdgesProportion: 0.05, Policy: "mutual", Coloring: "incoming"},
	})
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "build-1", raw["build_id"])
	assert.Len(t, raw["nodes"], 2)
	assert.Len(t, raw["edges"], 1)

	params := raw["params"].(map[string]any)
	assert.Equal(t, 0.05, params["edges_proportion"])
	assert.Equal(t, "mutual", params["policy"])

	nodes := raw["nodes"].([]any)
	first := nodes[0].(map[string]any)
	_, hasColor := first["color"]
	assert.False(t, hasColor, "uncolored node omits color")
}

func TestEmptyNetworkHasArrays(t *testing.T) {
	data, err := RenderJSON(network.New(), Options{Compact: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"nodes": [], "edges": []}`, string(data))
}

func TestWriteReadJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(sample(), &buf, Options{BuildID: "x"}))

	net, doc, err := ReadJSON(&buf)
	require.NoError(t, err)
	assert.Equal(t, "x", doc.BuildID)
	assert.Equal(t, sample().Nodes(), net.Nodes())
	assert.Equal(t, sample().Edges(), net.Edges())
}

func TestReadJSONRejectsDanglingEdge(t *testing.T) {
	_, _, err := ReadJSON(bytes.NewBufferString(`{"nodes": [{"id": "a"}], "edges": [{"from": "a", "to": "z", "value": 1}]}`))
	assert.ErrorIs(t, err, network.ErrUnknownNode)
}
