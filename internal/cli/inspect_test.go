package cli

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/occugraph/pkg/pipeline"
	"github.com/matzehuels/occugraph/pkg/score"
)

func sampleRows(t *testing.T) []nodeRow {
	t.Helper()
	ctx := context.Background()
	g, err := pipeline.Load(ctx, "sample", []byte(sampleGraph))
	require.NoError(t, err)

	opts := pipeline.Options{MinWeight: 500}
	net, _, err := pipeline.Build(ctx, g, opts)
	require.NoError(t, err)
	return nodeRows(g, net, score.Mutual)
}

func TestNodeRows(t *testing.T) {
	rows := sampleRows(t)
	require.Len(t, rows, 2)

	assert.Equal(t, "lawyer_male", rows[0].ID, "highest incoming score first")
	assert.Equal(t, 1.0, rows[0].Incoming)
	assert.GreaterOrEqual(t, rows[0].Incoming, rows[1].Incoming)
	for _, r := range rows {
		assert.Equal(t, 1, r.Out, r.ID)
		assert.Equal(t, 1, r.In, r.ID)
		assert.True(t, strings.HasPrefix(r.Color, "rgba("), r.ID)
	}
}

func TestSortRows(t *testing.T) {
	rows := []nodeRow{
		{ID: "b", Weight: 10, Incoming: 0.5},
		{ID: "a", Weight: 20, Incoming: 0.5},
		{ID: "c", Weight: 5, Incoming: 0.9},
	}

	sortRows(rows, sortIncoming)
	assert.Equal(t, []string{"c", "a", "b"}, rowIDs(rows), "ties broken by ID")

	sortRows(rows, sortWeight)
	assert.Equal(t, []string{"a", "b", "c"}, rowIDs(rows))

	sortRows(rows, sortID)
	assert.Equal(t, []string{"a", "b", "c"}, rowIDs(rows))
}

func rowIDs(rows []nodeRow) []string {
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	return ids
}

func key(s string) tea.KeyMsg {
	switch s {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestInspectModelNavigation(t *testing.T) {
	rows := make([]nodeRow, 10)
	for i := range rows {
		rows[i] = nodeRow{ID: string(rune('a' + i)), Incoming: float64(10 - i)}
	}
	m := newInspectModel("test", rows)
	m.height = 3

	var model tea.Model = m
	for range 5 {
		model, _ = model.Update(key("down"))
	}
	got := model.(inspectModel)
	assert.Equal(t, 5, got.cursor)
	assert.Equal(t, 3, got.offset, "viewport follows the cursor")

	model, _ = model.Update(key("up"))
	assert.Equal(t, 4, model.(inspectModel).cursor)

	for range 20 {
		model, _ = model.Update(key("down"))
	}
	assert.Equal(t, 9, model.(inspectModel).cursor, "cursor stops at the last row")

	model, _ = model.Update(key("s"))
	got = model.(inspectModel)
	assert.Equal(t, sortWeight, got.sortBy)
	assert.Equal(t, 0, got.cursor, "sorting resets the cursor")

	_, cmd := model.Update(key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestInspectModelView(t *testing.T) {
	m := newInspectModel("speakers.json", []nodeRow{
		{ID: "doctor_female", Weight: 1200, Incoming: 0.25, Out: 1, In: 1, Color: "rgba(0,0,0,0.25)"},
	})
	view := m.View()
	assert.Contains(t, view, "speakers.json")
	assert.Contains(t, view, "doctor_female")
	assert.Contains(t, view, "0.250")
	assert.Contains(t, view, "[1/1]")
}

func TestInspectModelWindowSize(t *testing.T) {
	m := newInspectModel("t", nil)
	model, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 4})
	assert.Equal(t, 5, model.(inspectModel).height, "height has a floor")

	model, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	assert.Equal(t, 23, model.(inspectModel).height)
}

func TestSwatchColor(t *testing.T) {
	c, ok := swatchColor("rgba(200,50,120,0.5)")
	assert.True(t, ok)
	assert.Equal(t, "#c83278", string(c))

	_, ok = swatchColor("")
	assert.False(t, ok)
	_, ok = swatchColor("blue")
	assert.False(t, ok)
}
