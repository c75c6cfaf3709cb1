package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/occugraph/pkg/colorize"
	"github.com/matzehuels/occugraph/pkg/graph"
	"github.com/matzehuels/occugraph/pkg/network"
	"github.com/matzehuels/occugraph/pkg/pipeline"
	"github.com/matzehuels/occugraph/pkg/score"
)

// =============================================================================
// Node rows
// =============================================================================

// nodeRow is one line of the inspect table.
type nodeRow struct {
	ID       string
	Weight   float64
	Incoming float64 // normalized incoming score
	Out      int     // retained out-edges
	In       int     // retained in-edges
	Color    string
}

// Sort orders of the inspect table.
const (
	sortIncoming = iota
	sortWeight
	sortID
	sortCount
)

var sortNames = [sortCount]string{"incoming", "weight", "id"}

// nodeRows collects the table rows of a built network.
func nodeRows(g *graph.Graph, net *network.Network, policy score.Policy) []nodeRow {
	incoming := colorize.Incoming{Policy: policy}.Weights(g, net)

	out := make(map[string]int)
	in := make(map[string]int)
	for _, e := range net.Edges() {
		out[e.From]++
		in[e.To]++
	}

	rows := make([]nodeRow, 0, net.NodeCount())
	for i, n := range net.Nodes() {
		rows = append(rows, nodeRow{
			ID:       n.ID,
			Weight:   n.Value,
			Incoming: incoming[i],
			Out:      out[n.ID],
			In:       in[n.ID],
			Color:    n.Color,
		})
	}
	sortRows(rows, sortIncoming)
	return rows
}

// sortRows orders rows descending by the chosen key, ties broken by ID.
func sortRows(rows []nodeRow, by int) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		switch by {
		case sortIncoming:
			if a.Incoming != b.Incoming {
				return a.Incoming > b.Incoming
			}
		case sortWeight:
			if a.Weight != b.Weight {
				return a.Weight > b.Weight
			}
		}
		return a.ID < b.ID
	})
}

func (r nodeRow) cells(rank int) []string {
	color := r.Color
	if color == "" {
		color = "-"
	}
	return []string{
		strconv.Itoa(rank),
		r.ID,
		strconv.FormatFloat(r.Weight, 'f', -1, 64),
		strconv.FormatFloat(r.Incoming, 'f', 3, 64),
		strconv.Itoa(r.Out),
		strconv.Itoa(r.In),
		color,
	}
}

var inspectHeaders = []string{"#", "Node", "Weight", "Incoming", "Out", "In", "Color"}

// =============================================================================
// inspectModel - Interactive node table
// =============================================================================

// inspectModel is the bubbletea model for browsing nodes.
type inspectModel struct {
	title  string
	rows   []nodeRow
	sortBy int
	cursor int
	offset int
	height int
}

func newInspectModel(title string, rows []nodeRow) inspectModel {
	return inspectModel{title: title, rows: rows, height: 15}
}

func (m inspectModel) Init() tea.Cmd {
	return nil
}

func (m inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "g", "home":
			m.cursor, m.offset = 0, 0
		case "s":
			m.sortBy = (m.sortBy + 1) % sortCount
			sortRows(m.rows, m.sortBy)
			m.cursor, m.offset = 0, 0
		}
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-7, 5)
	}
	return m, nil
}

func (m inspectModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.title))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("↑/↓ navigate  s sort (%s)  q quit", sortNames[m.sortBy])))
	b.WriteString("\n\n")

	end := min(m.offset+m.height, len(m.rows))
	b.WriteString(renderNodeTable(m.rows[m.offset:end], m.offset, m.cursor-m.offset))
	b.WriteString("\n\n")
	if len(m.rows) > 0 {
		b.WriteString(StyleDim.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.rows))))
	}
	return b.String()
}

// renderNodeTable renders rows as a lipgloss table. first is the rank
// offset of rows[0]; selected highlights one row, -1 for none.
func renderNodeTable(rows []nodeRow, first, selected int) string {
	cells := make([][]string, len(rows))
	for i, r := range rows {
		cells[i] = r.cells(first + i + 1)
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(inspectHeaders...).
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if col == 0 || col == 6 {
				base = base.Foreground(colorDim)
			}
			if col == 6 && row < len(rows) {
				if sw, ok := swatchColor(rows[row].Color); ok {
					base = base.Foreground(sw)
				}
			}
			if row == selected {
				return base.Bold(true).Foreground(colorCyan)
			}
			return base
		})
	return t.Render()
}

// =============================================================================
// Command
// =============================================================================

type inspectOpts struct {
	plain bool
	top   int
	build buildFlags
}

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var opts inspectOpts

	cmd := &cobra.Command{
		Use:   "inspect [graph.json|url]",
		Short: "Browse the nodes of a built network",
		Long: `Inspect builds the network like the build command and lists its nodes ranked
by normalized incoming score, with retained edge counts and assigned colors.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), cmd, args[0], &opts)
		},
	}

	cmd.Flags().BoolVar(&opts.plain, "plain", false, "print a static table instead of the interactive view")
	cmd.Flags().IntVarP(&opts.top, "top", "n", 0, "only show the first n nodes (0 shows all)")
	opts.build.register(cmd)
	return cmd
}

func (c *CLI) runInspect(ctx context.Context, cmd *cobra.Command, input string, opts *inspectOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	popts, err := c.resolveOptions(cmd, cfg, &opts.build)
	if err != nil {
		return err
	}
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, cfg)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	spinner := newSpinnerWithContext(ctx, "Loading graph...")
	spinner.Start()
	g, err := readGraph(ctx, runner, input)
	if err != nil {
		spinner.Stop()
		return err
	}
	spinner.Update("Building network...")
	net, stats, err := pipeline.Build(ctx, g, popts)
	spinner.Stop()
	if err != nil {
		return err
	}
	prog.done("Built network", statsFields(stats)...)
	policy, err := score.Lookup(popts.Policy)
	if err != nil {
		return err
	}

	rows := nodeRows(g, net, policy)
	if opts.top > 0 && opts.top < len(rows) {
		rows = rows[:opts.top]
	}
	title := fmt.Sprintf("%s · %d nodes · %d edges · %s", input, stats.NodeCount, stats.EdgeCount, policy.Name())

	if opts.plain || !isTerminal(os.Stdout) {
		fmt.Println(StyleTitle.Render(title))
		fmt.Println(renderNodeTable(rows, 0, -1))
		return nil
	}

	_, err = tea.NewProgram(newInspectModel(title, rows), tea.WithContext(ctx)).Run()
	return err
}

// readGraph reads and decodes the adjacency JSON at a path or URL.
func readGraph(ctx context.Context, runner *pipeline.Runner, input string) (*graph.Graph, error) {
	data, err := runner.ReadInput(ctx, input, false)
	if err != nil {
		return nil, err
	}
	return pipeline.Load(ctx, input, data)
}

// isTerminal reports whether f is a character device.
func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}
