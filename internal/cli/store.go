package cli

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/authorsphere/pkg/graph"
)

// storeCommand creates the graph store management command.
func (c *CLI) storeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Inspect or reset the persisted co-authorship graph",
	}

	cmd.AddCommand(c.storeStatsCommand())
	cmd.AddCommand(c.storePathCommand())
	cmd.AddCommand(c.storeClearCommand())

	return cmd
}

// storeStatsCommand creates the "store stats" subcommand.
func (c *CLI) storeStatsCommand() *cobra.Command {
	var top int
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show node, edge and depth counts of the stored graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, release, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			store, err := p.Load(cmd.Context())
			if err != nil {
				return err
			}
			printKeyValue("Location", p.Location())
			printStoreSummary(store)
			if store.Len() == 0 {
				return nil
			}
			printNewline()
			fmt.Println(depthTable(store))
			if top > 0 {
				printNewline()
				fmt.Println(degreeTable(store, top))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&top, "top", 10, "list the authors with the most co-authors (0: none)")
	return cmd
}

// storePathCommand creates the "store path" subcommand.
func (c *CLI) storePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the graph store lives",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, release, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer release()
			fmt.Println(p.Location())
			return nil
		},
	}
}

// storeClearCommand creates the "store clear" subcommand.
func (c *CLI) storeClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete the stored graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, release, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer release()
			if err := p.Delete(cmd.Context()); err != nil {
				return err
			}
			printSuccess("Cleared graph store")
			printDetail("Location: %s", p.Location())
			return nil
		},
	}
}

var tableHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return tableHeaderStyle.Padding(0, 1)
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorCyan).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}

// depthTable counts authors per depth.
func depthTable(store *graph.Store) *table.Table {
	hist := store.DepthHistogram()
	depths := make([]int, 0, len(hist))
	for d := range hist {
		depths = append(depths, d)
	}
	slices.Sort(depths)

	t := newTable("Depth", "Authors")
	for _, d := range depths {
		t.Row(strconv.Itoa(d), strconv.Itoa(hist[d]))
	}
	return t
}

// degreeTable lists the n authors with the most co-authors.
func degreeTable(store *graph.Store, n int) *table.Table {
	ids := store.IDs()
	degree := func(id graph.NodeID) int {
		node, _ := store.Node(id)
		return node.Degree()
	}
	slices.SortStableFunc(ids, func(a, b graph.NodeID) int { return degree(b) - degree(a) })

	t := newTable("Author", "Name", "Co-authors")
	for _, id := range ids[:min(n, len(ids))] {
		node, _ := store.Node(id)
		t.Row(string(id), node.Name, strconv.Itoa(node.Degree()))
	}
	return t
}
