package commands

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"github.com/trogers1052/finviz-tracker/internal/models"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Prints the tracker status distribution.",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		dist, err := db.TrackerDistribution(cmd.Context())
		if err != nil {
			return err
		}
		renderDistribution(cmd.OutOrStdout(), dist)
		return nil
	},
}

func renderDistribution(out io.Writer, dist []models.StatusCount) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"finvizStatus", "Count", "Percent"})

	total := 0
	for _, sc := range dist {
		t.AppendRow(table.Row{sc.Value, sc.Count, fmt.Sprintf("%.2f%%", sc.Percent)})
		total += sc.Count
	}
	t.AppendFooter(table.Row{"Total", total, ""})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
	})
	t.SetStyle(table.StyleRounded)
	t.Render()
}
