package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/trogers1052/finviz-tracker/internal/scraper"
)

var scrapeSave bool

func init() {
	scrapeCmd.Flags().BoolVar(&scrapeSave, "save", false, "Insert the scraped news into the database.")
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape <ticker> [--save]",
	Short: "Scrapes a single ticker and prints its news and float.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		client, closeCache, err := newScraperClient(ctx)
		if err != nil {
			return err
		}
		defer closeCache()

		details, err := client.TickerDetails(ctx, args[0])
		if err != nil {
			return err
		}

		float := "n/a"
		if details.Float != nil {
			float = *details.Float
			if shares, err := scraper.ParseShares(float); err == nil && shares.Valid {
				float = fmt.Sprintf("%s (%s shares)", float, shares.Decimal.String())
			}
		}
		fmt.Fprintf(out, "%s float: %s\n", details.Ticker, float)

		t := table.NewWriter()
		t.SetOutputMirror(out)
		t.AppendHeader(table.Row{"#", "Date", "Title", "Link"})
		for i, n := range details.News {
			t.AppendRow(table.Row{i + 1, n.Date, n.Title, n.Link})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()

		if !scrapeSave {
			return nil
		}

		db, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		n, err := db.InsertNews(ctx, details.News)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%d news rows saved.\n", n)
		return nil
	},
}
