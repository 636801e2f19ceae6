package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/trogers1052/finviz-tracker/internal/ratelimit"
)

func init() {
	rootCmd.AddCommand(populationCmd)
}

var populationCmd = &cobra.Command{
	Use:   "population",
	Short: "Scrapes the Finviz screener and stores the stock population.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		db, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		client, closeCache, err := newScraperClient(ctx)
		if err != nil {
			return err
		}
		defer closeCache()

		companies, err := client.FetchPopulation(ctx, ratelimit.NewInterval(cfg.Scraper.Delay))
		if err != nil {
			return err
		}
		if err := db.UpsertCompanies(ctx, companies); err != nil {
			return err
		}

		total, err := db.CountCompanies(ctx)
		if err != nil {
			return err
		}
		slog.Info("population stored", "scraped", len(companies), "total", total)
		fmt.Fprintf(cmd.OutOrStdout(), "%d companies scraped, %d stored.\n", len(companies), total)
		return nil
	},
}
