package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/trogers1052/finviz-tracker/internal/kafka"
	"github.com/trogers1052/finviz-tracker/internal/pipeline"
	"github.com/trogers1052/finviz-tracker/internal/ratelimit"
)

var runCount int

func init() {
	runCmd.Flags().IntVar(&runCount, "count", -1, "Number of TODO tickers to process. Prompts when omitted.")
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run [--count <n>]",
	Short: "Processes the next TODO tickers: scrapes news and float and records the outcome.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		db, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		dist, err := db.TrackerDistribution(ctx)
		if err != nil {
			return err
		}
		renderDistribution(out, dist)

		todo, err := db.CountTodo(ctx)
		if err != nil {
			return err
		}

		k := runCount
		if !cmd.Flags().Changed("count") {
			k, err = promptCount(cmd.InOrStdin(), out, todo, cfg.Scraper.Delay)
			if err != nil {
				return err
			}
		}
		if k < 0 || k > todo {
			return fmt.Errorf("%w: %d is not between 0 and %d", pipeline.ErrInvalidCount, k, todo)
		}
		if k == 0 {
			fmt.Fprintln(out, "Nothing to process.")
			return nil
		}

		tickers, err := db.TodoTickers(ctx, k)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "The below tickers will be processed:\n%s\n", strings.Join(tickers, ", "))
		fmt.Fprintf(out, "Total estimated time: %s\n\n", time.Duration(len(tickers))*cfg.Scraper.Delay)

		client, closeCache, err := newScraperClient(ctx)
		if err != nil {
			return err
		}
		defer closeCache()

		producer := kafka.NewFromConfig(cfg.Kafka)
		defer producer.Close()

		p := pipeline.New(db, client, ratelimit.NewInterval(cfg.Scraper.Delay), producer, pipeline.NewProgressReporter(out))
		result, err := p.Run(ctx, k)
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "\n%d tickers processed in %s (%d completed, %d errors).\n",
			result.Processed(), result.Elapsed.Round(time.Millisecond), result.Completed, result.Failed)
		return nil
	},
}
