package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initTrackerForce bool

func init() {
	initTrackerCmd.Flags().BoolVar(&initTrackerForce, "force", false, "Wipe an existing tracker and seed it again.")
	rootCmd.AddCommand(initTrackerCmd)
}

var initTrackerCmd = &cobra.Command{
	Use:   "init-tracker [--force]",
	Short: "Seeds the tracker with every company in status TODO.",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		n, err := db.InitTracker(cmd.Context(), initTrackerForce)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Tracker seeded with %d tickers.\n", n)
		return nil
	},
}
