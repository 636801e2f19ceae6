package commands

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/trogers1052/finviz-tracker/internal/database"
)

func init() {
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Applies database migrations.",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Open(cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.Migrate(); err != nil {
			return err
		}
		slog.Info("migrations applied", "driver", db.Driver())
		return nil
	},
}
