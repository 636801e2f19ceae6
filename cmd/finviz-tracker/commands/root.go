package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/trogers1052/finviz-tracker/internal/config"
	"github.com/trogers1052/finviz-tracker/internal/database"
)

var (
	cfg *config.Config

	dbPath   string
	dbDriver string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:           "finviz-tracker",
	Short:         "finviz-tracker scrapes Finviz news and share float for a tracked stock population.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		if cmd.Flags().Changed("db") {
			cfg.Database.Path = dbPath
		}
		if cmd.Flags().Changed("driver") {
			cfg.Database.Driver = dbDriver
		}
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
		}
		setupLogging(cfg.LogLevel)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "prospectleap.db", "Path of the sqlite database.")
	rootCmd.PersistentFlags().StringVar(&dbDriver, "driver", config.DriverSQLite, "Database driver (sqlite or postgres).")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error).")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setupLogging(level string) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}

// openDB opens the configured store and checks its schema
func openDB(ctx context.Context) (*database.DB, error) {
	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := db.VerifySchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w (run `finviz-tracker migrate` first)", err)
	}
	return db, nil
}
