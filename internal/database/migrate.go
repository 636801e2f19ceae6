package database

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/trogers1052/finviz-tracker/internal/config"
)

//go:embed migrations
var migrationsFS embed.FS

// Migrate applies all pending migrations for the current driver
func (db *DB) Migrate() error {
	source, err := iofs.New(migrationsFS, "migrations/"+db.driver)
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	var driver migratedb.Driver
	switch db.driver {
	case config.DriverPostgres:
		driver, err = postgres.WithInstance(db.conn, &postgres.Config{})
	default:
		driver, err = sqlite.WithInstance(db.conn, &sqlite.Config{})
	}
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, db.driver, driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
