package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	"github.com/trogers1052/finviz-tracker/internal/config"
	_ "modernc.org/sqlite"
)

// DB wraps the relational store. One DB is opened per command run and
// passed explicitly to everything that needs it.
type DB struct {
	conn   *sql.DB
	driver string
}

// New opens a connection using driver ("sqlite" or "postgres") and dsn.
// For sqlite the dsn is a file path.
func New(driver, dsn string) (*DB, error) {
	switch driver {
	case config.DriverSQLite, config.DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", driver)
	}
	if dsn == "" {
		return nil, fmt.Errorf("a database path or connection string was not specified")
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if driver == config.DriverSQLite {
		for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000"} {
			if _, err := conn.Exec(pragma); err != nil {
				conn.Close()
				return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
			}
		}
	}

	return &DB{conn: conn, driver: driver}, nil
}

// Open opens the database described by cfg
func Open(cfg config.DatabaseConfig) (*DB, error) {
	return New(cfg.Driver, cfg.DSN())
}

// Driver returns the name of the underlying driver
func (db *DB) Driver() string {
	return db.driver
}

// Ping verifies the connection is alive
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// rebind converts ? placeholders into the $n form postgres expects
func (db *DB) rebind(query string) string {
	if db.driver != config.DriverPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func quoteIdent[T ~string](name T) string {
	return `"` + strings.ReplaceAll(string(name), `"`, `""`) + `"`
}
