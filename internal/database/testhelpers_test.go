package database

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/trogers1052/finviz-tracker/internal/config"
	"github.com/trogers1052/finviz-tracker/internal/models"
)

// TestDB wraps a test database connection with cleanup
type TestDB struct {
	*DB
	container testcontainers.Container
	connStr   string
}

// SetupTestDB creates a migrated sqlite database in a temporary directory
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := New(config.DriverSQLite, path)
	require.NoError(t, err, "failed to open sqlite test database")

	testDB := &TestDB{DB: db, connStr: path}
	if err := testDB.Migrate(); err != nil {
		testDB.Cleanup(t)
		t.Fatalf("failed to run migrations: %v", err)
	}
	return testDB
}

// SetupPostgresTestDB creates a new PostgreSQL container and returns a connected, migrated DB
func SetupPostgresTestDB(t *testing.T) *TestDB {
	t.Helper()
	ctx := context.Background()

	// Start PostgreSQL container
	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	// Get connection string
	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	// Connect to database
	db, err := New(config.DriverPostgres, connStr)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	testDB := &TestDB{
		DB:        db,
		container: pgContainer,
		connStr:   connStr,
	}

	// Run migrations
	if err := testDB.Migrate(); err != nil {
		testDB.Cleanup(t)
		t.Fatalf("failed to run migrations: %v", err)
	}

	return testDB
}

// Cleanup closes the database connection and terminates the container
func (tdb *TestDB) Cleanup(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	if tdb.DB != nil {
		tdb.DB.Close()
	}

	if tdb.container != nil {
		if err := tdb.container.Terminate(ctx); err != nil {
			t.Errorf("failed to terminate container: %v", err)
		}
	}
}

// TruncateAll empties all tables for test isolation
func (tdb *TestDB) TruncateAll(t *testing.T) {
	t.Helper()

	tables := []Table{
		TableTracker,
		TableNewsDetails,
		TableFinviz,
		TableCompanyDetails,
	}

	for _, table := range tables {
		_, err := tdb.conn.Exec(fmt.Sprintf("DELETE FROM %s", quoteIdent(table)))
		if err != nil {
			t.Fatalf("failed to truncate table %s: %v", table, err)
		}
	}
}

// GetRawConn returns the underlying sql.DB for direct queries in tests
func (tdb *TestDB) GetRawConn() *sql.DB {
	return tdb.conn
}

// SeedCompanies inserts one company per ticker, numbered in argument order
func (tdb *TestDB) SeedCompanies(t *testing.T, tickers ...string) {
	t.Helper()

	companies := make([]models.Company, 0, len(tickers))
	for i, ticker := range tickers {
		companies = append(companies, models.Company{
			ID:        i + 1,
			Ticker:    ticker,
			Company:   ticker + " Inc.",
			Sector:    "Technology",
			Industry:  "Software",
			Country:   "USA",
			MarketCap: "1.2B",
			Price:     decimal.NewFromFloat(12.5),
		})
	}
	require.NoError(t, tdb.UpsertCompanies(context.Background(), companies))
}

// trackerStatuses returns ticker -> status for every tracker entry
func (tdb *TestDB) trackerStatuses(t *testing.T) map[string]string {
	t.Helper()

	rows, err := tdb.conn.Query(`SELECT "ticker", "finvizStatus" FROM "trackerFinviz"`)
	require.NoError(t, err)
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var ticker, status string
		require.NoError(t, rows.Scan(&ticker, &status))
		out[ticker] = status
	}
	require.NoError(t, rows.Err())
	return out
}
