package database

import (
	"context"
	"fmt"

	"github.com/trogers1052/finviz-tracker/internal/models"
)

// InitTracker seeds the tracker with every company in status TODO and
// returns the number of entries created. Existing entries are only wiped
// when force is set.
func (db *DB) InitTracker(ctx context.Context, force bool) (int64, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var existing int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM "trackerFinviz"`).Scan(&existing); err != nil {
		return 0, fmt.Errorf("failed to count tracker entries: %w", err)
	}
	if existing > 0 && !force {
		return 0, fmt.Errorf("%w: %d entries present", ErrTrackerInitialized, existing)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM "trackerFinviz"`); err != nil {
		return 0, fmt.Errorf("failed to clear tracker: %w", err)
	}

	query := `
		INSERT INTO "trackerFinviz" ("ticker", "finvizStatus")
		SELECT COALESCE("ticker", 'NA'), 'TODO'
		FROM "companyDetails"
		ORDER BY "id"
	`
	result, err := tx.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to seed tracker: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit tracker: %w", err)
	}

	return result.RowsAffected()
}

// GetTracker loads the whole tracker table
func (db *DB) GetTracker(ctx context.Context) (*RowSet, error) {
	return db.GetTable(ctx, TableTracker)
}

// TodoTickers returns up to k TODO tickers in tracker order
func (db *DB) TodoTickers(ctx context.Context, k int) ([]string, error) {
	if k < 0 {
		return nil, fmt.Errorf("invalid ticker count: %d", k)
	}
	todo, err := db.todoRows(ctx)
	if err != nil {
		return nil, err
	}

	values, err := todo.Values(ColTicker)
	if err != nil {
		return nil, err
	}
	if k < len(values) {
		values = values[:k]
	}

	tickers := make([]string, 0, len(values))
	for _, v := range values {
		tickers = append(tickers, valueKey(v))
	}
	return tickers, nil
}

// CountTodo returns the number of TODO tracker entries
func (db *DB) CountTodo(ctx context.Context) (int, error) {
	todo, err := db.todoRows(ctx)
	if err != nil {
		return 0, err
	}
	return todo.Len(), nil
}

func (db *DB) todoRows(ctx context.Context) (*RowSet, error) {
	tracker, err := db.GetTracker(ctx)
	if err != nil {
		return nil, err
	}
	return tracker.Filter(ColFinvizStatus, models.StatusTodo)
}

// SetTrackerStatus records the processing outcome of ticker
func (db *DB) SetTrackerStatus(ctx context.Context, ticker string, status models.TrackerStatus) error {
	if !status.Valid() {
		return fmt.Errorf("invalid tracker status: %q", status)
	}
	_, err := db.UpdateValue(ctx, TableTracker, ColTicker, ticker, ColFinvizStatus, string(status))
	return err
}

// TrackerDistribution counts tracker entries per status
func (db *DB) TrackerDistribution(ctx context.Context) ([]models.StatusCount, error) {
	tracker, err := db.GetTracker(ctx)
	if err != nil {
		return nil, err
	}
	return tracker.Distribution(ColFinvizStatus)
}
