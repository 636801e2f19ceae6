package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/trogers1052/finviz-tracker/internal/models"
)

// UpsertCompanies inserts or refreshes screener rows. A previously scraped
// float is kept.
func (db *DB) UpsertCompanies(ctx context.Context, companies []models.Company) error {
	query := db.rebind(`
		INSERT INTO "companyDetails" (
			"id", "ticker", "company", "sector", "industry",
			"country", "market_cap", "price", "float"
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT ("ticker") DO UPDATE SET
			"id" = excluded."id",
			"company" = excluded."company",
			"sector" = excluded."sector",
			"industry" = excluded."industry",
			"country" = excluded."country",
			"market_cap" = excluded."market_cap",
			"price" = excluded."price"
	`)

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare company upsert: %w", err)
	}
	defer stmt.Close()

	for _, c := range companies {
		_, err := stmt.ExecContext(ctx,
			c.ID, c.Ticker, c.Company, c.Sector, c.Industry,
			c.Country, c.MarketCap, c.Price, c.Float,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert company %s: %w", c.Ticker, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit companies: %w", err)
	}
	return nil
}

// GetCompany retrieves a company by ticker
func (db *DB) GetCompany(ctx context.Context, ticker string) (*models.Company, error) {
	query := db.rebind(`
		SELECT "id", "ticker", "company", "sector", "industry",
		       "country", "market_cap", "price", "float"
		FROM "companyDetails"
		WHERE "ticker" = ?
	`)
	var c models.Company
	var id sql.NullInt64
	var name, sector, industry, country, marketCap sql.NullString
	var price decimal.NullDecimal

	err := db.conn.QueryRowContext(ctx, query, ticker).Scan(
		&id, &c.Ticker, &name, &sector, &industry,
		&country, &marketCap, &price, &c.Float,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("company %s: %w", ticker, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get company: %w", err)
	}

	c.ID = int(id.Int64)
	c.Company = name.String
	c.Sector = sector.String
	c.Industry = industry.String
	c.Country = country.String
	c.MarketCap = marketCap.String
	if price.Valid {
		c.Price = price.Decimal
	}

	return &c, nil
}

// CountCompanies returns the number of ticker records
func (db *DB) CountCompanies(ctx context.Context) (int, error) {
	var n int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM "companyDetails"`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count companies: %w", err)
	}
	return n, nil
}

// UpdateFloat stores the scraped float for ticker. An invalid value writes NULL.
func (db *DB) UpdateFloat(ctx context.Context, ticker string, float decimal.NullDecimal) (int64, error) {
	return db.UpdateValue(ctx, TableCompanyDetails, ColTicker, ticker, ColFloat, float)
}
