package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/trogers1052/finviz-tracker/internal/models"
)

// InsertNews appends headlines to the finviz table. Headlines are never
// deduplicated, repeated scrapes accumulate rows.
func (db *DB) InsertNews(ctx context.Context, items []models.NewsItem) (int64, error) {
	rows := make([]Row, 0, len(items))
	for _, n := range items {
		row := Row{
			ColTicker: n.Ticker,
			ColDate:   n.Date,
			ColTitle:  n.Title,
			ColLink:   n.Link,
		}
		if n.IsInNewsDetails != "" {
			row[ColIsInNewsDetails] = n.IsInNewsDetails
		}
		rows = append(rows, row)
	}
	return db.Insert(ctx, TableFinviz, rows)
}

// GetNewsByTicker retrieves headlines for a ticker in insertion order
func (db *DB) GetNewsByTicker(ctx context.Context, ticker string, limit int) ([]*models.NewsItem, error) {
	query := db.rebind(`
		SELECT "id", "ticker", "date", "title", "link", "isInNewsDetails"
		FROM "finviz"
		WHERE "ticker" = ?
		ORDER BY "id"
		LIMIT ?
	`)
	rows, err := db.conn.QueryContext(ctx, query, ticker, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query news: %w", err)
	}
	defer rows.Close()

	news := []*models.NewsItem{}
	for rows.Next() {
		var n models.NewsItem
		var date, title, link, inDetails sql.NullString
		if err := rows.Scan(&n.ID, &n.Ticker, &date, &title, &link, &inDetails); err != nil {
			return nil, fmt.Errorf("failed to scan news: %w", err)
		}
		n.Date = date.String
		n.Title = title.String
		n.Link = link.String
		n.IsInNewsDetails = inDetails.String
		news = append(news, &n)
	}

	return news, rows.Err()
}
