package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
	"github.com/trogers1052/finviz-tracker/internal/models"
	"github.com/trogers1052/finviz-tracker/internal/ratelimit"
)

const (
	screenerPageSize = 20
	screenerPath     = "screener.ashx?v=111&f=ind_stocksonly,sh_price_u20&ft=4&o=-price&r=%d&ar=180"
)

var pageNumberRegex = regexp.MustCompile(`\d+`)

func screenerURL(offset int) string {
	return fmt.Sprintf(screenerPath, offset)
}

// ScreenerOffsets returns the row offset of every screener page up to lastPage
func ScreenerOffsets(lastPage int) []int {
	if lastPage < 1 {
		lastPage = 1
	}
	offsets := make([]int, lastPage)
	for i := range offsets {
		offsets[i] = 1 + i*screenerPageSize
	}
	return offsets
}

// LastPage returns the highest page number linked from the screener
// pagination, or 1 when there is none
func LastPage(doc *goquery.Document) int {
	links := doc.Find("a.screener-pages").Not(".is-next")
	if links.Length() == 0 {
		return 1
	}

	match := pageNumberRegex.FindString(links.Last().Text())
	if match == "" {
		return 1
	}
	n, err := strconv.Atoi(match)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// ParseScreenerRows maps screener result rows to companies. Rows with too few
// cells are skipped.
func ParseScreenerRows(doc *goquery.Document) []models.Company {
	companies := []models.Company{}

	doc.Find("table.styled-table-new tr.styled-row").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 9 {
			return
		}
		cell := func(i int) string {
			return strings.TrimSpace(cells.Eq(i).Text())
		}

		id, _ := strconv.Atoi(cell(0))
		price, err := decimal.NewFromString(strings.ReplaceAll(cell(8), ",", ""))
		if err != nil {
			slog.Debug("unparseable screener price", "ticker", cell(1), "price", cell(8))
			price = decimal.Zero
		}

		companies = append(companies, models.Company{
			ID:        id,
			Ticker:    cell(1),
			Company:   cell(2),
			Sector:    cell(3),
			Industry:  cell(4),
			Country:   cell(5),
			MarketCap: cell(6),
			Price:     price,
		})
	})

	return companies
}

// FetchPopulation walks every screener page and returns the companies found,
// deduplicated by ticker and numbered from 1 in page order
func (c *Client) FetchPopulation(ctx context.Context, limiter ratelimit.Limiter) ([]models.Company, error) {
	if err := limiter.Wait(ctx); err != nil {
		return nil, err
	}
	first, err := c.fetch(ctx, screenerURL(1))
	if err != nil {
		return nil, err
	}

	offsets := ScreenerOffsets(LastPage(first))
	slog.Info("scraping screener", "pages", len(offsets))

	companies := ParseScreenerRows(first)
	for i, offset := range offsets[1:] {
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}
		doc, err := c.fetch(ctx, screenerURL(offset))
		if err != nil {
			return nil, err
		}
		rows := ParseScreenerRows(doc)
		slog.Debug("screener page scraped", "page", i+2, "rows", len(rows))
		companies = append(companies, rows...)
	}

	return dedupeCompanies(companies), nil
}

func dedupeCompanies(companies []models.Company) []models.Company {
	seen := make(map[string]struct{}, len(companies))
	out := make([]models.Company, 0, len(companies))
	for _, company := range companies {
		if company.Ticker == "" {
			continue
		}
		if _, ok := seen[company.Ticker]; ok {
			continue
		}
		seen[company.Ticker] = struct{}{}
		company.ID = len(out) + 1
		out = append(out, company)
	}
	return out
}
