package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/trogers1052/finviz-tracker/internal/models"
)

func quotePath(ticker string) string {
	return fmt.Sprintf("quote.ashx?t=%s&p=d", url.QueryEscape(ticker))
}

// TickerDetails fetches the quote page of ticker once and extracts its
// news list and shares float
func (c *Client) TickerDetails(ctx context.Context, ticker string) (*models.TickerDetails, error) {
	ticker = strings.TrimSpace(ticker)
	if ticker == "" {
		return nil, ErrEmptyTicker
	}

	doc, err := c.fetch(ctx, quotePath(ticker))
	if err != nil {
		return nil, err
	}
	return ParseTickerDetails(doc, ticker), nil
}

// ParseTickerDetails extracts news and float from a quote page
func ParseTickerDetails(doc *goquery.Document, ticker string) *models.TickerDetails {
	return &models.TickerDetails{
		Ticker: ticker,
		News:   ParseNews(doc, ticker),
		Float:  ParseFloat(doc),
	}
}

// ParseNews returns the headlines of the quote page news table in page order.
// Rows missing a date, title or link are skipped.
func ParseNews(doc *goquery.Document, ticker string) []models.NewsItem {
	news := []models.NewsItem{}

	table := doc.Find("table.fullview-news-outer").First()
	table.Find("tr.cursor-pointer").Each(func(_ int, row *goquery.Selection) {
		dateCell := row.Find("td[align=right]").First()
		newsCell := row.Find("td[align=left]").First()
		if dateCell.Length() == 0 || newsCell.Length() == 0 {
			return
		}

		anchor := newsCell.Find("a.tab-link-news").First()
		href, ok := anchor.Attr("href")
		if !ok {
			return
		}

		news = append(news, models.NewsItem{
			Ticker: ticker,
			Date:   strings.TrimSpace(dateCell.Text()),
			Title:  strings.TrimSpace(anchor.Text()),
			Link:   resolveLink(doc.Url, href),
		})
	})

	return news
}

func resolveLink(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if base == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

// ParseFloat returns the raw "Shs Float" value of the snapshot table, or nil
// when the page does not show one
func ParseFloat(doc *goquery.Document) *string {
	label := doc.Find("td.snapshot-td2").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.TrimSpace(s.Text()) == "Shs Float"
	}).First()
	if label.Length() == 0 {
		return nil
	}

	value := label.NextAllFiltered("td").First().Find("b").First()
	if value.Length() == 0 {
		return nil
	}

	text := strings.TrimSpace(value.Text())
	return &text
}
