package scraper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trogers1052/finviz-tracker/internal/config"
	"github.com/trogers1052/finviz-tracker/internal/ratelimit"
)

func readFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return string(data)
}

func parseHTML(t *testing.T, page string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)
	return doc
}

func newTestClient(t *testing.T, baseURL string, cache PageCache) *Client {
	t.Helper()
	client, err := NewClient(config.ScraperConfig{
		BaseURL:   baseURL,
		UserAgent: "finviz-tracker-test",
		Timeout:   5 * time.Second,
	}, cache)
	require.NoError(t, err)
	return client
}

type memoryCache struct {
	mu     sync.Mutex
	pages  map[string]string
	getErr error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{pages: make(map[string]string)}
}

func (m *memoryCache) Get(_ context.Context, url string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", false, m.getErr
	}
	page, ok := m.pages[url]
	return page, ok, nil
}

func (m *memoryCache) Set(_ context.Context, url, page string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages[url] = page
	return nil
}

func TestParseNews(t *testing.T) {
	t.Run("extracts well formed rows in page order", func(t *testing.T) {
		doc := parseHTML(t, readFixture(t, "quote.html"))

		news := ParseNews(doc, "NVDA")
		require.Len(t, news, 2)

		assert.Equal(t, "NVDA", news[0].Ticker)
		assert.Equal(t, "Jan-02-24 09:30AM", news[0].Date)
		assert.Equal(t, "Chips rally on demand", news[0].Title)
		assert.Equal(t, "https://example.com/rally", news[0].Link)

		assert.Equal(t, "08:00AM", news[1].Date)
		assert.Equal(t, "Guidance raised", news[1].Title)
	})

	t.Run("relative links resolve against the page url", func(t *testing.T) {
		doc := parseHTML(t, readFixture(t, "quote.html"))
		u, err := url.Parse("https://finviz.com/quote.ashx?t=NVDA&p=d")
		require.NoError(t, err)
		doc.Url = u

		news := ParseNews(doc, "NVDA")
		require.Len(t, news, 2)
		assert.Equal(t, "https://finviz.com/news/guidance", news[1].Link)
	})
}

func TestParseFloat(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		expected *string
	}{
		{
			name:     "value next to label",
			html:     readFixture(t, "quote.html"),
			expected: strPtr("12.34M"),
		},
		{
			name:     "label without value cell",
			html:     `<table><tr><td class="snapshot-td2">Shs Float</td></tr></table>`,
			expected: nil,
		},
		{
			name:     "value cell without bold",
			html:     `<table><tr><td class="snapshot-td2">Shs Float</td><td class="snapshot-td2">1.2B</td></tr></table>`,
			expected: nil,
		},
		{
			name:     "dash is returned raw",
			html:     `<table><tr><td class="snapshot-td2"> Shs Float </td><td class="snapshot-td2"><b>-</b></td></tr></table>`,
			expected: strPtr("-"),
		},
		{
			name:     "no snapshot table",
			html:     `<html><body><p>nothing</p></body></html>`,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseFloat(parseHTML(t, tt.html)))
		})
	}
}

func TestParseTickerDetails_MalformedHTML(t *testing.T) {
	pages := []string{
		"",
		"<html>",
		"<<<>>> not html at all",
		`<table class="fullview-news-outer"><tr class="cursor-pointer"><td>only one cell</td></tr></table>`,
	}

	for _, page := range pages {
		details := ParseTickerDetails(parseHTML(t, page), "AAPL")
		assert.Equal(t, "AAPL", details.Ticker)
		assert.NotNil(t, details.News)
		assert.Empty(t, details.News)
		assert.Nil(t, details.Float)
	}
}

func TestParseShares(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		valid    bool
		wantErr  bool
	}{
		{input: "12.34M", expected: "12340000", valid: true},
		{input: "1.2B", expected: "1200000000", valid: true},
		{input: "850.5K", expected: "850500", valid: true},
		{input: "1234", expected: "1234", valid: true},
		{input: "1,234", expected: "1234", valid: true},
		{input: "0.5t", expected: "500000000000", valid: true},
		{input: " 3M ", expected: "3000000", valid: true},
		{input: "-", valid: false},
		{input: "", valid: false},
		{input: "abc", wantErr: true},
		{input: "M", wantErr: true},
		{input: "12.3X", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseShares(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidShares)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.valid, got.Valid)
			if tt.valid {
				assert.True(t, decimal.RequireFromString(tt.expected).Equal(got.Decimal), "got %s", got.Decimal)
			}
		})
	}
}

func TestClient_TickerDetails(t *testing.T) {
	ctx := context.Background()
	quote := readFixture(t, "quote.html")

	var mu sync.Mutex
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requests++
		mu.Unlock()

		assert.Equal(t, "/quote.ashx", r.URL.Path)
		assert.Equal(t, "d", r.URL.Query().Get("p"))
		assert.Equal(t, "finviz-tracker-test", r.Header.Get("User-Agent"))

		switch r.URL.Query().Get("t") {
		case "NVDA":
			w.Write([]byte(quote))
		case "EMPTY":
			w.Write([]byte("<html><body></body></html>"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	requestCount := func() int {
		mu.Lock()
		defer mu.Unlock()
		return requests
	}

	t.Run("returns news and float", func(t *testing.T) {
		client := newTestClient(t, server.URL, nil)

		details, err := client.TickerDetails(ctx, "NVDA")
		require.NoError(t, err)
		require.Len(t, details.News, 2)
		assert.Equal(t, server.URL+"/news/guidance", details.News[1].Link)
		require.NotNil(t, details.Float)
		assert.Equal(t, "12.34M", *details.Float)
	})

	t.Run("page without data is not an error", func(t *testing.T) {
		client := newTestClient(t, server.URL, nil)

		details, err := client.TickerDetails(ctx, "EMPTY")
		require.NoError(t, err)
		assert.Empty(t, details.News)
		assert.Nil(t, details.Float)
	})

	t.Run("empty ticker is rejected", func(t *testing.T) {
		client := newTestClient(t, server.URL, nil)

		_, err := client.TickerDetails(ctx, "  ")
		assert.ErrorIs(t, err, ErrEmptyTicker)
	})

	t.Run("error status is an error", func(t *testing.T) {
		client := newTestClient(t, server.URL, nil)

		_, err := client.TickerDetails(ctx, "MISSING")
		assert.ErrorIs(t, err, ErrBadStatus)
	})

	t.Run("cached page skips the network", func(t *testing.T) {
		cache := newMemoryCache()
		client := newTestClient(t, server.URL, cache)

		_, err := client.TickerDetails(ctx, "NVDA")
		require.NoError(t, err)
		before := requestCount()

		details, err := client.TickerDetails(ctx, "NVDA")
		require.NoError(t, err)
		assert.Len(t, details.News, 2)
		assert.Equal(t, before, requestCount())
		assert.Len(t, cache.pages, 1)
	})

	t.Run("cache failure falls back to fetching", func(t *testing.T) {
		cache := newMemoryCache()
		cache.getErr = errors.New("redis down")
		client := newTestClient(t, server.URL, cache)

		details, err := client.TickerDetails(ctx, "NVDA")
		require.NoError(t, err)
		assert.Len(t, details.News, 2)
	})
}

func TestScreener(t *testing.T) {
	t.Run("LastPage ignores the next link", func(t *testing.T) {
		assert.Equal(t, 2, LastPage(parseHTML(t, readFixture(t, "screener_page1.html"))))
		assert.Equal(t, 1, LastPage(parseHTML(t, readFixture(t, "screener_page2.html"))))
	})

	t.Run("ScreenerOffsets steps by page size", func(t *testing.T) {
		assert.Equal(t, []int{1}, ScreenerOffsets(1))
		assert.Equal(t, []int{1, 21, 41}, ScreenerOffsets(3))
		assert.Equal(t, []int{1}, ScreenerOffsets(0))
	})

	t.Run("ParseScreenerRows maps cells and skips short rows", func(t *testing.T) {
		companies := ParseScreenerRows(parseHTML(t, readFixture(t, "screener_page1.html")))
		require.Len(t, companies, 2)

		assert.Equal(t, 1, companies[0].ID)
		assert.Equal(t, "AAA", companies[0].Ticker)
		assert.Equal(t, "Alpha Corp", companies[0].Company)
		assert.Equal(t, "Technology", companies[0].Sector)
		assert.Equal(t, "Software", companies[0].Industry)
		assert.Equal(t, "USA", companies[0].Country)
		assert.Equal(t, "1.20B", companies[0].MarketCap)
		assert.True(t, decimal.RequireFromString("19.99").Equal(companies[0].Price))
		assert.False(t, companies[0].Float.Valid)

		assert.Equal(t, "Oil & Gas", companies[1].Industry)
	})

	t.Run("FetchPopulation walks pages and dedupes", func(t *testing.T) {
		pages := map[string]string{
			"1":  readFixture(t, "screener_page1.html"),
			"21": readFixture(t, "screener_page2.html"),
		}
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/screener.ashx", r.URL.Path)
			assert.Equal(t, "ind_stocksonly,sh_price_u20", r.URL.Query().Get("f"))
			page, ok := pages[r.URL.Query().Get("r")]
			if !ok {
				http.NotFound(w, r)
				return
			}
			w.Write([]byte(page))
		}))
		defer server.Close()

		client := newTestClient(t, server.URL, nil)
		companies, err := client.FetchPopulation(context.Background(), ratelimit.NewInterval(0))
		require.NoError(t, err)

		require.Len(t, companies, 3)
		tickers := []string{companies[0].Ticker, companies[1].Ticker, companies[2].Ticker}
		assert.Equal(t, []string{"AAA", "BBB", "CCC"}, tickers)
		assert.Equal(t, []int{1, 2, 3}, []int{companies[0].ID, companies[1].ID, companies[2].ID})
		assert.True(t, decimal.RequireFromString("18.50").Equal(companies[1].Price))
	})
}

func strPtr(s string) *string {
	return &s
}
