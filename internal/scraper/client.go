package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/trogers1052/finviz-tracker/internal/config"
)

var (
	ErrEmptyTicker   = errors.New("ticker is empty")
	ErrBadStatus     = errors.New("unexpected http status")
	ErrInvalidShares = errors.New("invalid share count")
)

// PageCache stores raw HTML pages keyed by URL
type PageCache interface {
	Get(ctx context.Context, url string) (string, bool, error)
	Set(ctx context.Context, url, page string) error
}

// Client fetches and parses Finviz pages
type Client struct {
	http    *resty.Client
	baseURL *url.URL
	cache   PageCache
}

// NewClient creates a Finviz client. cache may be nil.
func NewClient(cfg config.ScraperConfig, cache PageCache) (*Client, error) {
	baseURL, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base url: %w", err)
	}
	if !strings.HasSuffix(baseURL.Path, "/") {
		baseURL.Path += "/"
	}

	http := resty.New()
	http.SetHeader("User-Agent", cfg.UserAgent)
	if cfg.Timeout > 0 {
		http.SetTimeout(cfg.Timeout)
	}

	return &Client{
		http:    http,
		baseURL: baseURL,
		cache:   cache,
	}, nil
}

func (c *Client) fetch(ctx context.Context, ref string) (*goquery.Document, error) {
	u, err := c.baseURL.Parse(ref)
	if err != nil {
		return nil, fmt.Errorf("failed to build url: %w", err)
	}
	target := u.String()

	if c.cache != nil {
		page, ok, err := c.cache.Get(ctx, target)
		if err != nil {
			slog.Warn("page cache read failed", "url", target, "error", err)
		} else if ok {
			slog.Debug("page cache hit", "url", target)
			return newDocument(page, u)
		}
	}

	res, err := c.http.R().
		SetContext(ctx).
		Get(target)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", target, err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("%w: %s returned %d", ErrBadStatus, target, res.StatusCode())
	}

	page := res.String()
	if c.cache != nil {
		if err := c.cache.Set(ctx, target, page); err != nil {
			slog.Warn("page cache write failed", "url", target, "error", err)
		}
	}
	return newDocument(page, u)
}

func newDocument(page string, u *url.URL) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}
	doc.Url = u
	return doc, nil
}
