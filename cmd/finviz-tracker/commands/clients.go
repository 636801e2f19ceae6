package commands

import (
	"context"
	"log/slog"

	"github.com/trogers1052/finviz-tracker/internal/cache"
	"github.com/trogers1052/finviz-tracker/internal/scraper"
)

// newScraperClient builds the Finviz client, backed by the Redis page cache
// when one is configured. The returned func releases the cache connection.
func newScraperClient(ctx context.Context) (*scraper.Client, func(), error) {
	if cfg.Redis.Addr == "" {
		client, err := scraper.NewClient(cfg.Scraper, nil)
		return client, func() {}, err
	}

	rdb, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		slog.Warn("page cache disabled", "error", err)
		client, err := scraper.NewClient(cfg.Scraper, nil)
		return client, func() {}, err
	}

	client, err := scraper.NewClient(cfg.Scraper, cache.NewRedisPageCache(rdb, cfg.Redis.TTL, ""))
	if err != nil {
		rdb.Close()
		return nil, nil, err
	}
	return client, func() { rdb.Close() }, nil
}
