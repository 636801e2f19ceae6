package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/trogers1052/finviz-tracker/internal/config"
)

const (
	defaultTTL       = time.Hour
	defaultNamespace = "finviz:page"
)

// RedisPageCache stores fetched HTML pages in Redis keyed by request URL
type RedisPageCache struct {
	client    redis.Cmdable
	ttl       time.Duration
	namespace string
}

// NewRedisPageCache creates a page cache. Zero ttl or empty namespace use defaults.
func NewRedisPageCache(client redis.Cmdable, ttl time.Duration, namespace string) *RedisPageCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if namespace == "" {
		namespace = defaultNamespace
	}
	return &RedisPageCache{client: client, ttl: ttl, namespace: namespace}
}

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Error("redis connection failed", "address", cfg.Addr, "error", err)
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	slog.Info("redis connection successful", "address", cfg.Addr)
	return rdb, nil
}

func (c *RedisPageCache) key(url string) string {
	return c.namespace + ":" + url
}

// Get returns the cached page for url. A miss is not an error.
func (c *RedisPageCache) Get(ctx context.Context, url string) (string, bool, error) {
	val, err := c.client.Get(ctx, c.key(url)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read cached page: %w", err)
	}
	return val, true, nil
}

// Set stores page for url with the configured TTL
func (c *RedisPageCache) Set(ctx context.Context, url, page string) error {
	if err := c.client.Set(ctx, c.key(url), page, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache page: %w", err)
	}
	return nil
}
