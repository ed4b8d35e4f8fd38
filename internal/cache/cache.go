// Package cache holds rendered pages for a short, fixed interval.
package cache

import (
	"context"
	"fmt"
	"time"

	"yatube/internal/config"

	"github.com/redis/go-redis/v9"
)

const DefaultTTL = 20 * time.Second

// PageCache stores rendered responses by key. Entries expire after the TTL
// the cache was built with; Invalidate drops everything at once.
type PageCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, page []byte)
	Invalidate(ctx context.Context) error
}

// FromConfig builds the backend selected by cfg.CacheDriver.
func FromConfig(cfg *config.Config) (PageCache, error) {
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	switch cfg.CacheDriver {
	case "memory", "":
		return NewMemory(cfg.CacheSize, ttl), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:         cfg.RedisAddr,
			Password:     cfg.RedisPassword,
			DB:           cfg.RedisDB,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  2 * time.Second,
			WriteTimeout: 2 * time.Second,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		return NewRedis(client, ttl), nil
	default:
		return nil, fmt.Errorf("unsupported cache driver %q", cfg.CacheDriver)
	}
}
