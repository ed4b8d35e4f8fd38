package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const redisKeyPrefix = "yatube:page:"

// Redis is a PageCache shared by every process pointed at the same server,
// which also lets `yatube cache purge` reach a running instance.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	page, err := r.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("key", key).Msg("Page cache read failed")
		}
		return nil, false
	}
	return page, true
}

func (r *Redis) Set(ctx context.Context, key string, page []byte) {
	if err := r.client.Set(ctx, redisKeyPrefix+key, page, r.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Page cache write failed")
	}
}

// Invalidate deletes every page key, leaving unrelated keys untouched.
func (r *Redis) Invalidate(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}
