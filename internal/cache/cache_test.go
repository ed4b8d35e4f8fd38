package cache

import (
	"context"
	"testing"
	"time"

	"yatube/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGetSetInvalidate(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(8, time.Minute)

	_, ok := c.Get(ctx, "index")
	assert.False(t, ok)

	c.Set(ctx, "index", []byte("page one"))
	page, ok := c.Get(ctx, "index")
	require.True(t, ok)
	assert.Equal(t, "page one", string(page))

	require.NoError(t, c.Invalidate(ctx))
	_, ok = c.Get(ctx, "index")
	assert.False(t, ok)
}

func TestMemoryExpires(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(8, 20*time.Millisecond)

	c.Set(ctx, "index", []byte("page"))
	time.Sleep(60 * time.Millisecond)

	_, ok := c.Get(ctx, "index")
	assert.False(t, ok)
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *Redis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, NewRedis(client, 20*time.Second)
}

func TestRedisGetSet(t *testing.T) {
	ctx := context.Background()
	mr, c := newTestRedis(t)

	c.Set(ctx, "index", []byte("rendered"))
	page, ok := c.Get(ctx, "index")
	require.True(t, ok)
	assert.Equal(t, "rendered", string(page))

	mr.FastForward(21 * time.Second)
	_, ok = c.Get(ctx, "index")
	assert.False(t, ok)
}

func TestRedisInvalidateKeepsForeignKeys(t *testing.T) {
	ctx := context.Background()
	mr, c := newTestRedis(t)

	c.Set(ctx, "index:1", []byte("a"))
	c.Set(ctx, "index:2", []byte("b"))
	require.NoError(t, mr.Set("session:42", "keep"))

	require.NoError(t, c.Invalidate(ctx))

	_, ok := c.Get(ctx, "index:1")
	assert.False(t, ok)
	_, ok = c.Get(ctx, "index:2")
	assert.False(t, ok)
	assert.True(t, mr.Exists("session:42"))
}

func TestFromConfig(t *testing.T) {
	cfg := config.Default()
	c, err := FromConfig(cfg)
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, c)

	mr := miniredis.RunT(t)
	cfg.CacheDriver = "redis"
	cfg.RedisAddr = mr.Addr()
	c, err = FromConfig(cfg)
	require.NoError(t, err)
	assert.IsType(t, &Redis{}, c)

	cfg.CacheDriver = "memcached"
	_, err = FromConfig(cfg)
	assert.Error(t, err)
}
