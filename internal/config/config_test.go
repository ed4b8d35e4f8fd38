package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.Equal(t, "memory", cfg.CacheDriver)
	assert.Equal(t, 20*time.Second, cfg.CacheTTL)
	assert.Equal(t, 128, cfg.CacheSize)
}

func TestFromViperOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("database.driver", "SQLite")
	v.Set("cache.ttl", "5s")
	v.Set("cache.driver", "redis")

	cfg := FromViper(v)

	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, "redis", cfg.CacheDriver)
	assert.Equal(t, 5*time.Second, cfg.CacheTTL)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("YATUBE_HTTP_ADDR", ":9999")
	t.Setenv("YATUBE_CACHE_TTL", "1m")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, time.Minute, cfg.CacheTTL)
}
