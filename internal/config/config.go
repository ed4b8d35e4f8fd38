package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config is the resolved application configuration.
type Config struct {
	Addr  string
	Debug bool

	DatabaseDriver string
	DatabaseDSN    string

	SessionName   string
	SessionSecret string

	MediaRoot string

	CacheDriver string
	CacheTTL    time.Duration
	CacheSize   int

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("log.debug", false)
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.dsn", "host=localhost user=postgres password=postgres dbname=yatube port=5432 sslmode=disable")
	v.SetDefault("session.name", "yatube_session")
	v.SetDefault("session.secret", "secret_key_change_me")
	v.SetDefault("media.root", "./media")
	v.SetDefault("cache.driver", "memory")
	v.SetDefault("cache.ttl", "20s")
	v.SetDefault("cache.size", 128)
	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
}

// Load reads .env, an optional settings.toml and YATUBE_* environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, reading settings from the environment")
	}

	v := viper.New()
	setDefaults(v)

	v.AddConfigPath(".")
	v.AddConfigPath("..")
	v.SetConfigName("settings")
	v.SetConfigType("toml")

	v.SetEnvPrefix("yatube")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	return FromViper(v), nil
}

// FromViper converts an already populated viper instance.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		Addr:           v.GetString("http.addr"),
		Debug:          v.GetBool("log.debug"),
		DatabaseDriver: strings.ToLower(v.GetString("database.driver")),
		DatabaseDSN:    v.GetString("database.dsn"),
		SessionName:    v.GetString("session.name"),
		SessionSecret:  v.GetString("session.secret"),
		MediaRoot:      v.GetString("media.root"),
		CacheDriver:    strings.ToLower(v.GetString("cache.driver")),
		CacheTTL:       v.GetDuration("cache.ttl"),
		CacheSize:      v.GetInt("cache.size"),
		RedisAddr:      v.GetString("redis.addr"),
		RedisPassword:  v.GetString("redis.password"),
		RedisDB:        v.GetInt("redis.db"),
	}
}

// Default returns the configuration with nothing but defaults applied.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	return FromViper(v)
}
