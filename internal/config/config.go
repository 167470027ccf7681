package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env     string `env:"ENV" env-default:"local"`
	Log     LogConfig
	HTTP    HTTPConfig
	Amadeus AmadeusConfig
	Search  SearchConfig
	Cache   CacheConfig
}

type LogConfig struct {
	Level string `env:"LOG_LEVEL" env-default:"info"`
}

type HTTPConfig struct {
	Port            int           `env:"HTTP_PORT" env-default:"8080"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"30s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

type AmadeusConfig struct {
	BaseURL      string        `env:"AMADEUS_BASE_URL" env-default:"https://test.api.amadeus.com"`
	ClientID     string        `env:"AMADEUS_CLIENT_ID"`
	ClientSecret string        `env:"AMADEUS_CLIENT_SECRET"`
	Currency     string        `env:"AMADEUS_CURRENCY" env-default:"USD"`
	MaxResults   int           `env:"AMADEUS_MAX_RESULTS" env-default:"23"`
	Adults       int           `env:"AMADEUS_ADULTS" env-default:"1"`
	Timeout      time.Duration `env:"AMADEUS_TIMEOUT" env-default:"10s"`
	RPS          float64       `env:"AMADEUS_RPS" env-default:"10"`
	Burst        int           `env:"AMADEUS_BURST" env-default:"10"`
}

type SearchConfig struct {
	Debounce     time.Duration `env:"SEARCH_DEBOUNCE" env-default:"500ms"`
	FetchTimeout time.Duration `env:"SEARCH_FETCH_TIMEOUT" env-default:"15s"`
	ChartLimit   int           `env:"SEARCH_CHART_LIMIT" env-default:"10"`
	SessionTTL   time.Duration `env:"SESSION_TTL" env-default:"30m"`
}

type CacheConfig struct {
	Enabled       bool          `env:"CACHE_ENABLED" env-default:"true"`
	Backend       string        `env:"CACHE_BACKEND" env-default:"memory"`
	TTL           time.Duration `env:"CACHE_TTL" env-default:"5m"`
	RedisAddr     string        `env:"REDIS_ADDR" env-default:"localhost:6379"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" env-default:"0"`
}

const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

var ErrMissingCredentials = errors.New("AMADEUS_CLIENT_ID and AMADEUS_CLIENT_SECRET must be set")

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Amadeus.ClientID) == "" || strings.TrimSpace(c.Amadeus.ClientSecret) == "" {
		return ErrMissingCredentials
	}

	c.Cache.Backend = strings.ToLower(strings.TrimSpace(c.Cache.Backend))
	switch c.Cache.Backend {
	case CacheBackendMemory, CacheBackendRedis:
	default:
		return fmt.Errorf("CACHE_BACKEND must be %q or %q, got %q", CacheBackendMemory, CacheBackendRedis, c.Cache.Backend)
	}
	return nil
}
