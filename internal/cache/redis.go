package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dharmasatrya/skyfare/internal/models"
)

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Addr: "localhost:6379",
		DB:   0,
		TTL:  5 * time.Minute,
	}
}

func NewRedisCache(ctx context.Context, cfg RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &RedisCache{
		client: client,
		ttl:    cfg.TTL,
	}, nil
}

func (c *RedisCache) Get(ctx context.Context, route models.Route) (models.OfferResult, bool) {
	data, err := c.client.Get(ctx, generateKey(route)).Bytes()
	if err != nil {
		return models.OfferResult{}, false
	}

	var result models.OfferResult
	if err := json.Unmarshal(data, &result); err != nil {
		return models.OfferResult{}, false
	}

	return result, true
}

func (c *RedisCache) Set(ctx context.Context, route models.Route, result models.OfferResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, generateKey(route), data, c.ttl).Err()
}

func (c *RedisCache) Backend() string {
	return "redis"
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
