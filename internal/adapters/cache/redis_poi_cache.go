package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mobility-route-service/internal/domain"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisPOICache stores POI search results as JSON with a per-key TTL, so
// expiry is enforced by Redis.
type RedisPOICache struct {
	rdb    redis.UniversalClient
	ttl    time.Duration
	prefix string
}

func NewRedisPOICache(rdb redis.UniversalClient, ttl time.Duration) *RedisPOICache {
	return &RedisPOICache{rdb: rdb, ttl: ttl, prefix: "mobility:"}
}

// NewRedisClient parses a redis:// URL and verifies the connection.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

func (c *RedisPOICache) Get(ctx context.Context, key string) ([]domain.POI, bool, error) {
	b, err := c.rdb.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get poi cache %q: %w", key, err)
	}

	var pois []domain.POI
	if err := json.Unmarshal(b, &pois); err != nil {
		return nil, false, fmt.Errorf("decode poi cache %q: %w", key, err)
	}
	return pois, true, nil
}

func (c *RedisPOICache) Put(ctx context.Context, key string, pois []domain.POI) error {
	if pois == nil {
		pois = []domain.POI{}
	}
	b, err := json.Marshal(pois)
	if err != nil {
		return fmt.Errorf("encode poi cache %q: %w", key, err)
	}

	if err := c.rdb.Set(ctx, c.prefix+key, b, c.ttl).Err(); err != nil {
		return fmt.Errorf("set poi cache %q: %w", key, err)
	}
	return nil
}
