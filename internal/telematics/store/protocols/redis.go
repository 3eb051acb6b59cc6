package protocols

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"coldchain/internal/telematics/models"
	"coldchain/pkg/platform/sentinel"
)

const protocolsKey = "flespi:protocols"

// RedisCache keeps the protocol catalog in one JSON value with a TTL.
type RedisCache struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context) ([]models.Protocol, error) {
	raw, err := c.client.Get(ctx, protocolsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get cached protocols: %w", err)
	}
	var out []models.Protocol
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode cached protocols: %w", err)
	}
	return out, nil
}

func (c *RedisCache) Set(ctx context.Context, protocols []models.Protocol, ttl time.Duration) error {
	raw, err := json.Marshal(protocols)
	if err != nil {
		return fmt.Errorf("encode protocols: %w", err)
	}
	if err := c.client.Set(ctx, protocolsKey, raw, ttl).Err(); err != nil {
		return fmt.Errorf("cache protocols: %w", err)
	}
	return nil
}
