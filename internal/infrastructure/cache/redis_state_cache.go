package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	appstock "github.com/venueops/backend/internal/application/stock"
	"github.com/venueops/backend/internal/domain/shared"
	"github.com/venueops/backend/internal/domain/stock"
)

const defaultStateKeyPrefix = "stock:state:"

// RedisStateCache implements StateCache using Redis. Suitable for
// distributed deployments where multiple instances serve state reads.
type RedisStateCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisStateCache creates a Redis-backed state cache and verifies the
// connection before returning
func NewRedisStateCache(cfg RedisConfig, ttl time.Duration) (*RedisStateCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStateCache{
		client:    client,
		keyPrefix: defaultStateKeyPrefix,
		ttl:       ttl,
	}, nil
}

// NewRedisStateCacheWithClient creates a cache with an existing Redis client.
// Useful for testing or when sharing a client across components.
func NewRedisStateCacheWithClient(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisStateCache {
	if keyPrefix == "" {
		keyPrefix = defaultStateKeyPrefix
	}
	return &RedisStateCache{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

// Get returns the cached state, or shared.ErrNotFound on a miss
func (c *RedisStateCache) Get(ctx context.Context, productID uuid.UUID) (*stock.StockState, error) {
	data, err := c.client.Get(ctx, c.key(productID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read cached state: %w", err)
	}

	var state stock.StockState
	if err := json.Unmarshal(data, &state); err != nil {
		// A corrupt entry is treated as a miss so the caller repopulates it
		return nil, shared.ErrNotFound
	}
	return &state, nil
}

// Set stores the state for a product with the configured TTL
func (c *RedisStateCache) Set(ctx context.Context, productID uuid.UUID, state stock.StockState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	if err := c.client.Set(ctx, c.key(productID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache state: %w", err)
	}
	return nil
}

// Invalidate drops the cached state for a product
func (c *RedisStateCache) Invalidate(ctx context.Context, productID uuid.UUID) error {
	if err := c.client.Del(ctx, c.key(productID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached state: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (c *RedisStateCache) Close() error {
	return c.client.Close()
}

func (c *RedisStateCache) key(productID uuid.UUID) string {
	return c.keyPrefix + productID.String()
}

var _ appstock.StateCache = (*RedisStateCache)(nil)
