package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisVersionCache caches the resolved current ledger version per
// owner in Redis. Suitable for deployments with multiple instances
// that need to see a snapshot the moment another instance creates it.
type RedisVersionCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
	logger    *zap.Logger
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisVersionCache creates a new Redis-based version cache
func NewRedisVersionCache(cfg RedisConfig, ttl time.Duration, logger *zap.Logger) (*RedisVersionCache, error) {
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

	return &RedisVersionCache{
		client:    client,
		keyPrefix: "ledger:version:",
		ttl:       ttl,
		logger:    logger,
	}, nil
}

// NewRedisVersionCacheWithClient creates a cache with an existing Redis client.
// Useful for testing or when sharing a client across components.
func NewRedisVersionCacheWithClient(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisVersionCache {
	return &RedisVersionCache{
		client:    client,
		keyPrefix: "ledger:version:",
		ttl:       ttl,
		logger:    logger,
	}
}

// GetCurrentVersion returns the cached version for an owner.
// Redis errors degrade to a cache miss.
func (c *RedisVersionCache) GetCurrentVersion(ctx context.Context, ownerID uuid.UUID) (int, bool) {
	value, err := c.client.Get(ctx, c.keyPrefix+ownerID.String()).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("version cache read failed", zap.Error(err))
		}
		return 0, false
	}
	version, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}
	return version, true
}

// SetCurrentVersion stores the version for an owner
func (c *RedisVersionCache) SetCurrentVersion(ctx context.Context, ownerID uuid.UUID, version int) {
	if err := c.client.Set(ctx, c.keyPrefix+ownerID.String(), strconv.Itoa(version), c.ttl).Err(); err != nil {
		c.logger.Warn("version cache write failed", zap.Error(err))
	}
}

// Invalidate drops the cached version for an owner
func (c *RedisVersionCache) Invalidate(ctx context.Context, ownerID uuid.UUID) {
	if err := c.client.Del(ctx, c.keyPrefix+ownerID.String()).Err(); err != nil {
		c.logger.Warn("version cache invalidation failed", zap.Error(err))
	}
}
