package cache

import (
	"fmt"
	"time"

	budgetapp "github.com/simpok/backend/internal/application/budget"
	"github.com/simpok/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// VersionCacheFactory creates version caches based on configuration
type VersionCacheFactory struct {
	redisConfig           config.RedisConfig
	ttl                   time.Duration
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// VersionCacheFactoryOption is a functional option for configuring the factory
type VersionCacheFactoryOption func(*VersionCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) VersionCacheFactoryOption {
	return func(f *VersionCacheFactory) {
		f.logger = logger
	}
}

// WithTTL sets how long cached versions live
func WithTTL(ttl time.Duration) VersionCacheFactoryOption {
	return func(f *VersionCacheFactory) {
		f.ttl = ttl
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory
// cache when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) VersionCacheFactoryOption {
	return func(f *VersionCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewVersionCacheFactory creates a new factory
func NewVersionCacheFactory(cfg config.RedisConfig, opts ...VersionCacheFactoryOption) *VersionCacheFactory {
	f := &VersionCacheFactory{
		redisConfig:           cfg,
		ttl:                   5 * time.Minute,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateCache creates a version cache, preferring Redis and falling
// back to in-memory when Redis is unavailable and fallback is allowed
func (f *VersionCacheFactory) CreateCache() (budgetapp.VersionCache, error) {
	cache, err := NewRedisVersionCache(RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	}, f.ttl, f.logger)
	if err == nil {
		f.logger.Info("using Redis version cache")
		return cache, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for version cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory version cache. "+
		"Snapshots made by other instances may be seen late.",
		zap.Error(err),
	)
	return NewInMemoryVersionCache(f.ttl), nil
}
