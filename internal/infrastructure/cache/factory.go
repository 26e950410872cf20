package cache

import (
	"fmt"

	"go.uber.org/zap"

	appstock "github.com/venueops/backend/internal/application/stock"
	"github.com/venueops/backend/internal/infrastructure/config"
)

// StateCacheFactory creates state caches based on configuration
type StateCacheFactory struct {
	cacheConfig           config.CacheConfig
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// StateCacheFactoryOption is a functional option for configuring the factory
type StateCacheFactoryOption func(*StateCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) StateCacheFactoryOption {
	return func(f *StateCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory cache
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) StateCacheFactoryOption {
	return func(f *StateCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewStateCacheFactory creates a new factory
func NewStateCacheFactory(cacheCfg config.CacheConfig, redisCfg config.RedisConfig, opts ...StateCacheFactoryOption) *StateCacheFactory {
	f := &StateCacheFactory{
		cacheConfig:           cacheCfg,
		redisConfig:           redisCfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateCache creates a state cache for the configured backend. With the
// "none" backend it returns nil; callers treat a nil cache as disabled.
func (f *StateCacheFactory) CreateCache() (appstock.StateCache, error) {
	switch f.cacheConfig.Backend {
	case "none":
		f.logger.Info("state cache disabled")
		return nil, nil
	case "memory":
		f.logger.Info("using in-memory state cache")
		return NewInMemoryStateCache(f.cacheConfig.StateTTL), nil
	case "redis":
		cache, err := NewRedisStateCache(RedisConfig{
			Host:     f.redisConfig.Host,
			Port:     f.redisConfig.Port,
			Password: f.redisConfig.Password,
			DB:       f.redisConfig.DB,
		}, f.cacheConfig.StateTTL)
		if err == nil {
			f.logger.Info("using Redis state cache")
			return cache, nil
		}

		if !f.allowInMemoryFallback {
			return nil, fmt.Errorf("Redis required for state cache but unavailable: %w", err)
		}

		f.logger.Warn("Redis unavailable, falling back to in-memory state cache. "+
			"Cached states will not be shared across instances.",
			zap.Error(err),
		)
		return NewInMemoryStateCache(f.cacheConfig.StateTTL), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", f.cacheConfig.Backend)
	}
}
