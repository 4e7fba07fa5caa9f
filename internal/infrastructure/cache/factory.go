package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/vellap/portal/internal/domain/identity"
	"github.com/vellap/portal/internal/domain/shared"
	"github.com/vellap/portal/internal/infrastructure/auth"
	"github.com/vellap/portal/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Stores are the shared-state backends of the portal: the session store
// and the ticket locker.
type Stores struct {
	Sessions identity.SessionStore
	Locker   shared.Locker
	Redis    *redis.Client // nil when running in memory
}

// Close releases the Redis connection if there is one
func (s *Stores) Close() error {
	if s.Redis == nil {
		return s.Sessions.Close()
	}
	return s.Redis.Close()
}

// StoreFactory creates Stores from configuration
type StoreFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// StoreFactoryOption is a functional option for configuring the factory
type StoreFactoryOption func(*StoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) StoreFactoryOption {
	return func(f *StoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis falls back to
// in-memory stores. Default is true.
func WithInMemoryFallback(allow bool) StoreFactoryOption {
	return func(f *StoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewStoreFactory creates a new factory
func NewStoreFactory(cfg config.RedisConfig, opts ...StoreFactoryOption) *StoreFactory {
	f := &StoreFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// InMemory creates process-local stores
func (f *StoreFactory) InMemory() *Stores {
	return &Stores{
		Sessions: auth.NewInMemorySessionStore(),
		Locker:   NewInMemoryLocker(),
	}
}

// Create uses Redis when it is enabled and reachable, else in-memory stores
// if fallback is allowed.
func (f *StoreFactory) Create(ctx context.Context) (*Stores, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, using in-memory session store and locker")
		return f.InMemory(), nil
	}

	client, err := NewRedisClient(ctx, f.redisConfig)
	if err != nil {
		if !f.allowInMemoryFallback {
			return nil, fmt.Errorf("redis required but unavailable: %w", err)
		}
		f.logger.Warn("Redis unavailable, falling back to in-memory stores. "+
			"Sessions and ticket locks are not shared between instances.",
			zap.Error(err),
		)
		return f.InMemory(), nil
	}

	f.logger.Info("Using Redis session store and locker", zap.String("addr", f.redisConfig.Addr()))
	return &Stores{
		Sessions: auth.NewRedisSessionStore(client),
		Locker:   NewRedisLocker(client),
		Redis:    client,
	}, nil
}
