package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Config holds redis connection settings
type Config struct {
	Host         string
	Port         int
	Password     string
	DB           int
	Enabled      bool
	PoolSize     int
	MinIdleConns int
}

// Client wraps the redis connection. When disabled it degrades to a no-op so
// callers do not have to guard every call site.
type Client interface {
	IsEnabled() bool
	Ping(ctx context.Context) error
	HIncrBy(ctx context.Context, key, field string, incr int64) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Del(ctx context.Context, keys ...string) error
	Close() error
}

type client struct {
	rdb     *redis.Client
	enabled bool
	logger  *zap.Logger
}

// NewClient creates a redis client. Connection failures disable the client
// rather than failing startup; redis here backs metrics, not correctness.
func NewClient(cfg Config, logger *zap.Logger) Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	if !cfg.Enabled {
		logger.Info("Redis disabled by configuration")
		return &client{enabled: false, logger: logger}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis unreachable, disabling client",
			zap.String("addr", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
			zap.Error(err),
		)
		_ = rdb.Close()
		return &client{enabled: false, logger: logger}
	}

	logger.Info("Connected to Redis",
		zap.String("addr", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
		zap.Int("db", cfg.DB),
	)

	return &client{rdb: rdb, enabled: true, logger: logger}
}

// NewClientFromRedis wraps an existing go-redis client (used in tests).
func NewClientFromRedis(rdb *redis.Client, logger *zap.Logger) Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &client{rdb: rdb, enabled: true, logger: logger}
}

func (c *client) IsEnabled() bool {
	return c.enabled
}

func (c *client) Ping(ctx context.Context) error {
	if !c.enabled {
		return fmt.Errorf("redis disabled")
	}
	return c.rdb.Ping(ctx).Err()
}

func (c *client) HIncrBy(ctx context.Context, key, field string, incr int64) error {
	if !c.enabled {
		return nil
	}
	return c.rdb.HIncrBy(ctx, key, field, incr).Err()
}

func (c *client) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if !c.enabled {
		return map[string]string{}, nil
	}
	return c.rdb.HGetAll(ctx, key).Result()
}

func (c *client) Del(ctx context.Context, keys ...string) error {
	if !c.enabled {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

func (c *client) Close() error {
	if c.rdb != nil {
		return c.rdb.Close()
	}
	return nil
}
