package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/seu-repo/pictovoz/internal/ports"
	"github.com/seu-repo/pictovoz/pkg/config"
)

// ErrMiss is returned by Get for absent or expired keys.
var ErrMiss = errors.New("cache miss")

// RedisCache stores sentence, keyword and symbol lookups under a shared
// key prefix so several replicas can reuse each other's backend answers.
type RedisCache struct {
	client *redis.Client
	prefix string
	log    *zap.Logger
}

func NewRedisCache(cfg config.RedisConfig, log *zap.Logger) (ports.Cache, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if cfg.ReadTimeout > 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if cfg.WriteTimeout > 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Info("Successfully connected to Redis", zap.Int("pool_size", opts.PoolSize))
	return &RedisCache{
		client: client,
		prefix: "pictovoz:",
		log:    log,
	}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	val, err := c.client.Get(ctx, c.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrMiss
	}
	return val, err
}

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	text, err := encodeValue(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.prefix+key, text, expiration).Err()
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.prefix+key).Err()
}

func (c *RedisCache) Ping() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// New returns a Redis cache when enabled and reachable, and the local
// cache otherwise.
func New(redisCfg config.RedisConfig, cacheCfg config.CacheConfig, log *zap.Logger) ports.Cache {
	if redisCfg.Enabled && redisCfg.URL != "" {
		c, err := NewRedisCache(redisCfg, log)
		if err == nil {
			return c
		}
		log.Warn("Redis unavailable, falling back to local cache", zap.Error(err))
	}
	return NewLocalCache(cacheCfg.CleanupInterval, cacheCfg.LocalMaxEntries, log)
}
