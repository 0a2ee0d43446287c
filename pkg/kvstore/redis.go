package kvstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ghartak/ghartak-backend/pkg/config"
)

const scanBatchSize = 100

// RedisStore implements Store on a Redis connection.
type RedisStore struct {
	raw *redis.Client
}

var _ Store = (*RedisStore)(nil)

// NewRedis bootstraps a Redis-backed store with pooling/timeouts and verifies
// connectivity.
func NewRedis(ctx context.Context, cfg config.RedisConfig) (*RedisStore, error) {
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStore{raw: raw}, nil
}

func optionsFromConfig(cfg config.RedisConfig) (*redis.Options, error) {
	if cfg.URL == "" && cfg.Address == "" {
		return nil, errors.New("redis url or address is required")
	}
	var opts *redis.Options
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     cfg.Address,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}
	if opts.DB == 0 {
		opts.DB = cfg.DB
	}
	if opts.PoolSize == 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if opts.MinIdleConns == 0 {
		opts.MinIdleConns = cfg.MinIdleConns
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}
	return opts, nil
}

// Set stores a document without expiry; order documents are retained forever.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	return s.raw.Set(ctx, key, value, 0).Err()
}

// Get returns the document at key.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := s.raw.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// GetByPrefix scans for matching keys and bulk-fetches their values. Keys
// deleted between the scan and the fetch are skipped.
func (s *RedisStore) GetByPrefix(ctx context.Context, prefix string) ([][]byte, error) {
	var keys []string
	iter := s.raw.Scan(ctx, 0, prefix+"*", scanBatchSize).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan %q: %w", prefix, err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	raw, err := s.raw.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("mget %d keys: %w", len(keys), err)
	}
	values := make([][]byte, 0, len(raw))
	for _, entry := range raw {
		if entry == nil {
			continue
		}
		if str, ok := entry.(string); ok {
			values = append(values, []byte(str))
		}
	}
	return values, nil
}

// SetNX writes only when the key is absent.
func (s *RedisStore) SetNX(ctx context.Context, key string, value string, ttl time.Duration) (bool, error) {
	return s.raw.SetNX(ctx, key, value, ttl).Result()
}

// Del removes the given keys.
func (s *RedisStore) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.raw.Del(ctx, keys...).Err()
}

// Ping verifies connectivity for readiness checks.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.raw.Ping(ctx).Err()
}

// Close releases the underlying connection pool.
func (s *RedisStore) Close() error {
	return s.raw.Close()
}
