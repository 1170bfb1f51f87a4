// SPDX-License-Identifier: MIT

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RemoteBackend is a standalone Redis-backed cache that multiple process
// instances can share. The in-memory Cache does not consult it on a miss;
// the two are independent. Grounded on the teacher's
// RedisCache (internal/cache/redis.go); miniredis backs the test double.
type RemoteBackend struct {
	client *redis.Client
	logger zerolog.Logger
}

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRemoteBackend dials Redis and verifies connectivity with a short ping.
func NewRemoteBackend(cfg RedisConfig, logger zerolog.Logger) (*RemoteBackend, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	logger.Info().Str("addr", cfg.Addr).Int("db", cfg.DB).Msg("connected to remote cache")
	return &RemoteBackend{client: client, logger: logger}, nil
}

// Get decodes a JSON-encoded value previously stored with Set.
func (r *RemoteBackend) Get(ctx context.Context, key string, out any) (bool, error) {
	raw, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, err
	}
	return true, nil
}

// Set stores value as JSON with the given TTL.
func (r *RemoteBackend) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, raw, ttl).Err()
}

// Close releases the underlying connection pool.
func (r *RemoteBackend) Close() error {
	return r.client.Close()
}
