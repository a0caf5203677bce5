package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Redis is a short-TTL cache for raw provider responses. It is strictly an
// optimization: every method degrades to a miss on any Redis failure, so the
// worker runs unchanged when Redis is down or not configured.
type Redis struct {
	client *redis.Client
}

// Config holds Redis connection settings
type Config struct {
	Addr     string
	Password string
	DB       int
}

// NewRedis connects to Redis and verifies the connection.
func NewRedis(ctx context.Context, cfg Config) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	log.Info().Str("addr", cfg.Addr).Msg("Redis cache connected")
	return &Redis{client: client}, nil
}

// Get returns the cached body for key, or false on miss or error.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	body, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Redis get failed, treating as miss")
		return nil, false
	}
	return body, true
}

// Set stores body under key with the given TTL. Failures are logged only.
func (r *Redis) Set(ctx context.Context, key string, body []byte, ttl time.Duration) {
	if err := r.client.Set(ctx, key, body, ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Redis set failed")
	}
}

// Close closes the Redis connection.
func (r *Redis) Close() error {
	return r.client.Close()
}
