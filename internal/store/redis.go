package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mandalnilabja/BrowserOS/internal/logging"
)

// RedisConfig holds connection settings for the fallback key-value store.
type RedisConfig struct {
	Address      string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

// FallbackStore is the secondary key-value settings source. Values written by
// older settings surfaces may be double-encoded (a JSON string wrapping the
// JSON payload); Read unwraps that before handing the payload on. A value
// that cannot be unwrapped is treated as absent, not as an error.
type FallbackStore struct {
	client *redis.Client
	log    *logging.Logger
}

// NewFallbackStore creates the fallback source. A nil client models an absent
// host capability: every read reports ErrUnavailable.
func NewFallbackStore(client *redis.Client) *FallbackStore {
	return &FallbackStore{
		client: client,
		log:    logging.New("fallback-store"),
	}
}

// Name identifies the source in fallback diagnostics.
func (s *FallbackStore) Name() string {
	return "fallback-kv"
}

// Read returns the raw JSON payload stored under the key.
func (s *FallbackStore) Read(ctx context.Context, key string) ([]byte, error) {
	if s.client == nil {
		return nil, ErrUnavailable
	}

	value, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read key %q: %w", key, err)
	}

	payload, ok := unwrapPayload(value)
	if !ok {
		s.log.Warn("stored value is not valid JSON, treating as absent", "key", key)
		return nil, ErrNotFound
	}
	return payload, nil
}

// unwrapPayload peels one level of string encoding off a stored value. The
// key-value store holds either the JSON payload directly or a JSON string
// containing it.
func unwrapPayload(value []byte) ([]byte, bool) {
	trimmed := bytes.TrimSpace(value)
	if len(trimmed) == 0 {
		return nil, false
	}

	if trimmed[0] == '"' {
		var inner string
		if err := json.Unmarshal(trimmed, &inner); err != nil {
			return nil, false
		}
		trimmed = bytes.TrimSpace([]byte(inner))
	}

	if !json.Valid(trimmed) {
		return nil, false
	}
	return trimmed, true
}
