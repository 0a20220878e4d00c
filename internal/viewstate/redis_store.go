package viewstate

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const stateKey = "compass:viewstate"

// RedisStore persists the serialized selection state under one fixed key.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed view state store.
func NewRedisStore(redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

// NewRedisStoreWithClient creates a store from an existing Redis client.
func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Save overwrites the persisted state. Called after every transition.
func (s *RedisStore) Save(ctx context.Context, state State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal view state: %w", err)
	}
	if err := s.client.Set(ctx, stateKey, data, 0).Err(); err != nil {
		return fmt.Errorf("save view state: %w", err)
	}
	return nil
}

// Load restores the persisted state. A missing key is not an error: it
// yields the default state, as on first run.
func (s *RedisStore) Load(ctx context.Context) (State, error) {
	data, err := s.client.Get(ctx, stateKey).Result()
	if err == redis.Nil {
		return DefaultState(), nil
	}
	if err != nil {
		return DefaultState(), fmt.Errorf("load view state: %w", err)
	}

	var state State
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return DefaultState(), fmt.Errorf("unmarshal view state: %w", err)
	}
	if state.ScopeDimension == "" {
		state.ScopeDimension = DimensionDepartment
	}
	return state, nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ping checks if Redis is reachable.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
