package shopconfig

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is the scoped persistent key-value store configuration entries
// survive a session reload in. Values are opaque JSON blobs.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// RedisStore persists configuration entries in Redis. TTL bounds how long a
// persisted entry can linger; freshness is still decided by the entry's own
// timestamp, so the Redis TTL only garbage-collects abandoned keys.
type RedisStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func (s *RedisStore) ttl() time.Duration {
	if s == nil || s.TTL <= 0 {
		return 24 * time.Hour
	}
	return s.TTL
}

// Get returns the stored value and whether the key existed.
func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	if s == nil || s.Client == nil || key == "" {
		return "", false, nil
	}
	value, err := s.Client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

// Set stores the value under key with the garbage-collection TTL.
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if s == nil || s.Client == nil || key == "" {
		return nil
	}
	return s.Client.Set(ctx, key, value, s.ttl()).Err()
}

// Remove deletes the key.
func (s *RedisStore) Remove(ctx context.Context, key string) error {
	if s == nil || s.Client == nil || key == "" {
		return nil
	}
	return s.Client.Del(ctx, key).Err()
}

// Ping probes the Redis connection for health checks.
func (s *RedisStore) Ping(ctx context.Context) error {
	if s == nil || s.Client == nil {
		return nil
	}
	return s.Client.Ping(ctx).Err()
}

// MemoryStore is an in-process Store for tests and for deployments without
// a persistence layer.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Get returns the stored value and whether the key existed.
func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[key]
	return value, ok, nil
}

// Set stores the value under key.
func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// Remove deletes the key.
func (s *MemoryStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}
