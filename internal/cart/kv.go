package cart

import (
	"context"
	"errors"
	"sync"
	"time"

	redislib "github.com/redis/go-redis/v9"

	redisclient "github.com/tiendalink/backend/pkg/redis"
)

// KV is the durable storage the cart writes through to. Get returns
// an empty string for a missing key.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Del(ctx context.Context, key string) error
}

// RedisKV persists cart snapshots in Redis with a sliding TTL, so
// abandoned carts expire on their own.
type RedisKV struct {
	client *redisclient.Client
	ttl    time.Duration
}

// NewRedisKV wraps the shared Redis client for cart storage.
func NewRedisKV(client *redisclient.Client, ttl time.Duration) *RedisKV {
	return &RedisKV{client: client, ttl: ttl}
}

func (r *RedisKV) Get(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return "", nil
		}
		return "", err
	}
	return value, nil
}

func (r *RedisKV) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, key, value, r.ttl)
}

func (r *RedisKV) Del(ctx context.Context, key string) error {
	return r.client.Del(ctx, key)
}

// MemoryKV is an in-process KV for tests and single-node dev runs.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryKV returns an empty in-memory KV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]string)}
}

func (m *MemoryKV) Get(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data[key], nil
}

func (m *MemoryKV) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemoryKV) Del(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
