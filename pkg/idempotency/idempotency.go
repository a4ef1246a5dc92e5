// Package idempotency remembers which order an Idempotency-Key produced so
// that retried create requests do not create duplicates.
package idempotency

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store maps idempotency keys to order ids.
type Store interface {
	// Recall returns the order id remembered for key, if any.
	Recall(ctx context.Context, key string) (int64, bool, error)
	// Remember associates key with orderID.
	Remember(ctx context.Context, key string, orderID int64) error
}

type entry struct {
	orderID int64
	expires time.Time
}

// Memory is a process-local Store with per-key expiry.
type Memory struct {
	mu   sync.Mutex
	ttl  time.Duration
	keys map[string]entry
	now  func() time.Time
}

// NewMemory returns a Memory store whose keys expire after ttl.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{ttl: ttl, keys: make(map[string]entry), now: time.Now}
}

// Recall returns the order id stored for key unless it has expired.
func (m *Memory) Recall(ctx context.Context, key string) (int64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.keys[key]
	if !ok {
		return 0, false, nil
	}
	if m.now().After(e.expires) {
		delete(m.keys, key)
		return 0, false, nil
	}
	return e.orderID, true, nil
}

// Remember stores orderID under key for the configured ttl.
func (m *Memory) Remember(ctx context.Context, key string, orderID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys[key] = entry{orderID: orderID, expires: m.now().Add(m.ttl)}
	return nil
}

// Redis stores keys with a TTL in Redis. The order ids it points at are
// still process-local.
type Redis struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedis returns a Redis-backed Store.
func NewRedis(rdb *redis.Client, ttl time.Duration) *Redis {
	return &Redis{rdb: rdb, ttl: ttl}
}

func redisKey(key string) string {
	return "pedidos:idem:" + key
}

// Recall reads the order id stored for key; a missing key is not an error.
func (r *Redis) Recall(ctx context.Context, key string) (int64, bool, error) {
	val, err := r.rdb.Get(ctx, redisKey(key)).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("redis get: %w", err)
	}
	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt idempotency value %q: %w", val, err)
	}
	return id, true, nil
}

// Remember sets key to orderID with the configured ttl.
func (r *Redis) Remember(ctx context.Context, key string, orderID int64) error {
	if err := r.rdb.Set(ctx, redisKey(key), strconv.FormatInt(orderID, 10), r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

var (
	_ Store = (*Memory)(nil)
	_ Store = (*Redis)(nil)
)
