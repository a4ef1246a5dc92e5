package idempotency

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRememberRecall(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Hour)

	_, ok, err := m.Recall(ctx, "k1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Remember(ctx, "k1", 42))
	id, ok, err := m.Recall(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.EqualValues(t, 42, id)
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemory(time.Minute)
	m.now = func() time.Time { return now }

	require.NoError(t, m.Remember(ctx, "k", 1))

	now = now.Add(2 * time.Minute)
	_, ok, err := m.Recall(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, m.keys)
}

func TestRedisKey(t *testing.T) {
	assert.Equal(t, "pedidos:idem:abc", redisKey("abc"))
}

func newRedisStore(t *testing.T, ttl time.Duration) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedis(rdb, ttl), mr
}

func TestRedisRememberRecall(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t, time.Hour)

	_, ok, err := store.Recall(ctx, "k1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Remember(ctx, "k1", 42))
	id, ok, err := store.Recall(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.EqualValues(t, 42, id)

	val, err := mr.Get("pedidos:idem:k1")
	require.NoError(t, err)
	assert.Equal(t, "42", val)
	assert.Equal(t, time.Hour, mr.TTL("pedidos:idem:k1"))
}

func TestRedisKeyExpires(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t, time.Minute)

	require.NoError(t, store.Remember(ctx, "k", 1))
	mr.FastForward(2 * time.Minute)

	_, ok, err := store.Recall(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCorruptValue(t *testing.T) {
	store, mr := newRedisStore(t, time.Minute)
	require.NoError(t, mr.Set("pedidos:idem:k", "not-a-number"))

	_, ok, err := store.Recall(context.Background(), "k")
	require.Error(t, err)
	assert.False(t, ok)
	assert.Contains(t, err.Error(), "corrupt idempotency value")
}

func TestRedisUnavailable(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t, time.Minute)
	mr.Close()

	_, ok, err := store.Recall(ctx, "k")
	require.Error(t, err)
	assert.False(t, ok)
	assert.Contains(t, err.Error(), "redis get")

	err = store.Remember(ctx, "k", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis set")
}
