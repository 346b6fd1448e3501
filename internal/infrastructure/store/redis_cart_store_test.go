package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRedisAddr = "localhost:6379"

// setupRedisCartStore skips the test when Redis is not reachable.
func setupRedisCartStore(t *testing.T) (*RedisCartStore, func()) {
	t.Helper()

	client := redis.NewClient(&redis.Options{Addr: testRedisAddr})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available at %s: %v", testRedisAddr, err)
	}

	prefix := "storefront-test:cart:"
	cs := NewRedisCartStore(client, prefix, time.Minute)

	cleanup := func() {
		keys, _ := client.Keys(ctx, prefix+"*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	}
	cleanup()

	return cs, cleanup
}

func TestRedisCartStore_SaveAndLoad(t *testing.T) {
	cs, cleanup := setupRedisCartStore(t)
	defer cleanup()
	ctx := context.Background()

	state := map[string]any{"count": 2, "open": false}
	require.NoError(t, cs.Save(ctx, "session-1", state))

	data, found, err := cs.Load(ctx, "session-1")
	require.NoError(t, err)
	require.True(t, found)

	var loaded map[string]any
	require.NoError(t, json.Unmarshal(data, &loaded))
	assert.Equal(t, float64(2), loaded["count"])
}

func TestRedisCartStore_LoadMissing(t *testing.T) {
	cs, cleanup := setupRedisCartStore(t)
	defer cleanup()

	_, found, err := cs.Load(context.Background(), "session-missing")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisCartStore_Delete(t *testing.T) {
	cs, cleanup := setupRedisCartStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, cs.Save(ctx, "session-1", map[string]int{"count": 1}))
	require.NoError(t, cs.Delete(ctx, "session-1"))

	_, found, err := cs.Load(ctx, "session-1")
	require.NoError(t, err)
	assert.False(t, found)
}

// ============================================
// MemoryCartStore Tests
// ============================================

func TestMemoryCartStore_RoundTrip(t *testing.T) {
	cs := NewMemoryCartStore()
	ctx := context.Background()

	_, found, err := cs.Load(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, cs.Save(ctx, "s1", map[string]int{"count": 4}))

	data, found, err := cs.Load(ctx, "s1")
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `{"count": 4}`, string(data))

	require.NoError(t, cs.Delete(ctx, "s1"))
	_, found, _ = cs.Load(ctx, "s1")
	assert.False(t, found)
}
