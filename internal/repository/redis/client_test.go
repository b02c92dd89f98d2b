package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	assert.Nil(t, Connect(ctx, "127.0.0.1:1", ""))
}

// Needs a running server: TEST_REDIS_ADDR=localhost:6379 go test ./...
func TestRedisCache(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	client := Connect(ctx, addr, "")
	require.NotNil(t, client)
	cache := NewRedisCache(client)
	defer cache.Close()

	key := "test:" + t.Name()
	require.NoError(t, cache.Set(ctx, key, "line\n", time.Minute))

	got, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "line\n", got)

	require.NoError(t, cache.Del(ctx, key))
	_, err = cache.Get(ctx, key)
	assert.ErrorIs(t, err, redis.Nil)
}
