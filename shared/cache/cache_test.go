package cache_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelops/infras/otel/mocks"
	"hotelops/shared/cache"
)

type payload struct {
	ID    string `json:"id"`
	Total string `json:"total"`
}

func newCache(t *testing.T) (cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return cache.NewRedisCache(client, mocks.NewOtel()), mr
}

func TestRedisCache_SaveAndGet(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	require.NoError(t, c.Save(ctx, "booking:get:b1", payload{ID: "b1", Total: "339.50"}, 60))
	assert.True(t, mr.Exists("booking:get:b1"))

	var got payload
	require.NoError(t, c.Get(ctx, "booking:get:b1", &got))
	assert.Equal(t, payload{ID: "b1", Total: "339.50"}, got)
}

func TestRedisCache_GetString(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()

	require.NoError(t, c.Save(ctx, "plain", "value", 60))

	var got string
	require.NoError(t, c.Get(ctx, "plain", &got))
	assert.Equal(t, "value", got)
}

func TestRedisCache_GetMissingReturnsNil(t *testing.T) {
	c, _ := newCache(t)

	var got payload
	err := c.Get(context.Background(), "missing", &got)

	require.Error(t, err)
	assert.True(t, errors.Is(err, cache.Nil))
}

func TestRedisCache_Expiry(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	require.NoError(t, c.Save(ctx, "limiter:ip", 3, 10))
	mr.FastForward(11 * time.Second)

	var got int
	assert.Error(t, c.Get(ctx, "limiter:ip", &got))
}

func TestRedisCache_DeleteAndClear(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	require.NoError(t, c.Save(ctx, "room:gets:a", 1, 60))
	require.NoError(t, c.Save(ctx, "room:gets:b", 2, 60))
	require.NoError(t, c.Save(ctx, "room:get:x", 3, 60))

	require.NoError(t, c.Delete(ctx, "room:get:x"))
	assert.False(t, mr.Exists("room:get:x"))

	require.NoError(t, c.Clear(ctx, "room:gets*"))
	assert.False(t, mr.Exists("room:gets:a"))
	assert.False(t, mr.Exists("room:gets:b"))
}

func TestRedisCache_IncrKeepsFirstWindow(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := c.Incr(ctx, "limiter:10.0.0.1:curl", 60)
		require.NoError(t, err)
		assert.Equal(t, want, got)

		mr.FastForward(10 * time.Second)
	}

	assert.Equal(t, 30*time.Second, mr.TTL("limiter:10.0.0.1:curl"))

	mr.FastForward(31 * time.Second)

	got, err := c.Incr(ctx, "limiter:10.0.0.1:curl", 60)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}

func TestRedisCache_ClearManyKeys(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	for i := range 250 {
		require.NoError(t, mr.Set(fmt.Sprintf("booking:gets:%d", i), "x"))
	}

	require.NoError(t, mr.Set("booking:get:keep", "x"))

	require.NoError(t, c.Clear(ctx, "booking:gets:*"))

	assert.Equal(t, []string{"booking:get:keep"}, mr.Keys())
}

func TestRedisCache_SaveUnencodable(t *testing.T) {
	c, _ := newCache(t)

	err := c.Save(context.Background(), "bad", make(chan int), 60)
	assert.Error(t, err)
}
