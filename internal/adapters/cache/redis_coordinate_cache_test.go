package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tour-route-service/internal/domain"
)

func newTestRedisCache(t *testing.T) *RedisCoordinateCache {
	t.Helper()

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisCoordinateCache(client)
}

func TestRedisCacheRoundTrip(t *testing.T) {
	c := newTestRedisCache(t)
	ctx := context.Background()

	want := domain.Coordinates{Lat: 19.0760123456789, Lon: 72.8777987654321}
	require.NoError(t, c.Put(ctx, "mumbai", want))

	got, ok, err := c.Get(ctx, "mumbai")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestRedisCacheMiss(t *testing.T) {
	c := newTestRedisCache(t)

	_, ok, err := c.Get(context.Background(), "nowhere")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCacheLastWriteWins(t *testing.T) {
	c := newTestRedisCache(t)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "pune", domain.Coordinates{Lat: 1, Lon: 1}))
	require.NoError(t, c.Put(ctx, "pune", domain.Coordinates{Lat: 18.52, Lon: 73.86}))

	got, ok, err := c.Get(ctx, "pune")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, domain.Coordinates{Lat: 18.52, Lon: 73.86}, got)
}

func TestRedisCacheMalformedEntryIsMiss(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })
	srv.HSet(redisHashKey, "broken", "not-a-pair")

	c := NewRedisCoordinateCache(client)
	_, ok, err := c.Get(context.Background(), "broken")
	require.NoError(t, err)
	assert.False(t, ok)
}
