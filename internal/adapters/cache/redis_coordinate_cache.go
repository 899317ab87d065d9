package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"

	"tour-route-service/internal/domain"
)

// redisHashKey is the single hash holding all cached coordinates,
// field = normalized place name, value = "lat,lon".
const redisHashKey = "geocode:coords"

// RedisCoordinateCache keeps the coordinate cache in a Redis hash.
// Redis handles write serialization; entries survive restarts as long
// as the Redis instance persists.
type RedisCoordinateCache struct {
	Client *redis.Client
}

func NewRedisCoordinateCache(client *redis.Client) *RedisCoordinateCache {
	return &RedisCoordinateCache{Client: client}
}

func (r *RedisCoordinateCache) Get(ctx context.Context, key string) (domain.Coordinates, bool, error) {
	if r.Client == nil {
		return domain.Coordinates{}, false, errors.New("coordinate cache: redis client is nil")
	}

	val, err := r.Client.HGet(ctx, redisHashKey, key).Result()
	if errors.Is(err, redis.Nil) {
		return domain.Coordinates{}, false, nil
	}
	if err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("get coordinate cache: hget %q: %w", key, err)
	}

	coords, err := parseLatLon(val)
	if err != nil {
		// An unparseable entry is treated as a miss, not a failure.
		return domain.Coordinates{}, false, nil
	}

	return coords, true, nil
}

func (r *RedisCoordinateCache) Put(ctx context.Context, key string, coords domain.Coordinates) error {
	if r.Client == nil {
		return errors.New("coordinate cache: redis client is nil")
	}
	if key == "" {
		return errors.New("insert coordinate cache: key must not be empty")
	}

	val := fmt.Sprintf("%s,%s",
		strconv.FormatFloat(coords.Lat, 'f', -1, 64),
		strconv.FormatFloat(coords.Lon, 'f', -1, 64),
	)
	if err := r.Client.HSet(ctx, redisHashKey, key, val).Err(); err != nil {
		return fmt.Errorf("insert coordinate cache %q: %w", key, err)
	}

	return nil
}

func parseLatLon(val string) (domain.Coordinates, error) {
	parts := strings.SplitN(val, ",", 2)
	if len(parts) != 2 {
		return domain.Coordinates{}, fmt.Errorf("malformed entry %q", val)
	}

	lat, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return domain.Coordinates{}, err
	}
	lon, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return domain.Coordinates{}, err
	}

	return domain.Coordinates{Lat: lat, Lon: lon}, nil
}
