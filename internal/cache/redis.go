package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// identityTTL bounds how long a name-to-id mapping stays hot. Identities
// are stable, so the TTL exists only to shed entries for departed players.
const identityTTL = 24 * time.Hour

// RedisCache handles caching and fast lookups shared across ingestion runs
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new Redis cache connection
func NewRedisCache(redisURL string) (*RedisCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisCache{
		client: client,
	}, nil
}

// Close closes the Redis connection
func (rc *RedisCache) Close() error {
	return rc.client.Close()
}

// HealthCheck pings Redis. Served under /health next to the database
// check; a failing cache degrades the service rather than downing it.
func (rc *RedisCache) HealthCheck(ctx context.Context) error {
	return rc.client.Ping(ctx).Err()
}

func identityKey(normalizedName string) string {
	return fmt.Sprintf("player:name:%s", normalizedName)
}

// CacheIdentity records a normalized-name to player-id mapping. Errors are
// returned but callers treat the cache as best effort.
func (rc *RedisCache) CacheIdentity(ctx context.Context, normalizedName string, playerID int) error {
	return rc.client.Set(ctx, identityKey(normalizedName), playerID, identityTTL).Err()
}

// LookupIdentity returns the cached player id for a normalized name.
// The second return is false on a miss.
func (rc *RedisCache) LookupIdentity(ctx context.Context, normalizedName string) (int, bool, error) {
	val, err := rc.client.Get(ctx, identityKey(normalizedName)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	id, err := strconv.Atoi(val)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt identity cache entry %q: %w", val, err)
	}
	return id, true, nil
}
