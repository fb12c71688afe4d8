package conversation

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// StateCache is the fast layer in front of the durable conversation store.
type StateCache interface {
	// Get returns the raw cached payload for a subject. ok is false on a miss.
	Get(ctx context.Context, subjectID string) (payload string, ok bool, err error)
	// Set stores the payload with the given TTL.
	Set(ctx context.Context, subjectID, payload string, ttl time.Duration) error
	// Del removes the cached entry. A miss is not an error.
	Del(ctx context.Context, subjectID string) error
}

const cacheKeyPrefix = "convstate:"

// redisStateCache implements StateCache on a Redis client.
type redisStateCache struct {
	client *redis.Client
}

// NewRedisStateCache wraps a Redis client as a StateCache.
func NewRedisStateCache(client *redis.Client) StateCache {
	return &redisStateCache{client: client}
}

func (c *redisStateCache) Get(ctx context.Context, subjectID string) (string, bool, error) {
	payload, err := c.client.Get(ctx, cacheKeyPrefix+subjectID).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return payload, true, nil
}

func (c *redisStateCache) Set(ctx context.Context, subjectID, payload string, ttl time.Duration) error {
	return c.client.Set(ctx, cacheKeyPrefix+subjectID, payload, ttl).Err()
}

func (c *redisStateCache) Del(ctx context.Context, subjectID string) error {
	return c.client.Del(ctx, cacheKeyPrefix+subjectID).Err()
}
