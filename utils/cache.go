package utils

import (
	"context"
	"log"
	"time"

	"github.com/velasquezhn3/vj-sub000/config"

	"github.com/go-redis/redis/v8"
)

// StateCacheClient is the Redis client fronting the conversation state store.
var StateCacheClient *redis.Client

// InitStateCache initializes the Redis client for conversation state caching.
func InitStateCache() {
	StateCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisStateDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := StateCacheClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (State Cache): %v", err)
	}
}

// GetStateCacheClient returns the conversation state cache client.
func GetStateCacheClient() *redis.Client {
	if StateCacheClient == nil {
		InitStateCache()
	}
	return StateCacheClient
}
