package cache

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to Redis at addr. It returns nil when addr is
// empty or the server is unreachable; callers treat a nil client as
// "caching disabled".
func NewRedisClient(addr, password string) *redis.Client {
	if addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("[Cache] redis unavailable at %s, caching disabled: %v", addr, err)
		return nil
	}

	log.Printf("[Cache] redis connected at %s", addr)
	return client
}
