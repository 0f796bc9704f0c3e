// Package cache puts a Redis TTL cache in front of the shop catalog. Both
// lookups are immutable for the lifetime of a checkout, so short-lived
// caching is safe. The cache degrades gracefully: with no Redis client every
// call falls through to the shop API.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/Jeho05/gamezone-checkout/internal/models"
	"github.com/Jeho05/gamezone-checkout/internal/shopapi"
	"github.com/redis/go-redis/v9"
)

const methodsKey = "catalog:payment_methods"

type Catalog struct {
	client *redis.Client
	shop   shopapi.Client
	ttl    time.Duration
}

func NewCatalog(client *redis.Client, shop shopapi.Client, ttl time.Duration) *Catalog {
	return &Catalog{client: client, shop: shop, ttl: ttl}
}

func (c *Catalog) GetGame(ctx context.Context, id uint) (*models.Game, error) {
	key := fmt.Sprintf("catalog:game:%d", id)

	if c.client != nil {
		if data, err := c.client.Get(ctx, key).Bytes(); err == nil {
			var game models.Game
			if err := json.Unmarshal(data, &game); err == nil {
				return &game, nil
			}
		}
	}

	game, err := c.shop.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, game)
	return game, nil
}

func (c *Catalog) ListPaymentMethods(ctx context.Context) ([]models.PaymentMethod, error) {
	if c.client != nil {
		if data, err := c.client.Get(ctx, methodsKey).Bytes(); err == nil {
			var methods []models.PaymentMethod
			if err := json.Unmarshal(data, &methods); err == nil {
				return methods, nil
			}
		}
	}

	methods, err := c.shop.ListPaymentMethods(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, methodsKey, methods)
	return methods, nil
}

func (c *Catalog) store(ctx context.Context, key string, value any) {
	if c.client == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		log.Printf("[Cache] set %s: %v", key, err)
	}
}
