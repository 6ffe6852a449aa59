package question

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const categoriesCacheKey = "trivia:categories"

// Cache keeps the category mapping in Redis. Categories are read-only through
// the API, so entries only age out by TTL.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ CategoryCache = (*Cache)(nil)

// NewCache stores entries in client with the given ttl.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Get returns the cached mapping, or nil without error on a miss.
func (c *Cache) Get(ctx context.Context) (Categories, error) {
	data, err := c.client.Get(ctx, categoriesCacheKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var categories Categories
	if err := json.Unmarshal(data, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// Set replaces the cached mapping.
func (c *Cache) Set(ctx context.Context, categories Categories) error {
	data, err := json.Marshal(categories)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, categoriesCacheKey, data, c.ttl).Err()
}
