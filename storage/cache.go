package storage

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/eliasndungu/apify-real-estate-scraper/models"
)

// Cache keeps crawl results per source in Redis so repeated runs within the
// TTL skip the crawl.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache connects to Redis at the given URL and returns a Cache.
// URL format: redis://localhost:6379/0
func NewCache(ctx context.Context, redisURL string, ttl time.Duration) (*Cache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("cache: invalid redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("cache: redis ping failed: %w", err)
	}

	return &Cache{client: client, ttl: ttl}, nil
}

// Get returns the cached listings for source and key, if any.
func (c *Cache) Get(ctx context.Context, source, key string) ([]*models.NormalizedListing, bool) {
	data, err := c.client.Get(ctx, buildKey(source, key)).Bytes()
	if err != nil {
		return nil, false
	}

	var listings []*models.NormalizedListing
	if err := json.Unmarshal(data, &listings); err != nil {
		return nil, false
	}
	return listings, true
}

// Set stores listings with the configured TTL.
func (c *Cache) Set(ctx context.Context, source, key string, listings []*models.NormalizedListing) error {
	data, err := json.Marshal(listings)
	if err != nil {
		return fmt.Errorf("cache: marshal error: %w", err)
	}
	return c.client.Set(ctx, buildKey(source, key), data, c.ttl).Err()
}

// Close closes the Redis connection.
func (c *Cache) Close() error {
	return c.client.Close()
}

func buildKey(source, key string) string {
	raw := strings.ToLower(source + ":" + key)
	hash := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("realestate:%s:%x", strings.ToLower(source), hash[:8])
}
