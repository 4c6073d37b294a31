package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

var _ FeedCache = (*RedisCache)(nil)

type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCache connects to the Redis server at redisURL (redis://host:port/db).
func NewRedisCache(redisURL string, ttl time.Duration) (*RedisCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opt.DialTimeout = 5 * time.Second
	opt.ReadTimeout = 3 * time.Second
	opt.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	slog.Debug("Connected to Redis", "addr", opt.Addr, "db", opt.DB)

	return &RedisCache{
		client: client,
		prefix: "blog:",
		ttl:    ttl,
	}, nil
}

// FeedKey changes whenever the post index is replaced, so stale documents are never served
// and old keys simply expire.
func (c *RedisCache) FeedKey(siteURL, feedPath string, syncedAt time.Time) string {
	hash := sha256.Sum256([]byte(siteURL + feedPath))
	return fmt.Sprintf("%sfeed:%x:%d", c.prefix, hash[:8], syncedAt.UnixNano())
}

// GetFeed returns nil without error on a cache miss.
func (c *RedisCache) GetFeed(ctx context.Context, key string) (*CachedFeed, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get key %s: %w", key, err)
	}

	var feed CachedFeed
	if err := json.Unmarshal(val, &feed); err != nil {
		return nil, fmt.Errorf("failed to decode cached feed %s: %w", key, err)
	}

	return &feed, nil
}

func (c *RedisCache) SetFeed(ctx context.Context, key string, feed CachedFeed) error {
	if feed.CachedAt == 0 {
		feed.CachedAt = time.Now().Unix()
	}

	data, err := json.Marshal(feed)
	if err != nil {
		return fmt.Errorf("failed to marshal feed for key %s: %w", key, err)
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}

	return nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
