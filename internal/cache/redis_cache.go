package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MStartsev/postcard/internal/domain"
)

// RedisConfig holds redis connection settings.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// RedisFeedCache implements FeedCache on redis. The whole feed is stored
// as one JSON value under a single key; staleness is bounded by the TTL
// and by write-path invalidation.
type RedisFeedCache struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisFeedCache connects to redis and returns a feed cache.
func NewRedisFeedCache(cfg RedisConfig, keyPrefix string, ttl time.Duration) (*RedisFeedCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisFeedCache{
		client: client,
		key:    keyPrefix + ":feed",
		ttl:    ttl,
	}, nil
}

// GetFeed returns the cached feed or ErrCacheMiss.
func (c *RedisFeedCache) GetFeed(ctx context.Context) ([]domain.Post, error) {
	data, err := c.client.Get(ctx, c.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var posts []domain.Post
	if err := json.Unmarshal(data, &posts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached feed: %w", err)
	}
	return posts, nil
}

// SetFeed stores the feed with the configured TTL.
func (c *RedisFeedCache) SetFeed(ctx context.Context, posts []domain.Post) error {
	data, err := json.Marshal(posts)
	if err != nil {
		return fmt.Errorf("failed to marshal feed: %w", err)
	}

	if err := c.client.Set(ctx, c.key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set in redis: %w", err)
	}
	return nil
}

// Invalidate drops the cached feed.
func (c *RedisFeedCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, c.key).Err(); err != nil {
		return fmt.Errorf("failed to delete from redis: %w", err)
	}
	return nil
}

// Close releases the redis connection.
func (c *RedisFeedCache) Close() error {
	return c.client.Close()
}

var _ FeedCache = (*RedisFeedCache)(nil)
