package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/mosaic/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultCachePrefix namespaces avatar keys.
const DefaultCachePrefix = "mosaic:avatar:"

// Cache implements ports.AvatarCache using Redis strings.
type Cache struct {
	client *backend.Client
	prefix string
}

// Option configures the Redis adapters.
type Option func(*options)

type options struct {
	prefix string
	hash   string
}

// WithPrefix sets the key prefix for cached avatars.
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// WithHash sets the hash key that holds secrets.
func WithHash(hash string) Option {
	return func(o *options) {
		o.hash = hash
	}
}

func apply(opts []Option) options {
	o := options{prefix: DefaultCachePrefix, hash: DefaultSecretsHash}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewClient creates a Redis client for the given address.
func NewClient(address, password string, db int) *backend.Client {
	return backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
}

// NewCache creates a cache from an existing client.
func NewCache(client *backend.Client, opts ...Option) *Cache {
	o := apply(opts)
	return &Cache{
		client: client,
		prefix: o.prefix,
	}
}

func (c *Cache) key(key string) string {
	return c.prefix + key
}

// Get retrieves the cached bytes.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}
	return val, nil
}

// Set stores data with the given expiration. Zero ttl keeps the key forever.
func (c *Cache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.key(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Delete removes the key.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete from redis: %w", err)
	}
	return nil
}
