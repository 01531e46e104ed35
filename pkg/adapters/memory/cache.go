package memory

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/mosaic/pkg/domain"
)

type entry struct {
	data    []byte
	expires time.Time // zero means no expiration
}

// DefaultSweepInterval is how often Set removes expired entries.
const DefaultSweepInterval = time.Minute

// Cache implements ports.AvatarCache in memory.
// Expired entries are dropped when read and swept by Set at most once per
// sweep interval. Safe for concurrent use.
type Cache struct {
	data      map[string]entry
	mu        sync.RWMutex
	now       func() time.Time
	interval  time.Duration
	nextSweep time.Time
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) {
		c.now = now
	}
}

// WithSweepInterval sets the minimum time between expiry sweeps.
func WithSweepInterval(d time.Duration) CacheOption {
	return func(c *Cache) {
		c.interval = d
	}
}

// NewCache creates a new in-memory cache.
func NewCache(opts ...CacheOption) *Cache {
	c := &Cache{
		data:     make(map[string]entry),
		now:      time.Now,
		interval: DefaultSweepInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns a copy of the cached bytes.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	e, ok := c.data[key]
	c.mu.RUnlock()

	if !ok {
		return nil, domain.ErrCacheMiss
	}
	if !e.expires.IsZero() && !c.now().Before(e.expires) {
		// Expired entries are removed lazily.
		c.mu.Lock()
		if cur, ok := c.data[key]; ok && cur.expires.Equal(e.expires) {
			delete(c.data, key)
		}
		c.mu.Unlock()
		return nil, domain.ErrCacheMiss
	}

	out := make([]byte, len(e.data))
	copy(out, e.data)
	return out, nil
}

// Set stores a copy of data.
func (c *Cache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	e := entry{data: make([]byte, len(data))}
	copy(e.data, data)
	if ttl > 0 {
		e.expires = c.now().Add(ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.sweepLocked()
	c.data[key] = e
	return nil
}

// sweepLocked removes expired entries once the sweep interval has passed.
func (c *Cache) sweepLocked() {
	now := c.now()
	if now.Before(c.nextSweep) {
		return
	}
	c.nextSweep = now.Add(c.interval)
	for k, e := range c.data {
		if !e.expires.IsZero() && !now.Before(e.expires) {
			delete(c.data, k)
		}
	}
}

// Delete removes key.
func (c *Cache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

// Len returns the number of stored entries, including expired ones not yet
// swept.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}
