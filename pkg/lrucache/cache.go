package lrucache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const DefaultSize = 4096

type entry struct {
	value     string
	expiresAt time.Time
}

// Cache is an in-process string cache with an LRU eviction policy and per-key TTLs.
// It stands in for Redis when no cache host is configured, so each replica keeps its own copy.
type Cache struct {
	cache *lru.Cache[string, entry]
	now   func() time.Time
}

// New returns a Cache holding at most size keys. A non-positive size uses DefaultSize.
func New(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultSize
	}

	c, err := lru.New[string, entry](size)
	if err != nil {
		return nil, err
	}
	return &Cache{cache: c, now: time.Now}, nil
}

// Get returns ("", nil) when a key is missing or expired.
func (c *Cache) Get(_ context.Context, key string) (string, error) {
	e, ok := c.cache.Get(key)
	if !ok {
		return "", nil
	}
	if !e.expiresAt.IsZero() && !c.now().Before(e.expiresAt) {
		c.cache.Remove(key)
		return "", nil
	}
	return e.value, nil
}

// Set stores value under key. A ttl of zero keeps the entry until it is evicted.
func (c *Cache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}
	c.cache.Add(key, e)
	return nil
}

func (c *Cache) Delete(_ context.Context, key string) error {
	c.cache.Remove(key)
	return nil
}

func (c *Cache) Len() int {
	return c.cache.Len()
}
