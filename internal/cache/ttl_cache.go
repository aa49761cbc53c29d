package cache

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"
)

// TTLCache holds a single value for read-heavy aggregates that tolerate a
// short staleness window. Instances are owned by the service that uses them
// and injected, never package globals.
type TTLCache[T any] struct {
	mu        sync.Mutex
	ttl       time.Duration
	value     T
	expiresAt time.Time
	now       func() time.Time
}

func NewTTL[T any](ttl time.Duration) *TTLCache[T] {
	return &TTLCache[T]{ttl: ttl, now: time.Now}
}

func (c *TTLCache[T]) Get() (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	if c.expiresAt.IsZero() || c.now().After(c.expiresAt) {
		return zero, false
	}
	return c.value, true
}

func (c *TTLCache[T]) Set(value T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = value
	c.expiresAt = c.now().Add(c.ttl)
}

func (c *TTLCache[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	c.value = zero
	c.expiresAt = time.Time{}
}

type keyedEntry[T any] struct {
	value     T
	expiresAt time.Time
}

// KeyedTTLCache caches one value per key (e.g. one leaderboard page per
// page/size pair). An LRU bounds the key space so hostile pagination cannot
// grow it without limit.
type KeyedTTLCache[T any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries *lru.Cache
	now     func() time.Time
}

func NewKeyedTTL[T any](ttl time.Duration, maxKeys int) *KeyedTTLCache[T] {
	entries, _ := lru.New(maxKeys)
	return &KeyedTTLCache[T]{ttl: ttl, entries: entries, now: time.Now}
}

func (c *KeyedTTLCache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	raw, ok := c.entries.Get(key)
	if !ok {
		return zero, false
	}
	entry := raw.(keyedEntry[T])
	if c.now().After(entry.expiresAt) {
		c.entries.Remove(key)
		return zero, false
	}
	return entry.value, true
}

func (c *KeyedTTLCache[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Add(key, keyedEntry[T]{value: value, expiresAt: c.now().Add(c.ttl)})
}

func (c *KeyedTTLCache[T]) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Remove(key)
}

func (c *KeyedTTLCache[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Purge()
}
