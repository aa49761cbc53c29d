package cache

import (
	"testing"
	"time"
)

func TestTTLCacheExpiry(t *testing.T) {
	now := time.Unix(1000, 0)
	c := NewTTL[int](time.Minute)
	c.now = func() time.Time { return now }

	if _, ok := c.Get(); ok {
		t.Fatal("empty cache reported a hit")
	}

	c.Set(42)
	if v, ok := c.Get(); !ok || v != 42 {
		t.Fatalf("Get() = %v, %v; want 42, true", v, ok)
	}

	now = now.Add(59 * time.Second)
	if _, ok := c.Get(); !ok {
		t.Fatal("value expired before its TTL")
	}

	now = now.Add(2 * time.Second)
	if _, ok := c.Get(); ok {
		t.Fatal("value survived past its TTL")
	}
}

func TestTTLCacheInvalidate(t *testing.T) {
	c := NewTTL[string](time.Minute)
	c.Set("value")
	c.Invalidate()
	if _, ok := c.Get(); ok {
		t.Fatal("value survived Invalidate")
	}
}

func TestKeyedTTLCache(t *testing.T) {
	now := time.Unix(1000, 0)
	c := NewKeyedTTL[int](time.Minute, 8)
	c.now = func() time.Time { return now }

	c.Set("a", 1)
	c.Set("b", 2)

	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf(`Get("a") = %v, %v; want 1, true`, v, ok)
	}
	if _, ok := c.Get("missing"); ok {
		t.Fatal("missing key reported a hit")
	}

	now = now.Add(2 * time.Minute)
	if _, ok := c.Get("a"); ok {
		t.Fatal("entry survived past its TTL")
	}
}

func TestKeyedTTLCacheRemoveAndInvalidate(t *testing.T) {
	c := NewKeyedTTL[int](time.Minute, 8)
	c.Set("a", 1)
	c.Set("b", 2)

	c.Remove("a")
	if _, ok := c.Get("a"); ok {
		t.Fatal("removed key still present")
	}
	if _, ok := c.Get("b"); !ok {
		t.Fatal("Remove evicted an unrelated key")
	}

	c.Invalidate()
	if _, ok := c.Get("b"); ok {
		t.Fatal("key survived Invalidate")
	}
}

func TestKeyedTTLCacheBoundsKeys(t *testing.T) {
	c := NewKeyedTTL[int](time.Minute, 2)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	// LRU capacity is 2, so the oldest key is gone.
	if _, ok := c.Get("a"); ok {
		t.Fatal("LRU did not evict the oldest key")
	}
	if _, ok := c.Get("c"); !ok {
		t.Fatal("newest key missing")
	}
}
