// CineNiche - Movie Catalog and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cineniche

package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func newTestCache(t *testing.T, cfg Config) *Cache {
	t.Helper()
	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func TestCacheBasicOperations(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, Config{MaxEntries: 100, TTL: time.Minute})

	if !c.Set("key1", "value1") {
		t.Fatal("Set() rejected the write")
	}
	c.Wait()

	value, exists := c.Get("key1")
	if !exists {
		t.Fatal("Expected key1 to exist")
	}
	if value != "value1" {
		t.Errorf("Expected value1, got %v", value)
	}

	if _, exists := c.Get("key2"); exists {
		t.Error("Expected key2 to not exist")
	}
}

func TestCacheExpiration(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, Config{MaxEntries: 100, TTL: 100 * time.Millisecond})

	c.Set("key1", "value1")
	c.Wait()

	if _, exists := c.Get("key1"); !exists {
		t.Fatal("Expected key1 to exist immediately after set")
	}

	time.Sleep(200 * time.Millisecond)

	if _, exists := c.Get("key1"); exists {
		t.Error("Expected key1 to be expired")
	}
}

func TestCacheClear(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, Config{MaxEntries: 100, TTL: time.Minute})

	for _, key := range []string{"key1", "key2", "key3"} {
		c.Set(key, key)
	}
	c.Wait()

	c.Clear()

	for _, key := range []string{"key1", "key2", "key3"} {
		if _, exists := c.Get(key); exists {
			t.Errorf("Expected %s to be cleared", key)
		}
	}

	// the cache stays usable after a clear
	c.Set("key1", "fresh")
	c.Wait()
	if v, ok := c.Get("key1"); !ok || v != "fresh" {
		t.Errorf("Get after Clear = %v, %v; want fresh, true", v, ok)
	}
	if got := c.GetStats().Generation; got != 1 {
		t.Errorf("Generation = %d, want 1", got)
	}
}

func TestCacheSetAtAfterClear(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, Config{MaxEntries: 100, TTL: time.Minute})

	gen := c.Snapshot()
	c.Clear()

	if c.SetAt(gen, "key1", "stale") {
		t.Error("SetAt with a cleared generation should be rejected")
	}
	c.Wait()
	if _, ok := c.Get("key1"); ok {
		t.Error("value computed before Clear must not be served after it")
	}

	gen = c.Snapshot()
	if gen != 1 {
		t.Fatalf("Snapshot() = %d, want 1", gen)
	}
	if !c.SetAt(gen, "key1", "fresh") {
		t.Fatal("SetAt with the current generation was rejected")
	}
	c.Wait()
	if v, ok := c.Get("key1"); !ok || v != "fresh" {
		t.Errorf("Get = %v, %v; want fresh, true", v, ok)
	}
}

func TestCacheStats(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, Config{MaxEntries: 100, TTL: time.Minute})

	c.Set("key1", "value1")
	c.Wait()

	c.Get("key1")
	c.Get("key1")
	c.Get("missing")

	stats := c.GetStats()
	if stats.Hits != 2 {
		t.Errorf("Hits = %d, want 2", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Errorf("Misses = %d, want 1", stats.Misses)
	}
	if stats.KeysAdded != 1 {
		t.Errorf("KeysAdded = %d, want 1", stats.KeysAdded)
	}
	if stats.HitRatio < 0.66 || stats.HitRatio > 0.67 {
		t.Errorf("HitRatio = %v, want ~0.667", stats.HitRatio)
	}
}

func TestCacheDefaults(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, Config{})
	if c.ttl != DefaultTTL {
		t.Errorf("ttl = %v, want %v", c.ttl, DefaultTTL)
	}
	if got := c.rc.MaxCost(); got != DefaultMaxEntries {
		t.Errorf("MaxCost() = %d, want %d", got, DefaultMaxEntries)
	}

	if _, err := New(Config{MaxEntries: -1}); err == nil {
		t.Error("New() with negative MaxEntries should fail")
	}
}

func TestCacheNil(t *testing.T) {
	t.Parallel()

	var c *Cache
	if c.Set("k", 1) {
		t.Error("Set on nil cache reported success")
	}
	if _, ok := c.Get("k"); ok {
		t.Error("Get on nil cache hit")
	}
	c.Wait()
	c.Clear()
	if c.Snapshot() != 0 || c.SetAt(0, "k", 1) {
		t.Error("nil cache should report generation 0 and reject SetAt")
	}
	c.Close()
	if c.GetStats() != (Stats{}) {
		t.Error("GetStats on nil cache should be zero")
	}
}

func TestCacheConcurrency(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, Config{MaxEntries: 1000, TTL: time.Minute})

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("key-%d-%d", g, i%20)
				c.Set(key, i)
				c.Get(key)
				if i%50 == 0 {
					c.Clear()
				}
			}
		}(g)
	}
	wg.Wait()
	c.Wait()

	if got := c.GetStats().Generation; got != 8*4 {
		t.Errorf("Generation = %d, want %d", got, 8*4)
	}
}

func TestGenerateKey(t *testing.T) {
	t.Parallel()

	type params struct {
		ID    string
		Count int
	}

	a := GenerateKey("ContentBased", params{"s1", 10})
	b := GenerateKey("ContentBased", params{"s1", 10})
	if a != b {
		t.Errorf("equal params gave different keys: %q vs %q", a, b)
	}

	tests := []struct {
		name  string
		other string
	}{
		{"different count", GenerateKey("ContentBased", params{"s1", 11})},
		{"different id", GenerateKey("ContentBased", params{"s2", 10})},
		{"different method", GenerateKey("Hybrid", params{"s1", 10})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.other == a {
				t.Errorf("key collision: %q", a)
			}
		})
	}
}

func TestGenerateKeyUnmarshalable(t *testing.T) {
	t.Parallel()

	key := GenerateKey("Method", make(chan int))
	if key == "" {
		t.Error("GenerateKey should fall back for unmarshalable params")
	}
}
