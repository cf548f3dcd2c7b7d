// CineNiche - Movie Catalog and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cineniche

package cache

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/goccy/go-json"
)

// Defaults applied by New when a Config field is zero.
const (
	DefaultMaxEntries = 1000
	DefaultTTL        = 5 * time.Minute
)

// Config sizes a Cache.
type Config struct {
	// MaxEntries bounds the number of cached values. Every entry costs 1.
	MaxEntries int64

	// TTL is how long an entry stays valid after Set.
	TTL time.Duration
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Hits        uint64  `json:"hits"`
	Misses      uint64  `json:"misses"`
	KeysAdded   uint64  `json:"keys_added"`
	KeysEvicted uint64  `json:"keys_evicted"`
	HitRatio    float64 `json:"hit_ratio"`
	Generation  uint64  `json:"generation"`
}

// Cache is a bounded TTL cache backed by ristretto.
//
// Keys are namespaced by a generation number, so Clear is a single atomic
// increment: entries from older generations are never returned and age
// out through TTL or eviction. This keeps Clear safe to call while other
// goroutines are mid Get or Set.
//
// All methods are safe on a nil *Cache, which behaves as a cache that
// never hits.
type Cache struct {
	rc         *ristretto.Cache[string, any]
	ttl        time.Duration
	generation atomic.Uint64
}

// New creates a cache.
func New(cfg Config) (*Cache, error) {
	if cfg.MaxEntries < 0 {
		return nil, errors.New("cache: max entries must not be negative")
	}
	if cfg.MaxEntries == 0 {
		cfg.MaxEntries = DefaultMaxEntries
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}

	rc, err := ristretto.NewCache(&ristretto.Config[string, any]{
		// ristretto recommends ten counters per expected entry
		NumCounters:        cfg.MaxEntries * 10,
		MaxCost:            cfg.MaxEntries,
		BufferItems:        64,
		Metrics:            true,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	return &Cache{rc: rc, ttl: cfg.TTL}, nil
}

func keyAt(gen uint64, key string) string {
	return strconv.FormatUint(gen, 10) + "|" + key
}

// Get returns the value stored under key in the current generation.
func (c *Cache) Get(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	return c.rc.Get(keyAt(c.generation.Load(), key))
}

// Set stores value under key in the current generation. Writes are
// applied asynchronously and may be dropped under contention; it reports
// whether the write was accepted.
func (c *Cache) Set(key string, value any) bool {
	if c == nil {
		return false
	}
	return c.SetAt(c.generation.Load(), key, value)
}

// Snapshot returns the current generation. A caller that computes a value
// after a miss takes the snapshot before computing and stores the result
// with SetAt, so a Clear in between discards it.
func (c *Cache) Snapshot() uint64 {
	if c == nil {
		return 0
	}
	return c.generation.Load()
}

// SetAt stores value under key in generation gen. The write is dropped
// when gen has already been cleared.
func (c *Cache) SetAt(gen uint64, key string, value any) bool {
	if c == nil || gen != c.generation.Load() {
		return false
	}
	// A Clear racing past the check above leaves the entry under gen,
	// which Get no longer reads.
	return c.rc.SetWithTTL(keyAt(gen, key), value, 1, c.ttl)
}

// Wait blocks until pending writes are applied.
func (c *Cache) Wait() {
	if c == nil {
		return
	}
	c.rc.Wait()
}

// Clear invalidates every entry.
func (c *Cache) Clear() {
	if c == nil {
		return
	}
	c.generation.Add(1)
}

// Close stops ristretto's background goroutines. The cache must not be
// used afterwards.
func (c *Cache) Close() {
	if c == nil {
		return
	}
	c.rc.Close()
}

// GetStats returns cache performance statistics.
func (c *Cache) GetStats() Stats {
	if c == nil {
		return Stats{}
	}
	m := c.rc.Metrics
	return Stats{
		Hits:        m.Hits(),
		Misses:      m.Misses(),
		KeysAdded:   m.KeysAdded(),
		KeysEvicted: m.KeysEvicted(),
		HitRatio:    m.Ratio(),
		Generation:  c.generation.Load(),
	}
}

// GenerateKey builds a compact key from a method name and its parameters.
// Parameters are JSON encoded and hashed, so equal values give equal keys.
func GenerateKey(method string, params interface{}) string {
	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Sprintf("%s:%v", method, params)
	}
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%x", method, hash[:16])
}
