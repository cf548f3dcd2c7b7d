// CineNiche - Movie Catalog and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cineniche

/*
Package cache provides a bounded in-memory TTL cache for computed API
results.

The API layer uses it for content-based similarity lists, which scan the
whole catalog on every miss. Entries expire after RECOMMEND_CACHE_TTL and
the cache holds at most RECOMMEND_CACHE_SIZE lists. A genre update or an
imported movie batch clears it.

# Usage

	c, err := cache.New(cache.Config{MaxEntries: 1000, TTL: 5 * time.Minute})
	if err != nil {
	    return err
	}
	defer c.Close()

	key := cache.GenerateKey("ContentBased", struct {
	    ID    string
	    Count int
	}{"s42", 10})

	if v, ok := c.Get(key); ok {
	    return v.([]models.Movie), nil
	}
	movies, err := compute()
	if err == nil {
	    c.Set(key, movies)
	}

A nil *Cache is valid and never hits, so callers can disable caching by
not constructing one.
*/
package cache
