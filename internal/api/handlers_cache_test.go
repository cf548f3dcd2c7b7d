// CineNiche - Movie Catalog and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cineniche

package api

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/tomtom215/cineniche/internal/cache"
	"github.com/tomtom215/cineniche/internal/recommend"
)

func cachedTestServer(t *testing.T, store CatalogStore, engine Recommender) (http.Handler, *cache.Cache) {
	t.Helper()
	c, err := cache.New(cache.Config{MaxEntries: 100, TTL: time.Minute})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(c.Close)

	h := NewHandler(store, engine, nil, HandlerConfig{
		Limits:  recommend.DefaultConfig().Limits,
		Version: "test",
		Cache:   c,
	})
	mw := NewChiMiddleware(&ChiMiddlewareConfig{RateLimitDisabled: true})
	return NewRouter(h, mw).Setup(), c
}

func TestSimilarMovies_ServedFromCache(t *testing.T) {
	t.Parallel()

	engine := &mockEngine{results: sampleMovies()}
	srv, c := cachedTestServer(t, newMockStore(sampleMovies()...), engine)

	rec, env := doRequest(t, srv, http.MethodGet, "/api/v1/movies/titles/s1/similar?count=2", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("first status = %d (body %s)", rec.Code, rec.Body.String())
	}
	c.Wait()

	// a failing engine proves the second answer came from the cache
	engine.err = errors.New("engine down")
	rec, cachedEnv := doRequest(t, srv, http.MethodGet, "/api/v1/movies/titles/s1/similar?count=2", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("cached status = %d (body %s)", rec.Code, rec.Body.String())
	}
	if cachedEnv.Meta == nil || cachedEnv.Meta.Count == nil || *cachedEnv.Meta.Count != 2 {
		t.Errorf("cached meta = %+v, want count 2", cachedEnv.Meta)
	}
	if string(cachedEnv.Data) != string(env.Data) {
		t.Errorf("cached data = %s, want %s", cachedEnv.Data, env.Data)
	}

	// a different count is a different key
	rec, _ = doRequest(t, srv, http.MethodGet, "/api/v1/movies/titles/s1/similar?count=3", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("uncached status = %d, want 500", rec.Code)
	}

	stats := c.GetStats()
	if stats.Hits != 1 {
		t.Errorf("cache hits = %d, want 1", stats.Hits)
	}
}

func TestUpdateGenres_ClearsCache(t *testing.T) {
	t.Parallel()

	engine := &mockEngine{results: sampleMovies()}
	srv, c := cachedTestServer(t, newMockStore(sampleMovies()...), engine)

	doRequest(t, srv, http.MethodGet, "/api/v1/movies/titles/s1/similar", nil)
	c.Wait()

	rec, _ := doRequest(t, srv, http.MethodPut, "/api/v1/movies/titles/s3/genres", []string{"Comedy"})
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d (body %s)", rec.Code, rec.Body.String())
	}
	if got := c.GetStats().Generation; got != 1 {
		t.Errorf("generation = %d, want 1 after genre update", got)
	}

	engine.err = errors.New("engine down")
	rec, _ = doRequest(t, srv, http.MethodGet, "/api/v1/movies/titles/s1/similar", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status after clear = %d, want 500 from the engine", rec.Code)
	}
}

func TestSimilarMovies_ClearDuringRankingIsNotCached(t *testing.T) {
	t.Parallel()

	engine := &mockEngine{results: sampleMovies()}
	srv, c := cachedTestServer(t, newMockStore(sampleMovies()...), engine)

	// a genre update commits while the first ranking is still running
	engine.onContent = func() {
		c.Clear()
		engine.onContent = nil
	}

	rec, _ := doRequest(t, srv, http.MethodGet, "/api/v1/movies/titles/s1/similar?count=2", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("first status = %d (body %s)", rec.Code, rec.Body.String())
	}
	c.Wait()

	rec, _ = doRequest(t, srv, http.MethodGet, "/api/v1/movies/titles/s1/similar?count=2", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("second status = %d (body %s)", rec.Code, rec.Body.String())
	}
	if engine.contentCalls != 2 {
		t.Errorf("engine calls = %d, want 2 (stale list must not be cached)", engine.contentCalls)
	}
	if hits := c.GetStats().Hits; hits != 0 {
		t.Errorf("cache hits = %d, want 0", hits)
	}
}

func TestHealthReady_ReportsCache(t *testing.T) {
	t.Parallel()

	engine := &mockEngine{stats: recommend.Stats{CollaborativeRows: 3, CollaborativeUsers: 1}}
	srv, _ := cachedTestServer(t, newMockStore(), engine)

	rec, env := doRequest(t, srv, http.MethodGet, "/health/ready", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (body %s)", rec.Code, rec.Body.String())
	}
	var status ReadyStatus
	decodeData(t, env, &status)
	if status.Cache == nil {
		t.Error("ready status should include cache stats")
	}
}
