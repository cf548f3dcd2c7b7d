// CineNiche - Movie Catalog and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cineniche

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/cineniche/internal/cache"
	"github.com/tomtom215/cineniche/internal/metrics"
	"github.com/tomtom215/cineniche/internal/models"
)

// SimilarMovies handles GET /api/v1/movies/titles/{id}/similar: the
// movies whose genres best match {id}. An unknown id gives an empty list.
func (h *Handler) SimilarMovies(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	count, apiErr := queryInt(r, "count", h.cfg.Limits.DefaultCount)
	if apiErr != nil {
		rw.ValidationError(apiErr)
		return
	}
	q := similarQuery{MovieID: chi.URLParam(r, "id"), Count: count}
	if apiErr := validate(&q); apiErr != nil {
		rw.ValidationError(apiErr)
		return
	}
	if apiErr := checkMax("count", q.Count, h.cfg.Limits.MaxCount); apiErr != nil {
		rw.ValidationError(apiErr)
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	key := cache.GenerateKey("SimilarMovies", q)
	gen := h.cache.Snapshot()
	if movies, ok := h.cachedMovies(key); ok {
		rw.List(newMovieTitles(movies), len(movies))
		return
	}

	start := time.Now()
	movies, err := h.engine.ContentBased(ctx, q.MovieID, q.Count)
	metrics.RecordRecommendation(metrics.KindContent, time.Since(start), len(movies), err)
	if err != nil {
		storeError(rw, err, "Movie not found")
		return
	}
	// a genre update that landed while ranking makes this a no-op
	h.cache.SetAt(gen, key, movies)

	rw.List(newMovieTitles(movies), len(movies))
}

// cachedMovies looks up a cached list and records the hit or miss.
func (h *Handler) cachedMovies(key string) ([]models.Movie, bool) {
	if h.cache == nil {
		return nil, false
	}
	if v, ok := h.cache.Get(key); ok {
		if movies, ok := v.([]models.Movie); ok {
			metrics.RecordCacheLookup(true)
			return movies, true
		}
	}
	metrics.RecordCacheLookup(false)
	return nil, false
}

// Recommendations handles GET /api/v1/movies/titles/{id}/recommendations.
// With user_id, movies that user has rated are ranked first.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	count, apiErr := queryInt(r, "count", h.cfg.Limits.DefaultCount)
	if apiErr != nil {
		rw.ValidationError(apiErr)
		return
	}
	userID, apiErr := queryOptionalInt(r, "user_id")
	if apiErr != nil {
		rw.ValidationError(apiErr)
		return
	}
	q := recommendQuery{MovieID: chi.URLParam(r, "id"), UserID: userID, Count: count}
	if apiErr := validate(&q); apiErr != nil {
		rw.ValidationError(apiErr)
		return
	}
	if apiErr := checkMax("count", q.Count, h.cfg.Limits.MaxCount); apiErr != nil {
		rw.ValidationError(apiErr)
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	start := time.Now()
	movies, err := h.engine.Hybrid(ctx, q.MovieID, q.UserID, q.Count)
	metrics.RecordRecommendation(metrics.KindHybrid, time.Since(start), len(movies), err)
	if err != nil {
		storeError(rw, err, "Movie not found")
		return
	}

	rw.List(newMovieTitles(movies), len(movies))
}

// CollaborativeRecommendations handles
// GET /api/v1/recommendations/collaborative/{userId}. The user's top ids
// are resolved to catalog movies in rank order; ids missing from the
// catalog are dropped. A user with no ids is a 404.
func (h *Handler) CollaborativeRecommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID, apiErr := pathInt(r, "userId")
	if apiErr != nil {
		rw.ValidationError(apiErr)
		return
	}
	topN, apiErr := queryInt(r, "top_n", h.cfg.Limits.DefaultTopN)
	if apiErr != nil {
		rw.ValidationError(apiErr)
		return
	}
	q := collaborativeQuery{UserID: userID, TopN: topN}
	if apiErr := validate(&q); apiErr != nil {
		rw.ValidationError(apiErr)
		return
	}
	if apiErr := checkMax("top_n", q.TopN, h.cfg.Limits.MaxTopN); apiErr != nil {
		rw.ValidationError(apiErr)
		return
	}

	start := time.Now()
	ids, err := h.engine.CollaborativeMovieIDs(q.UserID, q.TopN)
	if err != nil {
		metrics.RecordRecommendation(metrics.KindCollaborative, time.Since(start), 0, err)
		storeError(rw, err, "No recommendations for user")
		return
	}
	if len(ids) == 0 {
		metrics.RecordRecommendation(metrics.KindCollaborative, time.Since(start), 0, nil)
		rw.NotFound("No recommendations for user")
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	movies, err := h.store.GetMoviesByIDs(ctx, ids)
	metrics.RecordRecommendation(metrics.KindCollaborative, time.Since(start), len(movies), err)
	if err != nil {
		storeError(rw, err, "No recommendations for user")
		return
	}

	rw.List(newMovieTitles(movies), len(movies))
}
