// CineNiche - Movie Catalog and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cineniche

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/cineniche/internal/cache"
	"github.com/tomtom215/cineniche/internal/database"
	"github.com/tomtom215/cineniche/internal/logging"
	"github.com/tomtom215/cineniche/internal/recommend"
)

// defaultRequestTimeout applies when HandlerConfig.RequestTimeout is zero.
const defaultRequestTimeout = 10 * time.Second

// HandlerConfig carries the request limits the handlers enforce.
type HandlerConfig struct {
	Limits         recommend.LimitsConfig
	RequestTimeout time.Duration
	Version        string

	// Cache holds content-based lists. Nil disables caching.
	Cache *cache.Cache
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers_movies.go: catalog reads, genres and per-movie ratings
//   - handlers_catalog.go: movie create, update and delete
//   - handlers_recommend.go: content, hybrid and collaborative endpoints
//   - handlers_ratings.go: per-user rating endpoints
//   - handlers_lists.go: favorites and watchlist
//   - handlers_health.go: liveness and readiness
//   - handlers_import.go: legacy import administration
type Handler struct {
	store     CatalogStore
	engine    Recommender
	importer  ImportController
	cache     *cache.Cache
	cfg       HandlerConfig
	startTime time.Time
}

// NewHandler creates the API handler. importer may be nil, in which case
// the import routes are not mounted.
func NewHandler(store CatalogStore, engine Recommender, importer ImportController, cfg HandlerConfig) *Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	if cfg.Limits == (recommend.LimitsConfig{}) {
		cfg.Limits = recommend.DefaultConfig().Limits
	}
	return &Handler{
		store:     store,
		engine:    engine,
		importer:  importer,
		cache:     cfg.Cache,
		cfg:       cfg,
		startTime: time.Now(),
	}
}

// ClearCache drops every cached similarity list. It is called after
// every catalog write.
func (h *Handler) ClearCache() {
	if h.cache != nil {
		h.cache.Clear()
		logging.Debug().Msg("Similarity cache cleared")
	}
}

// requestContext bounds a handler's store and engine calls.
func (h *Handler) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), h.cfg.RequestTimeout)
}

// storeError maps a store or engine failure to a response. A missing row
// is a 404, a conflicting one a 409, a timeout a 503, anything else a
// database error.
func storeError(rw *ResponseWriter, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		rw.NotFound(notFoundMsg)
	case errors.Is(err, database.ErrConflict):
		rw.Conflict(err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		rw.ServiceUnavailable("Request timed out")
	case errors.Is(err, recommend.ErrInvalidCount):
		rw.BadRequest(err.Error())
	default:
		rw.DatabaseError(err)
	}
}
