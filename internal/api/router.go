// CineNiche - Movie Catalog and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cineniche

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	// Registers the OpenAPI document served under /swagger.
	_ "github.com/tomtom215/cineniche/internal/apidocs"
	"github.com/tomtom215/cineniche/internal/middleware"
	"github.com/tomtom215/cineniche/internal/models"
)

// Router wires handlers and middleware into a chi mux.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router.
func NewRouter(handler *Handler, chiMW *ChiMiddleware) *Router {
	if chiMW == nil {
		chiMW = NewChiMiddleware(nil)
	}
	return &Router{handler: handler, chiMiddleware: chiMW}
}

// Setup builds the HTTP handler with every route mounted.
func (router *Router) Setup() http.Handler {
	h := router.handler
	r := chi.NewRouter()

	// Global middleware, applied to every route in order
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.AccessLog(middleware.DefaultSlowRequestThreshold))

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		WriteError(w, req, http.StatusNotFound, ErrCodeNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		WriteError(w, req, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed")
	})

	r.Route("/health", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Get("/", h.Health)
		r.Get("/live", h.Health)
		r.Get("/ready", h.HealthReady)
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)

		r.Route("/movies", func(r chi.Router) {
			r.Get("/genres", h.ListGenres)

			r.Post("/titles", h.CreateMovie)
			r.Route("/titles/{id}", func(r chi.Router) {
				r.Get("/", h.GetMovie)
				r.Put("/", h.UpdateMovie)
				r.Delete("/", h.DeleteMovie)
				r.Get("/recommendations", h.Recommendations)
				r.Get("/similar", h.SimilarMovies)
				r.Put("/genres", h.UpdateGenres)
			})

			r.Get("/ratings/average/{showId}", h.AverageMovieRating)
			r.Get("/ratings/{showId}", h.MovieRatings)
		})

		r.Get("/recommendations/collaborative/{userId}", h.CollaborativeRecommendations)

		r.Route("/ratings", func(r chi.Router) {
			r.Post("/", h.UpsertRating)
			r.Get("/user/{userId}", h.UserRatings)
			r.Delete("/{userId}/{movieId}", h.DeleteRating)
		})

		for _, list := range models.UserLists() {
			r.Route("/"+string(list), func(r chi.Router) {
				r.Post("/", h.AddListEntry(list))
				r.Get("/user/{userId}", h.UserListEntries(list))
				r.Delete("/{userId}/{movieId}", h.RemoveListEntry(list))
			})
		}

		if h.importer != nil {
			r.Route("/import", func(r chi.Router) {
				r.Get("/status", h.ImportStatus)
				r.Post("/start", h.StartImport)
				r.Post("/stop", h.StopImport)
				r.Delete("/progress", h.ResetImport)
			})
		}
	})

	return r
}
