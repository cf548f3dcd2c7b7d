// CineNiche - Movie Catalog and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cineniche

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/cineniche/internal/logging"
	"github.com/tomtom215/cineniche/internal/models"
)

// GetMovie handles GET /api/v1/movies/titles/{id}.
func (h *Handler) GetMovie(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	params := movieParams{MovieID: chi.URLParam(r, "id")}
	if apiErr := validate(&params); apiErr != nil {
		rw.ValidationError(apiErr)
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	movie, err := h.store.GetMovieByID(ctx, params.MovieID)
	if err != nil {
		storeError(rw, err, "Movie not found")
		return
	}
	if movie == nil {
		rw.NotFound("Movie not found")
		return
	}

	rw.Success(newMovieTitle(movie))
}

// ListGenres handles GET /api/v1/movies/genres.
func (h *Handler) ListGenres(w http.ResponseWriter, r *http.Request) {
	labels := models.GenreLabels()
	NewResponseWriter(w, r).List(labels, len(labels))
}

// UpdateGenres handles PUT /api/v1/movies/titles/{id}/genres. The body is
// a JSON array of genre labels; the movie's categories are replaced by
// the flags those labels resolve to. Unknown labels are ignored.
func (h *Handler) UpdateGenres(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	params := movieParams{MovieID: chi.URLParam(r, "id")}
	if apiErr := validate(&params); apiErr != nil {
		rw.ValidationError(apiErr)
		return
	}

	var req genresRequest
	if err := decodeJSON(w, r, &req.Genres); err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if req.Genres == nil {
		rw.BadRequest("body must be a JSON array of genre labels")
		return
	}
	if apiErr := validate(&req); apiErr != nil {
		rw.ValidationError(apiErr)
		return
	}

	cats := models.ResolveGenres(req.Genres)

	ctx, cancel := h.requestContext(r)
	defer cancel()

	if err := h.store.UpdateMovieCategories(ctx, params.MovieID, cats); err != nil {
		storeError(rw, err, "Movie not found")
		return
	}
	h.ClearCache()

	logging.Ctx(r.Context()).Info().
		Str("show_id", params.MovieID).
		Strs("labels", req.Genres).
		Strs("categories", cats.Names()).
		Msg("Movie genres updated")

	rw.Success(GenresUpdate{ShowID: params.MovieID, Categories: cats})
}

// MovieRatings handles GET /api/v1/movies/ratings/{showId}.
func (h *Handler) MovieRatings(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	params := showParams{ShowID: chi.URLParam(r, "showId")}
	if apiErr := validate(&params); apiErr != nil {
		rw.ValidationError(apiErr)
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	ratings, err := h.store.GetRatingsForMovie(ctx, params.ShowID)
	if err != nil {
		storeError(rw, err, "Movie not found")
		return
	}
	rw.List(emptyIfNil(ratings), len(ratings))
}

// AverageMovieRating handles GET /api/v1/movies/ratings/average/{showId}.
// A movie without ratings averages 0.
func (h *Handler) AverageMovieRating(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	params := showParams{ShowID: chi.URLParam(r, "showId")}
	if apiErr := validate(&params); apiErr != nil {
		rw.ValidationError(apiErr)
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	avg, err := h.store.AverageRating(ctx, params.ShowID)
	if err != nil {
		storeError(rw, err, "Movie not found")
		return
	}
	rw.Success(AverageRating{ShowID: params.ShowID, AverageRating: avg})
}
