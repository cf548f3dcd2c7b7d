// CineNiche - Movie Catalog and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cineniche

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tomtom215/cineniche/internal/database"
	"github.com/tomtom215/cineniche/internal/logging"
)

// DuplicateTitle is the detail of a 409 from POST /movies/titles.
type DuplicateTitle struct {
	ExistingID string `json:"existing_id"`
}

// decodeMovie reads and validates a MovieRequest, writing the error
// response itself. ok is false when the request was rejected.
func decodeMovie(rw *ResponseWriter, w http.ResponseWriter, r *http.Request) (req MovieRequest, ok bool) {
	if err := decodeJSON(w, r, &req); err != nil {
		rw.BadRequest(err.Error())
		return req, false
	}
	req.normalize()
	if apiErr := validate(&req); apiErr != nil {
		rw.ValidationError(apiErr)
		return req, false
	}
	return req, true
}

// CreateMovie handles POST /api/v1/movies/titles. The title gets a new
// UUID show id and the response is 201 with the stored MovieTitle. A title
// that already exists under another id, ignoring case, is a 409 carrying
// that id.
func (h *Handler) CreateMovie(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	req, ok := decodeMovie(rw, w, r)
	if !ok {
		return
	}
	movie := req.toMovie(uuid.NewString())

	ctx, cancel := h.requestContext(r)
	defer cancel()

	err := h.store.CreateMovie(ctx, &movie)
	var dup *database.DuplicateTitleError
	if errors.As(err, &dup) {
		rw.ErrorWithDetails(http.StatusConflict, ErrCodeConflict,
			"A movie with this title already exists", DuplicateTitle{ExistingID: dup.ExistingID})
		return
	}
	if err != nil {
		storeError(rw, err, "")
		return
	}
	h.ClearCache()

	logging.Ctx(r.Context()).Info().
		Str("show_id", movie.ShowID).
		Str("title", movie.Title).
		Msg("Movie created")

	rw.Created(newMovieTitle(&movie))
}

// UpdateMovie handles PUT /api/v1/movies/titles/{id}, replacing every
// field of the title, genres included. It answers 204, or 404 when the
// movie does not exist.
func (h *Handler) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	params := movieParams{MovieID: chi.URLParam(r, "id")}
	if apiErr := validate(&params); apiErr != nil {
		rw.ValidationError(apiErr)
		return
	}
	req, ok := decodeMovie(rw, w, r)
	if !ok {
		return
	}
	movie := req.toMovie(params.MovieID)

	ctx, cancel := h.requestContext(r)
	defer cancel()

	if err := h.store.UpdateMovie(ctx, &movie); err != nil {
		storeError(rw, err, "Movie not found")
		return
	}
	h.ClearCache()

	logging.Ctx(r.Context()).Info().
		Str("show_id", movie.ShowID).
		Strs("categories", movie.Categories.Names()).
		Msg("Movie updated")

	rw.NoContent()
}

// DeleteMovie handles DELETE /api/v1/movies/titles/{id}. The movie's
// ratings, favorites and watchlist entries go with it.
func (h *Handler) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	params := movieParams{MovieID: chi.URLParam(r, "id")}
	if apiErr := validate(&params); apiErr != nil {
		rw.ValidationError(apiErr)
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	if err := h.store.DeleteMovie(ctx, params.MovieID); err != nil {
		storeError(rw, err, "Movie not found")
		return
	}
	h.ClearCache()

	logging.Ctx(r.Context()).Info().Str("show_id", params.MovieID).Msg("Movie deleted")
	rw.NoContent()
}
