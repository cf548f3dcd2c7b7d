// CineNiche - Movie Catalog and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cineniche

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/cineniche/internal/database"
	"github.com/tomtom215/cineniche/internal/logging"
	"github.com/tomtom215/cineniche/internal/models"
)

// UserRatings handles GET /api/v1/ratings/user/{userId}.
func (h *Handler) UserRatings(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID, apiErr := pathInt(r, "userId")
	if apiErr != nil {
		rw.ValidationError(apiErr)
		return
	}
	params := userParams{UserID: userID}
	if apiErr := validate(&params); apiErr != nil {
		rw.ValidationError(apiErr)
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	ratings, err := h.store.GetRatingsForUser(ctx, params.UserID)
	if err != nil {
		storeError(rw, err, "User not found")
		return
	}
	rw.List(emptyIfNil(ratings), len(ratings))
}

// UpsertRating handles POST /api/v1/ratings. It answers 201 when the
// rating is new, 200 when it replaced an earlier one and 400 when the
// movie is not in the catalog.
func (h *Handler) UpsertRating(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req RatingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if apiErr := validate(&req); apiErr != nil {
		rw.ValidationError(apiErr)
		return
	}

	rating := models.Rating{
		UserID: req.UserID,
		ShowID: req.ShowID,
		Value:  req.Rating,
		Review: req.Review,
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	created, err := h.store.UpsertRating(ctx, &rating)
	if errors.Is(err, database.ErrNotFound) {
		rw.BadRequest("Unknown movie: " + req.ShowID)
		return
	}
	if err != nil {
		storeError(rw, err, "")
		return
	}

	logging.Ctx(r.Context()).Debug().
		Int("user_id", rating.UserID).
		Str("show_id", rating.ShowID).
		Bool("created", created).
		Msg("Rating saved")

	if created {
		rw.Created(rating)
		return
	}
	rw.Success(rating)
}

// DeleteRating handles DELETE /api/v1/ratings/{userId}/{movieId}.
func (h *Handler) DeleteRating(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID, apiErr := pathInt(r, "userId")
	if apiErr != nil {
		rw.ValidationError(apiErr)
		return
	}
	params := ratingKeyParams{UserID: userID, MovieID: chi.URLParam(r, "movieId")}
	if apiErr := validate(&params); apiErr != nil {
		rw.ValidationError(apiErr)
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	if err := h.store.DeleteRating(ctx, params.UserID, params.MovieID); err != nil {
		storeError(rw, err, "Rating not found")
		return
	}
	rw.NoContent()
}
