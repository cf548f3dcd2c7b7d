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

// The favorites and watchlist routes share these handlers; each returns
// the http.HandlerFunc for one list.

// UserListEntries handles GET /api/v1/{list}/user/{userId}, oldest entry
// first.
func (h *Handler) UserListEntries(list models.UserList) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
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

		entries, err := h.store.GetUserList(ctx, list, params.UserID)
		if err != nil {
			storeError(rw, err, "User not found")
			return
		}
		rw.List(emptyIfNil(entries), len(entries))
	}
}

// AddListEntry handles POST /api/v1/{list}. It answers 201 with the new
// entry, 200 with the stored one when the movie is already on the list
// and 400 when the movie is not in the catalog.
func (h *Handler) AddListEntry(list models.UserList) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rw := NewResponseWriter(w, r)

		var req ListEntryRequest
		if err := decodeJSON(w, r, &req); err != nil {
			rw.BadRequest(err.Error())
			return
		}
		if apiErr := validate(&req); apiErr != nil {
			rw.ValidationError(apiErr)
			return
		}

		ctx, cancel := h.requestContext(r)
		defer cancel()

		entry, created, err := h.store.AddToUserList(ctx, list, req.UserID, req.ShowID)
		if errors.Is(err, database.ErrNotFound) {
			rw.BadRequest("Unknown movie: " + req.ShowID)
			return
		}
		if err != nil {
			storeError(rw, err, "")
			return
		}

		logging.Ctx(r.Context()).Debug().
			Str("list", string(list)).
			Int("user_id", entry.UserID).
			Str("show_id", entry.ShowID).
			Bool("created", created).
			Msg("List entry saved")

		if created {
			rw.Created(entry)
			return
		}
		rw.Success(entry)
	}
}

// RemoveListEntry handles DELETE /api/v1/{list}/{userId}/{movieId}.
func (h *Handler) RemoveListEntry(list models.UserList) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
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

		if err := h.store.RemoveFromUserList(ctx, list, params.UserID, params.MovieID); err != nil {
			storeError(rw, err, "Entry not found")
			return
		}
		rw.NoContent()
	}
}
