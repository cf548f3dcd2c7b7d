// CineNiche - Movie Catalog and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cineniche

package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/tomtom215/cineniche/internal/models"
)

func TestUserLists_AddListRemove(t *testing.T) {
	t.Parallel()

	for _, list := range models.UserLists() {
		t.Run(string(list), func(t *testing.T) {
			t.Parallel()

			store := newMockStore(sampleMovies()...)
			srv := testServer(store, &mockEngine{}, nil)
			base := "/api/v1/" + string(list)

			rec, env := doRequest(t, srv, http.MethodPost, base, map[string]interface{}{"user_id": 4, "show_id": "s3"})
			if rec.Code != http.StatusCreated {
				t.Fatalf("add status = %d, want 201 (body %s)", rec.Code, rec.Body.String())
			}
			var first models.ListEntry
			decodeData(t, env, &first)
			if first.UserID != 4 || first.ShowID != "s3" || first.AddedAt.IsZero() {
				t.Errorf("added = %+v", first)
			}

			rec, env = doRequest(t, srv, http.MethodPost, base, map[string]interface{}{"user_id": 4, "show_id": "s3"})
			if rec.Code != http.StatusOK {
				t.Fatalf("repeat add status = %d, want 200", rec.Code)
			}
			var again models.ListEntry
			decodeData(t, env, &again)
			if !again.AddedAt.Equal(first.AddedAt) {
				t.Errorf("repeat add = %+v, want the stored entry %+v", again, first)
			}

			rec, env = doRequest(t, srv, http.MethodGet, base+"/user/4", nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("get status = %d", rec.Code)
			}
			var entries []models.ListEntry
			decodeData(t, env, &entries)
			if len(entries) != 1 || entries[0].ShowID != "s3" {
				t.Errorf("entries = %+v, want s3", entries)
			}

			rec, _ = doRequest(t, srv, http.MethodDelete, base+"/4/s3", nil)
			if rec.Code != http.StatusNoContent {
				t.Fatalf("delete status = %d, want 204", rec.Code)
			}
			rec, env = doRequest(t, srv, http.MethodDelete, base+"/4/s3", nil)
			if rec.Code != http.StatusNotFound || env.Error.Code != ErrCodeNotFound {
				t.Errorf("second delete status = %d, error = %+v; want 404", rec.Code, env.Error)
			}

			rec, env = doRequest(t, srv, http.MethodGet, base+"/user/4", nil)
			if rec.Code != http.StatusOK || string(env.Data) != "[]" {
				t.Errorf("empty list = %d %s, want 200 []", rec.Code, env.Data)
			}
		})
	}
}

func TestUserLists_AreSeparate(t *testing.T) {
	t.Parallel()

	store := newMockStore(sampleMovies()...)
	srv := testServer(store, &mockEngine{}, nil)

	rec, _ := doRequest(t, srv, http.MethodPost, "/api/v1/favorites", map[string]interface{}{"user_id": 1, "show_id": "s1"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add status = %d", rec.Code)
	}
	if len(store.lists[models.ListWatchlist]) != 0 {
		t.Errorf("watchlist = %+v, want empty", store.lists[models.ListWatchlist])
	}
	rec, _ = doRequest(t, srv, http.MethodDelete, "/api/v1/watchlist/1/s1", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("watchlist delete status = %d, want 404", rec.Code)
	}
}

func TestAddListEntry_Rejected(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		body     interface{}
		wantCode int
		wantErr  string
	}{
		{"unknown movie", map[string]interface{}{"user_id": 1, "show_id": "s99"}, http.StatusBadRequest, ErrCodeBadRequest},
		{"missing user", map[string]interface{}{"show_id": "s1"}, http.StatusBadRequest, ErrCodeValidationFailed},
		{"blank show id", map[string]interface{}{"user_id": 1, "show_id": ""}, http.StatusBadRequest, ErrCodeValidationFailed},
		{"malformed body", "{", http.StatusBadRequest, ErrCodeBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec, env := doRequest(t, testServer(newMockStore(sampleMovies()...), &mockEngine{}, nil),
				http.MethodPost, "/api/v1/favorites", tt.body)
			if rec.Code != tt.wantCode || env.Error == nil || env.Error.Code != tt.wantErr {
				t.Errorf("status = %d, error = %+v; want %d %s", rec.Code, env.Error, tt.wantCode, tt.wantErr)
			}
		})
	}
}

func TestUserListRoutes_BadPathParams(t *testing.T) {
	t.Parallel()

	srv := testServer(newMockStore(sampleMovies()...), &mockEngine{}, nil)
	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/watchlist/user/abc"},
		{http.MethodGet, "/api/v1/watchlist/user/0"},
		{http.MethodDelete, "/api/v1/favorites/x/s1"},
		{http.MethodDelete, "/api/v1/favorites/0/s1"},
	}
	for _, tt := range tests {
		rec, env := doRequest(t, srv, tt.method, tt.path, nil)
		if rec.Code != http.StatusBadRequest || env.Error.Code != ErrCodeValidationFailed {
			t.Errorf("%s %s status = %d, error = %+v; want 400", tt.method, tt.path, rec.Code, env.Error)
		}
	}
}

func TestUserListEntries_StoreFailure(t *testing.T) {
	t.Parallel()

	store := newMockStore()
	store.listErr = errors.New("connection reset")
	rec, _ := doRequest(t, testServer(store, &mockEngine{}, nil), http.MethodGet, "/api/v1/favorites/user/1", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}
