// CineNiche - Movie Catalog and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cineniche

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/cineniche/internal/models"
	"github.com/tomtom215/cineniche/internal/validation"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 64 << 10

// movieParams identifies a movie by path.
type movieParams struct {
	MovieID string `path:"id" validate:"showid"`
}

// showParams identifies a movie under /movies/ratings.
type showParams struct {
	ShowID string `path:"showId" validate:"showid"`
}

// similarQuery is GET /movies/titles/{id}/similar.
type similarQuery struct {
	MovieID string `path:"id" validate:"showid"`
	Count   int    `query:"count" validate:"min=0"`
}

// recommendQuery is GET /movies/titles/{id}/recommendations.
type recommendQuery struct {
	MovieID string `path:"id" validate:"showid"`
	UserID  *int   `query:"user_id" validate:"omitempty,min=1"`
	Count   int    `query:"count" validate:"min=0"`
}

// collaborativeQuery is GET /recommendations/collaborative/{userId}.
type collaborativeQuery struct {
	UserID int `path:"userId" validate:"min=1"`
	TopN   int `query:"top_n" validate:"min=0"`
}

// userParams identifies a user by path.
type userParams struct {
	UserID int `path:"userId" validate:"min=1"`
}

// ratingKeyParams is DELETE /ratings/{userId}/{movieId} and the matching
// favorites and watchlist routes.
type ratingKeyParams struct {
	UserID  int    `path:"userId" validate:"min=1"`
	MovieID string `path:"movieId" validate:"showid"`
}

// RatingRequest is the body of POST /ratings.
type RatingRequest struct {
	UserID int      `json:"user_id" validate:"required,min=1"`
	ShowID string   `json:"show_id" validate:"showid"`
	Rating *float64 `json:"rating" validate:"omitempty,gte=1,lte=5"`
	Review string   `json:"review,omitempty" validate:"max=2000"`
}

// MovieRequest is the body of POST /movies/titles and
// PUT /movies/titles/{id}. Genres are labels resolved as for PUT .../genres.
type MovieRequest struct {
	Type        string   `json:"type" validate:"required,oneof=Movie 'TV Show'"`
	Title       string   `json:"title" validate:"required,max=200"`
	Director    string   `json:"director" validate:"max=500"`
	Cast        string   `json:"cast" validate:"max=4000"`
	Country     string   `json:"country" validate:"max=500"`
	ReleaseYear int      `json:"release_year" validate:"omitempty,releaseyear"`
	Rating      string   `json:"rating" validate:"max=16"`
	Duration    string   `json:"duration" validate:"omitempty,duration"`
	Description string   `json:"description" validate:"max=4000"`
	Genres      []string `json:"genres" validate:"max=64,dive,genre"`
}

// normalize trims the free-text fields so a blank title fails required.
func (req *MovieRequest) normalize() {
	for _, f := range []*string{&req.Type, &req.Title, &req.Director, &req.Cast,
		&req.Country, &req.Rating, &req.Duration, &req.Description} {
		*f = strings.TrimSpace(*f)
	}
}

func (req *MovieRequest) toMovie(showID string) models.Movie {
	return models.Movie{
		ShowID:      showID,
		Type:        req.Type,
		Title:       req.Title,
		Director:    req.Director,
		Cast:        req.Cast,
		Country:     req.Country,
		ReleaseYear: req.ReleaseYear,
		Rating:      req.Rating,
		Duration:    req.Duration,
		Description: req.Description,
		Categories:  models.ResolveGenres(req.Genres),
	}
}

// ListEntryRequest is the body of POST /favorites and POST /watchlist.
type ListEntryRequest struct {
	UserID int    `json:"user_id" validate:"required,min=1"`
	ShowID string `json:"show_id" validate:"showid"`
}

// genresRequest wraps the label array sent to PUT .../genres.
type genresRequest struct {
	Genres []string `json:"genres" validate:"max=64,dive,required,max=64"`
}

// invalidParam builds the validation error for a parameter that could not
// be parsed or is out of a configured range.
func invalidParam(field, tag, message string, value interface{}) *validation.APIError {
	return &validation.APIError{
		Code:    validation.CodeValidationFailed,
		Message: message,
		Details: map[string]interface{}{
			"field": field,
			"tag":   tag,
			"value": value,
		},
	}
}

// queryInt reads an optional integer query parameter.
func queryInt(r *http.Request, key string, def int) (int, *validation.APIError) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, invalidParam(key, "int", key+" must be an integer", raw)
	}
	return v, nil
}

// queryOptionalInt reads an integer query parameter that may be absent.
func queryOptionalInt(r *http.Request, key string) (*int, *validation.APIError) {
	if strings.TrimSpace(r.URL.Query().Get(key)) == "" {
		return nil, nil
	}
	v, apiErr := queryInt(r, key, 0)
	if apiErr != nil {
		return nil, apiErr
	}
	return &v, nil
}

// pathInt reads a required integer path parameter.
func pathInt(r *http.Request, key string) (int, *validation.APIError) {
	raw := chi.URLParam(r, key)
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, invalidParam(key, "int", key+" must be an integer", raw)
	}
	return v, nil
}

// checkMax rejects v above a configured ceiling with the same shape as a
// max tag failure.
func checkMax(field string, v, maxValue int) *validation.APIError {
	if v <= maxValue {
		return nil
	}
	return invalidParam(field, "max", fmt.Sprintf("%s must be at most %d", field, maxValue), v)
}

// validate runs struct validation and converts the result.
func validate(v interface{}) *validation.APIError {
	if verr := validation.ValidateStruct(v); verr != nil {
		return verr.ToAPIError()
	}
	return nil
}

// decodeJSON reads a size-capped JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit)
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}
