// CineNiche - Movie Catalog and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cineniche

package api

import (
	"github.com/tomtom215/cineniche/internal/models"
)

// MovieTitle is the API view of a catalog title.
type MovieTitle struct {
	ShowID         string             `json:"show_id"`
	Type           string             `json:"type,omitempty"`
	Title          string             `json:"title,omitempty"`
	Director       string             `json:"director,omitempty"`
	Cast           string             `json:"cast,omitempty"`
	Country        string             `json:"country,omitempty"`
	ReleaseYear    int                `json:"release_year,omitempty"`
	Rating         string             `json:"rating,omitempty"`
	Duration       string             `json:"duration,omitempty"`
	Description    string             `json:"description,omitempty"`
	Categories     models.CategorySet `json:"categories"`
	RuntimeMinutes *int               `json:"runtime_minutes"`
}

func newMovieTitle(m *models.Movie) MovieTitle {
	return MovieTitle{
		ShowID:         m.ShowID,
		Type:           m.Type,
		Title:          m.Title,
		Director:       m.Director,
		Cast:           m.Cast,
		Country:        m.Country,
		ReleaseYear:    m.ReleaseYear,
		Rating:         m.Rating,
		Duration:       m.Duration,
		Description:    m.Description,
		Categories:     m.Categories,
		RuntimeMinutes: m.RuntimeMinutes(),
	}
}

func newMovieTitles(movies []models.Movie) []MovieTitle {
	out := make([]MovieTitle, len(movies))
	for i := range movies {
		out[i] = newMovieTitle(&movies[i])
	}
	return out
}

// GenresUpdate is returned after a movie's genres change.
type GenresUpdate struct {
	ShowID     string             `json:"show_id"`
	Categories models.CategorySet `json:"categories"`
}

// AverageRating is the mean rating of one movie.
type AverageRating struct {
	ShowID        string  `json:"show_id"`
	AverageRating float64 `json:"average_rating"`
}

// emptyIfNil keeps list responses as [] rather than null.
func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
