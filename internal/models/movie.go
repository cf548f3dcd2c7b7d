// CineNiche - Movie Catalog and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cineniche

package models

import (
	"regexp"
	"strconv"
)

// Movie is a catalog title (movie or TV show) from movies_titles.
//
// Descriptive fields are nullable in the source data and are kept as
// plain strings here; an empty string means "not set". Categories is
// derived from the per-genre flag columns when the row is loaded.
type Movie struct {
	ShowID      string      `json:"show_id"`
	Type        string      `json:"type,omitempty"`
	Title       string      `json:"title,omitempty"`
	Director    string      `json:"director,omitempty"`
	Cast        string      `json:"cast,omitempty"`
	Country     string      `json:"country,omitempty"`
	ReleaseYear int         `json:"release_year,omitempty"`
	Rating      string      `json:"rating,omitempty"` // content rating, e.g. "PG-13"
	Duration    string      `json:"duration,omitempty"`
	Description string      `json:"description,omitempty"`
	Categories  CategorySet `json:"categories"`
}

var (
	hoursPattern   = regexp.MustCompile(`(?i)(\d+)\s*(?:h|hr|hrs|hour|hours)\b`)
	minutesPattern = regexp.MustCompile(`(?i)(\d+)\s*(?:m|min|mins|minute|minutes)\b`)
)

// RuntimeMinutes parses Duration into minutes. It understands "90 min",
// "1h 30min", "1 hr 30 min" and "2 h". Season counts and anything else
// it cannot read return nil.
func (m *Movie) RuntimeMinutes() *int {
	return ParseRuntime(m.Duration)
}

// ParseRuntime converts a free-text duration into minutes.
func ParseRuntime(duration string) *int {
	if duration == "" {
		return nil
	}

	total := 0
	matched := false

	if h := hoursPattern.FindStringSubmatch(duration); h != nil {
		n, err := strconv.Atoi(h[1])
		if err == nil {
			total += n * 60
			matched = true
		}
	}
	if mm := minutesPattern.FindStringSubmatch(duration); mm != nil {
		n, err := strconv.Atoi(mm[1])
		if err == nil {
			total += n
			matched = true
		}
	}

	if !matched {
		return nil
	}
	return &total
}

// Rating is one user's rating of one title. (UserID, ShowID) is unique.
type Rating struct {
	UserID int      `json:"user_id"`
	ShowID string   `json:"show_id"`
	Value  *float64 `json:"rating"`
	Review string   `json:"review,omitempty"`
}
