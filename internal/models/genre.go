// CineNiche - Movie Catalog and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cineniche

package models

import "strings"

// genreLabels is the admin-facing genre vocabulary, in display order.
var genreLabels = []string{
	"Action", "Adventure", "Anime", "British TV", "Children",
	"Comedy", "Crime", "Documentary", "Docuseries", "Drama",
	"Family", "Fantasy", "Horror", "International", "Musical",
	"Nature", "Reality TV", "Romance", "Spirituality",
	"Talk Show", "Thriller",
}

// GenreLabels returns the genre labels offered to catalog editors.
// The returned slice is a copy.
func GenreLabels() []string {
	out := make([]string, len(genreLabels))
	copy(out, genreLabels)
	return out
}

// direct maps a normalized label or alias to the flags it always sets.
var direct = map[string][]Category{
	"action":        {CategoryAction, CategoryTVAction},
	"adventure":     {CategoryAdventure},
	"anime":         {CategoryAnimeSeriesInternationalTVShows},
	"anime series":  {CategoryAnimeSeriesInternationalTVShows},
	"british":       {CategoryBritishTVShowsDocuseriesInternationalTVShows},
	"british tv":    {CategoryBritishTVShowsDocuseriesInternationalTVShows},
	"children":      {CategoryChildren, CategoryKidsTV},
	"kids":          {CategoryChildren, CategoryKidsTV},
	"comedy":        {CategoryComedies, CategoryTVComedies},
	"comedies":      {CategoryComedies, CategoryTVComedies},
	"crime":         {CategoryCrimeTVShowsDocuseries},
	"documentary":   {CategoryDocumentaries},
	"documentaries": {CategoryDocumentaries},
	"docuseries":    {CategoryDocuseries},
	"drama":         {CategoryDramas, CategoryTVDramas},
	"dramas":        {CategoryDramas, CategoryTVDramas},
	"family":        {CategoryFamilyMovies},
	"fantasy":       {CategoryFantasy},
	"horror":        {CategoryHorrorMovies},
	"musical":       {CategoryMusicals},
	"musicals":      {CategoryMusicals},
	"nature":        {CategoryNatureTV},
	"reality":       {CategoryRealityTV},
	"reality tv":    {CategoryRealityTV},
	"spiritual":     {CategorySpirituality},
	"spirituality":  {CategorySpirituality},
	"talk show":     {CategoryTalkShowsTVComedies},
	"talk shows":    {CategoryTalkShowsTVComedies},
	"thriller":      {CategoryThrillers},
	"thrillers":     {CategoryThrillers},
}

// ResolveGenres converts editor genre labels into catalog flags.
//
// Most labels map directly. "International" and "Romance" are qualifiers:
// they only set the combined flags that pair them with another selected
// genre (e.g. International + Comedy sets Comedies_International_Movies).
// Unknown labels are ignored.
func ResolveGenres(labels []string) CategorySet {
	selected := make(map[string]bool, len(labels))
	for _, l := range labels {
		selected[strings.ToLower(strings.TrimSpace(l))] = true
	}
	hasAny := func(keys ...string) bool {
		for _, k := range keys {
			if selected[k] {
				return true
			}
		}
		return false
	}

	var set CategorySet
	for label := range selected {
		for _, c := range direct[label] {
			set = set.Add(c)
		}
	}

	comedy := hasAny("comedy", "comedies")
	drama := hasAny("drama", "dramas")

	if selected["international"] {
		if comedy {
			set = set.Add(CategoryComediesInternationalMovies)
		}
		if drama {
			set = set.Add(CategoryDramasInternationalMovies)
		}
		if hasAny("documentary", "documentaries") {
			set = set.Add(CategoryDocumentariesInternationalMovies)
		}
		if hasAny("thriller", "thrillers") {
			set = set.Add(CategoryInternationalMoviesThrillers)
		}
	}

	if hasAny("romance", "romantic") {
		if comedy {
			set = set.Add(CategoryComediesRomanticMovies)
		}
		if drama {
			set = set.Add(CategoryDramasRomanticMovies)
		}
	}

	if selected["international"] && selected["romance"] && drama {
		set = set.Add(CategoryInternationalTVShowsRomanticTVShowsTVDramas)
	}
	if selected["international"] && comedy && drama {
		set = set.Add(CategoryComediesDramasInternationalMovies)
	}

	return set
}

// qualifiers are labels that only combine with other genres.
var qualifiers = map[string]bool{"international": true, "romance": true, "romantic": true}

// IsGenreLabel reports whether ResolveGenres understands label, either as
// a genre, an alias or a qualifier. Matching ignores case and
// surrounding space.
func IsGenreLabel(label string) bool {
	key := strings.ToLower(strings.TrimSpace(label))
	_, ok := direct[key]
	return ok || qualifiers[key]
}
