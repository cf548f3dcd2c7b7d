// CineNiche - Movie Catalog and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cineniche

package models

import (
	"fmt"
	"math/bits"
	"strings"

	"github.com/goccy/go-json"
)

// Category is one genre flag of the movies_titles catalog table.
// The String form is the column name.
type Category uint8

const (
	CategoryAction Category = iota
	CategoryAdventure
	CategoryAnimeSeriesInternationalTVShows
	CategoryBritishTVShowsDocuseriesInternationalTVShows
	CategoryChildren
	CategoryComedies
	CategoryComediesDramasInternationalMovies
	CategoryComediesInternationalMovies
	CategoryComediesRomanticMovies
	CategoryCrimeTVShowsDocuseries
	CategoryDocumentaries
	CategoryDocumentariesInternationalMovies
	CategoryDocuseries
	CategoryDramas
	CategoryDramasInternationalMovies
	CategoryDramasRomanticMovies
	CategoryFamilyMovies
	CategoryFantasy
	CategoryHorrorMovies
	CategoryInternationalMoviesThrillers
	CategoryInternationalTVShowsRomanticTVShowsTVDramas
	CategoryKidsTV
	CategoryLanguageTVShows
	CategoryMusicals
	CategoryNatureTV
	CategoryRealityTV
	CategorySpirituality
	CategoryTVAction
	CategoryTVComedies
	CategoryTVDramas
	CategoryTalkShowsTVComedies
	CategoryThrillers

	numCategories
)

var categoryColumns = [numCategories]string{
	CategoryAction:                                       "Action",
	CategoryAdventure:                                    "Adventure",
	CategoryAnimeSeriesInternationalTVShows:              "Anime_Series_International_TV_Shows",
	CategoryBritishTVShowsDocuseriesInternationalTVShows: "British_TV_Shows_Docuseries_International_TV_Shows",
	CategoryChildren:                                     "Children",
	CategoryComedies:                                     "Comedies",
	CategoryComediesDramasInternationalMovies:            "Comedies_Dramas_International_Movies",
	CategoryComediesInternationalMovies:                  "Comedies_International_Movies",
	CategoryComediesRomanticMovies:                       "Comedies_Romantic_Movies",
	CategoryCrimeTVShowsDocuseries:                       "Crime_TV_Shows_Docuseries",
	CategoryDocumentaries:                                "Documentaries",
	CategoryDocumentariesInternationalMovies:             "Documentaries_International_Movies",
	CategoryDocuseries:                                   "Docuseries",
	CategoryDramas:                                       "Dramas",
	CategoryDramasInternationalMovies:                    "Dramas_International_Movies",
	CategoryDramasRomanticMovies:                         "Dramas_Romantic_Movies",
	CategoryFamilyMovies:                                 "Family_Movies",
	CategoryFantasy:                                      "Fantasy",
	CategoryHorrorMovies:                                 "Horror_Movies",
	CategoryInternationalMoviesThrillers:                 "International_Movies_Thrillers",
	CategoryInternationalTVShowsRomanticTVShowsTVDramas:  "International_TV_Shows_Romantic_TV_Shows_TV_Dramas",
	CategoryKidsTV:                                       "Kids_TV",
	CategoryLanguageTVShows:                              "Language_TV_Shows",
	CategoryMusicals:                                     "Musicals",
	CategoryNatureTV:                                     "Nature_TV",
	CategoryRealityTV:                                    "Reality_TV",
	CategorySpirituality:                                 "Spirituality",
	CategoryTVAction:                                     "TV_Action",
	CategoryTVComedies:                                   "TV_Comedies",
	CategoryTVDramas:                                     "TV_Dramas",
	CategoryTalkShowsTVComedies:                          "Talk_Shows_TV_Comedies",
	CategoryThrillers:                                    "Thrillers",
}

// AllCategories returns every category in column order.
func AllCategories() []Category {
	all := make([]Category, numCategories)
	for i := range all {
		all[i] = Category(i)
	}
	return all
}

// String returns the catalog column name of the category.
func (c Category) String() string {
	if c >= numCategories {
		return fmt.Sprintf("Category(%d)", uint8(c))
	}
	return categoryColumns[c]
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	return c < numCategories
}

// ParseCategory looks up a category by its column name, ignoring case.
func ParseCategory(name string) (Category, error) {
	name = strings.TrimSpace(name)
	for i, col := range categoryColumns {
		if strings.EqualFold(col, name) {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", name)
}

// CategorySet is the set of active genre flags on a movie.
// The zero value is the empty set.
type CategorySet uint64

// NewCategorySet builds a set from the given categories.
func NewCategorySet(cats ...Category) CategorySet {
	var s CategorySet
	for _, c := range cats {
		s = s.Add(c)
	}
	return s
}

// Add returns s with c included. Invalid categories are ignored.
func (s CategorySet) Add(c Category) CategorySet {
	if !c.Valid() {
		return s
	}
	return s | 1<<c
}

// Has reports whether c is in the set.
func (s CategorySet) Has(c Category) bool {
	return c.Valid() && s&(1<<c) != 0
}

// Len returns the number of categories in the set.
func (s CategorySet) Len() int {
	return bits.OnesCount64(uint64(s))
}

// IsEmpty reports whether no category is set.
func (s CategorySet) IsEmpty() bool {
	return s == 0
}

// Intersect returns the categories present in both sets.
func (s CategorySet) Intersect(other CategorySet) CategorySet {
	return s & other
}

// Union returns the categories present in either set.
func (s CategorySet) Union(other CategorySet) CategorySet {
	return s | other
}

// Categories lists the members in column order.
func (s CategorySet) Categories() []Category {
	out := make([]Category, 0, s.Len())
	for c := Category(0); c < numCategories; c++ {
		if s.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

// Names lists the column names of the members in column order.
func (s CategorySet) Names() []string {
	cats := s.Categories()
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = c.String()
	}
	return names
}

// MarshalJSON encodes the set as a list of column names.
func (s CategorySet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Names())
}

// UnmarshalJSON decodes a list of column names.
func (s *CategorySet) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	var set CategorySet
	for _, n := range names {
		c, err := ParseCategory(n)
		if err != nil {
			return err
		}
		set = set.Add(c)
	}
	*s = set
	return nil
}
