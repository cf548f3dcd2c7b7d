// CineNiche - Movie Catalog and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cineniche

package recommend

import (
	"sort"

	"github.com/tomtom215/cineniche/internal/models"
)

// Jaccard returns |a ∩ b| / |a ∪ b| for two category sets.
// It is 0 when either set is empty.
func Jaccard(a, b models.CategorySet) float64 {
	if a.IsEmpty() || b.IsEmpty() {
		return 0
	}
	union := a.Union(b).Len()
	if union == 0 {
		return 0
	}
	return float64(a.Intersect(b).Len()) / float64(union)
}

// scoredMovie pairs a candidate with its similarity to the target.
type scoredMovie struct {
	movie models.Movie
	score float64
}

// rankBySimilarity scores every candidate against target and sorts by
// score descending, then ShowID ascending for ties.
func rankBySimilarity(target models.CategorySet, candidates []models.Movie) []scoredMovie {
	scored := make([]scoredMovie, len(candidates))
	for i := range candidates {
		scored[i] = scoredMovie{
			movie: candidates[i],
			score: Jaccard(target, candidates[i].Categories),
		}
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].movie.ShowID < scored[j].movie.ShowID
	})

	return scored
}
