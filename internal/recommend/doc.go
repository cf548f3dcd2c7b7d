// CineNiche - Movie Catalog and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cineniche

// Package recommend implements the movie recommendation engine.
//
// # Operations
//
// The engine exposes three read-only operations:
//
//   - ContentBased: ranks every other catalog title by the Jaccard
//     similarity of its genre flags to the target title.
//   - Hybrid: over-fetches the content-based list and moves titles the
//     user has already rated to the front, keeping similarity order
//     within each group.
//   - CollaborativeMovieIDs: looks up a user's top predicted titles in a
//     table produced offline by a collaborative-filtering model.
//
// # Ordering
//
// Content-based ties are broken by show id ascending so results are
// deterministic for a fixed catalog. Collaborative ties keep the order
// of the source table.
//
// # Data
//
// Catalog and rating data come from MovieStore and RatingStore and are
// read fresh on every call; the engine does not cache. The collaborative
// table is parsed once by LoadCollaborativeTable and handed to NewEngine.
// A missing or malformed table is a construction error, and the server
// refuses to start without one.
//
// # Usage
//
//	table, err := recommend.LoadCollaborativeTable("SeedData/collab.csv")
//	if err != nil {
//	    return err
//	}
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), db, db, table, logger)
//	if err != nil {
//	    return err
//	}
//	similar, err := engine.Hybrid(ctx, "s42", &userID, 10)
//
// # Thread Safety
//
// All operations are safe for concurrent use. The only shared mutable
// state is a set of atomic request counters.
package recommend
