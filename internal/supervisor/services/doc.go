// CineNiche - Movie Catalog and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cineniche

// Package services adapts server components to suture.Service.
//
//   - HTTPServerService: ListenAndServe with graceful Shutdown
//   - ImportService: the legacy SQLite import, at startup and on request
//   - CheckpointService: periodic DuckDB CHECKPOINT
//
// Each wrapper depends on a small interface rather than the concrete
// component, so tests drive it with fakes.
package services
