// CineNiche - Movie Catalog and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cineniche

// Package logging provides centralized zerolog-based logging.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json", Timestamp: true})
//
//	logging.Info().Msg("Server starting")
//	logging.Error().Err(err).Msg("Seed failed")
//
//	// With request context (request and correlation IDs)
//	logging.Ctx(ctx).Info().Str("show_id", id).Msg("Similar titles served")
//
// Components receive a zerolog.Logger and derive their own child:
//
//	logger := base.With().Str("component", "recommend").Logger()
//
// # slog Interop
//
// NewSlogLogger returns a *slog.Logger backed by zerolog, used by the
// supervisor's sutureslog event hook.
//
// Always terminate log chains with .Msg() or .Send(); an unterminated
// event is never written.
package logging
