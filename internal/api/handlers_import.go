// CineNiche - Movie Catalog and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cineniche

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/cineniche/internal/legacyimport"
	"github.com/tomtom215/cineniche/internal/logging"
)

// ImportStatus handles GET /api/v1/import/status.
func (h *Handler) ImportStatus(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(h.importer.Summary())
}

// StartImport handles POST /api/v1/import/start. The run is queued on the
// supervised import service, which ties it to the server's lifetime; the
// response is 202 with the current status, or 409 when an import is
// already running.
func (h *Handler) StartImport(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if err := h.importer.Start(); err != nil {
		if errors.Is(err, legacyimport.ErrImportRunning) {
			rw.ErrorWithDetails(http.StatusConflict, ErrCodeConflict, "Import already in progress", h.importer.Summary())
			return
		}
		rw.InternalError("Failed to start import")
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to start import")
		return
	}
	logging.Ctx(r.Context()).Info().Msg("Legacy import requested")

	rw.writeJSON(http.StatusAccepted, APIResponse{
		Success: true,
		Data:    h.importer.Summary(),
		Meta:    rw.meta(),
	})
}

// StopImport handles POST /api/v1/import/stop.
func (h *Handler) StopImport(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if err := h.importer.Stop(); err != nil {
		if errors.Is(err, legacyimport.ErrNotRunning) {
			rw.Conflict("No import in progress")
			return
		}
		rw.InternalError(err.Error())
		return
	}
	rw.Success(h.importer.Summary())
}

// ResetImport handles DELETE /api/v1/import/progress, discarding the
// checkpoint so the next import starts from the beginning.
func (h *Handler) ResetImport(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	ctx, cancel := h.requestContext(r)
	defer cancel()

	if err := h.importer.Reset(ctx); err != nil {
		if errors.Is(err, legacyimport.ErrImportRunning) {
			rw.Conflict("Cannot reset progress while an import is running")
			return
		}
		rw.InternalError("Failed to clear import progress")
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to clear import progress")
		return
	}
	rw.NoContent()
}
