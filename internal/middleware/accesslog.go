// CineNiche - Movie Catalog and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cineniche

package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cineniche/internal/logging"
)

// DefaultSlowRequestThreshold is the duration above which AccessLog warns.
const DefaultSlowRequestThreshold = time.Second

// AccessLog logs one line per request through the request-scoped logger,
// so request_id and correlation_id are attached when RequestID ran first.
// Normal requests log at debug, slow ones at warn and 5xx responses at error.
func AccessLog(slowThreshold time.Duration) func(http.Handler) http.Handler {
	if slowThreshold <= 0 {
		slowThreshold = DefaultSlowRequestThreshold
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := newStatusRecorder(w)

			next.ServeHTTP(rec, r)

			duration := time.Since(start)
			logger := logging.Ctx(r.Context())

			var event *zerolog.Event
			switch {
			case rec.statusCode >= http.StatusInternalServerError:
				event = logger.Error()
			case duration > slowThreshold:
				event = logger.Warn().Dur("threshold", slowThreshold)
			default:
				event = logger.Debug()
			}

			event.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rec.statusCode).
				Int("bytes", rec.bytes).
				Dur("duration", duration).
				Msg("HTTP request")
		})
	}
}
