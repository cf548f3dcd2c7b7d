// CineNiche - Movie Catalog and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cineniche

/*
Package middleware provides HTTP middleware for the API router.

All middleware has the func(http.Handler) http.Handler shape so it plugs
into chi's r.Use:

  - RequestID: honors or assigns X-Request-ID and seeds the logging context
  - PrometheusMetrics: request count, duration and in-flight gauge, labeled
    by chi route pattern
  - AccessLog: one structured log line per request, warning on slow ones

The router installs them in this order:

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(middleware.DefaultSlowRequestThreshold))
	r.Use(chimw.Recoverer)
	r.Use(middleware.PrometheusMetrics)
*/
package middleware
