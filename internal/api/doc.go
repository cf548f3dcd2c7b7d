// CineNiche - Movie Catalog and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cineniche

/*
Package api exposes the catalog, ratings and recommendation engine over
HTTP using the chi router.

# Routes

All data routes live under /api/v1:

	POST   /movies/titles                            create a movie (201, 409 on a duplicate title)
	GET    /movies/titles/{id}                       movie with runtime_minutes
	PUT    /movies/titles/{id}                       replace every field
	DELETE /movies/titles/{id}                       delete with ratings and list entries
	GET    /movies/titles/{id}/recommendations       hybrid (?user_id=&count=)
	GET    /movies/titles/{id}/similar               content-based (?count=)
	PUT    /movies/titles/{id}/genres                body ["Comedy","Drama"]
	GET    /movies/genres                            genre labels
	GET    /movies/ratings/{showId}                  ratings for a movie
	GET    /movies/ratings/average/{showId}          average rating, 0 when none
	GET    /recommendations/collaborative/{userId}   collaborative (?top_n=)
	GET    /ratings/user/{userId}                    a user's ratings
	POST   /ratings                                  create or update a rating
	DELETE /ratings/{userId}/{movieId}               delete a rating
	GET    /favorites/user/{userId}                  a user's favorites
	POST   /favorites                                add a favorite
	DELETE /favorites/{userId}/{movieId}             remove a favorite

/watchlist has the same three routes as /favorites.

When a legacy importer is configured, /api/v1/import exposes its status
and lets operators start, stop and reset it.

/health, /health/live and /health/ready serve liveness and readiness
checks; /metrics serves Prometheus metrics and /swagger/index.html the
Swagger UI over /swagger/doc.json (see package apidocs).

# Responses

Every JSON response uses the APIResponse envelope:

	{"success": true, "data": {...}, "meta": {"request_id": "...", "timestamp": "...", "duration_ms": 3}}
	{"success": false, "error": {"code": "NOT_FOUND", "message": "..."}, "meta": {...}}

Input problems are 400 VALIDATION_FAILED, conflicting writes are 409
CONFLICT, store faults are 500
DATABASE_ERROR and a handler that runs past its request timeout answers
503 SERVICE_UNAVAILABLE.

# Middleware

Global: request id, chi RealIP and Recoverer, access log. Under /api/v1:
httprate per-IP limiting, security headers and Prometheus request metrics.
*/
package api
