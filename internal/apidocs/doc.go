// CineNiche - Movie Catalog and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cineniche

// Package apidocs registers the OpenAPI (Swagger 2.0) document for the
// HTTP API with swag, where http-swagger serves it at /swagger/doc.json.
//
// swagger.json is kept next to the handlers it describes: a route added
// in internal/api/router.go needs an entry here as well.
package apidocs
