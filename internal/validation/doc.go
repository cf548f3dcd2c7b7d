// CineNiche - Movie Catalog and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cineniche

/*
Package validation provides struct validation using go-playground/validator v10.

A single validator instance is created on first use with
WithRequiredStructEnabled, so struct metadata is cached across requests.
Field names in messages come from the json, query or path tag, which lets
API clients match an error to the parameter they sent.

# Custom Tags

	showid       non-empty catalog id, at most 64 bytes, no whitespace
	duration     "95 min", "1h 30min", "2 hr 5 min" or "3 Seasons"
	genre        a label from models.GenreLabels, case-insensitive
	releaseyear  1888 through five years past the current year

# Usage

	type similarQuery struct {
	    MovieID string `path:"id" validate:"showid"`
	    Count   int    `query:"count" validate:"min=0,max=100"`
	}

	if verr := validation.ValidateStruct(&q); verr != nil {
	    apiErr := verr.ToAPIError()
	    // respond 400 with apiErr.Code (VALIDATION_FAILED) and apiErr.Message
	}

Bounds that depend on configuration, such as the maximum count, are
checked by callers with the same error shape.
*/
package validation
