// OtakuLog - Social Anime Review and Discovery Platform
// Copyright 2026 Mei K. (otakulog)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/otakulog/otakulog

package models

import (
	"github.com/otakulog/otakulog/internal/models/anilist"
)

// SearchResponse is the success envelope for POST /api/v1/anime/search.
// Results preserve the upstream popularity order and never exceed 12 items.
// An empty slice is a valid response for a query with no matches.
type SearchResponse struct {
	Results []anilist.Media `json:"results"`
}

// RecommendResponse is the success envelope for POST /api/v1/anime/recommend.
// Recommendations are ranked by the scoring pipeline and capped at 18 items.
type RecommendResponse struct {
	Recommendations []anilist.Media `json:"recommendations"`
}

// ErrorResponse is the error envelope returned with 4xx/5xx statuses.
// Code carries a machine-readable error class; Error is the human-readable
// message. Upstream error details are logged server-side, never exposed here.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// Error codes used in ErrorResponse.Code.
const (
	CodeValidationError  = "VALIDATION_ERROR"
	CodeUpstreamError    = "UPSTREAM_ERROR"
	CodeNotFound         = "NOT_FOUND"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeRateLimited      = "RATE_LIMITED"
)

// HealthResponse is returned by the health endpoints.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version,omitempty"`
}
