// OtakuLog - Social Anime Review and Discovery Platform
// Copyright 2026 Mei K. (otakulog)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/otakulog/otakulog

// Package api provides the HTTP handlers and routing for the discovery
// service: catalog search, recommendations, and health probes.
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/otakulog/otakulog/internal/catalog"
	"github.com/otakulog/otakulog/internal/config"
	"github.com/otakulog/otakulog/internal/logging"
	"github.com/otakulog/otakulog/internal/models"
	"github.com/otakulog/otakulog/internal/models/anilist"
	"github.com/otakulog/otakulog/internal/recommend"
	"github.com/otakulog/otakulog/internal/validation"
)

// Recommender produces a ranked recommendation list from a taste profile.
// Implemented by recommend.Engine; mocked in tests.
type Recommender interface {
	Recommend(ctx context.Context, prefs recommend.TastePreferences) ([]anilist.Media, error)
}

// UpstreamReporter is implemented by catalog clients that expose circuit
// breaker health for readiness probing.
type UpstreamReporter interface {
	UpstreamHealthy() bool
}

// Handler holds the dependencies for all HTTP handlers.
type Handler struct {
	cfg      *config.Config
	searcher catalog.Searcher
	engine   Recommender
}

// NewHandler creates a Handler with its collaborators injected.
func NewHandler(cfg *config.Config, searcher catalog.Searcher, engine Recommender) *Handler {
	return &Handler{
		cfg:      cfg,
		searcher: searcher,
		engine:   engine,
	}
}

// SearchAnime handles POST /api/v1/anime/search. It forwards a free-text
// query to the catalog and returns up to 12 popularity-ranked results.
// An empty or whitespace-only query is rejected before any upstream call.
func (h *Handler) SearchAnime(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, models.CodeValidationError, "Invalid request body", err)
		return
	}

	if strings.TrimSpace(req.Query) == "" {
		respondError(w, http.StatusBadRequest, models.CodeValidationError, "Search query is required", nil)
		return
	}

	results, err := h.searcher.Search(r.Context(), req.Query)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("catalog search failed")
		respondError(w, http.StatusInternalServerError, models.CodeUpstreamError, "Failed to search anime", nil)
		return
	}

	respondJSON(w, http.StatusOK, &models.SearchResponse{Results: results})
}

// RecommendAnime handles POST /api/v1/anime/recommend. It validates the
// taste profile, runs the recommendation engine, and returns the ranked
// top 18. An empty favorites set is rejected before any upstream call;
// zero candidates is a valid empty success.
func (h *Handler) RecommendAnime(w http.ResponseWriter, r *http.Request) {
	var req RecommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, models.CodeValidationError, "Invalid request body", err)
		return
	}

	if len(req.Favorites) == 0 {
		respondError(w, http.StatusBadRequest, models.CodeValidationError, "Please select at least one favorite anime", nil)
		return
	}

	if verr := validation.ValidateStruct(&req); verr != nil {
		respondError(w, http.StatusBadRequest, models.CodeValidationError, verr.Error(), nil)
		return
	}

	recommendations, err := h.engine.Recommend(r.Context(), req.tastePreferences())
	if err != nil {
		if errors.Is(err, recommend.ErrNoFavorites) {
			respondError(w, http.StatusBadRequest, models.CodeValidationError, "Please select at least one favorite anime", nil)
			return
		}
		logging.Ctx(r.Context()).Error().Err(err).Msg("recommendation failed")
		respondError(w, http.StatusInternalServerError, models.CodeUpstreamError, "Failed to get recommendations", nil)
		return
	}

	respondJSON(w, http.StatusOK, &models.RecommendResponse{Recommendations: recommendations})
}

// HealthLive handles GET /api/v1/health/live. Liveness means the process
// is up and serving; it never probes collaborators.
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, &models.HealthResponse{
		Status:  "ok",
		Service: "otakulog-discovery",
	})
}

// HealthReady handles GET /api/v1/health/ready. The service is stateless,
// so readiness confirms configuration is loaded and, when the catalog
// client exposes breaker state, that the breaker is not open. An open
// breaker means every catalog-backed request would fail fast, so the
// instance reports itself degraded until the breaker recovers.
func (h *Handler) HealthReady(w http.ResponseWriter, _ *http.Request) {
	if h.cfg == nil {
		respondJSON(w, http.StatusServiceUnavailable, &models.HealthResponse{
			Status:  "unavailable",
			Service: "otakulog-discovery",
		})
		return
	}

	if reporter, ok := h.searcher.(UpstreamReporter); ok && !reporter.UpstreamHealthy() {
		respondJSON(w, http.StatusServiceUnavailable, &models.HealthResponse{
			Status:  "degraded",
			Service: "otakulog-discovery",
		})
		return
	}

	respondJSON(w, http.StatusOK, &models.HealthResponse{
		Status:  "ok",
		Service: "otakulog-discovery",
	})
}
