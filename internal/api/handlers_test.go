// OtakuLog - Social Anime Review and Discovery Platform
// Copyright 2026 Mei K. (otakulog)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/otakulog/otakulog

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/otakulog/otakulog/internal/catalog"
	"github.com/otakulog/otakulog/internal/config"
	"github.com/otakulog/otakulog/internal/models"
	"github.com/otakulog/otakulog/internal/models/anilist"
	"github.com/otakulog/otakulog/internal/recommend"
)

// mockSearcher implements catalog.Searcher with canned results.
type mockSearcher struct {
	calls   int
	query   string
	results []anilist.Media
	err     error
}

func (m *mockSearcher) Search(_ context.Context, query string) ([]anilist.Media, error) {
	m.calls++
	m.query = query
	return m.results, m.err
}

// mockRecommender implements Recommender with canned results.
type mockRecommender struct {
	calls   int
	prefs   recommend.TastePreferences
	results []anilist.Media
	err     error
}

func (m *mockRecommender) Recommend(_ context.Context, prefs recommend.TastePreferences) ([]anilist.Media, error) {
	m.calls++
	m.prefs = prefs
	return m.results, m.err
}

func newTestHandler(searcher *mockSearcher, recommender *mockRecommender) *Handler {
	return NewHandler(&config.Config{}, searcher, recommender)
}

func titled(id int, romaji string) anilist.Media {
	return anilist.Media{ID: id, Title: anilist.MediaTitle{Romaji: &romaji}}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()

	var body models.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error envelope: %v (body %q)", err, rec.Body.String())
	}
	return body
}

func TestSearchAnimeSuccess(t *testing.T) {
	t.Parallel()

	searcher := &mockSearcher{results: []anilist.Media{titled(1, "Cowboy Bebop")}}
	handler := newTestHandler(searcher, &mockRecommender{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/anime/search",
		strings.NewReader(`{"query":"cowboy bebop"}`))
	rec := httptest.NewRecorder()

	handler.SearchAnime(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %q)", rec.Code, rec.Body.String())
	}
	if searcher.query != "cowboy bebop" {
		t.Errorf("forwarded query = %q, want %q", searcher.query, "cowboy bebop")
	}

	var body models.SearchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Results) != 1 || body.Results[0].ID != 1 {
		t.Errorf("unexpected results: %+v", body.Results)
	}
}

func TestSearchAnimeEmptyQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "missing query", body: `{}`},
		{name: "empty query", body: `{"query":""}`},
		{name: "whitespace query", body: `{"query":"   "}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			searcher := &mockSearcher{}
			handler := newTestHandler(searcher, &mockRecommender{})

			req := httptest.NewRequest(http.MethodPost, "/api/v1/anime/search", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			handler.SearchAnime(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			if searcher.calls != 0 {
				t.Errorf("expected no upstream calls, got %d", searcher.calls)
			}
			if body := decodeError(t, rec); body.Code != models.CodeValidationError {
				t.Errorf("code = %q, want %q", body.Code, models.CodeValidationError)
			}
		})
	}
}

func TestSearchAnimeMalformedBody(t *testing.T) {
	t.Parallel()

	handler := newTestHandler(&mockSearcher{}, &mockRecommender{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/anime/search", strings.NewReader(`{"query":`))
	rec := httptest.NewRecorder()

	handler.SearchAnime(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSearchAnimeUpstreamFailure(t *testing.T) {
	t.Parallel()

	searcher := &mockSearcher{err: catalog.ErrUpstream}
	handler := newTestHandler(searcher, &mockRecommender{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/anime/search",
		strings.NewReader(`{"query":"cowboy bebop"}`))
	rec := httptest.NewRecorder()

	handler.SearchAnime(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}

	body := decodeError(t, rec)
	if body.Code != models.CodeUpstreamError {
		t.Errorf("code = %q, want %q", body.Code, models.CodeUpstreamError)
	}
	// The client-facing message must not leak upstream details.
	if strings.Contains(strings.ToLower(body.Error), "upstream") {
		t.Errorf("error message leaks upstream details: %q", body.Error)
	}
}

func TestSearchAnimeEmptyResults(t *testing.T) {
	t.Parallel()

	searcher := &mockSearcher{results: []anilist.Media{}}
	handler := newTestHandler(searcher, &mockRecommender{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/anime/search",
		strings.NewReader(`{"query":"zzzz nonexistent"}`))
	rec := httptest.NewRecorder()

	handler.SearchAnime(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"results":[]`) {
		t.Errorf("expected empty results array, got %q", rec.Body.String())
	}
}

func TestRecommendAnimeSuccess(t *testing.T) {
	t.Parallel()

	recommender := &mockRecommender{results: []anilist.Media{titled(42, "Monster")}}
	handler := newTestHandler(&mockSearcher{}, recommender)

	reqBody := `{
		"favorites": [{"id": 7, "genres": ["Action"], "studios": {"nodes": [{"name": "MAPPA"}]}}],
		"genres": ["Drama"],
		"yearRange": {"start": 2000, "end": 2024},
		"episodePreference": "medium",
		"status": "FINISHED"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/anime/recommend", strings.NewReader(reqBody))
	rec := httptest.NewRecorder()

	handler.RecommendAnime(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %q)", rec.Code, rec.Body.String())
	}

	prefs := recommender.prefs
	if len(prefs.Favorites) != 1 || prefs.Favorites[0].ID != 7 {
		t.Errorf("favorites = %+v, want one favorite with ID 7", prefs.Favorites)
	}
	if len(prefs.Favorites[0].Studios) != 1 || prefs.Favorites[0].Studios[0] != "MAPPA" {
		t.Errorf("studios = %v, want [MAPPA]", prefs.Favorites[0].Studios)
	}
	if prefs.Years.Start != 2000 || prefs.Years.End != 2024 {
		t.Errorf("years = %+v, want 2000-2024", prefs.Years)
	}
	if prefs.Episodes != recommend.EpisodesMedium {
		t.Errorf("episodes = %q, want medium", prefs.Episodes)
	}
	if prefs.Status != recommend.StatusFinished {
		t.Errorf("status = %q, want FINISHED", prefs.Status)
	}

	var body models.RecommendResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Recommendations) != 1 || body.Recommendations[0].ID != 42 {
		t.Errorf("unexpected recommendations: %+v", body.Recommendations)
	}
}

func TestRecommendAnimeDefaultsPreferences(t *testing.T) {
	t.Parallel()

	recommender := &mockRecommender{}
	handler := newTestHandler(&mockSearcher{}, recommender)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/anime/recommend",
		strings.NewReader(`{"favorites":[{"id":7}]}`))
	rec := httptest.NewRecorder()

	handler.RecommendAnime(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %q)", rec.Code, rec.Body.String())
	}
	if recommender.prefs.Episodes != recommend.EpisodesAny {
		t.Errorf("episodes = %q, want any", recommender.prefs.Episodes)
	}
	if recommender.prefs.Status != recommend.StatusAny {
		t.Errorf("status = %q, want any", recommender.prefs.Status)
	}
	if !recommender.prefs.Years.IsZero() {
		t.Errorf("years = %+v, want zero (engine applies the default)", recommender.prefs.Years)
	}
}

func TestRecommendAnimeEmptyFavorites(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "missing favorites", body: `{}`},
		{name: "empty favorites", body: `{"favorites":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			recommender := &mockRecommender{}
			handler := newTestHandler(&mockSearcher{}, recommender)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/anime/recommend", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			handler.RecommendAnime(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			if recommender.calls != 0 {
				t.Errorf("expected no engine calls, got %d", recommender.calls)
			}
			if body := decodeError(t, rec); body.Code != models.CodeValidationError {
				t.Errorf("code = %q, want %q", body.Code, models.CodeValidationError)
			}
		})
	}
}

func TestRecommendAnimeInvalidPreferenceValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "bad episode preference", body: `{"favorites":[{"id":7}],"episodePreference":"epic"}`},
		{name: "bad status", body: `{"favorites":[{"id":7}],"status":"PAUSED"}`},
		{name: "end year before start", body: `{"favorites":[{"id":7}],"yearRange":{"start":2024,"end":2000}}`},
		{name: "year range start only", body: `{"favorites":[{"id":7}],"yearRange":{"start":2000}}`},
		{name: "year range end only", body: `{"favorites":[{"id":7}],"yearRange":{"end":2020}}`},
		{name: "favorite without id", body: `{"favorites":[{"genres":["Action"]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			recommender := &mockRecommender{}
			handler := newTestHandler(&mockSearcher{}, recommender)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/anime/recommend", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			handler.RecommendAnime(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400 (body %q)", rec.Code, rec.Body.String())
			}
			if recommender.calls != 0 {
				t.Errorf("expected no engine calls, got %d", recommender.calls)
			}
		})
	}
}

func TestRecommendAnimeUpstreamFailure(t *testing.T) {
	t.Parallel()

	recommender := &mockRecommender{err: errors.New("fetch candidates: " + catalog.ErrUpstream.Error())}
	handler := newTestHandler(&mockSearcher{}, recommender)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/anime/recommend",
		strings.NewReader(`{"favorites":[{"id":7}]}`))
	rec := httptest.NewRecorder()

	handler.RecommendAnime(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if body := decodeError(t, rec); body.Code != models.CodeUpstreamError {
		t.Errorf("code = %q, want %q", body.Code, models.CodeUpstreamError)
	}
}

func TestRecommendAnimeEmptyResult(t *testing.T) {
	t.Parallel()

	recommender := &mockRecommender{results: []anilist.Media{}}
	handler := newTestHandler(&mockSearcher{}, recommender)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/anime/recommend",
		strings.NewReader(`{"favorites":[{"id":7}]}`))
	rec := httptest.NewRecorder()

	handler.RecommendAnime(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"recommendations":[]`) {
		t.Errorf("expected empty recommendations array, got %q", rec.Body.String())
	}
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()

	handler := newTestHandler(&mockSearcher{}, &mockRecommender{})

	rec := httptest.NewRecorder()
	handler.HealthLive(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health/live", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("live status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.HealthReady(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health/ready", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("ready status = %d, want 200", rec.Code)
	}

	unready := NewHandler(nil, &mockSearcher{}, &mockRecommender{})
	rec = httptest.NewRecorder()
	unready.HealthReady(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("unready status = %d, want 503", rec.Code)
	}
}

// reportingSearcher is a mockSearcher that also exposes breaker health.
type reportingSearcher struct {
	mockSearcher
	healthy bool
}

func (r *reportingSearcher) UpstreamHealthy() bool {
	return r.healthy
}

func TestHealthReadyReflectsBreakerState(t *testing.T) {
	t.Parallel()

	healthy := NewHandler(&config.Config{}, &reportingSearcher{healthy: true}, &mockRecommender{})
	rec := httptest.NewRecorder()
	healthy.HealthReady(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health/ready", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("healthy upstream: status = %d, want 200", rec.Code)
	}

	degraded := NewHandler(&config.Config{}, &reportingSearcher{healthy: false}, &mockRecommender{})
	rec = httptest.NewRecorder()
	degraded.HealthReady(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("open breaker: status = %d, want 503", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "degraded") {
		t.Errorf("expected degraded status in body, got %q", rec.Body.String())
	}
}
