// OtakuLog - Social Anime Review and Discovery Platform
// Copyright 2026 Mei K. (otakulog)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/otakulog/otakulog

// Package recommend implements the anime recommendation engine.
//
// The pipeline is stateless and request-scoped: a taste profile is turned
// into catalog filter parameters, one candidate pool is fetched from the
// catalog, each candidate is scored against the profile, and the ranked
// top slice is returned. Nothing is persisted and invocations are
// independent, so the engine is safe for concurrent use.
//
// Scoring for a candidate:
//
//	score = meanScore (0 if absent)
//	      + 5 per genre shared with the effective genre set
//	      + 10 flat if any studio is shared with any favorite
package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/otakulog/otakulog/internal/catalog"
	"github.com/otakulog/otakulog/internal/metrics"
	"github.com/otakulog/otakulog/internal/models/anilist"
)

// ErrNoFavorites is returned when the taste profile carries no favorites.
// The engine rejects such requests before any upstream call.
var ErrNoFavorites = errors.New("at least one favorite anime is required")

// Scoring weights and the response cap.
const (
	genreMatchWeight = 5
	studioBonus      = 10
	maxResults       = 18
)

// Engine converts taste profiles into ranked recommendation lists.
// It is safe for concurrent use.
type Engine struct {
	catalog catalog.Browser
	logger  zerolog.Logger

	// now is injectable for deterministic year-range defaulting in tests.
	now func() time.Time
}

// NewEngine creates a recommendation engine backed by the given catalog.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(browser catalog.Browser, logger zerolog.Logger) *Engine {
	return &Engine{
		catalog: browser,
		logger:  logger.With().Str("component", "recommend").Logger(),
		now:     time.Now,
	}
}

// Recommend derives filter parameters from the taste profile, fetches one
// candidate pool, scores it, and returns the ranked top 18. A well-formed
// upstream response with zero candidates yields an empty, non-error list.
func (e *Engine) Recommend(ctx context.Context, prefs TastePreferences) ([]anilist.Media, error) {
	if len(prefs.Favorites) == 0 {
		return nil, ErrNoFavorites
	}

	genres := effectiveGenres(prefs.Genres, prefs.Favorites)
	filter := e.buildFilter(prefs, genres)

	candidates, err := e.catalog.Browse(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("fetch candidates: %w", err)
	}

	metrics.RecommendationCandidates.Observe(float64(len(candidates)))

	ranked := rankCandidates(candidates, genres, favoriteStudios(prefs.Favorites))
	if len(ranked) > maxResults {
		ranked = ranked[:maxResults]
	}

	metrics.RecommendationsServed.Inc()
	e.logger.Debug().
		Int("favorites", len(prefs.Favorites)).
		Int("genres", len(genres)).
		Int("candidates", len(candidates)).
		Int("returned", len(ranked)).
		Msg("recommendation complete")

	return ranked, nil
}

// buildFilter renders the taste profile as catalog filter parameters.
func (e *Engine) buildFilter(prefs TastePreferences, genres []string) *catalog.MediaFilter {
	// A range missing either bound cannot be encoded as a meaningful date
	// window, so it is treated the same as an unspecified range.
	years := prefs.Years
	if years.Start == 0 || years.End == 0 {
		years = e.defaultYearRange()
	}

	filter := &catalog.MediaFilter{
		Genres: genres,
		// The year range is inclusive on both ends: Jan 1 of the start
		// year through Dec 31 of the end year in fuzzy-date form.
		StartDateGreater: intPtr(fuzzyDateStart(years.Start)),
		StartDateLesser:  intPtr(fuzzyDateEnd(years.End)),
		ExcludeIDs:       excludeIDs(prefs.Favorites),
		Page:             1,
	}

	// episodes_greater is exclusive upstream, so the inclusive lower
	// bound is shifted down by one. The upper bound passes through.
	if lower, upper := episodeBounds(prefs.Episodes); lower != nil || upper != nil {
		if lower != nil {
			filter.EpisodesGreater = intPtr(*lower - 1)
		}
		if upper != nil {
			filter.EpisodesLesser = upper
		}
	}

	if prefs.Status == StatusFinished || prefs.Status == StatusReleasing {
		status := anilist.MediaStatus(prefs.Status)
		filter.Status = &status
	}

	return filter
}

// defaultYearRange returns current-decade-to-present, used when the caller
// leaves the year range unspecified.
func (e *Engine) defaultYearRange() YearRange {
	year := e.now().Year()
	return YearRange{Start: (year / 10) * 10, End: year}
}

// scoredCandidate pairs a candidate with its recommendation score for
// sorting; the score is discarded after ranking.
type scoredCandidate struct {
	media anilist.Media
	score int
}

// rankCandidates scores every candidate independently and sorts descending
// by score. The sort is stable, so ties retain the upstream order, which
// is already mean-score/popularity ranked.
func rankCandidates(candidates []anilist.Media, genres []string, studios map[string]struct{}) []anilist.Media {
	genreSet := make(map[string]struct{}, len(genres))
	for _, g := range genres {
		genreSet[g] = struct{}{}
	}

	scored := make([]scoredCandidate, 0, len(candidates))
	for _, media := range candidates {
		scored = append(scored, scoredCandidate{
			media: media,
			score: scoreCandidate(&media, genreSet, studios),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	ranked := make([]anilist.Media, 0, len(scored))
	for _, sc := range scored {
		ranked = append(ranked, sc.media)
	}
	return ranked
}

// scoreCandidate computes the recommendation score for one candidate.
func scoreCandidate(media *anilist.Media, genres, studios map[string]struct{}) int {
	score := 0
	if media.AverageScore != nil {
		score = *media.AverageScore
	}

	for _, genre := range media.Genres {
		if _, match := genres[genre]; match {
			score += genreMatchWeight
		}
	}

	for _, studio := range media.Studios.Nodes {
		if _, match := studios[studio.Name]; match {
			score += studioBonus
			break
		}
	}

	return score
}
