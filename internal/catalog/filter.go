// OtakuLog - Social Anime Review and Discovery Platform
// Copyright 2026 Mei K. (otakulog)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/otakulog/otakulog

package catalog

import (
	"github.com/otakulog/otakulog/internal/models/anilist"
)

// MediaFilter is the structured parameter set for a browse query. Optional
// filters are pointers; a nil field is omitted from the GraphQL variables
// entirely rather than sent as null or a sentinel.
type MediaFilter struct {
	// Genres restricts candidates to media carrying at least one of the
	// listed genre tags. Empty means unconstrained.
	Genres []string

	// StartDateGreater and StartDateLesser bound the release date using
	// AniList's fuzzy-date integer encoding (YYYYMMDD as a single int).
	StartDateGreater *int
	StartDateLesser  *int

	// EpisodesGreater is exclusive (AniList's episodes_greater), so a
	// caller wanting an inclusive lower bound passes bound-1.
	EpisodesGreater *int

	// EpisodesLesser is the inclusive upper episode bound.
	EpisodesLesser *int

	// Status filters by airing status when set.
	Status *anilist.MediaStatus

	// ExcludeIDs lists catalog IDs that must not appear in results.
	ExcludeIDs []int

	// Page is the result page to fetch, 1-based. Zero means page 1.
	Page int
}

// Variables renders the filter as GraphQL variables, emitting a key only
// when the corresponding filter is present.
func (f *MediaFilter) Variables() map[string]interface{} {
	page := f.Page
	if page == 0 {
		page = 1
	}

	vars := map[string]interface{}{
		"page": page,
	}

	if len(f.Genres) > 0 {
		vars["genres"] = f.Genres
	}
	if f.StartDateGreater != nil {
		vars["startDateGreater"] = *f.StartDateGreater
	}
	if f.StartDateLesser != nil {
		vars["startDateLesser"] = *f.StartDateLesser
	}
	if f.EpisodesGreater != nil {
		vars["episodesGreater"] = *f.EpisodesGreater
	}
	if f.EpisodesLesser != nil {
		vars["episodesLesser"] = *f.EpisodesLesser
	}
	if f.Status != nil {
		vars["status"] = string(*f.Status)
	}
	if len(f.ExcludeIDs) > 0 {
		vars["excludeIds"] = f.ExcludeIDs
	}

	return vars
}
