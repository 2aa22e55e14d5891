// OtakuLog - Social Anime Review and Discovery Platform
// Copyright 2026 Mei K. (otakulog)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/otakulog/otakulog

package recommend

// EpisodePreference is the episode-length bucket a user selects.
type EpisodePreference string

// Episode-length buckets. Short covers 1-12 episodes, medium 13-26,
// long 27 and up; any leaves episode count unconstrained.
const (
	EpisodesShort  EpisodePreference = "short"
	EpisodesMedium EpisodePreference = "medium"
	EpisodesLong   EpisodePreference = "long"
	EpisodesAny    EpisodePreference = "any"
)

// StatusPreference filters candidates by airing status.
type StatusPreference string

// Airing-status preferences. The FINISHED/RELEASING values are forwarded
// to the catalog verbatim; any sends no status filter.
const (
	StatusFinished  StatusPreference = "FINISHED"
	StatusReleasing StatusPreference = "RELEASING"
	StatusAny       StatusPreference = "any"
)

// YearRange is an inclusive release-year range. A zero value means
// unspecified and is defaulted to current-decade-to-present; a range
// with only one bound set is treated the same way.
type YearRange struct {
	Start int
	End   int
}

// IsZero reports whether the range was left unspecified.
func (y YearRange) IsZero() bool {
	return y.Start == 0 && y.End == 0
}

// Favorite is a user-selected favorite title, carrying the metadata the
// scoring pipeline needs: catalog ID for exclusion, genre tags for the
// taste profile, and studio names for the studio bonus.
type Favorite struct {
	ID      int
	Genres  []string
	Studios []string
}

// TastePreferences is the complete taste profile driving one
// recommendation request. It lives only for the duration of the request.
type TastePreferences struct {
	// Favorites must be non-empty; the engine rejects an empty set before
	// any upstream call.
	Favorites []Favorite

	// Genres are explicitly chosen genre tags, unioned with the genres
	// derived from favorites.
	Genres []string

	Years    YearRange
	Episodes EpisodePreference
	Status   StatusPreference
}
