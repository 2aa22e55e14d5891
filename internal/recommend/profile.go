// OtakuLog - Social Anime Review and Discovery Platform
// Copyright 2026 Mei K. (otakulog)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/otakulog/otakulog

package recommend

import "sort"

// maxDerivedGenres caps how many genres are inferred from favorites.
const maxDerivedGenres = 5

// topGenres counts genre-tag occurrences across the favorites and returns
// the most frequent ones, at most maxDerivedGenres. Ties are broken by
// first-seen order, so the result is deterministic for a given input.
func topGenres(favorites []Favorite) []string {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	order := 0

	for _, fav := range favorites {
		for _, genre := range fav.Genres {
			if _, seen := counts[genre]; !seen {
				firstSeen[genre] = order
				order++
			}
			counts[genre]++
		}
	}

	genres := make([]string, 0, len(counts))
	for genre := range counts {
		genres = append(genres, genre)
	}

	sort.SliceStable(genres, func(i, j int) bool {
		if counts[genres[i]] != counts[genres[j]] {
			return counts[genres[i]] > counts[genres[j]]
		}
		return firstSeen[genres[i]] < firstSeen[genres[j]]
	})

	if len(genres) > maxDerivedGenres {
		genres = genres[:maxDerivedGenres]
	}
	return genres
}

// effectiveGenres unions the explicitly chosen genres with the genres
// derived from favorites, removing duplicates. Explicit choices come
// first; relative order within each group is preserved.
func effectiveGenres(explicit []string, favorites []Favorite) []string {
	derived := topGenres(favorites)

	seen := make(map[string]struct{}, len(explicit)+len(derived))
	union := make([]string, 0, len(explicit)+len(derived))
	for _, genre := range append(append([]string{}, explicit...), derived...) {
		if _, dup := seen[genre]; dup {
			continue
		}
		seen[genre] = struct{}{}
		union = append(union, genre)
	}
	return union
}

// episodeBounds maps an episode-length bucket to inclusive bounds. A nil
// bound means unconstrained on that side.
func episodeBounds(pref EpisodePreference) (lower, upper *int) {
	switch pref {
	case EpisodesShort:
		return intPtr(1), intPtr(12)
	case EpisodesMedium:
		return intPtr(13), intPtr(26)
	case EpisodesLong:
		return intPtr(27), nil
	default:
		return nil, nil
	}
}

// Day-of-year offsets for the fuzzy-date encoding. The catalog encodes
// dates as YYYYMMDD integers; year-granular filtering always uses Jan 1
// for range starts and Dec 31 for range ends.
const (
	fuzzyDateYearStart = 101  // Jan 1
	fuzzyDateYearEnd   = 1231 // Dec 31
)

// fuzzyDateStart encodes a year as the catalog's fuzzy-date integer for
// the start of that year, e.g. 2000 -> 20000101.
func fuzzyDateStart(year int) int {
	return year*10000 + fuzzyDateYearStart
}

// fuzzyDateEnd encodes a year as the fuzzy-date integer for the end of
// that year, e.g. 2024 -> 20241231.
func fuzzyDateEnd(year int) int {
	return year*10000 + fuzzyDateYearEnd
}

// excludeIDs collects the favorite catalog IDs as a duplicate-free list.
func excludeIDs(favorites []Favorite) []int {
	seen := make(map[int]struct{}, len(favorites))
	ids := make([]int, 0, len(favorites))
	for _, fav := range favorites {
		if _, dup := seen[fav.ID]; dup {
			continue
		}
		seen[fav.ID] = struct{}{}
		ids = append(ids, fav.ID)
	}
	return ids
}

// favoriteStudios builds the set of studio names across all favorites.
// Studio comparison during scoring is by exact name against this union,
// not per-favorite.
func favoriteStudios(favorites []Favorite) map[string]struct{} {
	studios := make(map[string]struct{})
	for _, fav := range favorites {
		for _, name := range fav.Studios {
			studios[name] = struct{}{}
		}
	}
	return studios
}

func intPtr(v int) *int {
	return &v
}
