// OtakuLog - Social Anime Review and Discovery Platform
// Copyright 2026 Mei K. (otakulog)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/otakulog/otakulog

package api

import (
	"github.com/otakulog/otakulog/internal/models/anilist"
	"github.com/otakulog/otakulog/internal/recommend"
)

// SearchRequest is the body of POST /api/v1/anime/search.
type SearchRequest struct {
	Query string `json:"query"`
}

// FavoriteRef identifies one favorite title in a recommendation request.
// The frontend sends the fields it already holds from search results, so
// the engine never needs a second catalog lookup for favorites.
type FavoriteRef struct {
	ID      int                       `json:"id" validate:"required"`
	Genres  []string                  `json:"genres"`
	Studios *anilist.StudioConnection `json:"studios"`
}

// YearRangeRef is the inclusive release-year range of a recommendation
// request. The bounds must be supplied together: both zero means
// unspecified, and a range with only one bound is rejected.
type YearRangeRef struct {
	Start int `json:"start" validate:"min=0,required_with=End"`
	End   int `json:"end" validate:"min=0,required_with=Start,omitempty,gtefield=Start"`
}

// RecommendRequest is the body of POST /api/v1/anime/recommend.
type RecommendRequest struct {
	Favorites         []FavoriteRef `json:"favorites" validate:"required,min=1,dive"`
	Genres            []string      `json:"genres"`
	YearRange         YearRangeRef  `json:"yearRange"`
	EpisodePreference string        `json:"episodePreference" validate:"omitempty,oneof=short medium long any"`
	Status            string        `json:"status" validate:"omitempty,oneof=FINISHED RELEASING any"`
}

// tastePreferences converts the request DTO into the engine's taste
// profile, flattening studio connections into plain name lists.
func (req *RecommendRequest) tastePreferences() recommend.TastePreferences {
	favorites := make([]recommend.Favorite, 0, len(req.Favorites))
	for _, ref := range req.Favorites {
		fav := recommend.Favorite{
			ID:     ref.ID,
			Genres: ref.Genres,
		}
		if ref.Studios != nil {
			for _, studio := range ref.Studios.Nodes {
				fav.Studios = append(fav.Studios, studio.Name)
			}
		}
		favorites = append(favorites, fav)
	}

	episodes := recommend.EpisodePreference(req.EpisodePreference)
	if episodes == "" {
		episodes = recommend.EpisodesAny
	}

	status := recommend.StatusPreference(req.Status)
	if status == "" {
		status = recommend.StatusAny
	}

	return recommend.TastePreferences{
		Favorites: favorites,
		Genres:    req.Genres,
		Years: recommend.YearRange{
			Start: req.YearRange.Start,
			End:   req.YearRange.End,
		},
		Episodes: episodes,
		Status:   status,
	}
}
