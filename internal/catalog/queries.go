// OtakuLog - Social Anime Review and Discovery Platform
// Copyright 2026 Mei K. (otakulog)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/otakulog/otakulog

package catalog

// GraphQL documents sent to AniList. Both request the same minimal media
// field selection: exactly what the scoring pipeline and the review-app
// frontend consume. Synopsis is requested with HTML stripped upstream and
// only main-credited studios are included.
const (
	// searchQuery matches media by free text, popularity-ranked, one page
	// of 12.
	searchQuery = `
  query SearchAnime($search: String!) {
    Page(page: 1, perPage: 12) {
      media(search: $search, type: ANIME, sort: POPULARITY_DESC) {
        id
        title {
          romaji
          english
          native
        }
        coverImage {
          large
          medium
        }
        genres
        averageScore
        episodes
        seasonYear
        status
        description(asHtml: false)
        studios(isMain: true) {
          nodes {
            name
          }
        }
      }
    }
  }
`

	// browseQuery fetches the recommendation candidate pool: one page of
	// 24, score-then-popularity ranked, adult content excluded. All filter
	// variables are optional; a variable left null is ignored by AniList.
	browseQuery = `
  query GetRecommendations(
    $genres: [String]
    $startDateGreater: FuzzyDateInt
    $startDateLesser: FuzzyDateInt
    $episodesGreater: Int
    $episodesLesser: Int
    $status: MediaStatus
    $excludeIds: [Int]
    $page: Int
  ) {
    Page(page: $page, perPage: 24) {
      media(
        type: ANIME
        genre_in: $genres
        startDate_greater: $startDateGreater
        startDate_lesser: $startDateLesser
        episodes_greater: $episodesGreater
        episodes_lesser: $episodesLesser
        status: $status
        id_not_in: $excludeIds
        sort: [SCORE_DESC, POPULARITY_DESC]
        isAdult: false
      ) {
        id
        title {
          romaji
          english
          native
        }
        coverImage {
          large
          medium
        }
        genres
        averageScore
        episodes
        seasonYear
        status
        description(asHtml: false)
        studios(isMain: true) {
          nodes {
            name
          }
        }
      }
    }
  }
`
)
