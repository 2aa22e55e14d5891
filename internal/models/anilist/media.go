// OtakuLog - Social Anime Review and Discovery Platform
// Copyright 2026 Mei K. (otakulog)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/otakulog/otakulog

// Package anilist defines the typed wire models for the AniList GraphQL API.
//
// AniList is the third-party anime catalog backing catalog search and the
// recommendation engine. These structs mirror the exact field selection the
// discovery service requests, no more. Fields AniList documents as nullable
// are decoded as pointers so that absence is distinguishable from a zero
// value; nothing here applies defaults.
//
// Thread safety: all types are plain data, created at decode time and never
// mutated afterwards.
package anilist

// MediaStatus is the AniList airing-status enumeration.
type MediaStatus string

// Airing statuses as returned by AniList.
const (
	StatusFinished       MediaStatus = "FINISHED"
	StatusReleasing      MediaStatus = "RELEASING"
	StatusNotYetReleased MediaStatus = "NOT_YET_RELEASED"
	StatusCancelled      MediaStatus = "CANCELLED"
	StatusHiatus         MediaStatus = "HIATUS"
)

// MediaTitle holds the display titles of a catalog entry. AniList returns
// null for titles a show does not have, so all variants are optional.
type MediaTitle struct {
	Romaji  *string `json:"romaji"`
	English *string `json:"english"`
	Native  *string `json:"native"`
}

// CoverImage holds cover art URLs.
type CoverImage struct {
	Large  *string `json:"large"`
	Medium *string `json:"medium"`
}

// Studio is a single production studio.
type Studio struct {
	Name string `json:"name"`
}

// StudioConnection wraps the studio list the way AniList's GraphQL schema
// does. Only main-credited studios are requested, and the list may be empty.
type StudioConnection struct {
	Nodes []Studio `json:"nodes"`
}

// Media is a single catalog entry as requested by the discovery service.
// It doubles as the response record returned to API callers, preserving
// AniList's field names so the review-app frontend consumes it unchanged.
type Media struct {
	ID         int              `json:"id"`
	Title      MediaTitle       `json:"title"`
	CoverImage CoverImage       `json:"coverImage"`
	Genres     []string         `json:"genres"`

	// AverageScore is the mean audience score on a 0-100 scale. AniList
	// omits it for titles with too few ratings.
	AverageScore *int `json:"averageScore"`

	// Episodes is null while a series is still airing without a planned
	// episode count.
	Episodes *int `json:"episodes"`

	// SeasonYear is the release year; null for unscheduled titles.
	SeasonYear *int `json:"seasonYear"`

	Status MediaStatus `json:"status"`

	// Description is the synopsis with HTML markup already stripped by the
	// upstream (description(asHtml: false)).
	Description *string `json:"description"`

	Studios StudioConnection `json:"studios"`
}

// StudioNames returns the names of the media's main-credited studios.
func (m *Media) StudioNames() []string {
	names := make([]string, 0, len(m.Studios.Nodes))
	for _, s := range m.Studios.Nodes {
		names = append(names, s.Name)
	}
	return names
}
