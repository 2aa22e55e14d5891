// OtakuLog - Social Anime Review and Discovery Platform
// Copyright 2026 Mei K. (otakulog)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/otakulog/otakulog

package recommend

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/otakulog/otakulog/internal/catalog"
	"github.com/otakulog/otakulog/internal/models/anilist"
)

// mockBrowser records the filter it receives and returns canned candidates.
type mockBrowser struct {
	calls   int
	filter  *catalog.MediaFilter
	results []anilist.Media
	err     error
}

func (m *mockBrowser) Browse(_ context.Context, filter *catalog.MediaFilter) ([]anilist.Media, error) {
	m.calls++
	m.filter = filter
	if m.err != nil {
		return nil, m.err
	}
	return m.results, nil
}

func newTestEngine(browser catalog.Browser) *Engine {
	engine := NewEngine(browser, zerolog.Nop())
	engine.now = func() time.Time {
		return time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)
	}
	return engine
}

func candidate(id int, meanScore int, genres []string, studios ...string) anilist.Media {
	nodes := make([]anilist.Studio, 0, len(studios))
	for _, name := range studios {
		nodes = append(nodes, anilist.Studio{Name: name})
	}
	return anilist.Media{
		ID:           id,
		Genres:       genres,
		AverageScore: &meanScore,
		Studios:      anilist.StudioConnection{Nodes: nodes},
	}
}

func TestRecommendEmptyFavorites(t *testing.T) {
	t.Parallel()

	browser := &mockBrowser{}
	engine := newTestEngine(browser)

	_, err := engine.Recommend(context.Background(), TastePreferences{})
	if !errors.Is(err, ErrNoFavorites) {
		t.Fatalf("expected ErrNoFavorites, got %v", err)
	}
	if browser.calls != 0 {
		t.Errorf("expected no catalog calls, got %d", browser.calls)
	}
}

func TestRecommendUpstreamError(t *testing.T) {
	t.Parallel()

	browser := &mockBrowser{err: catalog.ErrUpstream}
	engine := newTestEngine(browser)

	_, err := engine.Recommend(context.Background(), TastePreferences{
		Favorites: []Favorite{{ID: 1, Genres: []string{"Action"}}},
	})
	if !errors.Is(err, catalog.ErrUpstream) {
		t.Fatalf("expected upstream error to propagate, got %v", err)
	}
}

func TestRecommendEmptyCandidatePool(t *testing.T) {
	t.Parallel()

	browser := &mockBrowser{results: []anilist.Media{}}
	engine := newTestEngine(browser)

	got, err := engine.Recommend(context.Background(), TastePreferences{
		Favorites: []Favorite{{ID: 1, Genres: []string{"Action"}}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty recommendations, got %d", len(got))
	}
}

func TestRecommendFilterConstruction(t *testing.T) {
	t.Parallel()

	browser := &mockBrowser{}
	engine := newTestEngine(browser)

	_, err := engine.Recommend(context.Background(), TastePreferences{
		Favorites: []Favorite{
			{ID: 7, Genres: []string{"Action", "Drama"}},
			{ID: 9, Genres: []string{"Action"}},
		},
		Genres:   []string{"Comedy"},
		Years:    YearRange{Start: 2000, End: 2024},
		Episodes: EpisodesMedium,
		Status:   StatusFinished,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	filter := browser.filter
	if filter == nil {
		t.Fatal("catalog was not called")
	}

	wantGenres := []string{"Comedy", "Action", "Drama"}
	if len(filter.Genres) != len(wantGenres) {
		t.Fatalf("genres = %v, want %v", filter.Genres, wantGenres)
	}
	for i, g := range wantGenres {
		if filter.Genres[i] != g {
			t.Errorf("genres[%d] = %q, want %q", i, filter.Genres[i], g)
		}
	}

	if filter.StartDateGreater == nil || *filter.StartDateGreater != 20000101 {
		t.Errorf("StartDateGreater = %v, want 20000101", fmtPtr(filter.StartDateGreater))
	}
	if filter.StartDateLesser == nil || *filter.StartDateLesser != 20241231 {
		t.Errorf("StartDateLesser = %v, want 20241231", fmtPtr(filter.StartDateLesser))
	}

	// Medium is 13-26 inclusive; the exclusive lower bound goes out as 12.
	if filter.EpisodesGreater == nil || *filter.EpisodesGreater != 12 {
		t.Errorf("EpisodesGreater = %v, want 12", fmtPtr(filter.EpisodesGreater))
	}
	if filter.EpisodesLesser == nil || *filter.EpisodesLesser != 26 {
		t.Errorf("EpisodesLesser = %v, want 26", fmtPtr(filter.EpisodesLesser))
	}

	if filter.Status == nil || *filter.Status != anilist.StatusFinished {
		t.Errorf("Status = %v, want FINISHED", filter.Status)
	}

	if len(filter.ExcludeIDs) != 2 || filter.ExcludeIDs[0] != 7 || filter.ExcludeIDs[1] != 9 {
		t.Errorf("ExcludeIDs = %v, want [7 9]", filter.ExcludeIDs)
	}
}

func TestRecommendFilterDefaults(t *testing.T) {
	t.Parallel()

	browser := &mockBrowser{}
	engine := newTestEngine(browser)

	_, err := engine.Recommend(context.Background(), TastePreferences{
		Favorites: []Favorite{{ID: 1, Genres: []string{"Action"}}},
		Episodes:  EpisodesAny,
		Status:    StatusAny,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	filter := browser.filter
	if filter == nil {
		t.Fatal("catalog was not called")
	}

	// Injected clock sits in 2026, so the default range is 2020-2026.
	if filter.StartDateGreater == nil || *filter.StartDateGreater != 20200101 {
		t.Errorf("StartDateGreater = %v, want 20200101", fmtPtr(filter.StartDateGreater))
	}
	if filter.StartDateLesser == nil || *filter.StartDateLesser != 20261231 {
		t.Errorf("StartDateLesser = %v, want 20261231", fmtPtr(filter.StartDateLesser))
	}

	if filter.EpisodesGreater != nil || filter.EpisodesLesser != nil {
		t.Error("expected episode bounds to be omitted for any preference")
	}
	if filter.Status != nil {
		t.Errorf("expected no status filter, got %v", *filter.Status)
	}
}

func TestRecommendHalfSpecifiedYearRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		years YearRange
	}{
		{name: "start only", years: YearRange{Start: 2000}},
		{name: "end only", years: YearRange{End: 2020}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			browser := &mockBrowser{}
			engine := newTestEngine(browser)

			_, err := engine.Recommend(context.Background(), TastePreferences{
				Favorites: []Favorite{{ID: 1, Genres: []string{"Action"}}},
				Years:     tt.years,
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			filter := browser.filter
			if filter == nil {
				t.Fatal("catalog was not called")
			}

			// A missing bound falls back to the default range instead of
			// encoding year zero into the date window.
			if filter.StartDateGreater == nil || *filter.StartDateGreater != 20200101 {
				t.Errorf("StartDateGreater = %v, want 20200101", fmtPtr(filter.StartDateGreater))
			}
			if filter.StartDateLesser == nil || *filter.StartDateLesser != 20261231 {
				t.Errorf("StartDateLesser = %v, want 20261231", fmtPtr(filter.StartDateLesser))
			}
			if *filter.StartDateLesser < *filter.StartDateGreater {
				t.Errorf("date window inverted: lesser %d < greater %d",
					*filter.StartDateLesser, *filter.StartDateGreater)
			}
		})
	}
}

func TestRecommendScoring(t *testing.T) {
	t.Parallel()

	// All candidates share the same mean score; ordering is driven purely
	// by genre matches and the studio bonus.
	browser := &mockBrowser{results: []anilist.Media{
		candidate(101, 70, []string{"Romance"}),
		candidate(102, 70, []string{"Action", "Drama"}),
		candidate(103, 70, []string{"Action"}, "MAPPA"),
		candidate(104, 70, []string{"Action"}),
	}}
	engine := newTestEngine(browser)

	got, err := engine.Recommend(context.Background(), TastePreferences{
		Favorites: []Favorite{
			{ID: 1, Genres: []string{"Action", "Drama"}, Studios: []string{"MAPPA"}},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 103: 70+5+10=85, 102: 70+10=80, 104: 70+5=75, 101: 70.
	wantOrder := []int{103, 102, 104, 101}
	if len(got) != len(wantOrder) {
		t.Fatalf("got %d results, want %d", len(got), len(wantOrder))
	}
	for i, id := range wantOrder {
		if got[i].ID != id {
			t.Errorf("result[%d].ID = %d, want %d", i, got[i].ID, id)
		}
	}
}

func TestRecommendStudioBonusAppliedOnce(t *testing.T) {
	t.Parallel()

	// Two matching studios on one candidate must not outscore a single
	// matching studio plus one genre match.
	browser := &mockBrowser{results: []anilist.Media{
		candidate(201, 70, nil, "MAPPA", "Madhouse"),
		candidate(202, 70, []string{"Action"}, "MAPPA"),
	}}
	engine := newTestEngine(browser)

	got, err := engine.Recommend(context.Background(), TastePreferences{
		Favorites: []Favorite{
			{ID: 1, Genres: []string{"Action"}, Studios: []string{"MAPPA", "Madhouse"}},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 2 || got[0].ID != 202 || got[1].ID != 201 {
		ids := make([]int, 0, len(got))
		for _, m := range got {
			ids = append(ids, m.ID)
		}
		t.Errorf("result order = %v, want [202 201]", ids)
	}
}

func TestRecommendMissingMeanScore(t *testing.T) {
	t.Parallel()

	unscored := anilist.Media{ID: 301, Genres: []string{"Action"}}
	browser := &mockBrowser{results: []anilist.Media{
		unscored,
		candidate(302, 40, nil),
	}}
	engine := newTestEngine(browser)

	got, err := engine.Recommend(context.Background(), TastePreferences{
		Favorites: []Favorite{{ID: 1, Genres: []string{"Action"}}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Missing mean score contributes zero: 0+5=5 < 40.
	if got[0].ID != 302 || got[1].ID != 301 {
		t.Errorf("result order = [%d %d], want [302 301]", got[0].ID, got[1].ID)
	}
}

func TestRecommendStableTieOrder(t *testing.T) {
	t.Parallel()

	browser := &mockBrowser{results: []anilist.Media{
		candidate(401, 70, nil),
		candidate(402, 70, nil),
		candidate(403, 70, nil),
	}}
	engine := newTestEngine(browser)

	got, err := engine.Recommend(context.Background(), TastePreferences{
		Favorites: []Favorite{{ID: 1, Genres: []string{"Action"}}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, id := range []int{401, 402, 403} {
		if got[i].ID != id {
			t.Errorf("result[%d].ID = %d, want %d (ties must keep upstream order)", i, got[i].ID, id)
		}
	}
}

func TestRecommendCapsResults(t *testing.T) {
	t.Parallel()

	pool := make([]anilist.Media, 0, 24)
	for i := 0; i < 24; i++ {
		pool = append(pool, candidate(500+i, 70, nil))
	}
	browser := &mockBrowser{results: pool}
	engine := newTestEngine(browser)

	got, err := engine.Recommend(context.Background(), TastePreferences{
		Favorites: []Favorite{{ID: 1, Genres: []string{"Action"}}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != maxResults {
		t.Errorf("got %d results, want %d", len(got), maxResults)
	}
}
