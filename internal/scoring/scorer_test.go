// ScentMatch - Fragrance Personalization Scoring and Caching Engine
// Copyright 2026 ScentMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scentmatch/scentmatch

package scoring

import (
	"math"
	"testing"
	"time"

	"github.com/scentmatch/scentmatch/internal/taste"
)

func newTestScorer() *Scorer {
	return NewScorer(DefaultWeights(), 100, time.Minute)
}

func testProfile() taste.Vector {
	return taste.Vector{Fresh: 80, Floral: 40, Oriental: 30, Woody: 60, Fruity: 50, Gourmand: 20}
}

func available(c Candidate) Candidate {
	c.Available = true
	return c
}

func TestScorer_EmptyCandidates(t *testing.T) {
	s := newTestScorer()

	got := s.Score(testProfile(), nil, Context{})
	if got == nil {
		t.Fatal("empty input should yield an empty slice, not nil")
	}
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

func TestScorer_ScoreRange(t *testing.T) {
	s := newTestScorer()
	profile := testProfile()

	candidates := []Candidate{
		available(Candidate{ID: "f1", Name: "One", Embedding: profile.AsSlice(), Popularity: 1.0, SampleAvailable: true,
			Accords: []string{"fresh", "woody"}, PersonalityTags: []string{"natural"}}),
		available(Candidate{ID: "f2", Name: "Two", Popularity: 0}),
	}
	sctx := Context{PreferredAccords: []string{"fresh", "woody"}, Archetypes: []string{"natural"}}

	for _, r := range s.Score(profile, candidates, sctx) {
		if r.Score < 0 || r.Score > 1 {
			t.Errorf("%s: score %f out of [0,1]", r.ID, r.Score)
		}
		if r.Reasoning == "" {
			t.Errorf("%s: reasoning should not be empty", r.ID)
		}
		if len(r.Components) == 0 {
			t.Errorf("%s: component breakdown missing", r.ID)
		}
	}
}

func TestScorer_PerfectMatchNearOne(t *testing.T) {
	s := newTestScorer()
	profile := testProfile()

	perfect := available(Candidate{
		ID:              "perfect",
		Embedding:       profile.AsSlice(),
		Accords:         []string{"citrus"},
		PersonalityTags: []string{"natural"},
		Popularity:      1.0,
		SampleAvailable: true,
	})
	sctx := Context{
		ExperienceLevel:  ExperienceBeginner,
		PreferredAccords: []string{"citrus"},
		Archetypes:       []string{"natural"},
	}

	got := s.Score(profile, []Candidate{perfect}, sctx)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].Score < 0.99 {
		t.Errorf("perfect match scored %f, want ~1.0", got[0].Score)
	}
}

func TestScorer_OneResultPerCandidate(t *testing.T) {
	s := newTestScorer()

	candidates := []Candidate{
		{ID: "sold-out", Available: false},
		available(Candidate{ID: "in-stock"}),
	}

	got := s.Score(testProfile(), candidates, Context{})
	if len(got) != 2 {
		t.Fatalf("len = %d, want one result per candidate", len(got))
	}
	if got[0].ID != "in-stock" || !got[0].Available {
		t.Errorf("in-stock candidate should rank first, got %+v", got[0])
	}
	if got[1].ID != "sold-out" || got[1].Available {
		t.Errorf("sold-out candidate should rank last, got %+v", got[1])
	}
	if got[1].Score != 0 {
		t.Errorf("sold-out score = %f, want 0", got[1].Score)
	}
	if got[1].Reasoning == "" {
		t.Error("sold-out candidates still need reasoning text")
	}
}

func TestScorer_TieBreaksByAscendingID(t *testing.T) {
	s := newTestScorer()

	// Identical attributes produce identical scores.
	twin := func(id string) Candidate {
		return available(Candidate{ID: id, Popularity: 0.5})
	}
	got := s.Score(testProfile(), []Candidate{twin("zeta"), twin("alpha"), twin("mid")}, Context{})

	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].ID != "alpha" || got[1].ID != "mid" || got[2].ID != "zeta" {
		t.Errorf("tie order = [%s %s %s], want ascending ID", got[0].ID, got[1].ID, got[2].ID)
	}
}

func TestScorer_SortedDescending(t *testing.T) {
	s := newTestScorer()
	profile := testProfile()

	candidates := []Candidate{
		available(Candidate{ID: "weak", Popularity: 0.1}),
		available(Candidate{ID: "strong", Embedding: profile.AsSlice(), Popularity: 0.9, SampleAvailable: true}),
	}

	got := s.Score(profile, candidates, Context{})
	if got[0].ID != "strong" {
		t.Errorf("highest score should rank first, got %s", got[0].ID)
	}
	if got[0].Score < got[1].Score {
		t.Error("results are not sorted descending")
	}
}

func TestScorer_SampleBonus(t *testing.T) {
	s := newTestScorer()

	base := available(Candidate{ID: "a", Popularity: 0.5})
	withSample := base
	withSample.ID = "b"
	withSample.SampleAvailable = true

	got := s.Score(testProfile(), []Candidate{base, withSample}, Context{})
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}

	var plain, sampled Scored
	for _, r := range got {
		if r.ID == "a" {
			plain = r
		} else {
			sampled = r
		}
	}

	diff := sampled.Score - plain.Score
	if math.Abs(diff-DefaultWeights().SampleBonus) > 1e-9 {
		t.Errorf("sample bonus delta = %f, want %f", diff, DefaultWeights().SampleBonus)
	}
	if _, ok := sampled.Components[ComponentSampleBonus]; !ok {
		t.Error("sample bonus should appear in the component breakdown")
	}
	if _, ok := plain.Components[ComponentSampleBonus]; ok {
		t.Error("candidates without samples should not carry the bonus component")
	}
}

func TestScorer_MismatchedEmbeddingNeutral(t *testing.T) {
	s := newTestScorer()

	candidates := []Candidate{
		available(Candidate{ID: "short-embedding", Embedding: []float64{1, 2}}),
		available(Candidate{ID: "no-embedding"}),
	}

	for _, r := range s.Score(testProfile(), candidates, Context{}) {
		if r.Components[ComponentVector] != neutralSimilarity {
			t.Errorf("%s: vector component = %f, want neutral %f",
				r.ID, r.Components[ComponentVector], neutralSimilarity)
		}
	}
}

func TestScorer_ExperienceLevels(t *testing.T) {
	tests := []struct {
		level      string
		popularity float64
		want       float64
	}{
		{ExperienceBeginner, 1.0, 1.0},
		{ExperienceBeginner, 0.0, 0.5},
		{ExperienceCollector, 1.0, 0.5},
		{ExperienceCollector, 0.0, 1.0},
		{ExperienceEnthusiast, 0.3, 0.75},
		{"", 0.3, 0.75},       // missing level defaults to enthusiast
		{"wizard", 0.3, 0.75}, // unknown level defaults to enthusiast
	}

	for _, tt := range tests {
		got := experienceRelevance(normalizeContext(Context{ExperienceLevel: tt.level}).ExperienceLevel, tt.popularity)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("experienceRelevance(%q, %f) = %f, want %f", tt.level, tt.popularity, got, tt.want)
		}
	}
}

func TestScorer_Memoization(t *testing.T) {
	s := newTestScorer()
	profile := testProfile()
	candidates := []Candidate{available(Candidate{ID: "x", Popularity: 0.4})}

	first := s.Score(profile, candidates, Context{})
	second := s.Score(profile, candidates, Context{})

	if len(first) != len(second) || first[0].Score != second[0].Score {
		t.Error("memoized result differs from the original")
	}

	stats := s.Stats()
	if stats.ResultCache.Hits != 1 {
		t.Errorf("result cache hits = %d, want 1", stats.ResultCache.Hits)
	}
	if stats.Requests != 2 {
		t.Errorf("requests = %d, want 2", stats.Requests)
	}

	// Mutating the returned slice must not poison the cache.
	second[0].Score = -99
	second[0].Components[ComponentVector] = -99
	third := s.Score(profile, candidates, Context{})
	if third[0].Score == -99 {
		t.Error("cache returned an aliased slice")
	}
	if third[0].Components[ComponentVector] == -99 {
		t.Error("cache returned an aliased component map")
	}
}

func TestScorer_ContextChangesKey(t *testing.T) {
	s := newTestScorer()
	profile := testProfile()
	candidates := []Candidate{available(Candidate{ID: "x", Popularity: 0.9})}

	s.Score(profile, candidates, Context{ExperienceLevel: ExperienceBeginner})
	s.Score(profile, candidates, Context{ExperienceLevel: ExperienceCollector})

	if hits := s.Stats().ResultCache.Hits; hits != 0 {
		t.Errorf("different contexts should not share cache entries, hits = %d", hits)
	}

	// Accord order must not matter.
	s.Score(profile, candidates, Context{PreferredAccords: []string{"rose", "oud"}})
	s.Score(profile, candidates, Context{PreferredAccords: []string{"oud", "rose"}})
	if hits := s.Stats().ResultCache.Hits; hits != 1 {
		t.Errorf("accord order should be canonicalized, hits = %d", hits)
	}
}

func TestPopularityBoost(t *testing.T) {
	tests := []struct {
		level      string
		popularity float64
		want       float64
	}{
		{ExperienceBeginner, 1.0, 1.0},
		{ExperienceBeginner, 0.2, 0.2},
		{ExperienceCollector, 0.1, 0.9}, // niche picks boosted
		{ExperienceCollector, 0.8, 0.5}, // mainstream stays neutral
		{ExperienceEnthusiast, 0.9, 0.5},
		{ExperienceEnthusiast, 0.1, 0.5},
	}

	for _, tt := range tests {
		got := popularityBoost(tt.level, tt.popularity)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("popularityBoost(%q, %f) = %f, want %f", tt.level, tt.popularity, got, tt.want)
		}
	}
}

func TestOverlapScore(t *testing.T) {
	tests := []struct {
		name         string
		have, wanted []string
		want         float64
	}{
		{"no candidate signal", nil, []string{"rose"}, neutralSimilarity},
		{"no wanted signal", []string{"rose"}, nil, neutralSimilarity},
		{"full overlap", []string{"rose", "oud"}, []string{"rose", "oud"}, 1.0},
		{"half overlap", []string{"rose"}, []string{"rose", "oud"}, 0.5},
		{"larger have side", []string{"rose", "oud", "citrus"}, []string{"rose"}, 1.0 / 3.0},
		{"duplicates collapse", []string{"rose", "ROSE", "oud"}, []string{"rose"}, 0.5},
		{"case insensitive", []string{"Rose"}, []string{"rose"}, 1.0},
		{"disjoint", []string{"citrus"}, []string{"rose"}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := overlapScore(tt.have, tt.wanted); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("overlapScore() = %f, want %f", got, tt.want)
			}
		})
	}
}
