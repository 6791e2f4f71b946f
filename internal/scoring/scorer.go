// ScentMatch - Fragrance Personalization Scoring and Caching Engine
// Copyright 2026 ScentMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scentmatch/scentmatch

// Package scoring ranks candidate fragrances against a taste profile
// using a weighted blend of explainable sub-scores.
package scoring

import (
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/scentmatch/scentmatch/internal/archetype"
	"github.com/scentmatch/scentmatch/internal/cache"
	"github.com/scentmatch/scentmatch/internal/logging"
	"github.com/scentmatch/scentmatch/internal/metrics"
	"github.com/scentmatch/scentmatch/internal/taste"
)

// neutralSimilarity is used when a sub-score has no usable signal,
// so missing data neither rewards nor punishes a candidate.
const neutralSimilarity = 0.5

// Scorer produces ranked, explainable recommendation scores.
// Full result lists are memoized in a TTL+LRU cache keyed by the
// (profile, candidate set, context) triple.
type Scorer struct {
	weights Weights
	results *cache.TTLCache[[]Scored]
	logger  zerolog.Logger

	scoredTotal   atomic.Int64
	requestsTotal atomic.Int64
}

// NewScorer creates a Scorer with the given weights and result cache
// sizing. Zero-value weights fall back to the defaults.
func NewScorer(weights Weights, cacheCapacity int, cacheTTL time.Duration) *Scorer {
	if weights == (Weights{}) {
		weights = DefaultWeights()
	}
	return &Scorer{
		weights: weights,
		results: cache.New[[]Scored](cacheCapacity, cacheTTL),
		logger:  logging.WithComponent("scoring"),
	}
}

// scoreCacheParams is the canonical form of a memoization key.
type scoreCacheParams struct {
	Profile      taste.Vector `json:"profile"`
	CandidateIDs []string     `json:"candidate_ids"`
	Context      Context      `json:"context"`
}

// Score ranks candidates for the given profile and context.
//
// Every input candidate yields exactly one result. Unavailable
// candidates score zero, which ranks them after anything purchasable.
// Results are sorted by score descending; ties break by ascending
// candidate ID so equal inputs always produce the same order. An
// empty candidate list yields an empty (non-nil) slice.
func (s *Scorer) Score(profile taste.Vector, candidates []Candidate, sctx Context) []Scored {
	ranked, _ := s.ScoreCached(profile, candidates, sctx)
	return ranked
}

// ScoreCached is Score plus a flag reporting whether the result list
// was served from the memoization cache.
func (s *Scorer) ScoreCached(profile taste.Vector, candidates []Candidate, sctx Context) ([]Scored, bool) {
	s.requestsTotal.Add(1)

	if len(candidates) == 0 {
		return []Scored{}, false
	}

	sctx = normalizeContext(sctx)

	ids := make([]string, len(candidates))
	for i, c := range candidates {
		ids[i] = c.ID
	}
	sort.Strings(ids)
	key := cache.Key("recommendations", scoreCacheParams{
		Profile:      profile,
		CandidateIDs: ids,
		Context:      sctx,
	})

	if cached, ok := s.results.Get(key); ok {
		metrics.ScoreCacheHits.Inc()
		return copyScored(cached), true
	}
	metrics.ScoreCacheMisses.Inc()

	start := time.Now()
	ranked := s.rank(profile, candidates, sctx)
	elapsed := time.Since(start)

	s.scoredTotal.Add(int64(len(ranked)))
	metrics.RecordScoringRun(len(ranked), elapsed)

	s.results.SetWithCost(key, copyScored(ranked), 0, elapsed)

	s.logger.Debug().
		Int("candidates", len(candidates)).
		Int("ranked", len(ranked)).
		Dur("elapsed", elapsed).
		Msg("Scored candidate set")

	return ranked, false
}

// rank computes and orders the scores without touching the cache.
func (s *Scorer) rank(profile taste.Vector, candidates []Candidate, sctx Context) []Scored {
	ranked := make([]Scored, 0, len(candidates))

	for _, c := range candidates {
		if !c.Available {
			ranked = append(ranked, unavailableResult(c))
			continue
		}
		ranked = append(ranked, s.scoreOne(profile, c, sctx))
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].ID < ranked[j].ID
	})

	return ranked
}

// scoreOne computes the weighted score and breakdown for one candidate.
func (s *Scorer) scoreOne(profile taste.Vector, c Candidate, sctx Context) Scored {
	components := map[string]float64{
		ComponentVector:      vectorSimilarity(profile, c.Embedding),
		ComponentAccord:      overlapScore(c.Accords, sctx.PreferredAccords),
		ComponentPersonality: overlapScore(c.PersonalityTags, sctx.Archetypes),
		ComponentExperience:  experienceRelevance(sctx.ExperienceLevel, c.Popularity),
		ComponentPopularity:  popularityBoost(sctx.ExperienceLevel, c.Popularity),
	}

	score := components[ComponentVector]*s.weights.Vector +
		components[ComponentAccord]*s.weights.Accord +
		components[ComponentPersonality]*s.weights.Personality +
		components[ComponentExperience]*s.weights.Experience +
		components[ComponentPopularity]*s.weights.Popularity

	if c.SampleAvailable {
		components[ComponentSampleBonus] = s.weights.SampleBonus
		score += s.weights.SampleBonus
	}

	return Scored{
		ID:              c.ID,
		Name:            c.Name,
		Brand:           c.Brand,
		Score:           clamp01(score),
		Components:      components,
		Reasoning:       s.reasoning(components),
		Available:       true,
		SampleAvailable: c.SampleAvailable,
	}
}

// unavailableResult keeps out-of-stock candidates in the ranking at
// score zero instead of dropping them from the result list.
func unavailableResult(c Candidate) Scored {
	return Scored{
		ID:         c.ID,
		Name:       c.Name,
		Brand:      c.Brand,
		Score:      0,
		Components: map[string]float64{},
		Reasoning:  "Currently unavailable",
		Available:  false,
	}
}

// Stats reports scorer counters alongside the result cache stats.
type Stats struct {
	Requests    int64       `json:"requests"`
	Scored      int64       `json:"scored"`
	ResultCache cache.Stats `json:"result_cache"`
}

// Stats returns a snapshot of the scorer counters.
func (s *Scorer) Stats() Stats {
	return Stats{
		Requests:    s.requestsTotal.Load(),
		Scored:      s.scoredTotal.Load(),
		ResultCache: s.results.Stats(),
	}
}

// CleanupExpired sweeps expired memoized results.
func (s *Scorer) CleanupExpired() int {
	return s.results.CleanupExpired()
}

// normalizeContext applies the enthusiast default and canonicalizes
// slice order so equivalent contexts hit the same cache entry.
func normalizeContext(sctx Context) Context {
	switch sctx.ExperienceLevel {
	case ExperienceBeginner, ExperienceEnthusiast, ExperienceCollector:
	default:
		sctx.ExperienceLevel = ExperienceEnthusiast
	}

	if len(sctx.PreferredAccords) > 0 {
		sctx.PreferredAccords = sortedCopy(sctx.PreferredAccords)
	}
	return sctx
}

// vectorSimilarity is the cosine between the profile and the candidate
// embedding. Embeddings of the wrong length (or missing) score the
// neutral midpoint rather than zero.
func vectorSimilarity(profile taste.Vector, embedding []float64) float64 {
	if len(embedding) != taste.NumDimensions {
		return neutralSimilarity
	}
	return clamp01(archetype.Cosine(profile.AsSlice(), embedding))
}

// overlapScore is a Jaccard-style overlap between the two sets:
// the match count divided by the size of the larger set, so a long
// candidate list cannot score full marks against a single wanted
// entry. Comparison is case-insensitive after dedup. No signal on
// either side scores neutral.
func overlapScore(have, wanted []string) float64 {
	if len(have) == 0 || len(wanted) == 0 {
		return neutralSimilarity
	}

	haveSet := lowerSet(have)
	wantedSet := lowerSet(wanted)

	matched := 0
	for w := range wantedSet {
		if _, ok := haveSet[w]; ok {
			matched++
		}
	}

	denom := len(haveSet)
	if len(wantedSet) > denom {
		denom = len(wantedSet)
	}
	return clamp01(float64(matched) / float64(denom))
}

func lowerSet(in []string) map[string]struct{} {
	set := make(map[string]struct{}, len(in))
	for _, s := range in {
		set[strings.ToLower(s)] = struct{}{}
	}
	return set
}

// nichePopularityThreshold marks the popularity below which a
// fragrance counts as niche for the collector boost.
const nichePopularityThreshold = 0.3

// popularityBoost is the asymmetric popularity component: beginners
// get crowd-pleasers boosted, collectors get niche picks boosted, and
// everyone else sees the neutral midpoint.
func popularityBoost(level string, popularity float64) float64 {
	p := clamp01(popularity)
	switch level {
	case ExperienceBeginner:
		return p
	case ExperienceCollector:
		if p < nichePopularityThreshold {
			return 1.0 - p
		}
		return neutralSimilarity
	default:
		return neutralSimilarity
	}
}

// experienceRelevance maps popularity into a per-level relevance score.
// Beginners are steered toward crowd-pleasers, collectors toward niche
// picks, and enthusiasts are indifferent.
func experienceRelevance(level string, popularity float64) float64 {
	p := clamp01(popularity)
	switch level {
	case ExperienceBeginner:
		return 0.5 + 0.5*p
	case ExperienceCollector:
		return 1.0 - 0.5*p
	default:
		return 0.75
	}
}

// reasonPhrases are the fixed templates used to explain a score.
// Phrasing is deterministic; variety comes only from which signals won.
var reasonPhrases = map[string]string{
	ComponentVector:      "closely matches your taste profile",
	ComponentAccord:      "features accords you love",
	ComponentPersonality: "suits your fragrance personality",
	ComponentExperience:  "a strong fit for your experience level",
	ComponentPopularity:  "a community favorite",
}

// reasoning explains a score from its top one or two weighted signals.
func (s *Scorer) reasoning(components map[string]float64) string {
	weighted := []struct {
		name  string
		value float64
	}{
		{ComponentVector, components[ComponentVector] * s.weights.Vector},
		{ComponentAccord, components[ComponentAccord] * s.weights.Accord},
		{ComponentPersonality, components[ComponentPersonality] * s.weights.Personality},
		{ComponentExperience, components[ComponentExperience] * s.weights.Experience},
		{ComponentPopularity, components[ComponentPopularity] * s.weights.Popularity},
	}

	sort.SliceStable(weighted, func(i, j int) bool {
		return weighted[i].value > weighted[j].value
	})

	parts := []string{reasonPhrases[weighted[0].name]}
	if weighted[1].value > 0 {
		parts = append(parts, reasonPhrases[weighted[1].name])
	}

	reason := strings.Join(parts, " and ")
	return strings.ToUpper(reason[:1]) + reason[1:]
}

// copyScored deep-copies a result list so cached entries and callers
// never alias the same Components maps.
func copyScored(in []Scored) []Scored {
	out := make([]Scored, len(in))
	copy(out, in)
	for i := range out {
		components := make(map[string]float64, len(in[i].Components))
		for k, v := range in[i].Components {
			components[k] = v
		}
		out[i].Components = components
	}
	return out
}

func sortedCopy(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	sort.Strings(out)
	return out
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
