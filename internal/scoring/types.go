// ScentMatch - Fragrance Personalization Scoring and Caching Engine
// Copyright 2026 ScentMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scentmatch/scentmatch

package scoring

// Candidate is a fragrance considered for recommendation. The shape
// mirrors the catalog record: a taste-space embedding plus the
// attributes used by the sub-scorers.
type Candidate struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Brand           string    `json:"brand"`
	Embedding       []float64 `json:"embedding"`
	Accords         []string  `json:"accords"`
	PersonalityTags []string  `json:"personality_tags"`

	// Popularity is normalized to [0, 1].
	Popularity float64 `json:"popularity"`

	Available       bool `json:"available"`
	SampleAvailable bool `json:"sample_available"`
}

// Experience levels accepted in a scoring context.
const (
	ExperienceBeginner   = "beginner"
	ExperienceEnthusiast = "enthusiast"
	ExperienceCollector  = "collector"
)

// Context carries the per-request signals that shape scoring.
type Context struct {
	// ExperienceLevel is one of beginner, enthusiast, collector.
	// Anything else falls back to enthusiast.
	ExperienceLevel string `json:"experience_level"`

	// PreferredAccords are the accords the user gravitates toward.
	PreferredAccords []string `json:"preferred_accords"`

	// Archetypes are the user's classified archetypes, primary first.
	Archetypes []string `json:"archetypes"`
}

// Component names used in the per-result score breakdown.
const (
	ComponentVector      = "vector_similarity"
	ComponentAccord      = "accord_overlap"
	ComponentPersonality = "personality_match"
	ComponentExperience  = "experience_relevance"
	ComponentPopularity  = "popularity"
	ComponentSampleBonus = "sample_bonus"
)

// Scored is one ranked recommendation with its score breakdown.
// Unavailable candidates stay in the list at score zero so callers
// always get one entry per input candidate.
type Scored struct {
	ID              string             `json:"id"`
	Name            string             `json:"name"`
	Brand           string             `json:"brand"`
	Score           float64            `json:"score"`
	Components      map[string]float64 `json:"components"`
	Reasoning       string             `json:"reasoning"`
	Available       bool               `json:"available"`
	SampleAvailable bool               `json:"sample_available"`
}

// Weights controls the contribution of each sub-score. The weighted
// components sum to 0.95 by default; the flat sample bonus supplies the
// remaining headroom before the final clamp to [0, 1].
type Weights struct {
	Vector      float64 `json:"vector" koanf:"vector"`
	Accord      float64 `json:"accord" koanf:"accord"`
	Personality float64 `json:"personality" koanf:"personality"`
	Experience  float64 `json:"experience" koanf:"experience"`
	Popularity  float64 `json:"popularity" koanf:"popularity"`
	SampleBonus float64 `json:"sample_bonus" koanf:"sample_bonus"`
}

// DefaultWeights returns the production weighting.
func DefaultWeights() Weights {
	return Weights{
		Vector:      0.40,
		Accord:      0.20,
		Personality: 0.15,
		Experience:  0.15,
		Popularity:  0.05,
		SampleBonus: 0.05,
	}
}
