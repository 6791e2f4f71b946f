// ScentMatch - Fragrance Personalization Scoring and Caching Engine
// Copyright 2026 ScentMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scentmatch/scentmatch

package api

import (
	"time"

	"github.com/scentmatch/scentmatch/internal/archetype"
	"github.com/scentmatch/scentmatch/internal/scoring"
	"github.com/scentmatch/scentmatch/internal/taste"
)

// AnswerRequest is a single quiz answer as submitted by the client.
type AnswerRequest struct {
	QuestionID string    `json:"question_id" validate:"required"`
	Value      []string  `json:"value" validate:"required,min=1,dive,required"`
	Timestamp  time.Time `json:"timestamp,omitempty"`
}

// QuizAnalyzeRequest carries a full quiz submission for analysis.
type QuizAnalyzeRequest struct {
	Answers []AnswerRequest `json:"answers" validate:"required,min=1,dive"`
}

// QuizAnalyzeResponse is the analyzed taste profile.
type QuizAnalyzeResponse struct {
	Dimensions taste.Vector     `json:"dimensions"`
	Archetype  archetype.Result `json:"archetype"`

	// Confident is false when too few answers were given and the
	// profile fell back to the neutral baseline.
	Confident bool `json:"confident"`
}

// ProfileRequest describes an already-analyzed taste profile supplied
// directly by the client instead of raw answers.
type ProfileRequest struct {
	Dimensions taste.Vector `json:"dimensions"`
	Archetypes []string     `json:"archetypes,omitempty" validate:"omitempty,dive,required"`
}

// RecommendationsRequest asks for scored recommendations. Clients send
// either a profile or raw quiz answers; answers are analyzed first.
type RecommendationsRequest struct {
	Profile *ProfileRequest `json:"profile,omitempty" validate:"required_without=Answers"`
	Answers []AnswerRequest `json:"answers,omitempty" validate:"required_without=Profile,omitempty,min=1,dive"`

	// CandidateIDs restricts scoring to specific fragrances. Empty
	// means score the catalog up to the configured limit.
	CandidateIDs []string `json:"candidate_ids,omitempty" validate:"omitempty,dive,required"`

	// ExperienceLevel is one of beginner, enthusiast, collector.
	// Unrecognized values are treated as enthusiast, not rejected.
	ExperienceLevel  string   `json:"experience_level,omitempty"`
	PreferredAccords []string `json:"preferred_accords,omitempty"`

	// Limit caps the number of returned recommendations. Zero means
	// the server default.
	Limit int `json:"limit,omitempty" validate:"gte=0"`
}

// RecommendationsResponse is the scored, ranked recommendation list.
type RecommendationsResponse struct {
	Recommendations []scoring.Scored `json:"recommendations"`
	Profile         ProfileRequest   `json:"profile"`
}

// NarrativeRequest asks for a profile narrative. CacheKey lets callers
// reuse a stable key across sessions; when empty the key is derived
// from the profile content.
type NarrativeRequest struct {
	CacheKey  string       `json:"cache_key,omitempty"`
	Archetype string       `json:"archetype" validate:"required"`
	Secondary string       `json:"secondary,omitempty"`
	Vector    taste.Vector `json:"dimensions"`
}

// NarrativeResponse is the narrative text plus provenance.
type NarrativeResponse struct {
	Narrative    string `json:"narrative"`
	Source       string `json:"source"`
	FallbackUsed bool   `json:"fallback_used"`
}

// EngineStatsResponse reports cache and scoring counters for the
// operational stats endpoint.
type EngineStatsResponse struct {
	Scoring   scoring.Stats `json:"scoring"`
	Narrative interface{}   `json:"narrative"`
}
