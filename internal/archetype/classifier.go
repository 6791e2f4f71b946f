// ScentMatch - Fragrance Personalization Scoring and Caching Engine
// Copyright 2026 ScentMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scentmatch/scentmatch

// Package archetype classifies taste vectors into fragrance personality
// archetypes by cosine similarity against fixed templates.
package archetype

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/scentmatch/scentmatch/internal/logging"
	"github.com/scentmatch/scentmatch/internal/taste"
)

// DefaultSecondaryThreshold is the minimum similarity for reporting a
// secondary archetype.
const DefaultSecondaryThreshold = 0.7

// Result is the outcome of a classification.
type Result struct {
	// Primary is the best-matching archetype name.
	Primary string `json:"primary"`

	// Secondary is the second-best archetype when its similarity
	// clears the threshold, empty otherwise.
	Secondary string `json:"secondary,omitempty"`

	// Confidence is the primary similarity, in [0, 1].
	Confidence float64 `json:"confidence"`

	// Scores holds the similarity of every archetype for explainability.
	Scores map[string]float64 `json:"scores"`
}

// Classifier assigns archetypes to taste vectors. Classification is
// deterministic: equal inputs always produce equal results, and
// similarity ties resolve to the template listed first.
type Classifier struct {
	templates          []Template
	secondaryThreshold float64
	logger             zerolog.Logger
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithSecondaryThreshold overrides the secondary reporting threshold.
func WithSecondaryThreshold(threshold float64) Option {
	return func(c *Classifier) {
		c.secondaryThreshold = threshold
	}
}

// NewClassifier creates a Classifier over the given templates.
// Nil templates fall back to the built-in archetype set.
func NewClassifier(templates []Template, opts ...Option) *Classifier {
	if templates == nil {
		templates = DefaultTemplates()
	}
	c := &Classifier{
		templates:          templates,
		secondaryThreshold: DefaultSecondaryThreshold,
		logger:             logging.WithComponent("archetype"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify finds the archetypes closest to the given taste vector.
func (c *Classifier) Classify(v taste.Vector) Result {
	scores := make(map[string]float64, len(c.templates))

	bestIdx, secondIdx := -1, -1
	for i, tpl := range c.templates {
		sim := Cosine(v.AsSlice(), tpl.Vector.AsSlice())
		scores[tpl.Name] = sim

		switch {
		case bestIdx < 0 || sim > scores[c.templates[bestIdx].Name]:
			secondIdx = bestIdx
			bestIdx = i
		case secondIdx < 0 || sim > scores[c.templates[secondIdx].Name]:
			secondIdx = i
		}
	}

	result := Result{Scores: scores}
	if bestIdx < 0 {
		return result
	}

	result.Primary = c.templates[bestIdx].Name
	result.Confidence = scores[result.Primary]

	if secondIdx >= 0 {
		if s := scores[c.templates[secondIdx].Name]; s >= c.secondaryThreshold {
			result.Secondary = c.templates[secondIdx].Name
		}
	}

	c.logger.Debug().
		Str("primary", result.Primary).
		Str("secondary", result.Secondary).
		Float64("confidence", result.Confidence).
		Msg("Classified taste vector")

	return result
}

// Cosine computes cosine similarity between two equal-length vectors.
// Mismatched lengths or a zero-norm input yield 0.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
