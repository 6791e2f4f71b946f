// ScentMatch - Fragrance Personalization Scoring and Caching Engine
// Copyright 2026 ScentMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scentmatch/scentmatch

package taste

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/scentmatch/scentmatch/internal/logging"
)

// MinAnswersForConfidence is the minimum number of answers required to
// produce a full-confidence vector. Below this the neutral vector is
// returned flagged as low confidence.
const MinAnswersForConfidence = 3

// Answer is one quiz response. Value holds the selected option IDs;
// multi-select questions contribute the deltas of every selected option.
type Answer struct {
	QuestionID string    `json:"question_id"`
	Value      []string  `json:"value"`
	Timestamp  time.Time `json:"timestamp,omitempty"`
}

// Deltas are the per-dimension adjustments an answer option applies.
type Deltas struct {
	Fresh    float64
	Floral   float64
	Oriental float64
	Woody    float64
	Fruity   float64
	Gourmand float64
}

// QuestionBank maps question ID to option ID to dimension deltas.
// Banks are immutable after construction; the scorer never mutates one.
type QuestionBank map[string]map[string]Deltas

// Scorer converts quiz answers into taste vectors using a fixed
// question bank. Scoring is a pure function of the answers and bank.
type Scorer struct {
	bank   QuestionBank
	logger zerolog.Logger
}

// NewScorer creates a Scorer with the given question bank.
// A nil bank falls back to the built-in default quiz.
func NewScorer(bank QuestionBank) *Scorer {
	if bank == nil {
		bank = DefaultQuestionBank()
	}
	return &Scorer{
		bank:   bank,
		logger: logging.WithComponent("taste"),
	}
}

// Score converts answers into a taste vector.
//
// Every dimension starts at the neutral midpoint (50). Each recognized
// answer option adds its deltas; unknown question IDs and unknown
// options are logged and skipped. The result is clamped to [0, 100].
//
// The second return value is false when fewer than
// MinAnswersForConfidence answers were provided; in that case the
// neutral vector is returned unchanged.
func (s *Scorer) Score(answers []Answer) (Vector, bool) {
	if len(answers) < MinAnswersForConfidence {
		s.logger.Debug().
			Int("answers", len(answers)).
			Int("required", MinAnswersForConfidence).
			Msg("Too few answers, returning neutral vector")
		return Neutral(), false
	}

	v := Neutral()
	for _, answer := range answers {
		options, ok := s.bank[answer.QuestionID]
		if !ok {
			s.logger.Warn().
				Str("question_id", answer.QuestionID).
				Msg("Unknown question ID, skipping answer")
			continue
		}

		for _, selected := range answer.Value {
			d, ok := options[selected]
			if !ok {
				s.logger.Warn().
					Str("question_id", answer.QuestionID).
					Str("option", selected).
					Msg("Unknown answer option, skipping")
				continue
			}

			v.Fresh += d.Fresh
			v.Floral += d.Floral
			v.Oriental += d.Oriental
			v.Woody += d.Woody
			v.Fruity += d.Fruity
			v.Gourmand += d.Gourmand
		}
	}

	return v.Clamped(), true
}
