// ScentMatch - Fragrance Personalization Scoring and Caching Engine
// Copyright 2026 ScentMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scentmatch/scentmatch

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/scentmatch/scentmatch/internal/archetype"
	"github.com/scentmatch/scentmatch/internal/catalog"
	"github.com/scentmatch/scentmatch/internal/logging"
	"github.com/scentmatch/scentmatch/internal/narrative"
	"github.com/scentmatch/scentmatch/internal/scoring"
	"github.com/scentmatch/scentmatch/internal/taste"
	"github.com/scentmatch/scentmatch/internal/validation"
)

// HandlersConfig holds the request-shaping limits for the handlers.
type HandlersConfig struct {
	// DefaultCandidateLimit bounds catalog listing when the request
	// names no candidate IDs.
	DefaultCandidateLimit int

	// MaxCandidateLimit is the hard ceiling on returned recommendations.
	MaxCandidateLimit int
}

// Handlers wires the engine components behind HTTP endpoints.
type Handlers struct {
	taste      *taste.Scorer
	classifier *archetype.Classifier
	scorer     *scoring.Scorer
	narratives *narrative.ProfileCache
	catalog    catalog.Provider
	cfg        HandlersConfig
	logger     zerolog.Logger
}

// NewHandlers creates the handler set over the given components.
func NewHandlers(
	tasteScorer *taste.Scorer,
	classifier *archetype.Classifier,
	scorer *scoring.Scorer,
	narratives *narrative.ProfileCache,
	provider catalog.Provider,
	cfg HandlersConfig,
) *Handlers {
	if cfg.DefaultCandidateLimit <= 0 {
		cfg.DefaultCandidateLimit = 100
	}
	if cfg.MaxCandidateLimit <= 0 {
		cfg.MaxCandidateLimit = 500
	}

	return &Handlers{
		taste:      tasteScorer,
		classifier: classifier,
		scorer:     scorer,
		narratives: narratives,
		catalog:    provider,
		cfg:        cfg,
		logger:     logging.WithComponent("api"),
	}
}

// QuizAnalyze handles POST /api/v1/quiz/analyze.
// It converts quiz answers into a taste vector and archetype.
func (h *Handlers) QuizAnalyze(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req QuizAnalyzeRequest
	if !h.decode(rw, r, &req) {
		return
	}

	vector, confident := h.taste.Score(toAnswers(req.Answers))
	result := h.classifier.Classify(vector)

	logging.Ctx(r.Context()).Info().
		Int("answers", len(req.Answers)).
		Str("archetype", result.Primary).
		Bool("confident", confident).
		Msg("Analyzed quiz submission")

	rw.Success(QuizAnalyzeResponse{
		Dimensions: vector,
		Archetype:  result,
		Confident:  confident,
	})
}

// Recommendations handles POST /api/v1/recommendations.
// The request carries either an analyzed profile or raw quiz answers.
func (h *Handlers) Recommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req RecommendationsRequest
	if !h.decode(rw, r, &req) {
		return
	}
	if req.Profile == nil && len(req.Answers) == 0 {
		rw.BadRequest("either profile or answers must be provided")
		return
	}

	profile := h.resolveProfile(req)

	candidates, err := h.loadCandidates(r, req.CandidateIDs)
	if err != nil {
		if errors.Is(err, catalog.ErrUnavailable) {
			rw.ServiceUnavailable("fragrance catalog is unavailable")
			return
		}
		logging.Ctx(r.Context()).Error().Err(err).Msg("Candidate lookup failed")
		rw.InternalError("failed to load candidates")
		return
	}

	start := time.Now()
	ranked, cacheHit := h.scorer.ScoreCached(profile.Dimensions, candidates, scoring.Context{
		ExperienceLevel:  req.ExperienceLevel,
		PreferredAccords: req.PreferredAccords,
		Archetypes:       profile.Archetypes,
	})

	limit := req.Limit
	if limit <= 0 || limit > h.cfg.MaxCandidateLimit {
		limit = h.cfg.MaxCandidateLimit
	}
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	logging.Ctx(r.Context()).Info().
		Int("candidates", len(candidates)).
		Int("returned", len(ranked)).
		Bool("cache_hit", cacheHit).
		Dur("elapsed", time.Since(start)).
		Msg("Served recommendations")

	rw.SuccessWithMeta(RecommendationsResponse{
		Recommendations: ranked,
		Profile:         profile,
	}, &APIMeta{CacheHit: cacheHit})
}

// Profile handles POST /api/v1/profile.
// It serves the profile narrative through the tiered cache; the
// response never fails for a well-formed profile.
func (h *Handlers) Profile(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req NarrativeRequest
	if !h.decode(rw, r, &req) {
		return
	}

	res := h.narratives.Get(r.Context(), req.CacheKey, narrative.Profile{
		Archetype: req.Archetype,
		Secondary: req.Secondary,
		Vector:    req.Vector.Clamped(),
	})

	rw.SuccessWithMeta(NarrativeResponse{
		Narrative:    res.Text,
		Source:       res.Source.String(),
		FallbackUsed: res.FallbackUsed,
	}, &APIMeta{
		CacheHit: res.Source == narrative.TierCache,
		Source:   res.Source.String(),
	})
}

// EngineStats handles GET /api/v1/engine/stats.
func (h *Handlers) EngineStats(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(EngineStatsResponse{
		Scoring:   h.scorer.Stats(),
		Narrative: h.narratives.Stats(),
	})
}

// Healthz handles GET /healthz.
func (h *Handlers) Healthz(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, map[string]string{"status": "ok"})
}

// decode parses and validates the request body. Returns false after
// writing an error response when the body is unusable.
func (h *Handlers) decode(rw *ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		rw.BadRequest("invalid JSON body: " + err.Error())
		return false
	}

	if err := validation.ValidateStruct(dst); err != nil {
		var verr *validation.RequestValidationError
		if errors.As(err, &verr) {
			rw.ValidationError("request validation failed", verr.Fields)
		} else {
			rw.BadRequest(err.Error())
		}
		return false
	}
	return true
}

// resolveProfile produces the taste profile for scoring, analyzing raw
// answers when no profile was supplied.
func (h *Handlers) resolveProfile(req RecommendationsRequest) ProfileRequest {
	if req.Profile != nil {
		p := *req.Profile
		p.Dimensions = p.Dimensions.Clamped()
		if len(p.Archetypes) == 0 {
			result := h.classifier.Classify(p.Dimensions)
			p.Archetypes = archetypeNames(result)
		}
		return p
	}

	vector, _ := h.taste.Score(toAnswers(req.Answers))
	result := h.classifier.Classify(vector)
	return ProfileRequest{
		Dimensions: vector,
		Archetypes: archetypeNames(result),
	}
}

// loadCandidates fetches the scoring pool, either the named IDs or a
// bounded catalog listing.
func (h *Handlers) loadCandidates(r *http.Request, ids []string) ([]scoring.Candidate, error) {
	if len(ids) > 0 {
		return h.catalog.GetCandidates(r.Context(), ids)
	}
	return h.catalog.ListCandidates(r.Context(), h.cfg.DefaultCandidateLimit)
}

func toAnswers(in []AnswerRequest) []taste.Answer {
	out := make([]taste.Answer, len(in))
	for i, a := range in {
		out[i] = taste.Answer{
			QuestionID: a.QuestionID,
			Value:      a.Value,
			Timestamp:  a.Timestamp,
		}
	}
	return out
}

func archetypeNames(result archetype.Result) []string {
	names := []string{result.Primary}
	if result.Secondary != "" {
		names = append(names, result.Secondary)
	}
	return names
}
