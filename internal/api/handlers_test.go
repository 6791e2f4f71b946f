// ScentMatch - Fragrance Personalization Scoring and Caching Engine
// Copyright 2026 ScentMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scentmatch/scentmatch

package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/scentmatch/scentmatch/internal/archetype"
	"github.com/scentmatch/scentmatch/internal/catalog"
	"github.com/scentmatch/scentmatch/internal/narrative"
	"github.com/scentmatch/scentmatch/internal/scoring"
	"github.com/scentmatch/scentmatch/internal/taste"
)

// envelope mirrors APIResponse with a raw payload for typed re-decode.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
	Meta    *APIMeta        `json:"meta"`
}

func testCatalog(t *testing.T) *catalog.MemoryStore {
	t.Helper()

	store := catalog.NewMemoryStore()
	candidates := []scoring.Candidate{
		{ID: "f-001", Name: "Coastal Drift", Brand: "Maison Brise", Available: true,
			Popularity: 0.8, Embedding: []float64{85, 40, 20, 50, 55, 15},
			Accords: []string{"marine", "citrus"}, PersonalityTags: []string{"natural", "modern"}},
		{ID: "f-002", Name: "Velvet Ember", Brand: "Atelier Noir", Available: true,
			Popularity: 0.6, Embedding: []float64{20, 35, 90, 70, 30, 55},
			Accords: []string{"amber", "spice"}, PersonalityTags: []string{"mysterious"},
			SampleAvailable: true},
		{ID: "f-003", Name: "Orchard Hour", Brand: "Jardin Co", Available: false,
			Popularity: 0.4},
	}
	for _, c := range candidates {
		if err := store.PutCandidate(context.Background(), c); err != nil {
			t.Fatal(err)
		}
	}
	return store
}

func testRouter(t *testing.T, store catalog.Provider) http.Handler {
	t.Helper()

	handlers := NewHandlers(
		taste.NewScorer(nil),
		archetype.NewClassifier(nil),
		scoring.NewScorer(scoring.Weights{}, 100, time.Minute),
		narrative.NewProfileCache(nil, narrative.DefaultCacheConfig()),
		store,
		HandlersConfig{DefaultCandidateLimit: 50, MaxCandidateLimit: 100},
	)

	mw := NewChiMiddlewareFromConfig([]string{"*"}, 100, time.Minute, true)
	return NewRouter(handlers, mw)
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode envelope: %v\nbody: %s", err, rec.Body.String())
		}
	}
	return rec, env
}

func quizAnswers() []AnswerRequest {
	return []AnswerRequest{
		{QuestionID: "scent_memory", Value: []string{"ocean_morning"}},
		{QuestionID: "season", Value: []string{"summer"}},
		{QuestionID: "style", Value: []string{"crisp_minimal"}},
	}
}

func TestQuizAnalyze(t *testing.T) {
	router := testRouter(t, testCatalog(t))

	rec, env := doJSON(t, router, http.MethodPost, "/api/v1/quiz/analyze",
		QuizAnalyzeRequest{Answers: quizAnswers()})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !env.Success {
		t.Fatalf("success = false: %+v", env.Error)
	}

	var data QuizAnalyzeResponse
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatal(err)
	}
	if !data.Confident {
		t.Error("three answers must yield a confident profile")
	}
	if data.Archetype.Primary == "" {
		t.Error("missing primary archetype")
	}
	if data.Dimensions.Fresh <= taste.NeutralValue {
		t.Errorf("Fresh = %f, want above neutral for fresh-leaning answers", data.Dimensions.Fresh)
	}
}

func TestQuizAnalyze_ValidationError(t *testing.T) {
	router := testRouter(t, testCatalog(t))

	rec, env := doJSON(t, router, http.MethodPost, "/api/v1/quiz/analyze",
		QuizAnalyzeRequest{})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if env.Error == nil || env.Error.Code != ErrCodeValidationFailed {
		t.Errorf("error = %+v, want %s", env.Error, ErrCodeValidationFailed)
	}
}

func TestQuizAnalyze_MalformedJSON(t *testing.T) {
	router := testRouter(t, testCatalog(t))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/quiz/analyze",
		bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestRecommendations_WithProfile(t *testing.T) {
	router := testRouter(t, testCatalog(t))

	freshProfile := taste.Vector{Fresh: 90, Floral: 40, Oriental: 15, Woody: 45, Fruity: 60, Gourmand: 10}
	rec, env := doJSON(t, router, http.MethodPost, "/api/v1/recommendations",
		RecommendationsRequest{
			Profile:          &ProfileRequest{Dimensions: freshProfile},
			CandidateIDs:     []string{"f-001", "f-002", "f-003"},
			PreferredAccords: []string{"marine"},
		})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var data RecommendationsResponse
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatal(err)
	}
	// Every requested candidate comes back; unavailable ones rank last.
	if len(data.Recommendations) != 3 {
		t.Fatalf("recommendations = %d, want 3", len(data.Recommendations))
	}
	if data.Recommendations[0].ID != "f-001" {
		t.Errorf("top pick = %s, want f-001 for a fresh profile", data.Recommendations[0].ID)
	}
	if data.Recommendations[0].Score < data.Recommendations[1].Score {
		t.Error("results not sorted by descending score")
	}
	last := data.Recommendations[2]
	if last.ID != "f-003" || last.Available || last.Score != 0 {
		t.Errorf("unavailable candidate should rank last at score 0, got %+v", last)
	}
	if len(data.Profile.Archetypes) == 0 {
		t.Error("profile archetypes not derived")
	}
}

func TestRecommendations_UnknownExperienceLevel(t *testing.T) {
	router := testRouter(t, testCatalog(t))

	rec, env := doJSON(t, router, http.MethodPost, "/api/v1/recommendations",
		RecommendationsRequest{
			Profile:         &ProfileRequest{Dimensions: taste.Neutral()},
			CandidateIDs:    []string{"f-001"},
			ExperienceLevel: "wizard",
		})

	// Unrecognized levels fall back to enthusiast instead of failing.
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !env.Success {
		t.Fatalf("success = false: %+v", env.Error)
	}
}

func TestRecommendations_RepeatHitsCache(t *testing.T) {
	router := testRouter(t, testCatalog(t))

	body := RecommendationsRequest{
		Profile:      &ProfileRequest{Dimensions: taste.Neutral()},
		CandidateIDs: []string{"f-001", "f-002"},
	}

	_, env := doJSON(t, router, http.MethodPost, "/api/v1/recommendations", body)
	if env.Meta == nil || env.Meta.CacheHit {
		t.Fatalf("first request must miss, meta = %+v", env.Meta)
	}

	_, env = doJSON(t, router, http.MethodPost, "/api/v1/recommendations", body)
	if env.Meta == nil || !env.Meta.CacheHit {
		t.Errorf("repeat request must hit the memoization cache, meta = %+v", env.Meta)
	}
}

func TestRecommendations_FromAnswers(t *testing.T) {
	router := testRouter(t, testCatalog(t))

	rec, env := doJSON(t, router, http.MethodPost, "/api/v1/recommendations",
		RecommendationsRequest{Answers: quizAnswers(), Limit: 1})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var data RecommendationsResponse
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatal(err)
	}
	if len(data.Recommendations) != 1 {
		t.Errorf("limit not applied, got %d", len(data.Recommendations))
	}
}

func TestRecommendations_RequiresProfileOrAnswers(t *testing.T) {
	router := testRouter(t, testCatalog(t))

	rec, _ := doJSON(t, router, http.MethodPost, "/api/v1/recommendations",
		RecommendationsRequest{CandidateIDs: []string{"f-001"}})

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestRecommendations_CatalogUnavailable(t *testing.T) {
	store := testCatalog(t)
	store.SetUnavailable(true)
	router := testRouter(t, store)

	rec, env := doJSON(t, router, http.MethodPost, "/api/v1/recommendations",
		RecommendationsRequest{Answers: quizAnswers()})

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if env.Error == nil || env.Error.Code != ErrCodeServiceUnavailable {
		t.Errorf("error = %+v", env.Error)
	}
}

func TestProfile_NarrativeTiers(t *testing.T) {
	router := testRouter(t, testCatalog(t))

	body := NarrativeRequest{
		Archetype: archetype.Romantic,
		Vector:    taste.Vector{Fresh: 40, Floral: 90, Oriental: 55, Woody: 30, Fruity: 65, Gourmand: 50},
	}

	rec, env := doJSON(t, router, http.MethodPost, "/api/v1/profile", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var data NarrativeResponse
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatal(err)
	}
	if data.Narrative == "" {
		t.Fatal("empty narrative")
	}
	// Without a generator the first hit comes from the template tier.
	if data.Source != "template" {
		t.Errorf("source = %q, want template", data.Source)
	}
	if data.FallbackUsed {
		t.Error("no generator configured, FallbackUsed must be false")
	}

	// Second identical request is served from cache.
	_, env = doJSON(t, router, http.MethodPost, "/api/v1/profile", body)
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatal(err)
	}
	if data.Source != "cache" {
		t.Errorf("source = %q, want cache on repeat", data.Source)
	}
	if env.Meta == nil || !env.Meta.CacheHit {
		t.Error("meta.cache_hit not set on cached response")
	}
}

func TestEngineStats(t *testing.T) {
	router := testRouter(t, testCatalog(t))

	rec, env := doJSON(t, router, http.MethodGet, "/api/v1/engine/stats", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !env.Success {
		t.Error("success = false")
	}
}

func TestHealthz(t *testing.T) {
	router := testRouter(t, testCatalog(t))

	rec, _ := doJSON(t, router, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestNotFoundEnvelope(t *testing.T) {
	router := testRouter(t, testCatalog(t))

	rec, env := doJSON(t, router, http.MethodGet, "/api/v1/nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if env.Error == nil || env.Error.Code != ErrCodeNotFound {
		t.Errorf("error = %+v", env.Error)
	}
}

func TestRequestIDHeader(t *testing.T) {
	router := testRouter(t, testCatalog(t))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "fixed-id" {
		t.Errorf("X-Request-ID = %q, want fixed-id", got)
	}
}
