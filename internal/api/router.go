// ScentMatch - Fragrance Personalization Scoring and Caching Engine
// Copyright 2026 ScentMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scentmatch/scentmatch

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/scentmatch/scentmatch/internal/middleware"
)

// NewRouter assembles the Chi router for the engine API.
//
// Route layout:
//
//	POST /api/v1/quiz/analyze     quiz answers -> taste profile
//	POST /api/v1/recommendations  profile/answers -> ranked fragrances
//	POST /api/v1/profile          profile -> tiered narrative
//	GET  /api/v1/engine/stats     cache and scoring counters
//	GET  /healthz                 liveness probe
//	GET  /metrics                 Prometheus exposition
func NewRouter(h *Handlers, mw *ChiMiddleware) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware, outermost first.
	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(mw.CORS())
	r.Use(APISecurityHeaders())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(mw.RateLimit())

		r.Post("/quiz/analyze", instrumented(h.QuizAnalyze))

		r.With(mw.RateLimitCustom(RateLimitScoring)).
			Post("/recommendations", instrumented(h.Recommendations))

		r.With(mw.RateLimitCustom(RateLimitNarrative)).
			Post("/profile", instrumented(h.Profile))

		r.Get("/engine/stats", instrumented(h.EngineStats))
	})

	r.With(mw.RateLimitCustom(RateLimitHealth)).Get("/healthz", h.Healthz)
	r.Handle("/metrics", promhttp.Handler())

	// Consistent envelope for unmatched routes and methods.
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		WriteError(w, req, http.StatusNotFound, ErrCodeNotFound, "endpoint not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		WriteError(w, req, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "method not allowed")
	})

	return r
}

// instrumented wraps a handler with Prometheus request instrumentation.
func instrumented(h http.HandlerFunc) http.HandlerFunc {
	return middleware.PrometheusMetrics(h)
}
