// ScentMatch - Fragrance Personalization Scoring and Caching Engine
// Copyright 2026 ScentMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scentmatch/scentmatch

package narrative

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/scentmatch/scentmatch/internal/logging"
	"github.com/scentmatch/scentmatch/internal/metrics"
)

// ErrRateLimited is returned when the client-side token budget for the
// generative service is exhausted.
var ErrRateLimited = errors.New("narrative: generative request rate limited")

// HTTPGeneratorConfig configures the generative narrative client.
type HTTPGeneratorConfig struct {
	// URL is the generation endpoint.
	URL string

	// RequestTimeout bounds a single upstream call.
	// Default: 3s
	RequestTimeout time.Duration

	// RequestsPerSecond is the client-side token budget.
	// Default: 5
	RequestsPerSecond float64

	// Burst is the rate limiter burst size.
	// Default: 10
	Burst int
}

// HTTPGenerator calls an external generative service over HTTP JSON.
// The upstream is treated as unreliable: every call passes through a
// rate limiter and a circuit breaker, and the caller is expected to
// hold a template fallback.
type HTTPGenerator struct {
	url     string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[string]
	limiter *rate.Limiter
	logger  zerolog.Logger
}

// generateRequest is the upstream request body.
type generateRequest struct {
	Archetype  string    `json:"archetype"`
	Secondary  string    `json:"secondary,omitempty"`
	Dimensions []float64 `json:"dimensions"`
}

// generateResponse is the upstream response body.
type generateResponse struct {
	Narrative string `json:"narrative"`
}

// NewHTTPGenerator creates a generative client with circuit breaker
// and rate limiting wired in.
func NewHTTPGenerator(cfg HTTPGeneratorConfig) *HTTPGenerator {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 3 * time.Second
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 5
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 10
	}

	logger := logging.WithComponent("narrative-client")

	settings := gobreaker.Settings{
		Name:        "narrative-generator",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state changed")
			metrics.RecordCircuitBreakerState(breakerStateValue(to))
		},
	}

	return &HTTPGenerator{
		url:     cfg.URL,
		client:  &http.Client{Timeout: cfg.RequestTimeout},
		breaker: gobreaker.NewCircuitBreaker[string](settings),
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		logger:  logger,
	}
}

// Generate requests a narrative from the generative service.
// Fails fast when the rate budget is exhausted or the breaker is open.
func (g *HTTPGenerator) Generate(ctx context.Context, profile Profile) (string, error) {
	if !g.limiter.Allow() {
		metrics.NarrativeGenerationErrors.WithLabelValues("rate_limited").Inc()
		return "", ErrRateLimited
	}

	start := time.Now()
	text, err := g.breaker.Execute(func() (string, error) {
		return g.call(ctx, profile)
	})
	if err != nil {
		switch {
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			metrics.NarrativeGenerationErrors.WithLabelValues("breaker_open").Inc()
		case errors.Is(err, context.DeadlineExceeded):
			metrics.NarrativeGenerationErrors.WithLabelValues("timeout").Inc()
		default:
			metrics.NarrativeGenerationErrors.WithLabelValues("upstream").Inc()
		}
		return "", err
	}

	metrics.NarrativeGenerationDuration.Observe(time.Since(start).Seconds())
	return text, nil
}

// call performs the HTTP round trip.
func (g *HTTPGenerator) call(ctx context.Context, profile Profile) (string, error) {
	body, err := json.Marshal(generateRequest{
		Archetype:  profile.Archetype,
		Secondary:  profile.Secondary,
		Dimensions: profile.Vector.AsSlice(),
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("generative request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096)) //nolint:errcheck
		return "", fmt.Errorf("generative service returned status %d", resp.StatusCode)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if out.Narrative == "" {
		return "", errors.New("generative service returned an empty narrative")
	}

	return out.Narrative, nil
}

// breakerStateValue maps breaker states onto the gauge scale.
func breakerStateValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
