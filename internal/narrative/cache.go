// ScentMatch - Fragrance Personalization Scoring and Caching Engine
// Copyright 2026 ScentMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scentmatch/scentmatch

package narrative

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/scentmatch/scentmatch/internal/cache"
	"github.com/scentmatch/scentmatch/internal/logging"
	"github.com/scentmatch/scentmatch/internal/metrics"
)

// CacheConfig configures the tiered profile cache.
type CacheConfig struct {
	// Capacity bounds the narrative store.
	// Default: 10000
	Capacity int

	// AITTL is the lifetime of generative narratives.
	// Default: 24h
	AITTL time.Duration

	// TemplateTTL is the lifetime of template narratives. Template
	// entries must not outlive generative ones, so this is clamped
	// to AITTL.
	// Default: 1h
	TemplateTTL time.Duration

	// GenerateTimeout is the hard deadline for the generative tier.
	// Results arriving after it are abandoned.
	// Default: 2s
	GenerateTimeout time.Duration
}

// DefaultCacheConfig returns the production defaults.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		Capacity:        10000,
		AITTL:           24 * time.Hour,
		TemplateTTL:     time.Hour,
		GenerateTimeout: 2 * time.Second,
	}
}

// ProfileCache serves narratives through the tier chain.
//
// Get never returns an error for a well-formed profile: a cache miss
// falls through to the generative service under a hard timeout, and a
// generative failure falls through to the template generator, which
// cannot fail. Template results are cached with the shorter TTL so a
// recovered generative service can replace them sooner.
type ProfileCache struct {
	store     *cache.TTLCache[string]
	generator Generator
	template  *TemplateGenerator
	cfg       CacheConfig
	logger    zerolog.Logger
}

// NewProfileCache creates the tiered cache. The generator may be nil,
// in which case misses go straight to the template tier.
func NewProfileCache(generator Generator, cfg CacheConfig) *ProfileCache {
	if cfg.Capacity <= 0 {
		cfg.Capacity = 10000
	}
	if cfg.AITTL <= 0 {
		cfg.AITTL = 24 * time.Hour
	}
	if cfg.TemplateTTL <= 0 {
		cfg.TemplateTTL = time.Hour
	}
	if cfg.TemplateTTL > cfg.AITTL {
		cfg.TemplateTTL = cfg.AITTL
	}
	if cfg.GenerateTimeout <= 0 {
		cfg.GenerateTimeout = 2 * time.Second
	}

	return &ProfileCache{
		store:     cache.New[string](cfg.Capacity, cfg.AITTL),
		generator: generator,
		template:  NewTemplateGenerator(),
		cfg:       cfg,
		logger:    logging.WithComponent("narrative"),
	}
}

// Get returns a narrative for the profile, trying each tier in order.
// When key is empty, a deterministic key is derived by hashing the
// profile's identifying fields.
func (p *ProfileCache) Get(ctx context.Context, key string, profile Profile) Result {
	if key == "" {
		key = cache.Key("profile", profile)
	}

	// Tier 1: exact cache.
	if text, ok := p.store.Get(key); ok {
		metrics.ProfileCacheHits.Inc()
		metrics.RecordNarrativeServed(TierCache.String())
		return Result{Text: text, Source: TierCache}
	}
	metrics.ProfileCacheMisses.Inc()

	// Tier 3: generative service under a hard timeout.
	attempted := false
	if p.generator != nil {
		attempted = true
		if text, ok := p.generate(ctx, profile); ok {
			p.store.SetWithTTL(key, text, p.cfg.AITTL)
			metrics.RecordNarrativeServed(TierAI.String())
			return Result{Text: text, Source: TierAI}
		}
	}

	// Tier 2: deterministic template, cannot fail.
	text, _ := p.template.Generate(ctx, profile)
	p.store.SetWithTTL(key, text, p.cfg.TemplateTTL)
	metrics.RecordNarrativeServed(TierTemplate.String())
	return Result{Text: text, Source: TierTemplate, FallbackUsed: attempted}
}

// generate races the generator against the configured hard timeout.
// A result arriving after the deadline is abandoned, not cached.
func (p *ProfileCache) generate(ctx context.Context, profile Profile) (string, bool) {
	genCtx, cancel := context.WithTimeout(ctx, p.cfg.GenerateTimeout)
	defer cancel()

	type outcome struct {
		text string
		err  error
	}
	// Buffered so a late generator goroutine can exit without a reader.
	ch := make(chan outcome, 1)

	go func() {
		text, err := p.generator.Generate(genCtx, profile)
		ch <- outcome{text: text, err: err}
	}()

	select {
	case out := <-ch:
		if out.err != nil {
			p.logger.Warn().Err(out.err).
				Str("archetype", profile.Archetype).
				Msg("Generative narrative failed, falling back to template")
			return "", false
		}
		return out.text, true

	case <-genCtx.Done():
		p.logger.Warn().
			Dur("timeout", p.cfg.GenerateTimeout).
			Str("archetype", profile.Archetype).
			Msg("Generative narrative timed out, falling back to template")
		return "", false
	}
}

// Stats returns the narrative store counters.
func (p *ProfileCache) Stats() cache.Stats {
	return p.store.Stats()
}

// CleanupExpired sweeps expired narratives and returns the count removed.
func (p *ProfileCache) CleanupExpired() int {
	return p.store.CleanupExpired()
}
