// ScentMatch - Fragrance Personalization Scoring and Caching Engine
// Copyright 2026 ScentMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scentmatch/scentmatch

// Package config defines the service configuration and its layered
// loading: struct defaults, optional YAML file, environment overrides.
package config

import (
	"fmt"
	"time"

	"github.com/scentmatch/scentmatch/internal/scoring"
)

// Config is the root configuration for the ScentMatch engine.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	HTTP      HTTPConfig      `koanf:"http"`
	Catalog   CatalogConfig   `koanf:"catalog"`
	Scoring   ScoringConfig   `koanf:"scoring"`
	Narrative NarrativeConfig `koanf:"narrative"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"`
}

// HTTPConfig holds middleware settings for the API surface.
type HTTPConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	// DefaultCandidateLimit caps candidate lists when the request
	// names no explicit IDs.
	DefaultCandidateLimit int `koanf:"default_candidate_limit"`
	MaxCandidateLimit     int `koanf:"max_candidate_limit"`
}

// CatalogConfig holds candidate store settings.
type CatalogConfig struct {
	// Path is the BadgerDB directory. Ignored when InMemory is set.
	Path string `koanf:"path"`

	// InMemory runs the catalog without persistence.
	InMemory bool `koanf:"in_memory"`

	// GCInterval is how often the Badger value log GC runs.
	GCInterval time.Duration `koanf:"gc_interval"`

	// GCDiscardRatio is passed to Badger's value log GC.
	GCDiscardRatio float64 `koanf:"gc_discard_ratio"`
}

// ScoringConfig holds recommendation scoring settings.
type ScoringConfig struct {
	Weights scoring.Weights `koanf:"weights"`

	// SecondaryThreshold gates the secondary archetype.
	SecondaryThreshold float64 `koanf:"secondary_threshold"`

	// CacheCapacity and CacheTTL size the memoized result cache.
	CacheCapacity int           `koanf:"cache_capacity"`
	CacheTTL      time.Duration `koanf:"cache_ttl"`

	// SweepInterval drives the periodic expired-entry sweep.
	SweepInterval time.Duration `koanf:"sweep_interval"`
}

// NarrativeConfig holds the tiered narrative settings.
type NarrativeConfig struct {
	// GeneratorURL is the generative service endpoint. Empty
	// disables the generative tier entirely.
	GeneratorURL string `koanf:"generator_url"`

	RequestTimeout    time.Duration `koanf:"request_timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	Burst             int           `koanf:"burst"`

	CacheCapacity   int           `koanf:"cache_capacity"`
	AITTL           time.Duration `koanf:"ai_ttl"`
	TemplateTTL     time.Duration `koanf:"template_ttl"`
	GenerateTimeout time.Duration `koanf:"generate_timeout"`
	SweepInterval   time.Duration `koanf:"sweep_interval"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks invariants that would otherwise surface as subtle
// runtime misbehavior.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}

	switch c.Server.Environment {
	case "development", "production", "test":
	default:
		return fmt.Errorf("server.environment %q must be development, production, or test", c.Server.Environment)
	}

	if c.Scoring.SecondaryThreshold < 0 || c.Scoring.SecondaryThreshold > 1 {
		return fmt.Errorf("scoring.secondary_threshold %f out of [0,1]", c.Scoring.SecondaryThreshold)
	}

	w := c.Scoring.Weights
	for name, v := range map[string]float64{
		"vector":       w.Vector,
		"accord":       w.Accord,
		"personality":  w.Personality,
		"experience":   w.Experience,
		"popularity":   w.Popularity,
		"sample_bonus": w.SampleBonus,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("scoring.weights.%s %f out of [0,1]", name, v)
		}
	}

	if c.Narrative.TemplateTTL > c.Narrative.AITTL {
		return fmt.Errorf("narrative.template_ttl %v must not exceed narrative.ai_ttl %v",
			c.Narrative.TemplateTTL, c.Narrative.AITTL)
	}

	if !c.Catalog.InMemory && c.Catalog.Path == "" {
		return fmt.Errorf("catalog.path is required unless catalog.in_memory is set")
	}
	if c.Catalog.GCDiscardRatio <= 0 || c.Catalog.GCDiscardRatio >= 1 {
		return fmt.Errorf("catalog.gc_discard_ratio %f out of (0,1)", c.Catalog.GCDiscardRatio)
	}

	if c.HTTP.MaxCandidateLimit < c.HTTP.DefaultCandidateLimit {
		return fmt.Errorf("http.max_candidate_limit %d below http.default_candidate_limit %d",
			c.HTTP.MaxCandidateLimit, c.HTTP.DefaultCandidateLimit)
	}

	return nil
}
