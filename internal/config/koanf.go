// ScentMatch - Fragrance Personalization Scoring and Caching Engine
// Copyright 2026 ScentMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scentmatch/scentmatch

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/scentmatch/scentmatch/internal/scoring"
)

// DefaultConfigPaths lists the paths where config files are searched
// in order of priority. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/scentmatch/config.yaml",
	"/etc/scentmatch/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with all defaults applied. These are
// layered first, then overridden by the config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		HTTP: HTTPConfig{
			CORSOrigins:           []string{"*"},
			RateLimitReqs:         100,
			RateLimitWindow:       time.Minute,
			RateLimitDisabled:     false,
			DefaultCandidateLimit: 100,
			MaxCandidateLimit:     500,
		},
		Catalog: CatalogConfig{
			Path:           "/data/catalog",
			InMemory:       false,
			GCInterval:     10 * time.Minute,
			GCDiscardRatio: 0.5,
		},
		Scoring: ScoringConfig{
			Weights:            scoring.DefaultWeights(),
			SecondaryThreshold: 0.7,
			CacheCapacity:      10000,
			CacheTTL:           5 * time.Minute,
			SweepInterval:      time.Minute,
		},
		Narrative: NarrativeConfig{
			GeneratorURL:      "", // generative tier disabled until configured
			RequestTimeout:    3 * time.Second,
			RequestsPerSecond: 5,
			Burst:             10,
			CacheCapacity:     10000,
			AITTL:             24 * time.Hour,
			TemplateTTL:       time.Hour,
			GenerateTimeout:   2 * time.Second,
			SweepInterval:     5 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered
// sources: built-in defaults, optional YAML file, environment
// variables. Precedence: ENV > File > Defaults.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables (highest priority)
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Comma-separated env values for slice fields
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the first file found, or empty string.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths are the config paths parsed as comma-separated
// slices when supplied through the environment.
var sliceConfigPaths = []string{
	"http.cors_origins",
}

// processSliceFields converts comma-separated string values to slices
// for known slice fields. Env vars arrive as plain strings.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// Already a slice (from the YAML file); nothing to do.
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envTransformFunc maps environment variable names to koanf paths.
// Unmapped variables return empty string and are skipped, so random
// environment noise never pollutes the config.
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// Server mappings
		"http_host":        "server.host",
		"http_port":        "server.port",
		"http_timeout":     "server.timeout",
		"shutdown_timeout": "server.shutdown_timeout",
		"environment":      "server.environment",

		// HTTP middleware mappings
		"cors_origins":            "http.cors_origins",
		"rate_limit_requests":     "http.rate_limit_reqs",
		"rate_limit_window":       "http.rate_limit_window",
		"disable_rate_limit":      "http.rate_limit_disabled",
		"default_candidate_limit": "http.default_candidate_limit",
		"max_candidate_limit":     "http.max_candidate_limit",

		// Catalog mappings
		"catalog_path":             "catalog.path",
		"catalog_in_memory":        "catalog.in_memory",
		"catalog_gc_interval":      "catalog.gc_interval",
		"catalog_gc_discard_ratio": "catalog.gc_discard_ratio",

		// Scoring mappings
		"scoring_weight_vector":       "scoring.weights.vector",
		"scoring_weight_accord":       "scoring.weights.accord",
		"scoring_weight_personality":  "scoring.weights.personality",
		"scoring_weight_experience":   "scoring.weights.experience",
		"scoring_weight_popularity":   "scoring.weights.popularity",
		"scoring_weight_sample_bonus": "scoring.weights.sample_bonus",
		"scoring_secondary_threshold": "scoring.secondary_threshold",
		"scoring_cache_capacity":      "scoring.cache_capacity",
		"scoring_cache_ttl":           "scoring.cache_ttl",
		"scoring_sweep_interval":      "scoring.sweep_interval",

		// Narrative mappings
		"narrative_generator_url":    "narrative.generator_url",
		"narrative_request_timeout":  "narrative.request_timeout",
		"narrative_rps":              "narrative.requests_per_second",
		"narrative_burst":            "narrative.burst",
		"narrative_cache_capacity":   "narrative.cache_capacity",
		"narrative_ai_ttl":           "narrative.ai_ttl",
		"narrative_template_ttl":     "narrative.template_ttl",
		"narrative_generate_timeout": "narrative.generate_timeout",
		"narrative_sweep_interval":   "narrative.sweep_interval",

		// Logging mappings
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}
	return ""
}
