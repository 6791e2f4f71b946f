// ScentMatch - Fragrance Personalization Scoring and Caching Engine
// Copyright 2026 ScentMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scentmatch/scentmatch

// Package main is the entry point for the ScentMatch engine server.
//
// ScentMatch turns quiz answers into a six-dimension taste profile,
// classifies it into a fragrance personality archetype, and scores
// catalog candidates against it with explainable sub-scores. Profile
// narratives are served through a tiered cache: exact cache hit, then
// a generative service under a hard timeout, then a deterministic
// template that cannot fail.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: Koanf v2 layered load (defaults, YAML file, env)
//  2. Catalog: BadgerDB candidate store (or in-memory for development)
//  3. Engine: taste scorer, archetype classifier, recommendation scorer
//  4. Narrative: tiered profile cache with optional generative client
//  5. HTTP Server: Chi router behind a suture supervision tree
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins): environment variables, config file (config.yaml),
// built-in defaults. See internal/config for the full mapping table.
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM:
//   - Stops accepting new connections
//   - Waits for in-flight requests to complete (configurable timeout)
//   - Stops cache sweepers and catalog GC
//   - Closes the catalog store
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/scentmatch/scentmatch/internal/api"
	"github.com/scentmatch/scentmatch/internal/archetype"
	"github.com/scentmatch/scentmatch/internal/catalog"
	"github.com/scentmatch/scentmatch/internal/config"
	"github.com/scentmatch/scentmatch/internal/logging"
	"github.com/scentmatch/scentmatch/internal/narrative"
	"github.com/scentmatch/scentmatch/internal/scoring"
	"github.com/scentmatch/scentmatch/internal/supervisor"
	"github.com/scentmatch/scentmatch/internal/supervisor/services"
	"github.com/scentmatch/scentmatch/internal/taste"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("environment", cfg.Server.Environment).
		Bool("catalog_in_memory", cfg.Catalog.InMemory).
		Bool("generative_narratives", cfg.Narrative.GeneratorURL != "").
		Msg("Starting ScentMatch engine")

	// Catalog store
	var (
		provider    catalog.Provider
		badgerStore *catalog.BadgerStore
	)
	if cfg.Catalog.InMemory {
		provider = catalog.NewMemoryStore()
		logging.Info().Msg("Using in-memory catalog store")
	} else {
		badgerStore, err = catalog.OpenBadgerStore(cfg.Catalog.Path)
		if err != nil {
			logging.Fatal().Err(err).Str("path", cfg.Catalog.Path).Msg("Failed to open catalog store")
		}
		defer func() {
			if err := badgerStore.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing catalog store")
			}
		}()
		provider = badgerStore
		logging.Info().Str("path", cfg.Catalog.Path).Msg("Catalog store opened")
	}

	// Engine components
	tasteScorer := taste.NewScorer(nil)
	classifier := archetype.NewClassifier(nil,
		archetype.WithSecondaryThreshold(cfg.Scoring.SecondaryThreshold))
	scorer := scoring.NewScorer(cfg.Scoring.Weights, cfg.Scoring.CacheCapacity, cfg.Scoring.CacheTTL)

	// Narrative tier chain: the generative client is optional.
	var generator narrative.Generator
	if cfg.Narrative.GeneratorURL != "" {
		generator = narrative.NewHTTPGenerator(narrative.HTTPGeneratorConfig{
			URL:               cfg.Narrative.GeneratorURL,
			RequestTimeout:    cfg.Narrative.RequestTimeout,
			RequestsPerSecond: cfg.Narrative.RequestsPerSecond,
			Burst:             cfg.Narrative.Burst,
		})
		logging.Info().Str("url", cfg.Narrative.GeneratorURL).Msg("Generative narrative client enabled")
	}
	narratives := narrative.NewProfileCache(generator, narrative.CacheConfig{
		Capacity:        cfg.Narrative.CacheCapacity,
		AITTL:           cfg.Narrative.AITTL,
		TemplateTTL:     cfg.Narrative.TemplateTTL,
		GenerateTimeout: cfg.Narrative.GenerateTimeout,
	})

	// HTTP surface
	handlers := api.NewHandlers(tasteScorer, classifier, scorer, narratives, provider,
		api.HandlersConfig{
			DefaultCandidateLimit: cfg.HTTP.DefaultCandidateLimit,
			MaxCandidateLimit:     cfg.HTTP.MaxCandidateLimit,
		})
	mw := api.NewChiMiddlewareFromConfig(cfg.HTTP.CORSOrigins,
		cfg.HTTP.RateLimitReqs, cfg.HTTP.RateLimitWindow, cfg.HTTP.RateLimitDisabled)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      api.NewRouter(handlers, mw),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Supervisor tree. The slog adapter bridges zerolog to slog for
	// sutureslog compatibility.
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// Data layer services
	tree.AddDataService(services.NewSweepService("scoring-sweeper", scorer, cfg.Scoring.SweepInterval))
	tree.AddDataService(services.NewSweepService("narrative-sweeper", narratives, cfg.Narrative.SweepInterval))
	if badgerStore != nil {
		tree.AddDataService(services.NewBadgerGCService(badgerStore,
			cfg.Catalog.GCInterval, cfg.Catalog.GCDiscardRatio))
	}

	// API layer services
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// Signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	// Wait for supervisor to finish (either from signal or error)
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Drain the error channel until the supervisor finishes.
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Engine stopped gracefully")
}
