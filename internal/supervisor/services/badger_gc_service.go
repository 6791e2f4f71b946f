// ScentMatch - Fragrance Personalization Scoring and Caching Engine
// Copyright 2026 ScentMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scentmatch/scentmatch

package services

import (
	"context"
	"time"

	"github.com/scentmatch/scentmatch/internal/catalog"
	"github.com/scentmatch/scentmatch/internal/logging"
)

// BadgerGCService periodically runs Badger's value-log garbage
// collection on the catalog store. Badger never reclaims value-log
// space on its own, so a long-running process must drive GC.
type BadgerGCService struct {
	store        *catalog.BadgerStore
	interval     time.Duration
	discardRatio float64
}

// NewBadgerGCService creates the GC service. Interval defaults to ten
// minutes and the discard ratio to 0.5.
func NewBadgerGCService(store *catalog.BadgerStore, interval time.Duration, discardRatio float64) *BadgerGCService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	if discardRatio <= 0 || discardRatio >= 1 {
		discardRatio = 0.5
	}
	return &BadgerGCService{
		store:        store,
		interval:     interval,
		discardRatio: discardRatio,
	}
}

// Serve implements suture.Service.
func (s *BadgerGCService) Serve(ctx context.Context) error {
	logger := logging.WithComponent("catalog-gc")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-ticker.C:
			// RunGC rewrites at most one log file per call; loop until
			// there is nothing left to reclaim.
			rewritten := 0
			for s.store.RunGC(s.discardRatio) {
				rewritten++
			}
			if rewritten > 0 {
				logger.Debug().
					Int("rewritten", rewritten).
					Msg("Badger value log GC completed")
			}
		}
	}
}

// String implements fmt.Stringer for logging.
func (s *BadgerGCService) String() string {
	return "catalog-gc"
}
