// ScentMatch - Fragrance Personalization Scoring and Caching Engine
// Copyright 2026 ScentMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scentmatch/scentmatch

package services

import (
	"context"
	"time"

	"github.com/scentmatch/scentmatch/internal/logging"
)

// Sweeper is any cache that can evict its expired entries. Both the
// scoring result cache and the narrative profile cache satisfy this.
type Sweeper interface {
	CleanupExpired() int
}

// SweepService periodically sweeps expired entries from a cache so
// memory is reclaimed even when keys are never read again.
type SweepService struct {
	name     string
	sweeper  Sweeper
	interval time.Duration
}

// NewSweepService creates a sweep service. The name shows up in
// supervisor logs; interval defaults to five minutes.
func NewSweepService(name string, sweeper Sweeper, interval time.Duration) *SweepService {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &SweepService{
		name:     name,
		sweeper:  sweeper,
		interval: interval,
	}
}

// Serve implements suture.Service.
func (s *SweepService) Serve(ctx context.Context) error {
	logger := logging.WithComponent(s.name)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-ticker.C:
			removed := s.sweeper.CleanupExpired()
			if removed > 0 {
				logger.Debug().
					Int("removed", removed).
					Msg("Swept expired cache entries")
			}
		}
	}
}

// String implements fmt.Stringer for logging.
func (s *SweepService) String() string {
	return s.name
}
