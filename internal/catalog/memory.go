// ScentMatch - Fragrance Personalization Scoring and Caching Engine
// Copyright 2026 ScentMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scentmatch/scentmatch

package catalog

import (
	"context"
	"sort"
	"sync"

	"github.com/scentmatch/scentmatch/internal/scoring"
)

// MemoryStore is an in-memory Provider used in tests and for running
// without a persistent catalog.
type MemoryStore struct {
	mu          sync.RWMutex
	items       map[string]scoring.Candidate
	unavailable bool
}

// NewMemoryStore creates an empty in-memory catalog.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]scoring.Candidate)}
}

// PutCandidate stores a candidate record.
func (s *MemoryStore) PutCandidate(_ context.Context, c scoring.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[c.ID] = c
	return nil
}

// SetUnavailable toggles simulated store failure. While set, every
// read returns ErrUnavailable.
func (s *MemoryStore) SetUnavailable(down bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unavailable = down
}

// GetCandidates returns the candidates for the given IDs, omitting
// unknown IDs.
func (s *MemoryStore) GetCandidates(_ context.Context, ids []string) ([]scoring.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.unavailable {
		return nil, ErrUnavailable
	}

	out := make([]scoring.Candidate, 0, len(ids))
	for _, id := range ids {
		if c, ok := s.items[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// ListCandidates returns up to limit candidates in ID order.
func (s *MemoryStore) ListCandidates(_ context.Context, limit int) ([]scoring.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.unavailable {
		return nil, ErrUnavailable
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}

	ids := make([]string, 0, len(s.items))
	for id := range s.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	if len(ids) > limit {
		ids = ids[:limit]
	}
	out := make([]scoring.Candidate, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.items[id])
	}
	return out, nil
}
