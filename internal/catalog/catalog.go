// ScentMatch - Fragrance Personalization Scoring and Caching Engine
// Copyright 2026 ScentMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scentmatch/scentmatch

// Package catalog provides read access to the fragrance candidate
// store. Missing individual records degrade to absent data; only a
// total store failure surfaces as ErrUnavailable.
package catalog

import (
	"context"
	"errors"

	"github.com/scentmatch/scentmatch/internal/scoring"
)

// ErrUnavailable indicates the catalog store itself is down. This is
// the only catalog error the API maps to a 503.
var ErrUnavailable = errors.New("catalog: store unavailable")

// Provider is the read interface over the candidate catalog.
type Provider interface {
	// GetCandidates returns the candidates for the given IDs.
	// Unknown IDs are silently omitted from the result.
	GetCandidates(ctx context.Context, ids []string) ([]scoring.Candidate, error)

	// ListCandidates returns up to limit candidates. A non-positive
	// limit applies the implementation default.
	ListCandidates(ctx context.Context, limit int) ([]scoring.Candidate, error)
}

// DefaultListLimit bounds ListCandidates when no limit is given.
const DefaultListLimit = 500
