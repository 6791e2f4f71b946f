// ScentMatch - Fragrance Personalization Scoring and Caching Engine
// Copyright 2026 ScentMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scentmatch/scentmatch

// Package narrative serves fragrance profile narratives through a
// three-tier chain: exact cache, generative service, deterministic
// template. A well-formed profile always gets a narrative; the tiers
// only trade freshness and flair for reliability.
package narrative

import (
	"context"

	"github.com/scentmatch/scentmatch/internal/taste"
)

// Tier identifies which layer produced a narrative.
type Tier int

const (
	// TierCache means the narrative was served from the exact cache.
	TierCache Tier = iota

	// TierAI means the generative service produced the narrative.
	TierAI

	// TierTemplate means the deterministic fallback produced it.
	TierTemplate
)

// String returns the wire name of the tier.
func (t Tier) String() string {
	switch t {
	case TierCache:
		return "cache"
	case TierAI:
		return "ai"
	case TierTemplate:
		return "template"
	default:
		return "unknown"
	}
}

// Profile is the identity a narrative is written for.
type Profile struct {
	// Archetype is the primary personality archetype.
	Archetype string `json:"archetype"`

	// Secondary is the optional secondary archetype.
	Secondary string `json:"secondary,omitempty"`

	// Vector is the underlying taste vector.
	Vector taste.Vector `json:"vector"`
}

// Result is a served narrative plus its provenance.
type Result struct {
	// Text is the narrative body.
	Text string `json:"text"`

	// Source is the tier that produced the text.
	Source Tier `json:"source"`

	// FallbackUsed is true when the generative tier was attempted
	// but the template had to step in.
	FallbackUsed bool `json:"fallback_used"`
}

// Generator produces a narrative for a profile. Implementations may
// fail; callers are expected to fall back to the template generator.
type Generator interface {
	Generate(ctx context.Context, profile Profile) (string, error)
}
