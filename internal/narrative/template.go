// ScentMatch - Fragrance Personalization Scoring and Caching Engine
// Copyright 2026 ScentMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scentmatch/scentmatch

package narrative

import (
	"context"
	"fmt"
	"strings"
)

// archetypeIntros are the fixed openings per archetype. Unknown
// archetypes fall back to a generic opening so the template generator
// can never fail.
var archetypeIntros = map[string]string{
	"romantic":      "You are drawn to scents that feel like a love letter",
	"sophisticated": "Your taste gravitates toward polished, refined compositions",
	"natural":       "You connect with scents that feel effortless and alive",
	"bold":          "You wear fragrance like a statement, unapologetic and memorable",
	"playful":       "Your scent personality sparkles with energy and joy",
	"mysterious":    "You prefer fragrances that keep a little secret",
	"classic":       "Timeless elegance anchors your fragrance wardrobe",
	"modern":        "Your taste is clean, current, and quietly confident",
}

// dimensionPhrases describe a dominant taste dimension.
var dimensionPhrases = map[string]string{
	"fresh":    "crisp, airy notes",
	"floral":   "lush floral bouquets",
	"oriental": "warm spices and rich resins",
	"woody":    "grounding woods",
	"fruity":   "juicy, vibrant fruits",
	"gourmand": "sweet, indulgent gourmand touches",
}

// TemplateGenerator builds narratives deterministically from the
// archetype and the profile's dominant dimensions. It never fails and
// serves as the final tier of the narrative chain.
type TemplateGenerator struct{}

// NewTemplateGenerator creates the deterministic fallback generator.
func NewTemplateGenerator() *TemplateGenerator {
	return &TemplateGenerator{}
}

// Generate composes a narrative for the profile. The error is always
// nil; the signature exists to satisfy the Generator interface.
func (g *TemplateGenerator) Generate(_ context.Context, profile Profile) (string, error) {
	intro, ok := archetypeIntros[profile.Archetype]
	if !ok {
		intro = "Your fragrance profile is distinctly your own"
	}

	dominant := profile.Vector.Dominant(2)
	phrases := make([]string, 0, 2)
	for _, dim := range dominant {
		if p, ok := dimensionPhrases[dim]; ok {
			phrases = append(phrases, p)
		}
	}

	var b strings.Builder
	b.WriteString(intro)
	if len(phrases) > 0 {
		fmt.Fprintf(&b, ", with a pull toward %s", strings.Join(phrases, " and "))
	}
	b.WriteString(".")

	if profile.Secondary != "" {
		fmt.Fprintf(&b, " A %s streak runs underneath, giving your collection its range.", profile.Secondary)
	}

	return b.String(), nil
}
