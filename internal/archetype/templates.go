// ScentMatch - Fragrance Personalization Scoring and Caching Engine
// Copyright 2026 ScentMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scentmatch/scentmatch

package archetype

import "github.com/scentmatch/scentmatch/internal/taste"

// Archetype names, in canonical classification order. Ties in
// similarity resolve to the earlier name in this list.
const (
	Romantic      = "romantic"
	Sophisticated = "sophisticated"
	Natural       = "natural"
	Bold          = "bold"
	Playful       = "playful"
	Mysterious    = "mysterious"
	Classic       = "classic"
	Modern        = "modern"
)

// Names lists the eight archetypes in canonical order.
func Names() []string {
	return []string{Romantic, Sophisticated, Natural, Bold, Playful, Mysterious, Classic, Modern}
}

// Template pairs an archetype name with its ideal taste vector.
type Template struct {
	Name   string
	Vector taste.Vector
}

// DefaultTemplates returns the built-in archetype templates.
// Values are on the same 0-100 scale as taste vectors.
func DefaultTemplates() []Template {
	return []Template{
		{Romantic, taste.Vector{Fresh: 40, Floral: 90, Oriental: 55, Woody: 30, Fruity: 65, Gourmand: 50}},
		{Sophisticated, taste.Vector{Fresh: 45, Floral: 50, Oriental: 75, Woody: 85, Fruity: 30, Gourmand: 40}},
		{Natural, taste.Vector{Fresh: 85, Floral: 60, Oriental: 25, Woody: 70, Fruity: 45, Gourmand: 20}},
		{Bold, taste.Vector{Fresh: 30, Floral: 35, Oriental: 90, Woody: 75, Fruity: 40, Gourmand: 55}},
		{Playful, taste.Vector{Fresh: 60, Floral: 55, Oriental: 30, Woody: 25, Fruity: 90, Gourmand: 70}},
		{Mysterious, taste.Vector{Fresh: 25, Floral: 40, Oriental: 85, Woody: 80, Fruity: 30, Gourmand: 60}},
		{Classic, taste.Vector{Fresh: 55, Floral: 75, Oriental: 60, Woody: 60, Fruity: 40, Gourmand: 35}},
		{Modern, taste.Vector{Fresh: 75, Floral: 45, Oriental: 45, Woody: 55, Fruity: 60, Gourmand: 45}},
	}
}
