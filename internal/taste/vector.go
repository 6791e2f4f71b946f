// ScentMatch - Fragrance Personalization Scoring and Caching Engine
// Copyright 2026 ScentMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scentmatch/scentmatch

// Package taste converts quiz answers into a six-dimension fragrance
// taste vector.
package taste

// Dimension names, in canonical order. The order matters for any code
// that works with the slice form of a Vector.
const (
	DimFresh    = "fresh"
	DimFloral   = "floral"
	DimOriental = "oriental"
	DimWoody    = "woody"
	DimFruity   = "fruity"
	DimGourmand = "gourmand"
)

// NumDimensions is the number of taste dimensions.
const NumDimensions = 6

// NeutralValue is the midpoint baseline for every dimension.
const NeutralValue = 50.0

// Vector is a taste profile across the six fragrance dimensions.
// Each dimension is a score in [0, 100] where 50 is neutral.
type Vector struct {
	Fresh    float64 `json:"fresh"`
	Floral   float64 `json:"floral"`
	Oriental float64 `json:"oriental"`
	Woody    float64 `json:"woody"`
	Fruity   float64 `json:"fruity"`
	Gourmand float64 `json:"gourmand"`
}

// Neutral returns the midpoint vector.
func Neutral() Vector {
	return Vector{
		Fresh:    NeutralValue,
		Floral:   NeutralValue,
		Oriental: NeutralValue,
		Woody:    NeutralValue,
		Fruity:   NeutralValue,
		Gourmand: NeutralValue,
	}
}

// AsSlice returns the dimensions in canonical order.
func (v Vector) AsSlice() []float64 {
	return []float64{v.Fresh, v.Floral, v.Oriental, v.Woody, v.Fruity, v.Gourmand}
}

// FromSlice builds a Vector from a slice in canonical order.
// Missing trailing dimensions default to neutral.
func FromSlice(values []float64) Vector {
	v := Neutral()
	dims := []*float64{&v.Fresh, &v.Floral, &v.Oriental, &v.Woody, &v.Fruity, &v.Gourmand}
	for i := 0; i < len(values) && i < NumDimensions; i++ {
		*dims[i] = values[i]
	}
	return v
}

// Clamped returns a copy with every dimension limited to [0, 100].
func (v Vector) Clamped() Vector {
	return Vector{
		Fresh:    clamp(v.Fresh),
		Floral:   clamp(v.Floral),
		Oriental: clamp(v.Oriental),
		Woody:    clamp(v.Woody),
		Fruity:   clamp(v.Fruity),
		Gourmand: clamp(v.Gourmand),
	}
}

// Dominant returns the names of the top n dimensions by score,
// strongest first. Ties resolve in canonical dimension order.
// n outside [0, NumDimensions] is clamped.
func (v Vector) Dominant(n int) []string {
	if n <= 0 {
		return []string{}
	}

	names := []string{DimFresh, DimFloral, DimOriental, DimWoody, DimFruity, DimGourmand}
	values := v.AsSlice()

	// Selection sort over six elements; stable for ties.
	order := []int{0, 1, 2, 3, 4, 5}
	for i := 0; i < NumDimensions; i++ {
		best := i
		for j := i + 1; j < NumDimensions; j++ {
			if values[order[j]] > values[order[best]] {
				best = j
			}
		}
		order[i], order[best] = order[best], order[i]
	}

	if n > NumDimensions {
		n = NumDimensions
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, names[order[i]])
	}
	return out
}

func clamp(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 100 {
		return 100
	}
	return x
}
