// ScentMatch - Fragrance Personalization Scoring and Caching Engine
// Copyright 2026 ScentMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scentmatch/scentmatch

package taste

import (
	"testing"
)

// testBank is a small deterministic bank used instead of the full quiz.
func testBank() QuestionBank {
	return QuestionBank{
		"q1": {
			"fresh_opt":  {Fresh: 20},
			"woody_opt":  {Woody: 20},
			"mixed_opt":  {Fresh: 10, Fruity: 10},
			"over_opt":   {Gourmand: 80},
			"under_opt":  {Gourmand: -80},
		},
		"q2": {
			"floral_opt": {Floral: 15, Fresh: -5},
		},
		"q3": {
			"noop_opt": {},
		},
	}
}

func answers(pairs ...[2]string) []Answer {
	out := make([]Answer, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, Answer{QuestionID: p[0], Value: []string{p[1]}})
	}
	return out
}

func TestScorer_NeutralBaseline(t *testing.T) {
	s := NewScorer(testBank())

	v, confident := s.Score(answers(
		[2]string{"q3", "noop_opt"},
		[2]string{"q3", "noop_opt"},
		[2]string{"q3", "noop_opt"},
	))
	if !confident {
		t.Fatal("three answers should be full confidence")
	}
	if v != Neutral() {
		t.Errorf("no-op answers should leave the neutral vector, got %+v", v)
	}
}

func TestScorer_AppliesDeltas(t *testing.T) {
	s := NewScorer(testBank())

	v, confident := s.Score(answers(
		[2]string{"q1", "fresh_opt"},
		[2]string{"q2", "floral_opt"},
		[2]string{"q3", "noop_opt"},
	))
	if !confident {
		t.Fatal("expected full confidence")
	}

	if want := 50.0 + 20 - 5; v.Fresh != want {
		t.Errorf("Fresh = %f, want %f", v.Fresh, want)
	}
	if want := 50.0 + 15; v.Floral != want {
		t.Errorf("Floral = %f, want %f", v.Floral, want)
	}
	if v.Woody != 50 || v.Oriental != 50 {
		t.Errorf("untouched dimensions should stay neutral, got %+v", v)
	}
}

func TestScorer_TooFewAnswers(t *testing.T) {
	s := NewScorer(testBank())

	v, confident := s.Score(answers(
		[2]string{"q1", "fresh_opt"},
		[2]string{"q2", "floral_opt"},
	))
	if confident {
		t.Error("two answers should be low confidence")
	}
	if v != Neutral() {
		t.Errorf("low-confidence result should be the neutral vector, got %+v", v)
	}
}

func TestScorer_UnknownInputsSkipped(t *testing.T) {
	s := NewScorer(testBank())

	v, confident := s.Score(answers(
		[2]string{"q1", "fresh_opt"},
		[2]string{"bogus_question", "whatever"},
		[2]string{"q1", "bogus_option"},
	))
	if !confident {
		t.Fatal("three answers given, expected full confidence")
	}
	if want := 70.0; v.Fresh != want {
		t.Errorf("Fresh = %f, want %f; unknown inputs must not contribute", v.Fresh, want)
	}
}

func TestScorer_ClampsToRange(t *testing.T) {
	s := NewScorer(testBank())

	v, _ := s.Score(answers(
		[2]string{"q1", "over_opt"},
		[2]string{"q1", "over_opt"},
		[2]string{"q1", "over_opt"},
	))
	if v.Gourmand != 100 {
		t.Errorf("Gourmand = %f, want clamp at 100", v.Gourmand)
	}

	v, _ = s.Score(answers(
		[2]string{"q1", "under_opt"},
		[2]string{"q1", "under_opt"},
		[2]string{"q1", "under_opt"},
	))
	if v.Gourmand != 0 {
		t.Errorf("Gourmand = %f, want clamp at 0", v.Gourmand)
	}
}

func TestScorer_MultiSelect(t *testing.T) {
	s := NewScorer(testBank())

	in := []Answer{
		{QuestionID: "q1", Value: []string{"fresh_opt", "woody_opt"}},
		{QuestionID: "q2", Value: []string{"floral_opt"}},
		{QuestionID: "q3", Value: []string{"noop_opt"}},
	}
	v, _ := s.Score(in)

	if want := 65.0; v.Fresh != want {
		t.Errorf("Fresh = %f, want %f", v.Fresh, want)
	}
	if want := 70.0; v.Woody != want {
		t.Errorf("Woody = %f, want %f", v.Woody, want)
	}
}

func TestScorer_DoesNotMutateInput(t *testing.T) {
	s := NewScorer(testBank())

	in := answers(
		[2]string{"q1", "fresh_opt"},
		[2]string{"q2", "floral_opt"},
		[2]string{"q3", "noop_opt"},
	)
	s.Score(in)

	if in[0].QuestionID != "q1" || len(in[0].Value) != 1 || in[0].Value[0] != "fresh_opt" {
		t.Error("Score must not mutate its input")
	}
}

func TestScorer_DefaultBank(t *testing.T) {
	s := NewScorer(nil)

	v, confident := s.Score(answers(
		[2]string{"scent_memory", "ocean_morning"},
		[2]string{"season", "summer"},
		[2]string{"style", "crisp_minimal"},
	))
	if !confident {
		t.Fatal("expected full confidence")
	}
	if v.Fresh <= NeutralValue {
		t.Errorf("consistently fresh answers should raise Fresh above neutral, got %f", v.Fresh)
	}
	dominant := v.Dominant(1)
	if dominant[0] != DimFresh {
		t.Errorf("dominant dimension = %s, want %s", dominant[0], DimFresh)
	}
}

func TestScorer_ElegantEveningAnswers(t *testing.T) {
	s := NewScorer(nil)

	v, confident := s.Score(answers(
		[2]string{"style", "elegant"},
		[2]string{"occasions", "evening"},
		[2]string{"preferences", "floral"},
	))
	if !confident {
		t.Fatal("expected full confidence")
	}
	if v.Floral <= NeutralValue {
		t.Errorf("Floral = %f, want above neutral", v.Floral)
	}
	if v.Oriental <= NeutralValue {
		t.Errorf("Oriental = %f, want above neutral", v.Oriental)
	}
	dominant := v.Dominant(2)
	if dominant[0] != DimFloral || dominant[1] != DimOriental {
		t.Errorf("dominant dimensions = %v, want [floral oriental]", dominant)
	}
}

func TestVector_Dominant(t *testing.T) {
	v := Vector{Fresh: 80, Floral: 20, Oriental: 90, Woody: 50, Fruity: 50, Gourmand: 10}

	top := v.Dominant(2)
	if top[0] != DimOriental || top[1] != DimFresh {
		t.Errorf("Dominant(2) = %v, want [oriental fresh]", top)
	}

	if got := v.Dominant(0); len(got) != 0 {
		t.Errorf("Dominant(0) = %v, want empty", got)
	}
	if got := v.Dominant(-1); len(got) != 0 {
		t.Errorf("Dominant(-1) = %v, want empty", got)
	}
}

func TestVector_SliceRoundTrip(t *testing.T) {
	v := Vector{Fresh: 1, Floral: 2, Oriental: 3, Woody: 4, Fruity: 5, Gourmand: 6}
	if got := FromSlice(v.AsSlice()); got != v {
		t.Errorf("FromSlice(AsSlice()) = %+v, want %+v", got, v)
	}

	// Short slices pad with neutral.
	got := FromSlice([]float64{10})
	if got.Fresh != 10 || got.Floral != NeutralValue {
		t.Errorf("short slice should pad with neutral, got %+v", got)
	}
}
