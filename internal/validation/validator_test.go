// ScentMatch - Fragrance Personalization Scoring and Caching Engine
// Copyright 2026 ScentMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scentmatch/scentmatch

package validation

import (
	"errors"
	"strings"
	"testing"
)

type sampleRequest struct {
	Name  string  `validate:"required"`
	Limit int     `validate:"gte=1,lte=100"`
	Level string  `validate:"omitempty,oneof=beginner enthusiast collector"`
	Score float64 `validate:"gte=0,lte=1"`
}

func TestValidateStruct_Passes(t *testing.T) {
	req := sampleRequest{Name: "quiz", Limit: 10, Level: "collector", Score: 0.5}
	if err := ValidateStruct(req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateStruct_CollectsFieldErrors(t *testing.T) {
	req := sampleRequest{Limit: 500, Level: "wizard", Score: 2}

	err := ValidateStruct(req)
	if err == nil {
		t.Fatal("expected validation error")
	}

	var verr *RequestValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err type = %T, want *RequestValidationError", err)
	}
	if len(verr.Fields) != 4 {
		t.Errorf("field errors = %d, want 4: %v", len(verr.Fields), verr)
	}

	msg := verr.Error()
	for _, want := range []string{"name", "limit", "level", "score"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q missing field %q", msg, want)
		}
	}
}

func TestValidateStruct_MessagesAreClientFacing(t *testing.T) {
	err := ValidateStruct(sampleRequest{Limit: 1})
	var verr *RequestValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v", err)
	}
	if verr.Fields[0].Message != "this field is required" {
		t.Errorf("message = %q", verr.Fields[0].Message)
	}
}
