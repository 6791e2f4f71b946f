// ScentMatch - Fragrance Personalization Scoring and Caching Engine
// Copyright 2026 ScentMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scentmatch/scentmatch

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/scentmatch/scentmatch/internal/logging"
)

func TestRequestID_GeneratesWhenMissing(t *testing.T) {
	var seen string
	handler := RequestID(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if seen == "" {
		t.Fatal("request ID missing from context")
	}
	if got := rec.Header().Get("X-Request-ID"); got != seen {
		t.Errorf("response header = %q, want the context ID %q", got, seen)
	}
}

func TestRequestID_PassesThroughUpstreamID(t *testing.T) {
	var seen, logSeen string
	handler := RequestID(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
		logSeen = logging.RequestIDFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "proxy-assigned")
	rec := httptest.NewRecorder()
	handler(rec, req)

	if seen != "proxy-assigned" {
		t.Errorf("context ID = %q, want the upstream value", seen)
	}
	if logSeen != "proxy-assigned" {
		t.Errorf("logging context ID = %q, want the upstream value", logSeen)
	}
	if got := rec.Header().Get("X-Request-ID"); got != "proxy-assigned" {
		t.Errorf("response header = %q, want the upstream value", got)
	}
}

func TestGetRequestID_EmptyWithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := GetRequestID(req.Context()); got != "" {
		t.Errorf("GetRequestID on a bare context = %q, want empty", got)
	}
}
