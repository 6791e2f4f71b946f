// ScentMatch - Fragrance Personalization Scoring and Caching Engine
// Copyright 2026 ScentMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scentmatch/scentmatch

package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestTTLCache_SetGet(t *testing.T) {
	c := New[string](10, time.Minute)

	c.Set("a", "alpha")

	got, ok := c.Get("a")
	if !ok {
		t.Fatal("expected hit for key a")
	}
	if got != "alpha" {
		t.Errorf("got %q, want %q", got, "alpha")
	}

	if _, ok := c.Get("missing"); ok {
		t.Error("expected miss for absent key")
	}
}

func TestTTLCache_LastWriteWins(t *testing.T) {
	c := New[int](10, time.Minute)

	c.Set("k", 1)
	c.Set("k", 2)

	got, ok := c.Get("k")
	if !ok || got != 2 {
		t.Errorf("got %d (ok=%v), want 2", got, ok)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestTTLCache_Expiration(t *testing.T) {
	c := New[string](10, time.Minute)

	c.SetWithTTL("short", "v", 10*time.Millisecond)

	if _, ok := c.Get("short"); !ok {
		t.Fatal("entry should be live before TTL elapses")
	}

	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("short"); ok {
		t.Error("entry should have expired")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry should be removed on access, Len() = %d", c.Len())
	}
}

func TestTTLCache_LRUEviction(t *testing.T) {
	c := New[int](3, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	// Touch "a" so "b" becomes least recently used.
	if _, ok := c.Get("a"); !ok {
		t.Fatal("expected hit for a")
	}

	c.Set("d", 4)

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted as least recently used")
	}
	for _, key := range []string{"a", "c", "d"} {
		if _, ok := c.Get(key); !ok {
			t.Errorf("%s should still be cached", key)
		}
	}

	stats := c.Stats()
	if stats.Evictions != 1 {
		t.Errorf("Evictions = %d, want 1", stats.Evictions)
	}
}

func TestTTLCache_CleanupExpired(t *testing.T) {
	c := New[int](10, time.Minute)

	c.SetWithTTL("e1", 1, 5*time.Millisecond)
	c.SetWithTTL("e2", 2, 5*time.Millisecond)
	c.Set("live", 3)

	time.Sleep(15 * time.Millisecond)

	removed := c.CleanupExpired()
	if removed != 2 {
		t.Errorf("CleanupExpired() = %d, want 2", removed)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
	if _, ok := c.Get("live"); !ok {
		t.Error("live entry should survive cleanup")
	}
}

func TestTTLCache_Stats(t *testing.T) {
	c := New[string](10, time.Minute)

	c.SetWithCost("k", "v", time.Minute, 40*time.Millisecond)

	c.Get("k")
	c.Get("k")
	c.Get("absent")

	stats := c.Stats()
	if stats.Hits != 2 {
		t.Errorf("Hits = %d, want 2", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Errorf("Misses = %d, want 1", stats.Misses)
	}
	if want := 80 * time.Millisecond; stats.LatencySaved != want {
		t.Errorf("LatencySaved = %v, want %v", stats.LatencySaved, want)
	}
	if stats.HitRate < 0.66 || stats.HitRate > 0.67 {
		t.Errorf("HitRate = %f, want ~0.667", stats.HitRate)
	}
}

func TestTTLCache_DeleteClear(t *testing.T) {
	c := New[int](10, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)

	if !c.Delete("a") {
		t.Error("Delete should report true for existing key")
	}
	if c.Delete("a") {
		t.Error("Delete should report false for removed key")
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", c.Len())
	}
}

func TestTTLCache_Concurrency(t *testing.T) {
	c := New[int](100, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("key-%d", j%20)
				c.Set(key, n)
				c.Get(key)
			}
		}(i)
	}
	wg.Wait()

	if c.Len() > 20 {
		t.Errorf("Len() = %d, want at most 20 distinct keys", c.Len())
	}
}

func TestKey_Deterministic(t *testing.T) {
	type params struct {
		Profile []float64 `json:"profile"`
		Limit   int       `json:"limit"`
	}

	a := Key("recommendations", params{Profile: []float64{50, 60}, Limit: 10})
	b := Key("recommendations", params{Profile: []float64{50, 60}, Limit: 10})
	if a != b {
		t.Errorf("equal params produced different keys: %s vs %s", a, b)
	}

	c := Key("recommendations", params{Profile: []float64{50, 61}, Limit: 10})
	if a == c {
		t.Error("different params produced identical keys")
	}

	d := Key("profile", params{Profile: []float64{50, 60}, Limit: 10})
	if a == d {
		t.Error("operation name should namespace the key")
	}
}
