// ScentMatch - Fragrance Personalization Scoring and Caching Engine
// Copyright 2026 ScentMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scentmatch/scentmatch

package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/goccy/go-json"
)

// Key derives a deterministic cache key from an operation name and its
// parameters. Parameters are serialized to JSON and hashed so that
// structurally equal inputs always map to the same key.
func Key(operation string, params interface{}) string {
	data, err := json.Marshal(params)
	if err != nil {
		// Fall back to the fmt rendering; still deterministic for
		// the value types we cache.
		data = []byte(fmt.Sprintf("%v", params))
	}

	sum := sha256.Sum256(data)
	return operation + ":" + hex.EncodeToString(sum[:])
}
