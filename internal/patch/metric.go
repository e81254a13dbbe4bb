// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package patch implements fuzzy application of LLM-proposed edits to a
// document: Levenshtein similarity scoring, anchor location with an exact
// pass and a line-aligned fuzzy fallback, and an engine that orders and
// applies a batch of edits against one document snapshot.
package patch

import (
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Similarity computes the Levenshtein-based similarity ratio between two
// strings: 1 - distance/max(len(a), len(b)). Identical strings (including
// two empty strings) score 1.0; exactly one empty string scores 0.0.
// It operates on the strings as given; callers normalize beforehand.
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(a, b, false)
	distance := dmp.DiffLevenshtein(diffs)

	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	return 1.0 - float64(distance)/float64(maxLen)
}
