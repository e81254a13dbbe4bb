// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package patch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarity_Identities(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("hello", "hello"))
	assert.Equal(t, 1.0, Similarity("", ""))
	assert.Equal(t, 0.0, Similarity("", "hello"))
	assert.Equal(t, 0.0, Similarity("hello", ""))
}

func TestSimilarity_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"hello world", "hello worl"},
		{"kitten", "sitting"},
		{"func main()", "func  main( )"},
		{"abc", "xyz"},
	}

	for _, p := range pairs {
		assert.Equal(t, Similarity(p[0], p[1]), Similarity(p[1], p[0]),
			"similarity(%q, %q) must be symmetric", p[0], p[1])
	}
}

func TestSimilarity_Range(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		min  float64
		max  float64
	}{
		{"one char dropped", "hello world", "hello worl", 0.9, 1.0},
		{"single substitution", "retries: 3", "retries: 5", 0.85, 1.0},
		{"unrelated strings", "completely different", "nothing alike here", 0.0, 0.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sim := Similarity(tt.a, tt.b)
			assert.GreaterOrEqual(t, sim, tt.min)
			assert.Less(t, sim, tt.max)
		})
	}
}
