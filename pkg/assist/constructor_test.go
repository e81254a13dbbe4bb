// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package assist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ValidConfig(t *testing.T) {
	dir := t.TempDir()

	a, err := New(Config{
		WorkDir: dir,
		Model:   "ollama:llama3",
	})
	require.NoError(t, err)
	assert.NotNil(t, a)
}

func TestNew_InvalidConfig(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		cfg  Config
	}{
		{"missing workdir", Config{Model: "ollama:llama3"}},
		{"workdir not a directory", Config{WorkDir: "/no/such/dir", Model: "ollama:llama3"}},
		{"missing model", Config{WorkDir: dir}},
		{"model without provider", Config{WorkDir: dir, Model: "llama3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestNew_UnknownProvider(t *testing.T) {
	dir := t.TempDir()

	_, err := New(Config{WorkDir: dir, Model: "mystery:model"})
	assert.ErrorIs(t, err, ErrLLMFailure)
}
