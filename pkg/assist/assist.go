// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package assist defines the public interface for go-edit, an LLM-assisted
// document editing library built on fuzzy patch application.
package assist

import (
	"context"
	"errors"

	"github.com/petar-djukic/go-edit/pkg/types"
)

// Error types for the Assistant API.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLLMFailure    = errors.New("LLM call failed")
	ErrParseFailure  = errors.New("failed to parse LLM response into edits")
)

// Config configures an Assistant instance.
type Config struct {
	WorkDir       string  // Directory holding the documents (required)
	Model         string  // Model as "provider:model", e.g. "bedrock:claude-x" (required)
	Region        string  // AWS region, for the bedrock provider
	BaseURL       string  // API base URL, for openai/ollama providers
	APIKey        string  // API key, for the openai provider
	MinSimilarity float64 // Fuzzy match threshold (default 0.90)
	MaxRetries    int     // Maximum feedback loop iterations (default 3)
	MaxTokens     int     // Maximum tokens for LLM response (default 4096)
	NoGit         bool    // Disable git checkpointing
}

// Result holds the outcome of an Assistant.Edit invocation.
type Result struct {
	Path       string             // Document that was edited
	Applied    int                // Edits that applied successfully
	Failed     int                // Edits still failing after all retries
	Rewritten  bool               // True when the model replaced the whole document
	Summary    string             // Human-readable application summary
	Diff       string             // Unified-style diff, rewrite mode only
	Errors     []string           // Remaining errors after all retries
	TokensUsed types.TokenUsage   // Total tokens consumed
	Retries    int                // Retry iterations performed
	Success    bool               // True if every requested change landed
}

// Assistant applies a natural-language edit instruction to a document.
type Assistant interface {
	// Edit runs the full lifecycle: read the document, send it with the
	// instruction to the LLM, parse the edit set (or full rewrite), apply
	// it with fuzzy matching, retry failed edits, and write the result.
	Edit(ctx context.Context, filePath, instruction string) (*Result, error)
}
