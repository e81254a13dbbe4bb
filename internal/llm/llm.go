// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package llm provides streaming LLM access for go-edit. Two backends are
// supported: AWS Bedrock via ConverseStream, and any OpenAI-compatible
// endpoint (OpenAI itself, or local servers such as Ollama and LM Studio).
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/petar-djukic/go-edit/pkg/types"
)

const (
	defaultTimeout   = 300 * time.Second
	defaultMaxTokens = 4096
)

// ErrLLMFailure indicates the LLM call failed (network, auth, rate limit).
var ErrLLMFailure = errors.New("LLM failure")

// Client streams a response for a prompt. SendPrompt returns a channel of
// response tokens and a channel that delivers the final StreamResponse once
// streaming completes; a failed call delivers a StreamResponse with Err set.
type Client interface {
	SendPrompt(ctx context.Context, system string, messages []types.Message) (<-chan string, <-chan *types.StreamResponse)
	CumulativeUsage() types.TokenUsage
}

// Config selects and configures a backend.
type Config struct {
	Provider  string        // "bedrock", "openai", or "ollama"
	Model     string        // Model identifier (required)
	Region    string        // AWS region (bedrock)
	Profile   string        // AWS credential profile (bedrock, optional)
	BaseURL   string        // Endpoint override (openai/ollama)
	APIKey    string        // API key (openai; unused for local servers)
	Timeout   time.Duration // Request timeout (default 300s)
	MaxTokens int           // Max response tokens (default 4096)
}

// ParseModel splits a "provider:model" string. Bedrock model IDs contain
// colons themselves, so only the first separator counts.
func ParseModel(s string) (provider, model string, err error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid model %q (expected provider:model)", s)
	}
	return parts[0], parts[1], nil
}

// New creates a client for the configured provider.
func New(ctx context.Context, cfg Config) (Client, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("%w: model is required", ErrLLMFailure)
	}

	switch cfg.Provider {
	case "bedrock":
		return NewBedrockClient(ctx, cfg)
	case "openai", "ollama":
		return NewOpenAIClient(cfg)
	default:
		return nil, fmt.Errorf("%w: unsupported provider %q (supported: bedrock, openai, ollama)",
			ErrLLMFailure, cfg.Provider)
	}
}

func (c Config) timeout() time.Duration {
	if c.Timeout == 0 {
		return defaultTimeout
	}
	return c.Timeout
}

func (c Config) maxTokens() int {
	if c.MaxTokens == 0 {
		return defaultMaxTokens
	}
	return c.MaxTokens
}
