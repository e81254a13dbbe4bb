// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/petar-djukic/go-edit/pkg/types"
)

const ollamaDefaultBaseURL = "http://localhost:11434/v1"

// OpenAIClient talks to any OpenAI-compatible chat completion endpoint.
// Local servers (Ollama, LM Studio) are reached by pointing BaseURL at
// them; they ignore the API key.
type OpenAIClient struct {
	client    *openai.Client
	model     string
	timeout   time.Duration
	maxTokens int

	mu    sync.Mutex
	usage types.TokenUsage // Cumulative across calls, guarded by mu
}

// NewOpenAIClient creates a client for the configured endpoint. The
// "ollama" provider defaults BaseURL to the local Ollama server and needs
// no key.
func NewOpenAIClient(cfg Config) (*OpenAIClient, error) {
	apiKey := cfg.APIKey
	baseURL := cfg.BaseURL

	if cfg.Provider == "ollama" {
		if baseURL == "" {
			baseURL = ollamaDefaultBaseURL
		}
		if apiKey == "" {
			apiKey = "ollama" // The server ignores it, but the SDK requires one.
		}
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: API key is required for provider %q", ErrLLMFailure, cfg.Provider)
	}

	clientCfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientCfg.BaseURL = baseURL
	}

	return &OpenAIClient{
		client:    openai.NewClientWithConfig(clientCfg),
		model:     cfg.Model,
		timeout:   cfg.timeout(),
		maxTokens: cfg.maxTokens(),
	}, nil
}

// SendPrompt streams a chat completion. Tokens arrive on the first channel
// as deltas; the accumulated StreamResponse arrives on the second.
func (c *OpenAIClient) SendPrompt(ctx context.Context, system string, messages []types.Message) (<-chan string, <-chan *types.StreamResponse) {
	tokenCh := make(chan string, 64)
	resultCh := make(chan *types.StreamResponse, 1)

	go func() {
		defer close(resultCh)

		response, err := c.stream(ctx, system, messages, tokenCh)
		if err != nil {
			resultCh <- &types.StreamResponse{Err: err}
			return
		}

		c.mu.Lock()
		c.usage.InputTokens += response.Usage.InputTokens
		c.usage.OutputTokens += response.Usage.OutputTokens
		c.mu.Unlock()
		resultCh <- response
	}()

	return tokenCh, resultCh
}

// CumulativeUsage returns total token usage across all calls.
func (c *OpenAIClient) CumulativeUsage() types.TokenUsage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.usage
}

func (c *OpenAIClient) stream(ctx context.Context, system string, messages []types.Message, tokenCh chan<- string) (*types.StreamResponse, error) {
	defer close(tokenCh)

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	request := openai.ChatCompletionRequest{
		Model:     c.model,
		Messages:  toOpenAIMessages(system, messages),
		MaxTokens: c.maxTokens,
		Stream:    true,
		StreamOptions: &openai.StreamOptions{
			IncludeUsage: true,
		},
	}

	stream, err := c.client.CreateChatCompletionStream(callCtx, request)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLLMFailure, err)
	}
	defer stream.Close()

	var text strings.Builder
	response := &types.StreamResponse{}

	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: stream error: %v", ErrLLMFailure, err)
		}

		if chunk.Usage != nil {
			response.Usage.InputTokens = chunk.Usage.PromptTokens
			response.Usage.OutputTokens = chunk.Usage.CompletionTokens
		}

		if len(chunk.Choices) == 0 {
			continue
		}
		delta := chunk.Choices[0].Delta.Content
		if delta == "" {
			continue
		}

		text.WriteString(delta)
		select {
		case tokenCh <- delta:
		case <-callCtx.Done():
			response.FullText = text.String()
			return response, nil
		}
	}

	response.FullText = text.String()
	return response, nil
}

// toOpenAIMessages prepends the system prompt and converts neutral
// messages to the OpenAI wire shape.
func toOpenAIMessages(system string, messages []types.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages)+1)
	if system != "" {
		out = append(out, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: system,
		})
	}
	for _, m := range messages {
		role := openai.ChatMessageRoleUser
		switch m.Role {
		case types.RoleAssistant:
			role = openai.ChatMessageRoleAssistant
		case types.RoleSystem:
			role = openai.ChatMessageRoleSystem
		}
		out = append(out, openai.ChatCompletionMessage{
			Role:    role,
			Content: m.Content,
		})
	}
	return out
}
