// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package llm

import (
	"testing"

	"github.com/petar-djukic/go-edit/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderSystemPrompt_EditMode(t *testing.T) {
	prompt, err := RenderSystemPrompt(TemplateData{FileName: "main.go"})

	require.NoError(t, err)
	assert.Contains(t, prompt, "main.go")
	assert.Contains(t, prompt, `"edits"`)
	assert.Contains(t, prompt, `"source"`)
	assert.Contains(t, prompt, "Replace")
	assert.NotContains(t, prompt, "complete, updated content")
}

func TestRenderSystemPrompt_RewriteMode(t *testing.T) {
	prompt, err := RenderSystemPrompt(TemplateData{FileName: "main.go", FullRewrite: true})

	require.NoError(t, err)
	assert.Contains(t, prompt, "complete, updated content")
	assert.NotContains(t, prompt, `"edits"`)
}

func TestConstructMessages(t *testing.T) {
	doc := types.DocumentContent{Path: "config.yaml", Content: "timeout: 30\nretries: 3"}

	messages := ConstructMessages(doc, "raise the timeout to 60")

	require.Len(t, messages, 2)
	assert.Equal(t, types.RoleUser, messages[0].Role)
	assert.Contains(t, messages[0].Content, "config.yaml")
	assert.Contains(t, messages[0].Content, "   1 │ timeout: 30")
	assert.Contains(t, messages[0].Content, "   2 │ retries: 3")
	assert.Equal(t, "raise the timeout to 60", messages[1].Content)
}

func TestConstructRetryMessages(t *testing.T) {
	prev := ConstructMessages(types.DocumentContent{Path: "a.txt", Content: "x"}, "do something")

	messages := ConstructRetryMessages(prev, "previous response", "2 edits failed")

	require.Len(t, messages, 4)
	assert.Equal(t, types.RoleAssistant, messages[2].Role)
	assert.Equal(t, "previous response", messages[2].Content)
	assert.Equal(t, types.RoleUser, messages[3].Role)
	assert.Equal(t, "2 edits failed", messages[3].Content)
}

func TestParseModel(t *testing.T) {
	provider, model, err := ParseModel("ollama:qwen2.5-coder")
	require.NoError(t, err)
	assert.Equal(t, "ollama", provider)
	assert.Equal(t, "qwen2.5-coder", model)

	// Bedrock IDs contain colons; only the first separator splits.
	provider, model, err = ParseModel("bedrock:anthropic.claude-3-5-sonnet-20241022-v2:0")
	require.NoError(t, err)
	assert.Equal(t, "bedrock", provider)
	assert.Equal(t, "anthropic.claude-3-5-sonnet-20241022-v2:0", model)

	_, _, err = ParseModel("no-separator")
	assert.Error(t, err)
}
