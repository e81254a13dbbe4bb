// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package llm

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/petar-djukic/go-edit/pkg/types"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// TemplateData holds the values injected into the system prompt template.
type TemplateData struct {
	FileName    string // Name of the document being edited
	FullRewrite bool   // Ask for a complete replacement body instead of edits
}

// RenderSystemPrompt renders the system prompt template with the given data.
func RenderSystemPrompt(data TemplateData) (string, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/system.tmpl")
	if err != nil {
		return "", fmt.Errorf("parsing system template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing system template: %w", err)
	}

	return buf.String(), nil
}

// ConstructMessages builds the conversation for an editing request:
// the document content (with numbered lines) followed by the instruction.
func ConstructMessages(doc types.DocumentContent, instruction string) []types.Message {
	return []types.Message{
		{Role: types.RoleUser, Content: "## Document\n\n" + formatDocument(doc)},
		{Role: types.RoleUser, Content: instruction},
	}
}

// ConstructRetryMessages extends the conversation with the assistant's
// previous response and a feedback message describing the edits that
// failed to apply.
func ConstructRetryMessages(prev []types.Message, assistantResponse, feedback string) []types.Message {
	messages := append(prev, types.Message{
		Role:    types.RoleAssistant,
		Content: assistantResponse,
	})
	return append(messages, types.Message{
		Role:    types.RoleUser,
		Content: feedback,
	})
}

// formatDocument formats the document with a path header and numbered
// lines so the model can reference locations precisely.
func formatDocument(doc types.DocumentContent) string {
	var buf strings.Builder
	buf.WriteString(fmt.Sprintf("### %s\n\n", doc.Path))

	for i, line := range strings.Split(doc.Content, "\n") {
		buf.WriteString(fmt.Sprintf("%4d │ %s\n", i+1, line))
	}

	return buf.String()
}
