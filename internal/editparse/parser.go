// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package editparse extracts edit operations from LLM response text and
// classifies responses as localized edit sets or full-file rewrites.
package editparse

import (
	"encoding/json"
	"strings"

	"github.com/petar-djukic/go-edit/pkg/types"
)

// NoEditsFoundError is returned when the response contains no edit set.
type NoEditsFoundError struct{}

func (e *NoEditsFoundError) Error() string {
	return "no edit operations found in response"
}

// ParseResult holds the outcome of parsing an LLM response.
type ParseResult struct {
	Edits         []types.EditOperation // Successfully parsed edits, in response order
	ReasoningText string                // Prose surrounding the edit JSON
	RawJSON       string                // The JSON payload the edits came from
}

// editEnvelope is the wire shape of an edit-set response.
type editEnvelope struct {
	Edits []types.EditOperation `json:"edits"`
}

// Parse extracts the edit-set JSON from an LLM response. The payload may
// arrive bare, wrapped in a markdown fence, or embedded in surrounding
// prose; each form is tried in turn. Returns NoEditsFoundError when no
// candidate yields at least one edit.
func Parse(response string) (*ParseResult, error) {
	trimmed := strings.TrimSpace(response)
	if trimmed == "" {
		return nil, &NoEditsFoundError{}
	}

	for _, candidate := range jsonCandidates(trimmed) {
		var envelope editEnvelope
		if err := json.Unmarshal([]byte(candidate.payload), &envelope); err != nil {
			continue
		}
		if len(envelope.Edits) == 0 {
			continue
		}
		return &ParseResult{
			Edits:         envelope.Edits,
			ReasoningText: strings.TrimSpace(candidate.surrounding),
			RawJSON:       candidate.payload,
		}, nil
	}

	return nil, &NoEditsFoundError{}
}

// jsonCandidate pairs a potential JSON payload with the prose around it.
type jsonCandidate struct {
	payload     string
	surrounding string
}

// jsonCandidates lists payload candidates in priority order: the whole
// body, the contents of each fenced block, then the outermost brace span.
func jsonCandidates(body string) []jsonCandidate {
	candidates := []jsonCandidate{{payload: body}}

	for _, block := range fencedBlocks(body) {
		candidates = append(candidates, block)
	}

	if start := strings.Index(body, "{"); start >= 0 {
		if end := strings.LastIndex(body, "}"); end > start {
			candidates = append(candidates, jsonCandidate{
				payload:     body[start : end+1],
				surrounding: body[:start] + body[end+1:],
			})
		}
	}

	return candidates
}

// fencedBlocks extracts the contents of markdown code fences, skipping the
// optional language tag on the opening fence.
func fencedBlocks(body string) []jsonCandidate {
	var blocks []jsonCandidate
	rest := body
	offset := 0

	for {
		open := strings.Index(rest, "```")
		if open < 0 {
			return blocks
		}
		contentStart := open + 3
		if nl := strings.IndexByte(rest[contentStart:], '\n'); nl >= 0 {
			contentStart += nl + 1
		} else {
			return blocks
		}

		closing := strings.Index(rest[contentStart:], "```")
		if closing < 0 {
			return blocks
		}

		blocks = append(blocks, jsonCandidate{
			payload:     rest[contentStart : contentStart+closing],
			surrounding: body[:offset+open] + body[offset+contentStart+closing+3:],
		})

		advance := contentStart + closing + 3
		offset += advance
		rest = rest[advance:]
	}
}
