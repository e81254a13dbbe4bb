// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package rewrite supports the full-file replacement workflow: the LLM
// returns a complete document body instead of localized edits. The package
// strips code fences the model may have echoed back and summarizes the
// line-level change for display.
package rewrite

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/petar-djukic/go-edit/internal/patch"
)

// StripFences removes an enclosing markdown code fence and its leading
// language-tag line when the model echoed them back despite instructions
// not to. Bodies without fences pass through unchanged.
func StripFences(body string) string {
	trimmed := strings.TrimSpace(body)
	if !strings.HasPrefix(trimmed, "```") {
		return body
	}

	lines := patch.SplitLines(trimmed)
	if len(lines) < 2 {
		return body
	}

	// Drop the opening fence (``` or ```language).
	lines = lines[1:]

	// Drop the closing fence if present.
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) > 0 && strings.HasPrefix(strings.TrimSpace(lines[len(lines)-1]), "```") {
		lines = lines[:len(lines)-1]
	}

	return strings.Join(lines, "\n")
}

// Stats summarizes a full-file replacement as line counts.
type Stats struct {
	Added   int // Lines the new body has beyond the old line count
	Removed int // Lines the old body had beyond the new line count
	Changed int // Index positions below min(old, new) where the bodies differ
}

func (s Stats) String() string {
	return fmt.Sprintf("+%d lines, -%d lines, ~%d lines changed", s.Added, s.Removed, s.Changed)
}

// Compare computes the line-count summary between the old and new bodies.
// Splitting is line-ending agnostic.
func Compare(oldText, newText string) Stats {
	oldLines := patch.SplitLines(oldText)
	newLines := patch.SplitLines(newText)

	var s Stats
	if len(newLines) > len(oldLines) {
		s.Added = len(newLines) - len(oldLines)
	}
	if len(oldLines) > len(newLines) {
		s.Removed = len(oldLines) - len(newLines)
	}

	common := len(oldLines)
	if len(newLines) < common {
		common = len(newLines)
	}
	for i := 0; i < common; i++ {
		if oldLines[i] != newLines[i] {
			s.Changed++
		}
	}
	return s
}

// RenderDiff produces a display diff between the old and new bodies,
// prefixing removed lines with "- " and added lines with "+ ".
func RenderDiff(oldText, newText string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(oldText, newText, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var b strings.Builder
	for _, d := range diffs {
		text := strings.TrimSuffix(d.Text, "\n")
		if text == "" {
			continue
		}
		for _, line := range strings.Split(text, "\n") {
			switch d.Type {
			case diffmatchpatch.DiffDelete:
				b.WriteString("- " + line + "\n")
			case diffmatchpatch.DiffInsert:
				b.WriteString("+ " + line + "\n")
			case diffmatchpatch.DiffEqual:
				b.WriteString("  " + line + "\n")
			}
		}
	}
	return b.String()
}
