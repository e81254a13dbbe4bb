// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package feedback turns failed edit applications into follow-up prompts
// and manages the retry loop that asks the LLM for corrected edits.
package feedback

import (
	"fmt"
	"strings"

	"github.com/petar-djukic/go-edit/internal/patch"
	"github.com/petar-djukic/go-edit/pkg/types"
)

const (
	defaultContextLines = 3
	anchorDisplayLimit  = 50
)

// FormatConfig configures failure formatting.
type FormatConfig struct {
	ContextLines int // Lines of context around each closest match (default 3)
}

// FormatFailures produces a follow-up prompt from a patch report's failed
// edits. For each failure it shows what was searched for, why the edit was
// proposed, and the closest matching region of the current document, so
// the LLM can correct its anchors.
func FormatFailures(report *types.PatchReport, document string, cfg FormatConfig) string {
	failed := report.FailedResults()
	if len(failed) == 0 {
		return ""
	}

	contextLines := cfg.ContextLines
	if contextLines == 0 {
		contextLines = defaultContextLines
	}

	var buf strings.Builder
	buf.WriteString("Some edits could not be applied. Re-send corrected edits in the same JSON format, quoting the document exactly as shown below.\n\n")

	for i, res := range failed {
		fmt.Fprintf(&buf, "## Failed edit %d\n\n", i+1)
		fmt.Fprintf(&buf, "- searched for: %q\n", types.TruncateAnchor(res.Operation.AnchorText, anchorDisplayLimit))
		if res.Operation.Rationale != "" {
			fmt.Fprintf(&buf, "- intent: %s\n", res.Operation.Rationale)
		}
		fmt.Fprintf(&buf, "- outcome: %s\n", res.Message)

		closest, sim, lineStart, lineEnd := patch.ClosestMatch(document, patch.UnescapeLiterals(res.Operation.AnchorText))
		if closest != "" {
			fmt.Fprintf(&buf, "- closest match (similarity %.0f%%) at lines %d-%d:\n\n", sim*100, lineStart, lineEnd)
			buf.WriteString("```\n")
			buf.WriteString(documentContext(document, lineStart, lineEnd, contextLines))
			buf.WriteString("```\n")
		}
		buf.WriteString("\n")
	}

	return buf.String()
}

// documentContext renders numbered document lines around a 1-based line
// range, marking the range itself.
func documentContext(document string, lineStart, lineEnd, contextLines int) string {
	lines := patch.SplitLines(document)

	start := lineStart - contextLines - 1
	if start < 0 {
		start = 0
	}
	end := lineEnd + contextLines
	if end > len(lines) {
		end = len(lines)
	}

	var buf strings.Builder
	for i := start; i < end; i++ {
		lineNum := i + 1
		marker := "  "
		if lineNum >= lineStart && lineNum <= lineEnd {
			marker = "> "
		}
		fmt.Fprintf(&buf, "%s%4d │ %s\n", marker, lineNum, lines[i])
	}

	return buf.String()
}
