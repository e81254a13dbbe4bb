// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package patch

import (
	"fmt"
	"sort"
	"strings"

	"github.com/petar-djukic/go-edit/pkg/types"
)

const anchorDisplayLimit = 50

// Engine applies batches of edit operations to a document snapshot. It is
// stateless across calls; every ApplyEdits call owns its working buffer,
// so one Engine may serve concurrent callers as long as each call passes
// its own snapshot.
type Engine struct {
	minSimilarity float64
}

// NewEngine returns an Engine with the given similarity floor for fuzzy
// anchor matches. A non-positive value selects DefaultMinSimilarity.
func NewEngine(minSimilarity float64) *Engine {
	if minSimilarity <= 0 {
		minSimilarity = DefaultMinSimilarity
	}
	return &Engine{minSimilarity: minSimilarity}
}

// MinSimilarity returns the configured similarity floor.
func (e *Engine) MinSimilarity() float64 {
	return e.minSimilarity
}

// ApplyEdits applies the edits to a copy of document and returns a report
// with the final text and one result per edit. Edits are ordered by their
// anchor's position in the original snapshot, descending, so mutations at
// the bottom of the document do not shift the offsets of edits above them.
// Anchors are still re-resolved against the live buffer before each splice,
// so residual drift from earlier edits is tolerated rather than assumed
// away. Results are reported in application order.
func (e *Engine) ApplyEdits(document string, edits []types.EditOperation) *types.PatchReport {
	report := &types.PatchReport{
		OriginalText: document,
		FinalText:    document,
	}

	if len(edits) == 0 {
		report.SummaryText = "No edits to apply"
		return report
	}

	buffer := document
	for _, op := range e.orderForApplication(document, edits) {
		result := e.applyOne(&buffer, op)
		report.Results = append(report.Results, result)
	}

	report.FinalText = buffer
	report.Succeeded = true
	report.SummaryText = e.summarize(report)
	return report
}

// orderForApplication sorts edits by the position of their anchor in the
// original snapshot, bottom of the document first. Edits whose anchor does
// not resolve get a sentinel position of -1, which places them last; they
// are retried against the mutated buffer and surface as reported failures
// rather than being dropped.
func (e *Engine) orderForApplication(document string, edits []types.EditOperation) []types.EditOperation {
	type positioned struct {
		op  types.EditOperation
		pos int
	}

	ordered := make([]positioned, len(edits))
	for i, op := range edits {
		pos := -1
		if m := FindBestMatch(document, UnescapeLiterals(op.AnchorText), e.minSimilarity); m != nil {
			pos = m.Position
		}
		ordered[i] = positioned{op: op, pos: pos}
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].pos > ordered[j].pos
	})

	result := make([]types.EditOperation, len(ordered))
	for i, p := range ordered {
		result[i] = p.op
	}
	return result
}

// applyOne resolves and applies a single edit against the live buffer.
// Every failure, including a panic from a bad splice, is converted into a
// failed result so one malformed edit cannot abort the batch. The buffer
// is left untouched unless the edit succeeds.
func (e *Engine) applyOne(buffer *string, op types.EditOperation) (result types.AppliedEditResult) {
	result.Operation = op

	defer func() {
		if r := recover(); r != nil {
			result.Succeeded = false
			result.Message = fmt.Sprintf("edit failed: %v", r)
		}
	}()

	anchor := UnescapeLiterals(op.AnchorText)
	replacement := UnescapeLiterals(op.ReplacementText)

	m := FindBestMatch(*buffer, anchor, e.minSimilarity)
	if m == nil {
		result.Message = fmt.Sprintf("no match found for %q",
			types.TruncateAnchor(anchor, anchorDisplayLimit))
		return result
	}

	result.Similarity = m.Similarity
	result.MatchedText = m.MatchedText

	doc := *buffer
	switch op.Kind {
	case types.KindReplace:
		*buffer = doc[:m.Position] + replacement + doc[m.Position+m.Length:]
		result.Succeeded = true
		result.Message = fmt.Sprintf("replaced %d bytes (similarity %.0f%%)", m.Length, m.Similarity*100)

	case types.KindAppend:
		// Appended content always starts on its own line; the matched
		// span itself is left untouched.
		insert := replacement
		if !strings.HasPrefix(insert, "\n") && !strings.HasPrefix(insert, "\r") {
			insert = "\n" + insert
		}
		at := m.Position + m.Length
		*buffer = doc[:at] + insert + doc[at:]
		result.Succeeded = true
		result.Message = fmt.Sprintf("appended after match (similarity %.0f%%)", m.Similarity*100)

	case types.KindRemove:
		// ReplacementText is ignored for removals. When the span covers
		// whole lines, the trailing separator goes with it so no blank
		// line is left behind.
		end := m.Position + m.Length
		if atLineStart(doc, m.Position) {
			if strings.HasPrefix(doc[end:], "\r\n") {
				end += 2
			} else if end < len(doc) && (doc[end] == '\n' || doc[end] == '\r') {
				end++
			}
		}
		*buffer = doc[:m.Position] + doc[end:]
		result.Succeeded = true
		result.Message = fmt.Sprintf("removed %d bytes (similarity %.0f%%)", m.Length, m.Similarity*100)

	default:
		result.Message = fmt.Sprintf("unknown edit kind %q", op.Kind)
	}

	return result
}

// atLineStart reports whether offset sits at the start of the document or
// immediately after a line separator.
func atLineStart(doc string, offset int) bool {
	if offset == 0 {
		return true
	}
	c := doc[offset-1]
	return c == '\n' || c == '\r'
}

// summarize renders the trailing human-readable summary: applied counts,
// failed edits with rationale and message, and the average match
// confidence when it is below 1.0.
func (e *Engine) summarize(report *types.PatchReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Applied %d of %d edits successfully", report.AppliedCount(), len(report.Results))

	for _, res := range report.FailedResults() {
		b.WriteString("\n- ")
		if res.Operation.Rationale != "" {
			b.WriteString(res.Operation.Rationale)
			b.WriteString(": ")
		}
		b.WriteString(res.Message)
	}

	total, matched := 0.0, 0
	for _, res := range report.Results {
		if res.Similarity > 0 {
			total += res.Similarity
			matched++
		}
	}
	if matched > 0 {
		if mean := total / float64(matched); mean < 1.0 {
			fmt.Fprintf(&b, "\nAverage match confidence: %.1f%%", mean*100)
		}
	}

	return b.String()
}
