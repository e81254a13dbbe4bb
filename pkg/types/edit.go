// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package types defines the shared data model for go-edit: edit operations
// as deserialized from LLM responses, text matches, and patch reports.
package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// EditKind classifies what an edit operation does to its matched span.
type EditKind int

const (
	KindUnknown EditKind = iota // Unrecognized type string from the producer
	KindReplace                 // Replace the matched span with new text
	KindAppend                  // Insert new text after the matched span
	KindRemove                  // Delete the matched span
)

func (k EditKind) String() string {
	switch k {
	case KindReplace:
		return "replace"
	case KindAppend:
		return "append"
	case KindRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// MarshalJSON emits the wire form used in LLM responses.
func (k EditKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON accepts the kind case-insensitively. Unrecognized values
// decode to KindUnknown rather than failing, so a malformed edit surfaces
// as a per-edit failure instead of aborting the whole response.
func (k *EditKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "replace":
		*k = KindReplace
	case "append":
		*k = KindAppend
	case "remove", "delete":
		*k = KindRemove
	default:
		*k = KindUnknown
	}
	return nil
}

// EditOperation is a single localized edit proposed by the LLM. AnchorText
// locates where the edit applies; it may not match the document byte-for-byte
// and is resolved by fuzzy matching. Immutable once constructed.
type EditOperation struct {
	AnchorText      string   `json:"source"` // Text to locate in the document (non-empty)
	ReplacementText string   `json:"new"`    // New text (ignored for Remove)
	Kind            EditKind `json:"type"`   // Replace, Append, or Remove
	Rationale       string   `json:"reason"` // Why the LLM proposed this edit
}

// TextMatch is a located span inside a specific document snapshot. Position
// and Length are byte offsets valid only against the exact snapshot the
// match was computed from.
type TextMatch struct {
	Position    int     // Byte offset of the span start
	Length      int     // Byte length of the span
	Similarity  float64 // 1.0 for exact matches, threshold..1.0 for fuzzy
	MatchedText string  // The raw document text of the span
}

// AppliedEditResult records the outcome of applying one EditOperation.
// Similarity and MatchedText are populated whenever a match was located,
// even if the edit subsequently failed.
type AppliedEditResult struct {
	Operation   EditOperation // The edit this result describes
	Succeeded   bool          // Whether the edit landed in the buffer
	Message     string        // Human-readable outcome or failure reason
	Similarity  float64       // Match confidence; 0 when no match was found
	MatchedText string        // Document text the anchor resolved to
}

// PatchReport is the aggregate outcome of one apply pass. Succeeded reflects
// only whether the pass ran against a non-empty edit list; individual edit
// failures are reported in Results without failing the pass.
type PatchReport struct {
	Succeeded    bool                // False only for an empty edit list
	OriginalText string              // Document snapshot the pass started from
	FinalText    string              // Document after all successful edits
	Results      []AppliedEditResult // One per input edit, in application order
	SummaryText  string              // Display-ready summary of the pass
}

// FailedResults returns the results for edits that did not land.
func (r *PatchReport) FailedResults() []AppliedEditResult {
	var failed []AppliedEditResult
	for _, res := range r.Results {
		if !res.Succeeded {
			failed = append(failed, res)
		}
	}
	return failed
}

// AppliedCount returns how many edits landed successfully.
func (r *PatchReport) AppliedCount() int {
	n := 0
	for _, res := range r.Results {
		if res.Succeeded {
			n++
		}
	}
	return n
}

// TruncateAnchor shortens an anchor for display in failure messages.
func TruncateAnchor(anchor string, max int) string {
	if len(anchor) <= max {
		return anchor
	}
	return fmt.Sprintf("%s...", anchor[:max])
}
