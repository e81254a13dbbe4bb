// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package patch

import (
	"strings"

	"github.com/petar-djukic/go-edit/pkg/types"
)

// DefaultMinSimilarity is the similarity floor for fuzzy anchor matches.
const DefaultMinSimilarity = 0.90

// FindBestMatch locates the best-matching span of anchor inside document.
// Exact substring search wins outright at the earliest offset. Otherwise a
// fuzzy pass scores document lines (or sliding multi-line windows) against
// the anchor using whitespace-normalized similarity, keeping the earliest
// candidate with the highest score at or above minSimilarity. Returns nil
// when the anchor is empty or no candidate clears the threshold.
func FindBestMatch(document, anchor string, minSimilarity float64) *types.TextMatch {
	if anchor == "" {
		return nil
	}

	if idx := strings.Index(document, anchor); idx >= 0 {
		return &types.TextMatch{
			Position:    idx,
			Length:      len(anchor),
			Similarity:  1.0,
			MatchedText: anchor,
		}
	}

	anchorLines := SplitLines(anchor)
	if len(anchorLines) == 1 {
		return bestLineMatch(document, anchor, minSimilarity)
	}
	return bestBlockMatch(document, anchorLines, minSimilarity)
}

// bestLineMatch scores every document line against a single-line anchor.
// A strictly-greater comparison keeps the earliest best-scoring line.
func bestLineMatch(document, anchor string, minSimilarity float64) *types.TextMatch {
	normAnchor := NormalizeWhitespace(anchor)

	var best *types.TextMatch
	for _, line := range scanLines(document) {
		sim := Similarity(NormalizeWhitespace(line.text), normAnchor)
		if sim < minSimilarity {
			continue
		}
		if best == nil || sim > best.Similarity {
			best = &types.TextMatch{
				Position:    line.offset,
				Length:      len(line.text),
				Similarity:  sim,
				MatchedText: line.text,
			}
		}
	}
	return best
}

// bestBlockMatch slides a window of len(anchorLines) consecutive document
// lines across the document. Block similarity is the arithmetic mean of the
// per-line-pair normalized similarities. The matched span runs from the
// first window line to the end of the last, including interior separators
// but not the trailing one.
func bestBlockMatch(document string, anchorLines []string, minSimilarity float64) *types.TextMatch {
	normAnchor := make([]string, len(anchorLines))
	for i, l := range anchorLines {
		normAnchor[i] = NormalizeWhitespace(l)
	}

	docLines := scanLines(document)
	k := len(normAnchor)
	if k > len(docLines) {
		return nil
	}

	normDoc := make([]string, len(docLines))
	for i, l := range docLines {
		normDoc[i] = NormalizeWhitespace(l.text)
	}

	var best *types.TextMatch
	for i := 0; i+k <= len(docLines); i++ {
		total := 0.0
		for j := 0; j < k; j++ {
			total += Similarity(normDoc[i+j], normAnchor[j])
		}
		sim := total / float64(k)
		if sim < minSimilarity {
			continue
		}
		if best == nil || sim > best.Similarity {
			last := docLines[i+k-1]
			start := docLines[i].offset
			end := last.offset + len(last.text)
			best = &types.TextMatch{
				Position:    start,
				Length:      end - start,
				Similarity:  sim,
				MatchedText: document[start:end],
			}
		}
	}
	return best
}

// ClosestMatch finds the best partial match for diagnostics, with no
// threshold. Returns the closest span, its similarity, and its 1-based
// line range. Used to tell the LLM what the document actually contains
// when an anchor fails to resolve.
func ClosestMatch(document, anchor string) (closest string, sim float64, lineStart, lineEnd int) {
	if anchor == "" || document == "" {
		return "", 0, 0, 0
	}

	docLines := scanLines(document)
	k := len(SplitLines(anchor))
	if k > len(docLines) {
		k = len(docLines)
	}

	normAnchorLines := make([]string, 0, k)
	for _, l := range SplitLines(anchor) {
		normAnchorLines = append(normAnchorLines, NormalizeWhitespace(l))
	}

	bestSim := -1.0
	bestStart := 0
	for i := 0; i+k <= len(docLines); i++ {
		total := 0.0
		for j := 0; j < k; j++ {
			a := ""
			if j < len(normAnchorLines) {
				a = normAnchorLines[j]
			}
			total += Similarity(NormalizeWhitespace(docLines[i+j].text), a)
		}
		s := total / float64(k)
		if s > bestSim {
			bestSim = s
			bestStart = i
		}
	}

	if bestSim <= 0 {
		return "", 0, 0, 0
	}

	last := docLines[bestStart+k-1]
	start := docLines[bestStart].offset
	end := last.offset + len(last.text)
	return document[start:end], bestSim, bestStart + 1, bestStart + k
}
