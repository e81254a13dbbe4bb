// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package patch

import (
	"strings"
)

// NormalizeWhitespace collapses every run of whitespace (including line
// breaks) into a single space and trims the ends. It is a pre-filter for
// similarity scoring only; normalized text is never inserted into a document.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// UnescapeLiterals replaces literal two-character escape sequences with
// their control-character equivalents in a single left-to-right pass.
// A backslash produced by unescaping `\\` is not re-scanned, so the pass
// is non-recursive. LLM responses frequently deliver anchors and
// replacements with literal escapes instead of real control characters.
func UnescapeLiterals(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		switch s[i+1] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case '"':
			b.WriteByte('"')
		case '\'':
			b.WriteByte('\'')
		case '\\':
			b.WriteByte('\\')
		default:
			// Not a recognized escape; keep the backslash and let the
			// next character be scanned normally.
			b.WriteByte(c)
			continue
		}
		i++
	}
	return b.String()
}

// SplitLines splits text on \r\n, \r, or \n without retaining separators.
// An empty input yields a single empty element.
func SplitLines(s string) []string {
	normalized := strings.NewReplacer("\r\n", "\n", "\r", "\n").Replace(s)
	return strings.Split(normalized, "\n")
}

// documentLine is one raw line of a document together with its byte offset
// and the length of its trailing separator (0 for the final line).
type documentLine struct {
	text     string // Line content without the separator
	offset   int    // Byte offset of the line start in the document
	sepWidth int    // 2 for \r\n, 1 for \r or \n, 0 at end of document
}

// scanLines walks the raw document and records each line with its exact
// byte offset, preserving knowledge of the original separators so matches
// against \r\n documents report correct positions and lengths.
func scanLines(document string) []documentLine {
	var lines []documentLine
	start := 0
	i := 0
	for i < len(document) {
		c := document[i]
		if c != '\n' && c != '\r' {
			i++
			continue
		}
		sep := 1
		if c == '\r' && i+1 < len(document) && document[i+1] == '\n' {
			sep = 2
		}
		lines = append(lines, documentLine{
			text:     document[start:i],
			offset:   start,
			sepWidth: sep,
		})
		i += sep
		start = i
	}
	lines = append(lines, documentLine{text: document[start:], offset: start})
	return lines
}
