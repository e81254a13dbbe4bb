// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package patch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeWhitespace(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"collapses spaces", "a   b   c", "a b c"},
		{"collapses tabs", "a\t\tb", "a b"},
		{"collapses newlines", "a\nb\r\nc", "a b c"},
		{"trims ends", "  hello  ", "hello"},
		{"empty input", "", ""},
		{"whitespace only", " \t\n ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeWhitespace(tt.in))
		})
	}
}

func TestUnescapeLiterals(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"newline", `one\ntwo`, "one\ntwo"},
		{"carriage return", `a\rb`, "a\rb"},
		{"tab", `a\tb`, "a\tb"},
		{"double quote", `say \"hi\"`, `say "hi"`},
		{"single quote", `it\'s`, "it's"},
		{"backslash", `path\\to`, `path\to`},
		{"no escapes", "plain text", "plain text"},
		{"trailing backslash kept", `end\`, `end\`},
		{"unknown escape kept", `a\qb`, `a\qb`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UnescapeLiterals(tt.in))
		})
	}
}

// A backslash produced by unescaping must not be re-scanned as the start
// of a new escape: literal \\n becomes backslash + n, not a newline.
func TestUnescapeLiterals_NonRecursive(t *testing.T) {
	assert.Equal(t, `\n`, UnescapeLiterals(`\\n`))
	assert.Equal(t, `\t`, UnescapeLiterals(`\\t`))
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"unix", "a\nb\nc", []string{"a", "b", "c"}},
		{"windows", "a\r\nb\r\nc", []string{"a", "b", "c"}},
		{"old mac", "a\rb\rc", []string{"a", "b", "c"}},
		{"mixed", "a\r\nb\rc\nd", []string{"a", "b", "c", "d"}},
		{"empty input", "", []string{""}},
		{"trailing newline", "a\n", []string{"a", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitLines(tt.in))
		})
	}
}

func TestScanLines_Offsets(t *testing.T) {
	lines := scanLines("aa\r\nbb\ncc")

	assert.Len(t, lines, 3)
	assert.Equal(t, documentLine{text: "aa", offset: 0, sepWidth: 2}, lines[0])
	assert.Equal(t, documentLine{text: "bb", offset: 4, sepWidth: 1}, lines[1])
	assert.Equal(t, documentLine{text: "cc", offset: 7, sepWidth: 0}, lines[2])
}

func TestScanLines_Empty(t *testing.T) {
	lines := scanLines("")
	assert.Equal(t, []documentLine{{text: "", offset: 0}}, lines)
}
