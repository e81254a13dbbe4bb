// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "fence with language tag",
			in:   "```go\npackage main\n\nfunc main() {}\n```",
			want: "package main\n\nfunc main() {}",
		},
		{
			name: "bare fence",
			in:   "```\nhello\n```",
			want: "hello",
		},
		{
			name: "no fence passes through",
			in:   "package main\n",
			want: "package main\n",
		},
		{
			name: "missing closing fence",
			in:   "```python\nprint('hi')",
			want: "print('hi')",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripFences(tt.in))
		})
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name     string
		old, new string
		want     Stats
	}{
		{
			name: "lines added",
			old:  "a\nb",
			new:  "a\nb\nc\nd",
			want: Stats{Added: 2},
		},
		{
			name: "lines removed",
			old:  "a\nb\nc",
			new:  "a",
			want: Stats{Removed: 2},
		},
		{
			name: "lines changed",
			old:  "a\nb\nc",
			new:  "a\nB\nC",
			want: Stats{Changed: 2},
		},
		{
			name: "identical",
			old:  "a\nb",
			new:  "a\nb",
			want: Stats{},
		},
		{
			name: "mixed line endings treated alike",
			old:  "a\r\nb",
			new:  "a\nb",
			want: Stats{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compare(tt.old, tt.new))
		})
	}
}

func TestStatsString(t *testing.T) {
	s := Stats{Added: 3, Removed: 1, Changed: 2}
	assert.Equal(t, "+3 lines, -1 lines, ~2 lines changed", s.String())
}

func TestRenderDiff(t *testing.T) {
	out := RenderDiff("hello world\n", "hello there\n")
	assert.Contains(t, out, "- ")
	assert.Contains(t, out, "+ ")
}
