// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package editparse

// Mode identifies how a response should be applied to the document.
type Mode int

const (
	ModeEditSet Mode = iota // Localized edits applied through the patch engine
	ModeRewrite             // Complete replacement document body
)

func (m Mode) String() string {
	if m == ModeRewrite {
		return "rewrite"
	}
	return "edit_set"
}

// Classify decides whether a response carries an edit set or a full-file
// rewrite. A response that parses into at least one edit operation is an
// edit set; anything else is treated as a replacement body.
func Classify(response string) Mode {
	if _, err := Parse(response); err == nil {
		return ModeEditSet
	}
	return ModeRewrite
}
