// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package feedback

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/petar-djukic/go-edit/pkg/types"
)

func failedReport() *types.PatchReport {
	return &types.PatchReport{
		Succeeded: true,
		Results: []types.AppliedEditResult{
			{
				Operation: types.EditOperation{AnchorText: "applied fine", Kind: types.KindReplace},
				Succeeded: true,
			},
			{
				Operation: types.EditOperation{
					AnchorText: "retrees: 3",
					Kind:       types.KindReplace,
					Rationale:  "bump the retry count",
				},
				Message: `no match found for "retrees: 3"`,
			},
		},
	}
}

func TestFormatFailures(t *testing.T) {
	document := "timeout: 30\nretries: 3\nbackoff: 2\n"

	out := FormatFailures(failedReport(), document, FormatConfig{})

	assert.Contains(t, out, "Failed edit 1")
	assert.Contains(t, out, `"retrees: 3"`)
	assert.Contains(t, out, "bump the retry count")
	assert.Contains(t, out, "no match found")
	assert.Contains(t, out, "closest match")
	assert.Contains(t, out, "retries: 3")
	assert.NotContains(t, out, "applied fine", "successful edits are not re-sent")
}

func TestFormatFailures_NoFailures(t *testing.T) {
	report := &types.PatchReport{
		Succeeded: true,
		Results: []types.AppliedEditResult{
			{Operation: types.EditOperation{AnchorText: "x"}, Succeeded: true},
		},
	}

	assert.Empty(t, FormatFailures(report, "doc", FormatConfig{}))
}

func TestDocumentContext_MarksRange(t *testing.T) {
	document := "one\ntwo\nthree\nfour\nfive"

	out := documentContext(document, 3, 3, 1)

	assert.Contains(t, out, ">    3 │ three")
	assert.Contains(t, out, "     2 │ two")
	assert.Contains(t, out, "     4 │ four")
	assert.NotContains(t, out, "one")
	assert.NotContains(t, out, "five")
}
