// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package feedback

import (
	"context"
	"fmt"

	"github.com/petar-djukic/go-edit/pkg/types"
)

const defaultMaxRetries = 3

// RetryFunc is called on each retry iteration with the formatted failure
// prompt and the current document text. It should obtain corrected edits
// from the LLM, apply them against the current text, and return the new
// report.
type RetryFunc func(ctx context.Context, failurePrompt, currentText string) (*types.PatchReport, error)

// LoopConfig configures the retry loop.
type LoopConfig struct {
	FormatConfig FormatConfig // Failure formatting settings
	MaxRetries   int          // Maximum retry iterations (default 3)
}

// LoopResult holds the outcome of the retry loop.
type LoopResult struct {
	Success     bool               // All edits eventually applied
	Retries     int                // Retry iterations performed
	FinalText   string             // Document text after the last iteration
	FinalReport *types.PatchReport // Report from the last iteration
}

// Run drives the retry loop. Starting from an initial patch report, it
// formats any failed edits into a follow-up prompt, asks retryFn for
// corrected edits, and repeats until everything applies or MaxRetries is
// exhausted. The loop always completes with a result; the error reports
// why it stopped short.
func Run(ctx context.Context, cfg LoopConfig, initial *types.PatchReport, retryFn RetryFunc) (*LoopResult, error) {
	maxRetries := cfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = defaultMaxRetries
	}

	result := &LoopResult{
		FinalText:   initial.FinalText,
		FinalReport: initial,
	}

	if len(initial.FailedResults()) == 0 {
		result.Success = true
		return result, nil
	}

	report := initial
	for i := 0; i < maxRetries; i++ {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("context canceled after %d retries: %w", result.Retries, err)
		}

		result.Retries++

		prompt := FormatFailures(report, result.FinalText, cfg.FormatConfig)
		next, err := retryFn(ctx, prompt, result.FinalText)
		if err != nil {
			return result, fmt.Errorf("retry %d failed: %w", result.Retries, err)
		}

		report = next
		result.FinalText = next.FinalText
		result.FinalReport = next

		if len(next.FailedResults()) == 0 {
			result.Success = true
			return result, nil
		}
	}

	return result, fmt.Errorf("max retries (%d) exhausted with %d edits still failing",
		maxRetries, len(report.FailedResults()))
}
