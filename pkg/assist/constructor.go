// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package assist

import (
	"context"
	"fmt"
	"os"
	"time"

	internalassist "github.com/petar-djukic/go-edit/internal/assist"
	"github.com/petar-djukic/go-edit/internal/editparse"
	"github.com/petar-djukic/go-edit/internal/llm"
)

const (
	defaultMaxRetries = 3
	defaultMaxTokens  = 4096
	defaultLLMTimeout = 5 * time.Minute
)

// New validates the config, initializes the LLM client, and returns a
// ready-to-use Assistant. It does not read any document; that happens in Edit.
func New(cfg Config) (Assistant, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	applyDefaults(&cfg)

	provider, model, err := llm.ParseModel(cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	client, err := llm.New(context.Background(), llm.Config{
		Provider:  provider,
		Model:     model,
		Region:    cfg.Region,
		BaseURL:   cfg.BaseURL,
		APIKey:    cfg.APIKey,
		Timeout:   defaultLLMTimeout,
		MaxTokens: cfg.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLLMFailure, err)
	}

	runner := internalassist.NewRunner(internalassist.Deps{
		LLMClient:     client,
		WorkDir:       cfg.WorkDir,
		MinSimilarity: cfg.MinSimilarity,
		MaxRetries:    cfg.MaxRetries,
		NoGit:         cfg.NoGit,
	})

	return &assistantAdapter{runner: runner}, nil
}

// assistantAdapter adapts internal/assist.Runner to the public Assistant
// interface.
type assistantAdapter struct {
	runner *internalassist.Runner
}

func (a *assistantAdapter) Edit(ctx context.Context, filePath, instruction string) (*Result, error) {
	ir, err := a.runner.Run(ctx, filePath, instruction)
	if ir == nil {
		return &Result{}, err
	}

	result := &Result{
		Path:       ir.Path,
		Diff:       ir.Diff,
		Errors:     ir.Errors,
		TokensUsed: ir.TokensUsed,
		Retries:    ir.Retries,
		Success:    ir.Success,
	}

	if ir.Report != nil {
		result.Applied = ir.Report.AppliedCount()
		result.Failed = len(ir.Report.FailedResults())
		result.Summary = ir.Report.SummaryText
	}
	if ir.Mode == editparse.ModeRewrite {
		result.Rewritten = true
		result.Summary = ir.RewriteStats.String()
	}

	return result, err
}

// validateConfig checks that required fields are present.
func validateConfig(cfg Config) error {
	if cfg.WorkDir == "" {
		return fmt.Errorf("WorkDir is required")
	}
	if info, err := os.Stat(cfg.WorkDir); err != nil || !info.IsDir() {
		return fmt.Errorf("WorkDir %q does not exist or is not a directory", cfg.WorkDir)
	}
	if cfg.Model == "" {
		return fmt.Errorf("Model is required")
	}
	return nil
}

// applyDefaults fills in zero-value fields with their defaults.
func applyDefaults(cfg *Config) {
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
}
