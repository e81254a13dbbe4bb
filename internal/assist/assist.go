// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package assist implements the editing orchestrator, wiring all internal
// components to execute a single edit instruction against a document.
package assist

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/petar-djukic/go-edit/internal/document"
	"github.com/petar-djukic/go-edit/internal/editparse"
	"github.com/petar-djukic/go-edit/internal/feedback"
	gitpkg "github.com/petar-djukic/go-edit/internal/git"
	"github.com/petar-djukic/go-edit/internal/llm"
	"github.com/petar-djukic/go-edit/internal/patch"
	"github.com/petar-djukic/go-edit/internal/rewrite"
	"github.com/petar-djukic/go-edit/pkg/types"
)

// Prompter abstracts LLM interactions so the orchestrator is testable.
type Prompter interface {
	Generate(ctx context.Context, system string, messages []types.Message) (string, error)
	Usage() types.TokenUsage
}

// RunResult holds the outcome of a Runner.Run invocation. This is the
// internal result type; pkg/assist converts it to the public Result.
type RunResult struct {
	Path         string
	Mode         editparse.Mode
	Report       *types.PatchReport
	RewriteStats rewrite.Stats
	Diff         string
	TokensUsed   types.TokenUsage
	Retries      int
	Success      bool
	Errors       []string
}

// Deps holds injected dependencies for the runner.
type Deps struct {
	LLMClient     llm.Client     // Real client; nil when Prompter is set.
	Prompter      Prompter       // Mock for testing; overrides LLMClient.
	Store         document.Store // Defaults to document.FileStore.
	WorkDir       string
	MinSimilarity float64
	MaxRetries    int
	NoGit         bool
}

// Runner orchestrates the editing lifecycle.
type Runner struct {
	deps Deps
}

// NewRunner creates a Runner with the given dependencies.
func NewRunner(deps Deps) *Runner {
	if deps.Store == nil {
		deps.Store = document.FileStore{}
	}
	return &Runner{deps: deps}
}

// Run executes the full editing lifecycle: checkpoint, read, prompt,
// parse, apply (or rewrite), retry failed edits, write back, commit.
func (r *Runner) Run(ctx context.Context, filePath, instruction string) (*RunResult, error) {
	result := &RunResult{Path: filePath}

	// Step 1: Open git and checkpoint uncommitted changes.
	var gitRepo *gitpkg.Repo
	if !r.deps.NoGit {
		repo, err := gitpkg.Open(gitpkg.Config{
			WorkDir:    r.deps.WorkDir,
			AutoCommit: true,
			Checkpoint: true,
		})
		if err == nil {
			gitRepo = repo
			if err := repo.Checkpoint(); err != nil {
				return result, fmt.Errorf("checkpointing: %w", err)
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	// Step 2: Read the document.
	original, err := r.deps.Store.Read(filePath)
	if err != nil {
		return result, fmt.Errorf("reading document: %w", err)
	}
	doc := types.DocumentContent{Path: filePath, Content: original}

	// Step 3: Render system prompt and construct messages.
	system, err := llm.RenderSystemPrompt(llm.TemplateData{
		FileName: filepath.Base(filePath),
	})
	if err != nil {
		return result, fmt.Errorf("rendering system prompt: %w", err)
	}

	messages := llm.ConstructMessages(doc, instruction)

	// Step 4: Send to LLM.
	responseText, err := r.generate(ctx, system, messages)
	if err != nil {
		return result, fmt.Errorf("LLM call failed: %w", err)
	}

	// Step 5: Classify the response and apply it.
	result.Mode = editparse.Classify(responseText)

	var finalText string
	switch result.Mode {
	case editparse.ModeEditSet:
		finalText, err = r.applyEditSet(ctx, result, system, messages, responseText, original)
		if err != nil {
			return result, err
		}
	case editparse.ModeRewrite:
		finalText, err = r.applyRewrite(result, responseText, original)
		if err != nil {
			return result, err
		}
	}

	// Step 6: Write the document back when it changed.
	if finalText != original {
		if err := r.deps.Store.Write(filePath, finalText); err != nil {
			return result, fmt.Errorf("writing document: %w", err)
		}
	}

	// Step 7: Token usage.
	result.TokensUsed = r.usage()

	// Step 8: Auto-commit on success.
	if result.Success && finalText != original && gitRepo != nil {
		relPath := relTo(r.deps.WorkDir, filePath)
		if err := gitRepo.CommitApplied(relPath, instruction); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("auto-commit failed: %v", err))
		}
	}

	return result, nil
}

// applyEditSet parses the response as an edit set, applies it, and drives
// the feedback loop over any failed edits. Returns the final document text.
func (r *Runner) applyEditSet(ctx context.Context, result *RunResult, system string, messages []types.Message, responseText, original string) (string, error) {
	parsed, err := editparse.Parse(responseText)
	if err != nil {
		return original, fmt.Errorf("failed to parse LLM response: %w", err)
	}

	engine := patch.NewEngine(r.deps.MinSimilarity)
	report := engine.ApplyEdits(original, parsed.Edits)
	result.Report = report

	prevMessages := messages
	prevResponse := responseText

	loopResult, loopErr := feedback.Run(ctx, feedback.LoopConfig{
		MaxRetries: r.deps.MaxRetries,
	}, report, func(ctx context.Context, failurePrompt, currentText string) (*types.PatchReport, error) {
		retryMessages := llm.ConstructRetryMessages(prevMessages, prevResponse, failurePrompt)

		retryText, err := r.generate(ctx, system, retryMessages)
		if err != nil {
			return nil, fmt.Errorf("retry LLM call: %w", err)
		}

		retryParse, err := editparse.Parse(retryText)
		if err != nil {
			return nil, fmt.Errorf("parsing retry response: %w", err)
		}

		prevMessages = retryMessages
		prevResponse = retryText
		return engine.ApplyEdits(currentText, retryParse.Edits), nil
	})

	finalText := original
	if loopResult != nil {
		result.Retries = loopResult.Retries
		result.Success = loopResult.Success
		result.Report = loopResult.FinalReport
		finalText = loopResult.FinalText
	}

	if loopErr != nil && !result.Success {
		for _, failed := range result.Report.FailedResults() {
			result.Errors = append(result.Errors, failed.Message)
		}
	}

	return finalText, nil
}

// applyRewrite treats the response as a full replacement body. An empty
// body is refused: replacing the document with nothing is never what a
// rewrite response means, and usually signals a failed or refused call.
func (r *Runner) applyRewrite(result *RunResult, responseText, original string) (string, error) {
	newText := rewrite.StripFences(responseText)
	if strings.TrimSpace(newText) == "" {
		return original, fmt.Errorf("rewrite response produced an empty document, refusing to apply")
	}

	result.RewriteStats = rewrite.Compare(original, newText)
	result.Diff = rewrite.RenderDiff(original, newText)
	result.Success = true
	return newText, nil
}

// generate sends a prompt to the LLM and returns the full response text.
// An empty response is an error: passing it downstream would classify as a
// full rewrite and erase the document.
func (r *Runner) generate(ctx context.Context, system string, messages []types.Message) (string, error) {
	text, err := r.generateRaw(ctx, system, messages)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("LLM returned an empty response")
	}
	return text, nil
}

func (r *Runner) generateRaw(ctx context.Context, system string, messages []types.Message) (string, error) {
	if r.deps.Prompter != nil {
		return r.deps.Prompter.Generate(ctx, system, messages)
	}
	if r.deps.LLMClient == nil {
		return "", fmt.Errorf("no LLM client configured")
	}

	tokenCh, responseCh := r.deps.LLMClient.SendPrompt(ctx, system, messages)
	for range tokenCh {
	}

	resp := <-responseCh
	if resp == nil {
		return "", fmt.Errorf("no response from LLM")
	}
	if resp.Err != nil {
		return "", resp.Err
	}
	return resp.FullText, nil
}

// usage returns cumulative token usage.
func (r *Runner) usage() types.TokenUsage {
	if r.deps.Prompter != nil {
		return r.deps.Prompter.Usage()
	}
	if r.deps.LLMClient != nil {
		return r.deps.LLMClient.CumulativeUsage()
	}
	return types.TokenUsage{}
}

// relTo converts path to be relative to workDir when possible.
func relTo(workDir, path string) string {
	rel, err := filepath.Rel(workDir, path)
	if err != nil {
		return path
	}
	return rel
}
