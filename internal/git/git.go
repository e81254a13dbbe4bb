// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package git checkpoints documents around edit application: an optional
// pre-edit commit of uncommitted changes, a post-apply commit tagged with
// a trailer, and undo of the last tagged commit.
package git

import (
	"errors"
	"fmt"
	"strings"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

const (
	authorName    = "go-edit"
	authorEmail   = "noreply@go-edit"
	editTrailer   = "Co-Authored-By: go-edit <noreply@go-edit>"
	checkpointMsg = "go-edit: checkpoint before edit"
)

// ErrNotEditCommit is returned when undo targets a commit not made by go-edit.
var ErrNotEditCommit = errors.New("not a go-edit commit")

// ErrNoGit is returned when the working directory is not a git repository.
var ErrNoGit = errors.New("not a git repository")

// Config configures checkpointing behavior.
type Config struct {
	WorkDir    string // Repository working directory
	AutoCommit bool   // Commit the document after a successful apply
	Checkpoint bool   // Commit uncommitted changes before editing
}

// Repo wraps a go-git repository for the operations go-edit needs.
type Repo struct {
	repo *gogit.Repository
	cfg  Config
}

// Open opens the repository at the configured work directory. Returns
// ErrNoGit when the directory is not under git.
func Open(cfg Config) (*Repo, error) {
	r, err := gogit.PlainOpen(cfg.WorkDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoGit, err)
	}
	return &Repo{repo: r, cfg: cfg}, nil
}

// IsDirty reports whether the working tree has uncommitted changes.
func (r *Repo) IsDirty() (bool, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("getting worktree: %w", err)
	}

	status, err := wt.Status()
	if err != nil {
		return false, fmt.Errorf("getting status: %w", err)
	}

	return !status.IsClean(), nil
}

// Checkpoint commits any uncommitted changes before an edit pass, so a
// bad apply can always be rolled back to a clean state. No-op when the
// tree is clean or checkpointing is disabled.
func (r *Repo) Checkpoint() error {
	if !r.cfg.Checkpoint {
		return nil
	}

	dirty, err := r.IsDirty()
	if err != nil {
		return err
	}
	if !dirty {
		return nil
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}

	if _, err := wt.Add("."); err != nil {
		return fmt.Errorf("staging changes: %w", err)
	}

	if _, err := wt.Commit(checkpointMsg, commitOptions()); err != nil {
		return fmt.Errorf("committing checkpoint: %w", err)
	}

	return nil
}

// CommitApplied stages the edited document and commits it with a message
// derived from the instruction, tagged with the go-edit trailer.
func (r *Repo) CommitApplied(relPath, instruction string) error {
	if !r.cfg.AutoCommit {
		return nil
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}

	if _, err := wt.Add(relPath); err != nil {
		return fmt.Errorf("staging %s: %w", relPath, err)
	}

	if _, err := wt.Commit(commitMessage(instruction), commitOptions()); err != nil {
		return fmt.Errorf("committing: %w", err)
	}

	return nil
}

// Undo reverts the last commit if it carries the go-edit trailer, using a
// soft reset so the changes stay in the working tree.
func (r *Repo) Undo() error {
	head, err := r.repo.Head()
	if err != nil {
		return fmt.Errorf("getting HEAD: %w", err)
	}

	commit, err := r.repo.CommitObject(head.Hash())
	if err != nil {
		return fmt.Errorf("getting commit: %w", err)
	}

	if !strings.Contains(commit.Message, editTrailer) {
		return ErrNotEditCommit
	}

	if commit.NumParents() == 0 {
		return fmt.Errorf("cannot undo: HEAD is the initial commit")
	}

	parent, err := commit.Parent(0)
	if err != nil {
		return fmt.Errorf("getting parent commit: %w", err)
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}

	if err := wt.Reset(&gogit.ResetOptions{Commit: parent.Hash, Mode: gogit.SoftReset}); err != nil {
		return fmt.Errorf("resetting to parent: %w", err)
	}

	return nil
}

// commitMessage builds a one-line subject from the instruction plus the
// identifying trailer. Long instructions are truncated at a word boundary.
func commitMessage(instruction string) string {
	subject := strings.Join(strings.Fields(instruction), " ")
	if len(subject) > 72 {
		cut := strings.LastIndexByte(subject[:72], ' ')
		if cut <= 0 {
			cut = 72
		}
		subject = subject[:cut] + "..."
	}
	if subject == "" {
		subject = "apply edits"
	}
	return fmt.Sprintf("go-edit: %s\n\n%s", subject, editTrailer)
}

func commitOptions() *gogit.CommitOptions {
	return &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  authorName,
			Email: authorEmail,
			When:  time.Now(),
		},
	}
}
