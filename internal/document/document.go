// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package document reads and writes the documents go-edit patches. Writes
// are atomic so an interrupted write can never leave a half-patched file.
package document

import (
	"fmt"
	"os"
	"path/filepath"
)

// Store reads a document snapshot and writes patched content back. The
// filesystem implementation is the default; editor integrations supply
// their own over the live buffer.
type Store interface {
	Read(path string) (string, error)
	Write(path, content string) error
}

// FileStore implements Store over the local filesystem.
type FileStore struct{}

// Read returns the document's current content.
func (FileStore) Read(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

// Write replaces the document's content atomically: the new content is
// written to a temp file in the same directory, then renamed over the
// target. Existing file permissions are preserved.
func (FileStore) Write(path, content string) error {
	dir := filepath.Dir(path)

	perm := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	f, err := os.CreateTemp(dir, ".go-edit-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := f.Name()

	if _, err := f.WriteString(content); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Chmod(tmpPath, perm); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting permissions: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	return nil
}
