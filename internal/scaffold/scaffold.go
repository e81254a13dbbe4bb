// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package scaffold generates new files from built-in templates, so an
// edit instruction like "start a new test file" has something to patch.
package scaffold

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// ErrExists is returned when the target file already exists. Scaffolding
// never overwrites; editing existing files is the patch engine's job.
var ErrExists = errors.New("file already exists")

// ErrUnknownTemplate is returned for a template name not in the built-in set.
var ErrUnknownTemplate = errors.New("unknown scaffold template")

// Data is passed to every scaffold template.
type Data struct {
	Name    string // Base name of the file, without extension
	Package string // Go package name, for Go templates
	Title   string // Document title, for text templates
}

// Render produces the content of the named scaffold without touching disk.
func Render(name string, data Data) (string, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/"+name+".tmpl")
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrUnknownTemplate, name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering scaffold %s: %w", name, err)
	}
	return buf.String(), nil
}

// Create renders the named scaffold and writes it to path. Fails with
// ErrExists when the file is already there.
func Create(path, name string, data Data) error {
	if data.Name == "" {
		base := filepath.Base(path)
		data.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	content, err := Render(name, data)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("%w: %s", ErrExists, path)
		}
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(content); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Names lists the available scaffold templates, sorted.
func Names() []string {
	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		return nil
	}

	var names []string
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".tmpl"))
	}
	sort.Strings(names)
	return names
}
