// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/petar-djukic/go-edit/internal/document"
	"github.com/petar-djukic/go-edit/internal/editparse"
	gitpkg "github.com/petar-djukic/go-edit/internal/git"
	"github.com/petar-djukic/go-edit/internal/patch"
	"github.com/petar-djukic/go-edit/internal/scaffold"
	"github.com/petar-djukic/go-edit/pkg/assist"
)

// newRunCmd creates the "run" command.
func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Edit a document from a natural language instruction",
		Long:  "Run sends the document and instruction to the LLM, parses the returned edits, and applies them with fuzzy matching.",
		Args:  cobra.ExactArgs(1),
		RunE:  runEdit,
	}

	cmd.Flags().StringP("instruction", "i", "", "Edit instruction (required)")
	cmd.MarkFlagRequired("instruction")

	return cmd
}

// runEdit executes the editing task.
func runEdit(cmd *cobra.Command, args []string) error {
	instruction, _ := cmd.Flags().GetString("instruction")

	cfg := assist.Config{
		WorkDir:       viper.GetString("workdir"),
		Model:         viper.GetString("model"),
		Region:        viper.GetString("region"),
		BaseURL:       viper.GetString("base-url"),
		APIKey:        os.Getenv("GO_EDIT_API_KEY"),
		MinSimilarity: viper.GetFloat64("min-similarity"),
		MaxRetries:    viper.GetInt("max-retries"),
		MaxTokens:     viper.GetInt("max-tokens"),
		NoGit:         viper.GetBool("no-git"),
	}

	a, err := assist.New(cfg)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	result, err := a.Edit(ctx, args[0], instruction)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if result != nil {
			printResult(result)
		}
		return err
	}

	printResult(result)
	return nil
}

// printResult outputs the result as JSON to stdout.
func printResult(result *assist.Result) {
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling result: %v\n", err)
		return
	}
	fmt.Println(string(out))
}

// newApplyCmd creates the "apply" command, which patches a document from a
// pre-made edit-set JSON without calling an LLM.
func newApplyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply <file>",
		Short: "Apply an edit-set JSON to a document",
		Long:  "Apply reads an edit set ({\"edits\":[...]}) from a file or stdin and patches the document offline, printing the application report.",
		Args:  cobra.ExactArgs(1),
		RunE:  runApply,
	}

	cmd.Flags().StringP("edits", "e", "-", "Edit-set JSON file (- for stdin)")
	cmd.Flags().Bool("dry-run", false, "Print the report without writing the document")

	return cmd
}

// runApply patches a document from an edit set.
func runApply(cmd *cobra.Command, args []string) error {
	editsPath, _ := cmd.Flags().GetString("edits")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	var raw []byte
	var err error
	if editsPath == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(editsPath)
	}
	if err != nil {
		return fmt.Errorf("reading edit set: %w", err)
	}

	parsed, err := editparse.Parse(string(raw))
	if err != nil {
		return fmt.Errorf("parsing edit set: %w", err)
	}

	store := document.FileStore{}
	original, err := store.Read(args[0])
	if err != nil {
		return fmt.Errorf("reading document: %w", err)
	}

	engine := patch.NewEngine(viper.GetFloat64("min-similarity"))
	report := engine.ApplyEdits(original, parsed.Edits)

	fmt.Println(report.SummaryText)

	if !dryRun && report.FinalText != original {
		if err := store.Write(args[0], report.FinalText); err != nil {
			return fmt.Errorf("writing document: %w", err)
		}
	}

	if len(report.FailedResults()) > 0 {
		return fmt.Errorf("%d edits failed to apply", len(report.FailedResults()))
	}
	return nil
}

// newNewCmd creates the "new" command, which scaffolds a file from a
// built-in template.
func newNewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new <file>",
		Short: "Create a file from a scaffold template",
		Long:  "New renders a built-in template (" + strings.Join(scaffold.Names(), ", ") + ") to a fresh file. Refuses to overwrite.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tmpl, _ := cmd.Flags().GetString("template")
			pkg, _ := cmd.Flags().GetString("package")
			title, _ := cmd.Flags().GetString("title")

			if err := scaffold.Create(args[0], tmpl, scaffold.Data{Package: pkg, Title: title}); err != nil {
				return err
			}
			fmt.Printf("Created %s from template %s.\n", args[0], tmpl)
			return nil
		},
	}

	cmd.Flags().StringP("template", "t", "markdown", "Scaffold template name")
	cmd.Flags().String("package", "main", "Go package name, for Go templates")
	cmd.Flags().String("title", "", "Document title, for text templates")

	return cmd
}

// newUndoCmd creates the "undo" command.
func newUndoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Revert the last go-edit commit",
		Long:  "Undo performs a soft reset of the last commit if it was made by go-edit.",
		RunE: func(cmd *cobra.Command, args []string) error {
			workDir := viper.GetString("workdir")

			repo, err := gitpkg.Open(gitpkg.Config{WorkDir: workDir})
			if err != nil {
				return fmt.Errorf("opening repository: %w", err)
			}

			if err := repo.Undo(); err != nil {
				return fmt.Errorf("undo failed: %w", err)
			}

			fmt.Println("Successfully reverted last go-edit commit.")
			return nil
		},
	}
}
