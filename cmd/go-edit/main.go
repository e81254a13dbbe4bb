// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Command go-edit is a CLI for the go-edit library.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "go-edit",
		Short: "LLM-assisted document editing",
		Long:  "go-edit takes a natural language instruction, generates edits via LLM, and applies them to a document with fuzzy matching.",
	}

	registerFlags(rootCmd)
	cobra.CheckErr(bindFlags(rootCmd))

	// Env vars: GO_EDIT_MODEL, GO_EDIT_REGION, etc.
	viper.SetEnvPrefix("GO_EDIT")
	viper.AutomaticEnv()

	// Config file.
	viper.SetConfigName(".go-edit")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.ReadInConfig() // Ignore error; config file is optional.

	// Add commands.
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newApplyCmd())
	rootCmd.AddCommand(newNewCmd())
	rootCmd.AddCommand(newUndoCmd())
	rootCmd.AddCommand(newVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// registerFlags declares the global flags on the root command.
func registerFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("workdir", ".", "Directory holding the documents")
	cmd.PersistentFlags().String("model", "", "Model as provider:model (bedrock:, openai:, ollama:)")
	cmd.PersistentFlags().String("region", "", "AWS region for Bedrock")
	cmd.PersistentFlags().String("base-url", "", "API base URL for openai/ollama providers")
	cmd.PersistentFlags().Float64("min-similarity", 0.90, "Fuzzy match threshold")
	cmd.PersistentFlags().Int("max-retries", 3, "Maximum feedback loop iterations")
	cmd.PersistentFlags().Int("max-tokens", 4096, "Maximum tokens for LLM response")
	cmd.PersistentFlags().Bool("no-git", false, "Disable git checkpointing")
}

// bindFlags binds every global flag to its viper key. Binding only fails
// when a flag is missing, so any error here is a wiring bug.
func bindFlags(cmd *cobra.Command) error {
	var errs []error
	for _, name := range []string{
		"workdir", "model", "region", "base-url",
		"min-similarity", "max-retries", "max-tokens", "no-git",
	} {
		errs = append(errs, viper.BindPFlag(name, cmd.PersistentFlags().Lookup(name)))
	}
	return errors.Join(errs...)
}

// newVersionCmd creates the "version" command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print go-edit version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("go-edit %s\n", version)
		},
	}
}
