// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the ssrn-automation CLI.
package main

import (
	"fmt"
	"net/http"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/midnghtsapphire/SSRN-AUTOMATION/internal/config"
	"github.com/midnghtsapphire/SSRN-AUTOMATION/internal/generate"
	"github.com/midnghtsapphire/SSRN-AUTOMATION/internal/logging"
	"github.com/midnghtsapphire/SSRN-AUTOMATION/internal/secrets"
	"github.com/midnghtsapphire/SSRN-AUTOMATION/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// cfg is the merged configuration, loaded before any subcommand runs.
var cfg types.Config

var rootCmd = &cobra.Command{
	Use:   "ssrn-automation",
	Short: "Draft, render, check, and publish SSRN working papers",
	Long: `ssrn-automation drafts a working paper on a topic with a language model,
renders it to PDF, runs the pre-submission quality checklist, records its
metadata, backs it up, and schedules a review reminder.

Every generated paper carries an AI-assistance disclosure. Drafts are starting
points for the author's own review; nothing is submitted to SSRN automatically.

Use "run" for the full workflow or the individual stage commands to repeat a
single step.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfgFile, _ := cmd.Flags().GetString("config")
		secretsDir, _ := cmd.Flags().GetString("secrets-dir")

		envFiles, err := config.LoadDotEnv(config.DotEnvFiles...)
		if err != nil {
			return err
		}
		if len(envFiles) > 0 {
			fmt.Fprintf(os.Stderr, "Loaded env files: %v\n", envFiles)
		}

		v := config.New(cfgFile)
		loaded, err := config.Load(v)
		if err != nil {
			return err
		}
		if used := v.ConfigFileUsed(); used != "" {
			fmt.Fprintln(os.Stderr, "Using config file:", used)
		}

		s, err := secrets.Load(secretsDir, os.Stderr)
		if err != nil {
			return err
		}
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		secrets.Apply(&loaded, s)
		cfg = loaded
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: ./config.json)")
	rootCmd.PersistentFlags().String("secrets-dir", ".secrets", "directory of credential files")
}

// newLogger opens the dated log file under paths.logs_dir.
func newLogger() (*logging.Logger, error) {
	return logging.New(os.Stdout, cfg.Paths.LogsDir)
}

// newGenerator builds the paper generator for the configured backend.
func newGenerator(progress *logging.Logger) (*generate.Generator, error) {
	client := &http.Client{Timeout: cfg.LLM.Timeout}
	llm, err := generate.NewCompleter(cfg.LLM, client)
	if err != nil {
		return nil, err
	}
	outline, err := config.LoadOutline(cfg.Paths.OutlineFile)
	if err != nil {
		return nil, err
	}
	g := generate.New(llm, cfg.Author, outline, cfg.LLM.Model)
	g.Progress = progress.Lines()
	return g, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
