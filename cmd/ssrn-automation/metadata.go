// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/midnghtsapphire/SSRN-AUTOMATION/internal/generate"
	"github.com/midnghtsapphire/SSRN-AUTOMATION/internal/metadata"
)

var metadataCmd = &cobra.Command{
	Use:   "metadata <paper.json>",
	Short: "Extract submission metadata from a saved paper",
	Long: `Metadata builds the SSRN submission record for a paper JSON file: the
conventional filename, body word count, and suggested eJournals. It writes
metadata_<YYYYMMDD>.json, appends a row to papers_log.csv, and writes the
submission_info_<YYYYMMDD>.txt checklist into the metadata directory.`,
	Args: cobra.ExactArgs(1),
	RunE: runMetadata,
}

func runMetadata(cmd *cobra.Command, args []string) error {
	p, err := generate.Load(args[0])
	if err != nil {
		return err
	}
	m, err := metadata.Extract(p, cfg.Author.Name)
	if err != nil {
		return err
	}

	dir := cfg.Paths.MetadataDir
	jsonPath, err := metadata.SaveJSON(dir, m)
	if err != nil {
		return err
	}
	csvPath, err := metadata.AppendCSV(dir, m)
	if err != nil {
		return err
	}
	infoPath, err := metadata.WriteSubmissionInfo(dir, m)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Filename: %s\n", m.Filename)
	fmt.Fprintf(out, "Word count: %d\n", m.WordCount)
	fmt.Fprintf(out, "Suggested eJournals: %s\n", m.EJournals)
	fmt.Fprintf(out, "Metadata: %s\n", jsonPath)
	fmt.Fprintf(out, "CSV log: %s\n", csvPath)
	fmt.Fprintf(out, "Submission info: %s\n", infoPath)
	return nil
}

func init() {
	rootCmd.AddCommand(metadataCmd)
}
