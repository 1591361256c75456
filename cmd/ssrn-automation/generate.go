// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/midnghtsapphire/SSRN-AUTOMATION/internal/generate"
	"github.com/midnghtsapphire/SSRN-AUTOMATION/internal/logging"
	"github.com/midnghtsapphire/SSRN-AUTOMATION/pkg/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate <topic>",
	Short: "Draft a paper and save it as JSON",
	Long: `Generate drafts the title, subtitle, keywords, JEL codes, abstract, and
outline sections for a topic and writes paper_data_<YYYYMMDD>.json to the
output directory.

With --dual it also identifies a narrower sub-niche of the topic, drafts a
second paper on it, and writes both papers plus dual_papers_meta_<YYYYMMDD>.json.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	dual, _ := cmd.Flags().GetBool("dual")
	topic := strings.Join(args, " ")
	out := cmd.OutOrStdout()

	g, err := newGenerator(logging.Console(out))
	if err != nil {
		return err
	}
	ctx := context.Background()
	dir := cfg.Paths.OutputDir

	if !dual {
		p, err := g.Generate(ctx, types.PaperRequest{Topic: topic, Type: types.PaperMain})
		if err != nil {
			return err
		}
		path, err := generate.Save(dir, p, false)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Paper generated: %s\n", path)
		fmt.Fprintf(out, "Title: %s\n", p.Title)
		return nil
	}

	r, err := g.GenerateDual(ctx, topic)
	if err != nil {
		return err
	}
	mainFile, err := generate.Save(dir, r.Main, true)
	if err != nil {
		return err
	}
	subFile, err := generate.Save(dir, r.SubNiche, true)
	if err != nil {
		return err
	}
	metaFile, err := generate.SaveDualMeta(dir, r, mainFile, subFile)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Main paper: %s\n", mainFile)
	fmt.Fprintf(out, "Sub-niche paper (%s): %s\n", r.SubNicheTopic, subFile)
	fmt.Fprintf(out, "Dual metadata: %s\n", metaFile)
	return nil
}

func init() {
	generateCmd.Flags().Bool("dual", false, "also generate a sub-niche paper")

	rootCmd.AddCommand(generateCmd)
}
