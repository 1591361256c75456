// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/midnghtsapphire/SSRN-AUTOMATION/internal/generate"
	"github.com/midnghtsapphire/SSRN-AUTOMATION/internal/quality"
	"github.com/midnghtsapphire/SSRN-AUTOMATION/internal/render"
	"github.com/midnghtsapphire/SSRN-AUTOMATION/internal/runner"
)

var checkCmd = &cobra.Command{
	Use:   "check <pdf> [text-file]",
	Short: "Run the quality checklist against a rendered paper",
	Long: `Check verifies the filename convention, abstract length, denylisted
phrases, absence of the author name from the body, body length, the
AI-assistance disclosure, and the page count.

The PDF text is extracted with pdftotext unless a plain-text export is given
as the second argument. With --paper the abstract and body come from the
paper JSON instead of the extracted text. Exits non-zero when any check fails.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	paperFile, _ := cmd.Flags().GetString("paper")
	pdfPath := args[0]
	ctx := context.Background()

	in := quality.Input{PDFPath: pdfPath}
	if len(args) == 2 {
		data, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("reading text file: %w", err)
		}
		in.Text = string(data)
	} else {
		text, err := render.PDFText(ctx, runner.OS{}, pdfPath)
		if err != nil {
			return err
		}
		in.Text = text
	}
	pages, err := render.PageCount(pdfPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	in.Pages = pages

	if paperFile != "" {
		p, err := generate.Load(paperFile)
		if err != nil {
			return err
		}
		in.Paper = &p
	}

	rep := quality.New(cfg.Quality, cfg.Author.Name).Check(in)
	rep.Write(cmd.OutOrStdout())
	if !rep.Passed() {
		return fmt.Errorf("%d quality check(s) failed", len(rep.Failures()))
	}
	return nil
}

func init() {
	checkCmd.Flags().String("paper", "", "paper JSON file supplying the abstract and body")

	rootCmd.AddCommand(checkCmd)
}
