// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/midnghtsapphire/SSRN-AUTOMATION/internal/generate"
	"github.com/midnghtsapphire/SSRN-AUTOMATION/internal/naming"
	"github.com/midnghtsapphire/SSRN-AUTOMATION/internal/render"
	"github.com/midnghtsapphire/SSRN-AUTOMATION/internal/runner"
)

var renderCmd = &cobra.Command{
	Use:   "render <paper.json>",
	Short: "Render a saved paper to PDF",
	Long: `Render lays out a paper JSON file as HTML and converts it to PDF with the
configured engine (weasyprint or wkhtmltopdf). The PDF is named
<Author>_<ShortTitle>_<YYYYMMDD>.pdf in the output directory.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func runRender(cmd *cobra.Command, args []string) error {
	p, err := generate.Load(args[0])
	if err != nil {
		return err
	}
	r := render.New(runner.OS{}, string(cfg.Render.Engine))
	if err := r.Check(); err != nil {
		return err
	}

	name, err := naming.FilenameFromShortDate(cfg.Author.Name, p.Title, p.DateShort)
	if err != nil {
		return err
	}
	pdfPath := filepath.Join(cfg.Paths.OutputDir, name)
	htmlPath, err := r.Render(context.Background(), p, cfg.Paths.OutputDir, pdfPath)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "HTML created: %s\n", htmlPath)
	fmt.Fprintf(out, "PDF created: %s\n", pdfPath)
	return nil
}

func init() {
	rootCmd.AddCommand(renderCmd)
}
