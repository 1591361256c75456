// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/midnghtsapphire/SSRN-AUTOMATION/internal/registry"
	"github.com/midnghtsapphire/SSRN-AUTOMATION/pkg/types"
)

var papersCmd = &cobra.Command{
	Use:   "papers",
	Short: "List recent pipeline runs",
	Long: `Papers lists the most recent runs recorded in the run registry with their
stage outcomes. Use --id to show the full record of one run.`,
	Args: cobra.NoArgs,
	RunE: runPapers,
}

var stageOrder = []string{
	types.StageGenerate,
	types.StageRender,
	types.StageQuality,
	types.StageMetadata,
	types.StageUpload,
	types.StageNotify,
}

func runPapers(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	id, _ := cmd.Flags().GetString("id")

	if _, err := os.Stat(cfg.Paths.RegistryDB); os.IsNotExist(err) {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet")
		return nil
	}
	reg, err := registry.Open(cfg.Paths.RegistryDB)
	if err != nil {
		return err
	}
	defer reg.Close()
	ctx := context.Background()

	if id != "" {
		r, err := reg.Get(ctx, id)
		if err != nil {
			return err
		}
		return writeRun(cmd, r)
	}

	runs, err := reg.List(ctx, limit)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tTYPE\tSTATUS\tTOPIC\tID")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			r.StartedAt.Local().Format("2006-01-02 15:04"), r.PaperType, status(r), r.Topic, r.ID)
	}
	return w.Flush()
}

func status(r types.Run) string {
	switch {
	case r.Error != "":
		return "failed"
	case r.FinishedAt.IsZero():
		return "incomplete"
	}
	for _, s := range r.Stages {
		if s == types.StageWarned {
			return "warned"
		}
	}
	return "ok"
}

func writeRun(cmd *cobra.Command, r types.Run) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID: %s\n", r.ID)
	fmt.Fprintf(out, "Topic: %s (%s)\n", r.Topic, r.PaperType)
	fmt.Fprintf(out, "Started: %s\n", r.StartedAt.Local().Format("2006-01-02 15:04:05"))
	if !r.FinishedAt.IsZero() {
		fmt.Fprintf(out, "Finished: %s\n", r.FinishedAt.Local().Format("2006-01-02 15:04:05"))
	}
	var stages []string
	for _, name := range stageOrder {
		if s, ok := r.Stages[name]; ok {
			stages = append(stages, name+"="+string(s))
		}
	}
	fmt.Fprintf(out, "Stages: %s\n", strings.Join(stages, " "))
	for _, f := range [][2]string{{"PDF", r.PDFPath}, {"Drive", r.DriveLink}, {"Commit", r.CommitURL}, {"Error", r.Error}} {
		if f[1] != "" {
			fmt.Fprintf(out, "%s: %s\n", f[0], f[1])
		}
	}
	return nil
}

func init() {
	papersCmd.Flags().Int("limit", 20, "number of runs to list")
	papersCmd.Flags().String("id", "", "show one run in full")

	rootCmd.AddCommand(papersCmd)
}
