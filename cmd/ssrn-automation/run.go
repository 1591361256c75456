// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/midnghtsapphire/SSRN-AUTOMATION/internal/notify"
	"github.com/midnghtsapphire/SSRN-AUTOMATION/internal/pipeline"
	"github.com/midnghtsapphire/SSRN-AUTOMATION/internal/registry"
	"github.com/midnghtsapphire/SSRN-AUTOMATION/internal/runner"
)

var runCmd = &cobra.Command{
	Use:   "run <topic>",
	Short: "Run the full workflow for a topic",
	Long: `Run generates a paper on the topic, renders the PDF, runs the quality
checklist, records metadata, uploads and backs up the PDF, and sends the
review notification. Each run is recorded in the run registry.

Generation, rendering, and metadata failures stop the run. Upload and
notification failures are logged as warnings. Quality failures stop the run
unless quality.strict is false.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	dual, _ := cmd.Flags().GetBool("dual")
	skipUpload, _ := cmd.Flags().GetBool("skip-upload")
	skipNotify, _ := cmd.Flags().GetBool("skip-notify")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Close()

	gen, err := newGenerator(log)
	if err != nil {
		return err
	}

	reg, err := registry.Open(cfg.Paths.RegistryDB)
	if err != nil {
		return err
	}
	defer reg.Close()

	exec := runner.OS{}
	sender := notify.New(cfg.Notify, cfg.Paths.MetadataDir, &http.Client{Timeout: 30 * time.Second}, exec)
	p := pipeline.New(cfg, gen, exec, sender, reg, log)

	_, err = p.Run(ctx, strings.Join(args, " "), pipeline.Options{
		Dual:       dual,
		SkipUpload: skipUpload,
		SkipNotify: skipNotify,
	})
	return err
}

func init() {
	runCmd.Flags().Bool("dual", false, "also generate a sub-niche paper for the topic")
	runCmd.Flags().Bool("skip-upload", false, "skip drive upload and git backup")
	runCmd.Flags().Bool("skip-notify", false, "skip the notification and calendar reminder")

	rootCmd.AddCommand(runCmd)
}
