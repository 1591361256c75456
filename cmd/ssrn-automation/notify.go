// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/midnghtsapphire/SSRN-AUTOMATION/internal/metadata"
	"github.com/midnghtsapphire/SSRN-AUTOMATION/internal/notify"
	"github.com/midnghtsapphire/SSRN-AUTOMATION/internal/runner"
)

var notifyCmd = &cobra.Command{
	Use:   "notify <metadata.json> <drive-link> [commit-url]",
	Short: "Send the review notification for a paper",
	Long: `Notify composes the review email and calendar reminder for a paper's
metadata and delivers them to the configured webhook or command. The
reminder is also written as reminder_<YYYYMMDD>.ics in the metadata
directory, even when no delivery channel is configured.`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runNotify,
}

func runNotify(cmd *cobra.Command, args []string) error {
	qualityPassed, _ := cmd.Flags().GetBool("quality-passed")

	m, err := metadata.LoadJSON(args[0])
	if err != nil {
		return err
	}
	d := notify.Details{Metadata: m, DriveLink: args[1], QualityPassed: qualityPassed}
	if len(args) == 3 {
		d.CommitURL = args[2]
	}

	s := notify.New(cfg.Notify, cfg.Paths.MetadataDir, &http.Client{Timeout: 30 * time.Second}, runner.OS{})
	res, err := s.Notify(context.Background(), d)
	out := cmd.OutOrStdout()
	if res.ICSPath != "" {
		fmt.Fprintf(out, "Calendar reminder: %s\n", res.ICSPath)
		fmt.Fprintf(out, "Reminder at: %s\n", res.Message.Event.Start.Format(time.RFC3339))
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Notification sent: %s\n", res.Message.Email.Subject)
	return nil
}

func init() {
	notifyCmd.Flags().Bool("quality-passed", true, "report the quality checklist as passed")

	rootCmd.AddCommand(notifyCmd)
}
