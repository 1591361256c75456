// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/midnghtsapphire/SSRN-AUTOMATION/internal/publish"
	"github.com/midnghtsapphire/SSRN-AUTOMATION/internal/runner"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <pdf> [metadata.json]",
	Short: "Upload a PDF to the drive and back it up to git",
	Long: `Upload copies the PDF to the configured rclone remote, prints a shareable
link, and verifies the file is listed. It then copies the PDF (and the
metadata JSON when given) into the git backup repository, commits, and
pushes. Unconfigured destinations are skipped.

Files whose names do not follow <Author>_<ShortTitle>_<YYYYMMDD>.pdf are
refused.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runUpload,
}

func runUpload(cmd *cobra.Command, args []string) error {
	var metadataPath string
	if len(args) == 2 {
		metadataPath = args[1]
	}
	out := cmd.OutOrStdout()

	res, err := publish.New(runner.OS{}, cfg).Publish(context.Background(), args[0], metadataPath, out)
	if err != nil {
		return err
	}
	if res.Uploaded == 0 {
		fmt.Fprintln(out, "Nothing uploaded: no destinations configured")
	}
	return nil
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}
