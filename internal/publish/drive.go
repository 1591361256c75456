// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package publish copies finished papers to their remote destinations: a
// cloud drive folder through rclone and a git backup repository.
package publish

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/midnghtsapphire/SSRN-AUTOMATION/internal/naming"
	"github.com/midnghtsapphire/SSRN-AUTOMATION/internal/runner"
	"github.com/midnghtsapphire/SSRN-AUTOMATION/pkg/types"
)

// Drive uploads PDFs with rclone.
type Drive struct {
	Exec   runner.Executor
	Config types.DriveConfig
	Author string
}

func (d *Drive) dest() string {
	return d.Config.Remote + ":" + d.Config.FolderID
}

func (d *Drive) args(args ...string) []string {
	if d.Config.ConfigPath != "" {
		args = append(args, "--config", d.Config.ConfigPath)
	}
	return args
}

// checkUploadable refuses files that do not exist or break the naming
// convention.
func checkUploadable(pdfPath, author string) error {
	info, err := os.Stat(pdfPath)
	if err != nil {
		return fmt.Errorf("file not found: %s", pdfPath)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", pdfPath)
	}
	if err := naming.Validate(filepath.Base(pdfPath), author); err != nil {
		return fmt.Errorf("refusing upload: %w", err)
	}
	return nil
}

// Upload copies pdfPath into the configured folder and returns a shareable
// link. An empty link with a nil error means rclone could not create one.
func (d *Drive) Upload(ctx context.Context, pdfPath string) (string, error) {
	if !d.Config.Enabled() {
		return "", fmt.Errorf("drive destination not configured")
	}
	if err := checkUploadable(pdfPath, d.Author); err != nil {
		return "", err
	}

	copyCmd := runner.Command{Name: "rclone", Args: d.args("copy", pdfPath, d.dest())}
	if _, err := d.Exec.Run(ctx, copyCmd); err != nil {
		return "", fmt.Errorf("uploading %s: %w", filepath.Base(pdfPath), err)
	}

	linkCmd := runner.Command{Name: "rclone", Args: d.args("link", d.dest()+"/"+filepath.Base(pdfPath))}
	res, err := d.Exec.Run(ctx, linkCmd)
	if err != nil {
		return "", nil
	}
	return strings.TrimSpace(res.Stdout), nil
}

// Verify lists the remote folder and reports whether filename is present.
func (d *Drive) Verify(ctx context.Context, filename string) (bool, error) {
	res, err := d.Exec.Run(ctx, runner.Command{Name: "rclone", Args: d.args("ls", d.dest())})
	if err != nil {
		return false, fmt.Errorf("listing %s: %w", d.dest(), err)
	}
	for _, line := range strings.Split(res.Stdout, "\n") {
		// rclone ls prints "<size> <path>".
		fields := strings.Fields(line)
		if len(fields) >= 2 && strings.Join(fields[1:], " ") == filename {
			return true, nil
		}
	}
	return false, nil
}
