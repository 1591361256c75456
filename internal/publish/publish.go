// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package publish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/midnghtsapphire/SSRN-AUTOMATION/internal/runner"
	"github.com/midnghtsapphire/SSRN-AUTOMATION/pkg/types"
)

// Result holds the outcome of publishing one paper.
type Result struct {
	DriveLink     string
	DriveVerified bool
	Commit        Commit

	// Uploaded counts destinations that accepted the paper.
	Uploaded int
}

// Publisher sends a paper to every configured destination.
type Publisher struct {
	Drive *Drive
	Git   *Git
}

// New builds a Publisher from cfg.
func New(exec runner.Executor, cfg types.Config) *Publisher {
	return &Publisher{
		Drive: &Drive{Exec: exec, Config: cfg.Drive, Author: cfg.Author.Name},
		Git:   &Git{Exec: exec, Config: cfg.Git, Author: cfg.Author.Name},
	}
}

// Publish uploads pdfPath to the drive and backs it up to git. Unconfigured
// destinations are skipped with a note on w. Failures of individual
// destinations are joined into the returned error; the Result still holds
// whatever succeeded.
func (p *Publisher) Publish(ctx context.Context, pdfPath, metadataPath string, w io.Writer) (Result, error) {
	var res Result
	var errs []error

	if p.Drive.Config.Enabled() {
		link, err := p.Drive.Upload(ctx, pdfPath)
		if err != nil {
			fmt.Fprintf(w, "Drive upload failed: %v\n", err)
			errs = append(errs, fmt.Errorf("drive: %w", err))
		} else {
			res.Uploaded++
			res.DriveLink = link
			fmt.Fprintf(w, "Uploaded to drive: %s\n", filepath.Base(pdfPath))
			if link != "" {
				fmt.Fprintf(w, "Shareable link: %s\n", link)
			}
			ok, err := p.Drive.Verify(ctx, filepath.Base(pdfPath))
			switch {
			case err != nil:
				fmt.Fprintf(w, "Drive verification failed: %v\n", err)
			case ok:
				res.DriveVerified = true
				fmt.Fprintf(w, "Verified in drive: %s\n", filepath.Base(pdfPath))
			default:
				fmt.Fprintf(w, "Not yet listed in drive: %s\n", filepath.Base(pdfPath))
			}
		}
	} else {
		fmt.Fprintln(w, "Drive upload skipped: drive.remote or drive.folder_id not set")
	}

	if p.Git.Config.Enabled() {
		c, err := p.Git.Backup(ctx, pdfPath, metadataPath)
		if err != nil {
			fmt.Fprintf(w, "Git backup failed: %v\n", err)
			errs = append(errs, fmt.Errorf("git: %w", err))
		} else {
			res.Uploaded++
			res.Commit = c
			fmt.Fprintf(w, "Committed backup %s\n", c.Hash)
			if c.URL != "" {
				fmt.Fprintf(w, "Commit: %s\n", c.URL)
			}
		}
	} else {
		fmt.Fprintln(w, "Git backup skipped: git.repo_dir not set")
	}

	return res, errors.Join(errs...)
}
