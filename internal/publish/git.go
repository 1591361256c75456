// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package publish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/midnghtsapphire/SSRN-AUTOMATION/internal/runner"
	"github.com/midnghtsapphire/SSRN-AUTOMATION/pkg/types"
)

// Subdirectories of the backup repository.
const (
	papersSubdir   = "papers"
	metadataSubdir = "metadata"
)

// Git commits paper copies into a local clone and pushes them.
type Git struct {
	Exec   runner.Executor
	Config types.GitConfig
	Author string
}

// Commit describes a pushed backup commit.
type Commit struct {
	Hash string
	URL  string
}

func (g *Git) git(ctx context.Context, args ...string) (runner.Result, error) {
	return g.Exec.Run(ctx, runner.Command{Name: "git", Args: args, Dir: g.Config.RepoDir})
}

// Backup copies pdfPath (and metadataPath when set) into the repository,
// commits them, and pushes to the configured remote and branch.
func (g *Git) Backup(ctx context.Context, pdfPath, metadataPath string) (Commit, error) {
	if !g.Config.Enabled() {
		return Commit{}, fmt.Errorf("git destination not configured")
	}
	if err := checkUploadable(pdfPath, g.Author); err != nil {
		return Commit{}, err
	}
	if info, err := os.Stat(filepath.Join(g.Config.RepoDir, ".git")); err != nil || !info.IsDir() {
		return Commit{}, fmt.Errorf("%s is not a git repository", g.Config.RepoDir)
	}

	filename := filepath.Base(pdfPath)
	added := []string{filepath.Join(papersSubdir, filename)}
	if err := copyFile(pdfPath, filepath.Join(g.Config.RepoDir, added[0])); err != nil {
		return Commit{}, err
	}
	if metadataPath != "" {
		rel := filepath.Join(metadataSubdir, filepath.Base(metadataPath))
		if err := copyFile(metadataPath, filepath.Join(g.Config.RepoDir, rel)); err != nil {
			return Commit{}, err
		}
		added = append(added, rel)
	}

	if _, err := g.git(ctx, append([]string{"add", "--"}, added...)...); err != nil {
		return Commit{}, fmt.Errorf("staging backup: %w", err)
	}
	res, err := g.git(ctx, "commit", "-m", "Add paper "+filename)
	if err != nil && !strings.Contains(res.Stdout, "nothing to commit") {
		return Commit{}, fmt.Errorf("committing backup: %w", err)
	}
	if _, err := g.git(ctx, "push", g.Config.Remote, g.Config.Branch); err != nil {
		return Commit{}, fmt.Errorf("pushing backup: %w", err)
	}
	res, err = g.git(ctx, "rev-parse", "HEAD")
	if err != nil {
		return Commit{}, fmt.Errorf("reading commit hash: %w", err)
	}

	c := Commit{Hash: strings.TrimSpace(res.Stdout)}
	if g.Config.WebURL != "" && c.Hash != "" {
		c.URL = strings.TrimRight(g.Config.WebURL, "/") + "/commit/" + c.Hash
	}
	return c, nil
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(dst), err)
	}
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	defer func() {
		err = errors.Join(err, out.Close())
	}()
	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copying %s: %w", src, err)
	}
	return nil
}
