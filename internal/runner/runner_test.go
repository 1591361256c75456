// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package runner

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lookupOnly struct {
	available map[string]bool
}

func (l lookupOnly) LookPath(file string) (string, error) {
	if l.available[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (l lookupOnly) Run(context.Context, Command) (Result, error) {
	return Result{}, nil
}

func TestRequire(t *testing.T) {
	e := lookupOnly{available: map[string]bool{"git": true}}

	require.NoError(t, Require(e, "git"))

	err := Require(e, "git", "rclone", "pdftotext")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rclone, pdftotext")
	assert.NotContains(t, err.Error(), "git,")
}

func TestCommandString(t *testing.T) {
	assert.Equal(t, "git", Command{Name: "git"}.String())
	assert.Equal(t, "rclone copy a b", Command{Name: "rclone", Args: []string{"copy", "a", "b"}}.String())
}

func TestExitErrorMessage(t *testing.T) {
	e := &ExitError{Command: "rclone", ExitCode: 3, Stderr: "  directory not found\n"}
	assert.Equal(t, "rclone: exit status 3: directory not found", e.Error())

	e = &ExitError{Command: "git", ExitCode: 1}
	assert.Equal(t, "git: exit status 1", e.Error())
}

func TestOSRun(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	res, err := OS{}.Run(context.Background(), Command{Name: "sh", Args: []string{"-c", "cat; echo done"}, Stdin: strings.NewReader("in ")})
	require.NoError(t, err)
	assert.Equal(t, "in done\n", res.Stdout)
	assert.Equal(t, 0, res.ExitCode)

	res, err = OS{}.Run(context.Background(), Command{Name: "sh", Args: []string{"-c", "echo bad >&2; exit 4"}})
	require.Error(t, err)
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 4, exitErr.ExitCode)
	assert.Equal(t, 4, res.ExitCode)
	assert.Contains(t, err.Error(), "bad")
}
