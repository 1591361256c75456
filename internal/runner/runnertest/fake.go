// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package runnertest provides a scripted runner.Executor for tests.
package runnertest

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/midnghtsapphire/SSRN-AUTOMATION/internal/runner"
)

// Handler answers one command. Stdin has already been read into stdin.
type Handler func(cmd runner.Command, stdin string) (runner.Result, error)

// Fake records every command and dispatches it to the handler registered
// for the command name. Unhandled commands succeed with empty output.
type Fake struct {
	mu       sync.Mutex
	handlers map[string]Handler
	missing  map[string]bool

	Calls  []runner.Command
	Stdins []string
}

// New returns an empty Fake.
func New() *Fake {
	return &Fake{handlers: map[string]Handler{}, missing: map[string]bool{}}
}

// Handle registers h for commands named name.
func (f *Fake) Handle(name string, h Handler) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[name] = h
	return f
}

// Missing makes LookPath fail for name.
func (f *Fake) Missing(name string) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.missing[name] = true
	return f
}

func (f *Fake) LookPath(file string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.missing[file] {
		return "", errors.New("executable file not found in $PATH: " + file)
	}
	return "/usr/bin/" + file, nil
}

func (f *Fake) Run(_ context.Context, cmd runner.Command) (runner.Result, error) {
	var stdin string
	if cmd.Stdin != nil {
		data, err := io.ReadAll(cmd.Stdin)
		if err != nil {
			return runner.Result{}, err
		}
		stdin = string(data)
	}

	f.mu.Lock()
	f.Calls = append(f.Calls, cmd)
	f.Stdins = append(f.Stdins, stdin)
	h := f.handlers[cmd.Name]
	f.mu.Unlock()

	if h == nil {
		return runner.Result{}, nil
	}
	return h(cmd, stdin)
}

// Names returns the command lines run so far, in order.
func (f *Fake) Names() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.Calls))
	for i, c := range f.Calls {
		out[i] = c.String()
	}
	return out
}

// Fail returns a Handler that exits with code and stderr.
func Fail(code int, stderr string) Handler {
	return func(cmd runner.Command, _ string) (runner.Result, error) {
		res := runner.Result{Stderr: stderr, ExitCode: code}
		return res, &runner.ExitError{Command: cmd.Name, ExitCode: code, Stderr: stderr}
	}
}

// Output returns a Handler that prints stdout and succeeds.
func Output(stdout string) Handler {
	return func(runner.Command, string) (runner.Result, error) {
		return runner.Result{Stdout: stdout}, nil
	}
}
