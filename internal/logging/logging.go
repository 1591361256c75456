// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging writes timestamped pipeline messages to the console and to
// a per-day log file under logs/.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	stampLayout = "2006-01-02 15:04:05"
	fileLayout  = "20060102"
	bannerWidth = 60
)

// Logger prefixes each line with a timestamp and tees it to every sink.
type Logger struct {
	out  io.Writer
	file *os.File
	now  func() time.Time
}

// New returns a Logger writing to console and to
// logsDir/automation_<YYYYMMDD>.log. The file is opened in append mode.
func New(console io.Writer, logsDir string) (*Logger, error) {
	return newAt(console, logsDir, time.Now)
}

func newAt(console io.Writer, logsDir string, now func() time.Time) (*Logger, error) {
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating logs directory: %w", err)
	}
	path := FilePath(logsDir, now())
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	return &Logger{out: io.MultiWriter(console, f), file: f, now: now}, nil
}

// Discard returns a Logger that drops everything. Used by tests and by
// standalone subcommands that log to the console only.
func Discard() *Logger {
	return &Logger{out: io.Discard, now: time.Now}
}

// Console returns a Logger that writes to w without a log file.
func Console(w io.Writer) *Logger {
	return &Logger{out: w, now: time.Now}
}

// FilePath returns the log file path for day t.
func FilePath(logsDir string, t time.Time) string {
	return filepath.Join(logsDir, "automation_"+t.Format(fileLayout)+".log")
}

// Printf writes one timestamped line. Multi-line messages keep the
// timestamp on every line.
func (l *Logger) Printf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	stamp := l.now().Format(stampLayout)
	for _, line := range strings.Split(strings.TrimRight(msg, "\n"), "\n") {
		fmt.Fprintf(l.out, "[%s] %s\n", stamp, line)
	}
}

// Step writes a banner for pipeline step n.
func (l *Logger) Step(n int, title string) {
	rule := strings.Repeat("=", bannerWidth)
	l.Printf("%s", rule)
	l.Printf("STEP %d: %s", n, title)
	l.Printf("%s", rule)
}

// Banner writes a heavy rule around title.
func (l *Logger) Banner(title string) {
	rule := strings.Repeat("#", bannerWidth)
	l.Printf("%s", rule)
	l.Printf("%s", title)
	l.Printf("%s", rule)
}

// Writer exposes the tee so tools that report progress to an io.Writer log
// through the same sinks without timestamps.
func (l *Logger) Writer() io.Writer {
	return l.out
}

// Lines returns a writer that timestamps each line written to it, for
// stage functions that report progress to an io.Writer.
func (l *Logger) Lines() io.Writer {
	return lineWriter{l}
}

type lineWriter struct{ l *Logger }

func (w lineWriter) Write(p []byte) (int, error) {
	w.l.Printf("%s", p)
	return len(p), nil
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
