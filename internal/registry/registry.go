// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package registry records pipeline runs and their stage outcomes in a
// local SQLite database.
package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/midnghtsapphire/SSRN-AUTOMATION/pkg/types"
)

// ErrNotFound is returned by Get for an unknown run ID.
var ErrNotFound = errors.New("run not found")

// defaultListLimit bounds List when no limit is given.
const defaultListLimit = 20

// Store manages the run registry database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the registry at path and ensures the schema exists.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating registry directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			topic TEXT NOT NULL,
			paper_type TEXT,
			pdf_path TEXT,
			drive_link TEXT,
			commit_url TEXT,
			error TEXT,
			started_at TEXT NOT NULL,
			finished_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS stages (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			stage TEXT NOT NULL,
			status TEXT NOT NULL,
			PRIMARY KEY (run_id, stage)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// NewRun returns a pending run with a fresh ID.
func NewRun(topic string, paperType types.PaperType, now time.Time) types.Run {
	return types.Run{
		ID:        uuid.NewString(),
		Topic:     topic,
		PaperType: paperType,
		Stages:    map[string]types.StageStatus{},
		StartedAt: now.UTC(),
	}
}

// timeLayout has fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(timeLayout, s)
}

// Save inserts or replaces run and its stage outcomes.
func (s *Store) Save(ctx context.Context, run types.Run) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT INTO runs
		(id, topic, paper_type, pdf_path, drive_link, commit_url, error, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			topic = excluded.topic,
			paper_type = excluded.paper_type,
			pdf_path = excluded.pdf_path,
			drive_link = excluded.drive_link,
			commit_url = excluded.commit_url,
			error = excluded.error,
			started_at = excluded.started_at,
			finished_at = excluded.finished_at`,
		run.ID, run.Topic, string(run.PaperType), run.PDFPath, run.DriveLink, run.CommitURL,
		run.Error, formatTime(run.StartedAt), formatTime(run.FinishedAt))
	if err != nil {
		return fmt.Errorf("saving run %s: %w", run.ID, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM stages WHERE run_id = ?`, run.ID); err != nil {
		return fmt.Errorf("clearing stages of %s: %w", run.ID, err)
	}
	for stage, status := range run.Stages {
		if _, err := tx.ExecContext(ctx, `INSERT INTO stages (run_id, stage, status) VALUES (?, ?, ?)`,
			run.ID, stage, string(status)); err != nil {
			return fmt.Errorf("saving stage %s of %s: %w", stage, run.ID, err)
		}
	}
	return tx.Commit()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (types.Run, error) {
	var (
		r                  types.Run
		paperType, started string
		pdf, link, commit  sql.NullString
		errText, finished  sql.NullString
	)
	if err := row.Scan(&r.ID, &r.Topic, &paperType, &pdf, &link, &commit, &errText, &started, &finished); err != nil {
		return types.Run{}, err
	}
	r.PaperType = types.PaperType(paperType)
	r.PDFPath, r.DriveLink, r.CommitURL, r.Error = pdf.String, link.String, commit.String, errText.String

	var err error
	if r.StartedAt, err = parseTime(started); err != nil {
		return types.Run{}, fmt.Errorf("parsing started_at of %s: %w", r.ID, err)
	}
	if r.FinishedAt, err = parseTime(finished.String); err != nil {
		return types.Run{}, fmt.Errorf("parsing finished_at of %s: %w", r.ID, err)
	}
	return r, nil
}

const selectRuns = `SELECT id, topic, COALESCE(paper_type, ''), pdf_path, drive_link, commit_url, error, started_at, finished_at FROM runs`

func (s *Store) loadStages(ctx context.Context, r *types.Run) error {
	rows, err := s.db.QueryContext(ctx, `SELECT stage, status FROM stages WHERE run_id = ?`, r.ID)
	if err != nil {
		return fmt.Errorf("querying stages of %s: %w", r.ID, err)
	}
	defer rows.Close()

	r.Stages = map[string]types.StageStatus{}
	for rows.Next() {
		var stage, status string
		if err := rows.Scan(&stage, &status); err != nil {
			return fmt.Errorf("scanning stage: %w", err)
		}
		r.Stages[stage] = types.StageStatus(status)
	}
	return rows.Err()
}

// Get returns the run with id.
func (s *Store) Get(ctx context.Context, id string) (types.Run, error) {
	r, err := scanRun(s.db.QueryRowContext(ctx, selectRuns+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return types.Run{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	if err != nil {
		return types.Run{}, fmt.Errorf("loading run %s: %w", id, err)
	}
	if err := s.loadStages(ctx, &r); err != nil {
		return types.Run{}, err
	}
	return r, nil
}

// List returns up to limit runs, most recent first.
func (s *Store) List(ctx context.Context, limit int) ([]types.Run, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := s.db.QueryContext(ctx, selectRuns+` ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	var runs []types.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range runs {
		if err := s.loadStages(ctx, &runs[i]); err != nil {
			return nil, err
		}
	}
	return runs, nil
}
