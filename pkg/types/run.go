// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// StageStatus is the outcome of a single pipeline stage.
type StageStatus string

const (
	StagePending StageStatus = "pending"
	StageDone    StageStatus = "done"
	StageWarned  StageStatus = "warned"
	StageFailed  StageStatus = "failed"
	StageSkipped StageStatus = "skipped"
)

// Stage names recorded in the run registry.
const (
	StageGenerate = "generate"
	StageRender   = "render"
	StageQuality  = "quality"
	StageMetadata = "metadata"
	StageUpload   = "upload"
	StageNotify   = "notify"
)

// Run records one pipeline execution.
type Run struct {
	ID         string                 `json:"id"`
	Topic      string                 `json:"topic"`
	PaperType  PaperType              `json:"paper_type"`
	PDFPath    string                 `json:"pdf_path,omitempty"`
	DriveLink  string                 `json:"drive_link,omitempty"`
	CommitURL  string                 `json:"commit_url,omitempty"`
	Stages     map[string]StageStatus `json:"stages"`
	Error      string                 `json:"error,omitempty"`
	StartedAt  time.Time              `json:"started_at"`
	FinishedAt time.Time              `json:"finished_at,omitempty"`
}

// Succeeded reports whether the run finished without a fatal error.
func (r Run) Succeeded() bool {
	return r.Error == "" && !r.FinishedAt.IsZero()
}
