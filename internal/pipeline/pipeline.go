// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs the full workflow for a topic: generate the draft,
// render the PDF, run the quality checklist, record metadata, publish, and
// notify. Every run and stage outcome is recorded in the registry.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/midnghtsapphire/SSRN-AUTOMATION/internal/generate"
	"github.com/midnghtsapphire/SSRN-AUTOMATION/internal/logging"
	"github.com/midnghtsapphire/SSRN-AUTOMATION/internal/metadata"
	"github.com/midnghtsapphire/SSRN-AUTOMATION/internal/naming"
	"github.com/midnghtsapphire/SSRN-AUTOMATION/internal/notify"
	"github.com/midnghtsapphire/SSRN-AUTOMATION/internal/publish"
	"github.com/midnghtsapphire/SSRN-AUTOMATION/internal/quality"
	"github.com/midnghtsapphire/SSRN-AUTOMATION/internal/registry"
	"github.com/midnghtsapphire/SSRN-AUTOMATION/internal/render"
	"github.com/midnghtsapphire/SSRN-AUTOMATION/internal/runner"
	"github.com/midnghtsapphire/SSRN-AUTOMATION/pkg/types"
)

// Generator drafts papers. *generate.Generator implements it.
type Generator interface {
	Generate(ctx context.Context, req types.PaperRequest) (types.PaperData, error)
	GenerateDual(ctx context.Context, mainTopic string) (types.DualResult, error)
}

// Options select optional behavior of a run.
type Options struct {
	// Dual also produces a sub-niche paper for the topic.
	Dual bool

	SkipUpload bool
	SkipNotify bool
}

// Result describes the artifacts produced for one paper.
type Result struct {
	Run            types.Run
	PaperFile      string
	HTMLFile       string
	PDFFile        string
	MetadataFile   string
	CSVFile        string
	SubmissionFile string
	ICSFile        string
	Quality        quality.Report
	Duration       time.Duration
}

// Pipeline wires the stages together.
type Pipeline struct {
	Config    types.Config
	Gen       Generator
	Renderer  *render.Renderer
	Exec      runner.Executor
	Checker   *quality.Checker
	Publisher *publish.Publisher
	Notifier  *notify.Sender

	// Registry is optional; without it runs are not recorded.
	Registry *registry.Store

	Log *logging.Logger
	Now func() time.Time
}

// New assembles a Pipeline from cfg with production stage implementations.
func New(cfg types.Config, gen Generator, exec runner.Executor, notifier *notify.Sender, reg *registry.Store, log *logging.Logger) *Pipeline {
	return &Pipeline{
		Config:    cfg,
		Gen:       gen,
		Renderer:  render.New(exec, string(cfg.Render.Engine)),
		Exec:      exec,
		Checker:   quality.New(cfg.Quality, cfg.Author.Name),
		Publisher: publish.New(exec, cfg),
		Notifier:  notifier,
		Registry:  reg,
		Log:       log,
		Now:       time.Now,
	}
}

// stageError marks a failure that aborts the run.
type stageError struct {
	stage string
	err   error
}

func (e *stageError) Error() string { return e.stage + ": " + e.err.Error() }
func (e *stageError) Unwrap() error { return e.err }

func (p *Pipeline) record(ctx context.Context, run types.Run) {
	if p.Registry == nil {
		return
	}
	if err := p.Registry.Save(ctx, run); err != nil {
		p.Log.Printf("Warning: recording run %s: %v", run.ID, err)
	}
}

// Run executes the workflow for topic and returns one Result per paper.
// Generation, render, metadata and, in strict mode, quality failures abort
// the run. Upload and notification failures are logged as warnings.
func (p *Pipeline) Run(ctx context.Context, topic string, opts Options) ([]Result, error) {
	start := p.Now()
	topic = strings.TrimSpace(topic)

	p.Log.Banner("SSRN PAPER AUTOMATION - FULL WORKFLOW")
	p.Log.Printf("Started: %s", start.Format("2006-01-02 15:04:05"))
	p.Log.Printf("Topic: %s", topic)
	if opts.Dual {
		p.Log.Printf("Mode: dual (main + sub-niche)")
	}

	results, err := p.run(ctx, topic, opts)
	if err != nil {
		p.Log.Banner("AUTOMATION FAILED: " + err.Error())
		return results, err
	}

	p.Log.Banner("AUTOMATION COMPLETE")
	p.Log.Printf("Duration: %.1f seconds", p.Now().Sub(start).Seconds())
	for _, r := range results {
		p.Log.Printf("Paper: %s", filepath.Base(r.PDFFile))
	}
	return results, nil
}

func (p *Pipeline) run(ctx context.Context, topic string, opts Options) ([]Result, error) {
	mainRun := registry.NewRun(topic, types.PaperMain, p.Now())
	p.record(ctx, mainRun)

	papers, files, err := p.generate(ctx, topic, opts.Dual)
	if err != nil {
		mainRun.Stages[types.StageGenerate] = types.StageFailed
		return nil, p.finish(ctx, &mainRun, &stageError{types.StageGenerate, err})
	}

	var results []Result
	for i, paper := range papers {
		run := mainRun
		if i > 0 {
			run = registry.NewRun(paper.Topic, paper.PaperType, p.Now())
			p.record(ctx, run)
		}
		run.PaperType = paper.PaperType
		run.Stages[types.StageGenerate] = types.StageDone

		res, err := p.process(ctx, &run, paper, files[i], opts)
		res.Run = run
		results = append(results, res)
		if err != nil {
			return results, err
		}
	}
	return results, nil
}

func (p *Pipeline) generate(ctx context.Context, topic string, dual bool) ([]types.PaperData, []string, error) {
	p.Log.Step(1, "Generating Paper")
	p.Log.Printf("Topic: %s", topic)
	out := p.Config.Paths.OutputDir

	if !dual {
		paper, err := p.Gen.Generate(ctx, types.PaperRequest{Topic: topic, Type: types.PaperMain})
		if err != nil {
			return nil, nil, err
		}
		file, err := generate.Save(out, paper, false)
		if err != nil {
			return nil, nil, err
		}
		p.Log.Printf("Paper generated: %s", file)
		return []types.PaperData{paper}, []string{file}, nil
	}

	r, err := p.Gen.GenerateDual(ctx, topic)
	if err != nil {
		return nil, nil, err
	}
	p.Log.Printf("Sub-niche: %s", r.SubNicheTopic)
	mainFile, err := generate.Save(out, r.Main, true)
	if err != nil {
		return nil, nil, err
	}
	subFile, err := generate.Save(out, r.SubNiche, true)
	if err != nil {
		return nil, nil, err
	}
	metaFile, err := generate.SaveDualMeta(out, r, mainFile, subFile)
	if err != nil {
		return nil, nil, err
	}
	p.Log.Printf("Papers generated: %s, %s (%s)", mainFile, subFile, metaFile)
	return []types.PaperData{r.Main, r.SubNiche}, []string{mainFile, subFile}, nil
}

// finish stamps the run, records it, and passes err through.
func (p *Pipeline) finish(ctx context.Context, run *types.Run, err error) error {
	run.FinishedAt = p.Now().UTC()
	if err != nil {
		run.Error = err.Error()
	}
	p.record(ctx, *run)
	return err
}

func (p *Pipeline) process(ctx context.Context, run *types.Run, paper types.PaperData, paperFile string, opts Options) (Result, error) {
	started := p.Now()
	res := Result{PaperFile: paperFile}
	fail := func(stage string, err error) (Result, error) {
		run.Stages[stage] = types.StageFailed
		res.Duration = p.Now().Sub(started)
		return res, p.finish(ctx, run, &stageError{stage, err})
	}
	p.Log.Printf("Processing %s paper: %s", paper.PaperType, paper.Title)

	// Render.
	p.Log.Step(2, "Creating PDF")
	filename, err := naming.FilenameFromShortDate(p.Config.Author.Name, paper.Title, paper.DateShort)
	if err != nil {
		return fail(types.StageRender, err)
	}
	res.PDFFile = filepath.Join(p.Config.Paths.OutputDir, filename)
	p.Log.Printf("Converting to PDF: %s", filename)
	res.HTMLFile, err = p.Renderer.Render(ctx, paper, p.Config.Paths.OutputDir, res.PDFFile)
	if err != nil {
		return fail(types.StageRender, err)
	}
	run.PDFPath = res.PDFFile
	run.Stages[types.StageRender] = types.StageDone
	p.Log.Printf("HTML created: %s", res.HTMLFile)
	p.Log.Printf("PDF created: %s", res.PDFFile)

	// Quality.
	p.Log.Step(3, "Quality Check")
	res.Quality = p.check(ctx, paper, res.PDFFile)
	res.Quality.Write(p.Log.Lines())
	if !res.Quality.Passed() {
		var names []string
		for _, f := range res.Quality.Failures() {
			names = append(names, f.Name)
		}
		if p.Config.Quality.Strict {
			return fail(types.StageQuality, fmt.Errorf("checks failed: %s", strings.Join(names, ", ")))
		}
		run.Stages[types.StageQuality] = types.StageWarned
		p.Log.Printf("Warning: quality checks failed (%s), continuing because quality.strict is false", strings.Join(names, ", "))
	} else {
		run.Stages[types.StageQuality] = types.StageDone
		p.Log.Printf("Quality check passed")
	}

	// Metadata.
	p.Log.Step(4, "Extracting Metadata")
	meta, err := metadata.Extract(paper, p.Config.Author.Name)
	if err != nil {
		return fail(types.StageMetadata, err)
	}
	dir := p.Config.Paths.MetadataDir
	if res.MetadataFile, err = metadata.SaveJSON(dir, meta); err != nil {
		return fail(types.StageMetadata, err)
	}
	if res.CSVFile, err = metadata.AppendCSV(dir, meta); err != nil {
		return fail(types.StageMetadata, err)
	}
	if res.SubmissionFile, err = metadata.WriteSubmissionInfo(dir, meta); err != nil {
		return fail(types.StageMetadata, err)
	}
	run.Stages[types.StageMetadata] = types.StageDone
	p.Log.Printf("Metadata extracted: %s", res.MetadataFile)
	p.Log.Printf("CSV log updated: %s", res.CSVFile)
	p.Log.Printf("Submission info generated: %s", res.SubmissionFile)

	// Upload.
	p.Log.Step(5, "Upload & Backup")
	if opts.SkipUpload {
		run.Stages[types.StageUpload] = types.StageSkipped
		p.Log.Printf("Upload skipped (--skip-upload)")
	} else {
		pub, err := p.Publisher.Publish(ctx, res.PDFFile, res.MetadataFile, p.Log.Lines())
		run.DriveLink, run.CommitURL = pub.DriveLink, pub.Commit.URL
		switch {
		case err != nil:
			run.Stages[types.StageUpload] = types.StageWarned
			p.Log.Printf("Warning: upload/backup had issues: %v", err)
		case pub.Uploaded == 0:
			run.Stages[types.StageUpload] = types.StageSkipped
			p.Log.Printf("No upload destinations configured")
		default:
			run.Stages[types.StageUpload] = types.StageDone
			p.Log.Printf("Upload and backup complete")
		}
	}

	// Notify.
	p.Log.Step(6, "Notifications")
	switch {
	case opts.SkipNotify || p.Notifier == nil:
		run.Stages[types.StageNotify] = types.StageSkipped
		p.Log.Printf("Notifications skipped")
	default:
		out, err := p.Notifier.Notify(ctx, notify.Details{
			Metadata:      meta,
			DriveLink:     run.DriveLink,
			CommitURL:     run.CommitURL,
			QualityPassed: res.Quality.Passed(),
		})
		res.ICSFile = out.ICSPath
		if out.ICSPath != "" {
			p.Log.Printf("Calendar reminder written: %s", out.ICSPath)
		}
		switch {
		case errors.Is(err, notify.ErrNoChannel):
			run.Stages[types.StageNotify] = types.StageSkipped
			p.Log.Printf("Notification not sent: %v", err)
		case err != nil:
			run.Stages[types.StageNotify] = types.StageWarned
			p.Log.Printf("Warning: notification failed: %v", err)
		default:
			run.Stages[types.StageNotify] = types.StageDone
			p.Log.Printf("Notification sent")
		}
	}

	res.Duration = p.Now().Sub(started)
	return res, p.finish(ctx, run, nil)
}

// check extracts the PDF text and page count and runs the checklist.
// Extraction failures leave the related checks to fail.
func (p *Pipeline) check(ctx context.Context, paper types.PaperData, pdfPath string) quality.Report {
	text, err := render.PDFText(ctx, p.Exec, pdfPath)
	if err != nil {
		p.Log.Printf("Warning: %v", err)
	}
	pages, err := render.PageCount(pdfPath)
	if err != nil {
		p.Log.Printf("Warning: %v", err)
	}
	return p.Checker.Check(quality.Input{PDFPath: pdfPath, Text: text, Pages: pages, Paper: &paper})
}
