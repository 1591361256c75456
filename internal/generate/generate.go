// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package generate drafts paper content through a text generation backend:
// title, subtitle, keywords, JEL codes, abstract, and the body sections of
// the outline.
package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/midnghtsapphire/SSRN-AUTOMATION/pkg/types"
)

// MaxAbstractWords is the abstract word ceiling.
const MaxAbstractWords = 200

const (
	longDateLayout  = "January 02, 2006"
	shortDateLayout = "20060102"
)

// Generator produces PaperData from a topic.
type Generator struct {
	llm     Completer
	author  types.AuthorConfig
	outline types.Outline
	model   string

	// Now is the clock used for paper dates. Tests override it.
	Now func() time.Time

	// Progress receives one line per generated component.
	Progress io.Writer
}

// New returns a Generator. An empty outline selects the default sections.
func New(llm Completer, author types.AuthorConfig, outline types.Outline, model string) *Generator {
	if len(outline.Sections) == 0 {
		outline = types.DefaultOutline()
	}
	return &Generator{
		llm:      llm,
		author:   author,
		outline:  outline,
		model:    model,
		Now:      time.Now,
		Progress: io.Discard,
	}
}

func (g *Generator) ask(ctx context.Context, task string, d promptData, temperature float64, maxTokens int) (string, error) {
	p, err := buildPrompt(task, d, temperature, maxTokens)
	if err != nil {
		return "", fmt.Errorf("rendering %s prompt: %w", task, err)
	}
	out, err := g.llm.Complete(ctx, p)
	if err != nil {
		return "", fmt.Errorf("generating %s: %w", task, err)
	}
	return out, nil
}

// IdentifySubNiche asks for a narrower topic within mainTopic.
func (g *Generator) IdentifySubNiche(ctx context.Context, mainTopic string) (string, error) {
	out, err := g.ask(ctx, TaskSubNiche, promptData{Topic: mainTopic}, 0.7, 0)
	if err != nil {
		return "", err
	}
	sub := normalizeLine(out)
	if sub == "" {
		return "", fmt.Errorf("generating %s: empty response", TaskSubNiche)
	}
	return sub, nil
}

// Generate drafts a complete paper for req.
func (g *Generator) Generate(ctx context.Context, req types.PaperRequest) (types.PaperData, error) {
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return types.PaperData{}, fmt.Errorf("topic is required")
	}
	if req.Type == "" {
		req.Type = types.PaperMain
	}
	d := promptData{Topic: topic, MaxWords: MaxAbstractWords}

	raw, err := g.ask(ctx, TaskTitle, d, 0.8, 0)
	if err != nil {
		return types.PaperData{}, err
	}
	d.Title = normalizeLine(raw)
	if d.Title == "" {
		return types.PaperData{}, fmt.Errorf("generating %s: empty response", TaskTitle)
	}
	fmt.Fprintf(g.Progress, "  Title: %s\n", d.Title)

	raw, err = g.ask(ctx, TaskSubtitle, d, 0.7, 0)
	if err != nil {
		return types.PaperData{}, err
	}
	d.Subtitle = normalizeLine(raw)
	fmt.Fprintf(g.Progress, "  Subtitle: %s\n", d.Subtitle)

	raw, err = g.ask(ctx, TaskKeywords, d, 0.6, 0)
	if err != nil {
		return types.PaperData{}, err
	}
	keywords := splitList(raw)
	fmt.Fprintf(g.Progress, "  Keywords: %s\n", strings.Join(keywords, ", "))

	raw, err = g.ask(ctx, TaskJEL, d, 0.5, 0)
	if err != nil {
		return types.PaperData{}, err
	}
	jel := splitList(strings.ToUpper(raw))
	fmt.Fprintf(g.Progress, "  JEL Codes: %s\n", strings.Join(jel, ", "))

	raw, err = g.ask(ctx, TaskAbstract, d, 0.7, 300)
	if err != nil {
		return types.PaperData{}, err
	}
	abstract := TruncateWords(strings.Join(strings.Fields(Normalize(raw)), " "), MaxAbstractWords)
	fmt.Fprintf(g.Progress, "  Abstract: %d words\n", len(strings.Fields(abstract)))

	sections := make([]types.Section, 0, len(g.outline.Sections))
	for _, s := range g.outline.Sections {
		sd := d
		sd.Section = s.Name
		sd.Purpose = s.Purpose
		raw, err = g.ask(ctx, TaskSection, sd, 0.7, 1200)
		if err != nil {
			return types.PaperData{}, fmt.Errorf("%s: %w", s.Name, err)
		}
		body := stripHeading(Normalize(raw))
		if body == "" {
			return types.PaperData{}, fmt.Errorf("generating %s section: empty response", s.Name)
		}
		sections = append(sections, types.Section{Name: s.Name, Body: body})
		fmt.Fprintf(g.Progress, "  %s: %d words\n", s.Name, len(strings.Fields(body)))
	}

	now := g.Now()
	paper := types.PaperData{
		Title:       d.Title,
		Subtitle:    d.Subtitle,
		Author:      g.author.Name,
		ORCID:       g.author.ORCID,
		Affiliation: g.author.Affiliation,
		Email:       g.author.Email,
		Date:        now.Format(longDateLayout),
		DateShort:   now.Format(shortDateLayout),
		Keywords:    keywords,
		JELCodes:    jel,
		Abstract:    abstract,
		Sections:    sections,
		Topic:       topic,
		PaperType:   req.Type,
		Model:       g.model,
	}
	if req.Type == types.PaperSubNiche {
		paper.MainTopic = req.MainTopic
	}
	return paper, nil
}

// GenerateDual identifies a sub-niche of mainTopic and drafts both papers.
func (g *Generator) GenerateDual(ctx context.Context, mainTopic string) (types.DualResult, error) {
	sub, err := g.IdentifySubNiche(ctx, mainTopic)
	if err != nil {
		return types.DualResult{}, err
	}
	fmt.Fprintf(g.Progress, "  Sub-niche: %s\n", sub)

	mainPaper, err := g.Generate(ctx, types.PaperRequest{Topic: mainTopic, Type: types.PaperMain})
	if err != nil {
		return types.DualResult{}, fmt.Errorf("main paper: %w", err)
	}
	subPaper, err := g.Generate(ctx, types.PaperRequest{Topic: sub, Type: types.PaperSubNiche, MainTopic: mainTopic})
	if err != nil {
		return types.DualResult{}, fmt.Errorf("sub-niche paper: %w", err)
	}
	return types.DualResult{MainTopic: mainTopic, SubNicheTopic: sub, Main: mainPaper, SubNiche: subPaper}, nil
}

// DataFileName returns the JSON filename for a paper:
// paper_data_<date>.json, or paper_data_main_/paper_data_subniche_ in dual mode.
func DataFileName(p types.PaperData, dual bool) string {
	if !dual {
		return "paper_data_" + p.DateShort + ".json"
	}
	if p.PaperType == types.PaperSubNiche {
		return "paper_data_subniche_" + p.DateShort + ".json"
	}
	return "paper_data_main_" + p.DateShort + ".json"
}

// Save writes p as indented JSON into dir and returns the file path.
func Save(dir string, p types.PaperData, dual bool) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	path := filepath.Join(dir, DataFileName(p, dual))
	if err := writeJSON(path, p); err != nil {
		return "", err
	}
	return path, nil
}

// SaveDualMeta writes dual_papers_meta_<date>.json linking both paper files.
func SaveDualMeta(dir string, r types.DualResult, mainFile, subFile string) (string, error) {
	path := filepath.Join(dir, "dual_papers_meta_"+r.Main.DateShort+".json")
	meta := map[string]string{
		"main_topic":           r.MainTopic,
		"sub_niche_topic":      r.SubNicheTopic,
		"main_paper_file":      mainFile,
		"sub_niche_paper_file": subFile,
		"date":                 r.Main.DateShort,
	}
	if err := writeJSON(path, meta); err != nil {
		return "", err
	}
	return path, nil
}

// Load reads a paper JSON file written by Save.
func Load(path string) (types.PaperData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.PaperData{}, fmt.Errorf("reading paper data: %w", err)
	}
	var p types.PaperData
	if err := json.Unmarshal(data, &p); err != nil {
		return types.PaperData{}, fmt.Errorf("parsing paper data %s: %w", path, err)
	}
	return p, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
