// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render lays a paper out as HTML and converts it to PDF through an
// external engine. It also reads rendered PDFs back for the quality checks.
package render

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/midnghtsapphire/SSRN-AUTOMATION/internal/runner"
	"github.com/midnghtsapphire/SSRN-AUTOMATION/pkg/types"
)

// Supported PDF engines.
const (
	EngineWeasyPrint  = "weasyprint"
	EngineWkhtmltopdf = "wkhtmltopdf"
)

// DisclosureHeading titles the AI-assistance statement on every title page.
// The quality checker searches PDF text for it.
const DisclosureHeading = "AI-Assistance Disclosure"

//go:embed templates/paper.html.tmpl
var paperTemplateText string

var paperTemplate = template.Must(template.New("paper").Parse(paperTemplateText))

type sectionView struct {
	Name string
	HTML template.HTML
}

type pageView struct {
	Title             string
	Subtitle          string
	Author            string
	Affiliation       string
	ORCID             string
	Email             string
	Date              string
	Keywords          string
	JELCodes          string
	Abstract          string
	DisclosureHeading string
	Disclosure        string
	Generator         string
	Sections          []sectionView
}

// Disclosure returns the statement printed under DisclosureHeading.
func Disclosure(model string) string {
	if model == "" {
		model = "a large language model"
	}
	return fmt.Sprintf("This paper was drafted with the assistance of a generative AI system (%s). "+
		"The named author is responsible for verifying its arguments, sources, and conclusions.", model)
}

// HTML renders p as a standalone HTML document.
func HTML(p types.PaperData) ([]byte, error) {
	view := pageView{
		Title:             p.Title,
		Subtitle:          p.Subtitle,
		Author:            p.Author,
		Affiliation:       p.Affiliation,
		ORCID:             p.ORCID,
		Email:             p.Email,
		Date:              p.Date,
		Keywords:          strings.Join(p.Keywords, ", "),
		JELCodes:          strings.Join(p.JELCodes, ", "),
		Abstract:          p.Abstract,
		DisclosureHeading: DisclosureHeading,
		Disclosure:        Disclosure(p.Model),
		Generator:         "ssrn-automation",
	}
	for _, s := range p.Sections {
		var buf bytes.Buffer
		if err := goldmark.Convert([]byte(s.Body), &buf); err != nil {
			return nil, fmt.Errorf("converting %s section: %w", s.Name, err)
		}
		// goldmark escapes raw HTML by default, so its output is safe to embed.
		view.Sections = append(view.Sections, sectionView{Name: s.Name, HTML: template.HTML(buf.String())})
	}

	var out bytes.Buffer
	if err := paperTemplate.Execute(&out, view); err != nil {
		return nil, fmt.Errorf("executing paper template: %w", err)
	}
	return out.Bytes(), nil
}

// HTMLFileName returns paper_<date>.html (paper_subniche_<date>.html for a
// sub-niche paper).
func HTMLFileName(p types.PaperData) string {
	return "paper_" + p.PaperType.FileTag() + p.DateShort + ".html"
}

// Renderer converts paper HTML to PDF with an external engine.
type Renderer struct {
	Exec   runner.Executor
	Engine string
}

// New returns a Renderer using engine, defaulting to weasyprint.
func New(exec runner.Executor, engine string) *Renderer {
	if engine == "" {
		engine = EngineWeasyPrint
	}
	return &Renderer{Exec: exec, Engine: engine}
}

// Check verifies the engine binary is installed.
func (r *Renderer) Check() error {
	return runner.Require(r.Exec, r.Engine)
}

func (r *Renderer) command(htmlPath, pdfPath string) (runner.Command, error) {
	switch r.Engine {
	case EngineWeasyPrint:
		return runner.Command{Name: EngineWeasyPrint, Args: []string{htmlPath, pdfPath}}, nil
	case EngineWkhtmltopdf:
		return runner.Command{Name: EngineWkhtmltopdf, Args: []string{
			"--quiet", "--enable-local-file-access", "--page-size", "Letter", htmlPath, pdfPath,
		}}, nil
	}
	return runner.Command{}, fmt.Errorf("unknown render engine %q (want %s or %s)",
		r.Engine, EngineWeasyPrint, EngineWkhtmltopdf)
}

// Render writes the HTML for p into outputDir and converts it to pdfPath.
// It returns the HTML path.
func (r *Renderer) Render(ctx context.Context, p types.PaperData, outputDir, pdfPath string) (string, error) {
	htmlPath := filepath.Join(outputDir, HTMLFileName(p))
	cmd, err := r.command(htmlPath, pdfPath)
	if err != nil {
		return "", err
	}
	doc, err := HTML(p)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(htmlPath, doc, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", htmlPath, err)
	}

	if _, err := r.Exec.Run(ctx, cmd); err != nil {
		return htmlPath, fmt.Errorf("rendering PDF with %s: %w", r.Engine, err)
	}
	info, err := os.Stat(pdfPath)
	if err != nil {
		return htmlPath, fmt.Errorf("%s produced no PDF: %w", r.Engine, err)
	}
	if info.Size() == 0 {
		return htmlPath, fmt.Errorf("%s produced an empty PDF at %s", r.Engine, pdfPath)
	}
	return htmlPath, nil
}
