// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package quality runs the pre-publication checklist against a rendered
// paper: filename convention, abstract length, body content rules, and the
// presence of the AI-assistance disclosure.
package quality

import (
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/midnghtsapphire/SSRN-AUTOMATION/internal/metadata"
	"github.com/midnghtsapphire/SSRN-AUTOMATION/internal/naming"
	"github.com/midnghtsapphire/SSRN-AUTOMATION/internal/render"
	"github.com/midnghtsapphire/SSRN-AUTOMATION/pkg/types"
)

// Check names, in report order.
const (
	CheckFilename   = "filename"
	CheckAbstract   = "abstract_length"
	CheckDenylist   = "denylist"
	CheckAuthorName = "author_not_in_body"
	CheckBodyWords  = "body_length"
	CheckDisclosure = "disclosure"
	CheckPages      = "page_count"
)

// Input is what the checker inspects. Paper is optional; without it the
// abstract and body are recovered from Text.
type Input struct {
	// PDFPath is the rendered file. Its base name is checked against the
	// filename convention, and Pages applies only when it is set.
	PDFPath string

	// Text is the extracted PDF text (or a plain-text export of the paper).
	Text string

	// Pages is the PDF page count.
	Pages int

	Paper *types.PaperData
}

// Result is the outcome of one check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// Report collects every check run against one paper.
type Report struct {
	File    string   `json:"file"`
	Results []Result `json:"results"`
}

// Passed reports whether every check passed.
func (r Report) Passed() bool {
	for _, res := range r.Results {
		if !res.Passed {
			return false
		}
	}
	return true
}

// Failures returns the failed checks.
func (r Report) Failures() []Result {
	var out []Result
	for _, res := range r.Results {
		if !res.Passed {
			out = append(out, res)
		}
	}
	return out
}

// Write prints one line per check followed by a summary.
func (r Report) Write(w io.Writer) {
	for _, res := range r.Results {
		mark := "PASS"
		if !res.Passed {
			mark = "FAIL"
		}
		fmt.Fprintf(w, "  [%s] %-20s %s\n", mark, res.Name, res.Detail)
	}
	fmt.Fprintf(w, "Quality summary: %d checks, %d failed\n", len(r.Results), len(r.Failures()))
}

// Checker runs the checklist with configured thresholds.
type Checker struct {
	cfg    types.QualityConfig
	author string
}

// New returns a Checker for papers attributed to author.
func New(cfg types.QualityConfig, author string) *Checker {
	if cfg.MaxAbstractWords <= 0 {
		cfg.MaxAbstractWords = 200
	}
	return &Checker{cfg: cfg, author: author}
}

var abstractPattern = regexp.MustCompile(`(?s)\bAbstract\b\s*(.*?)\s*(?:` +
	regexp.QuoteMeta(render.DisclosureHeading) + `|\f|$)`)

// pdftotext separates pages with form feeds. The title page holds the
// author block, so the body starts after the first one.
func bodyFromText(text string) string {
	if _, after, ok := strings.Cut(text, "\f"); ok {
		return after
	}
	return text
}

func abstractFromText(text string) string {
	m := abstractPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}

// Check runs every check and returns the report.
func (c *Checker) Check(in Input) Report {
	var abstract, body string
	if in.Paper != nil {
		abstract = in.Paper.Abstract
		body = metadata.BodyText(*in.Paper)
	} else {
		abstract = abstractFromText(in.Text)
		body = bodyFromText(in.Text)
	}

	rep := Report{File: in.PDFPath}
	if in.PDFPath != "" {
		rep.Results = append(rep.Results, c.checkFilename(filepath.Base(in.PDFPath)))
	}
	rep.Results = append(rep.Results,
		c.checkAbstract(abstract),
		c.checkDenylist(body),
		c.checkAuthor(body),
		c.checkBodyWords(body),
		checkDisclosure(in.Text),
	)
	if in.PDFPath != "" {
		rep.Results = append(rep.Results, checkPages(in.Pages))
	}
	return rep
}

func (c *Checker) checkFilename(name string) Result {
	if err := naming.Validate(name, c.author); err != nil {
		return Result{Name: CheckFilename, Detail: err.Error()}
	}
	return Result{Name: CheckFilename, Passed: true, Detail: name}
}

func (c *Checker) checkAbstract(abstract string) Result {
	n := len(strings.Fields(abstract))
	switch {
	case n == 0:
		return Result{Name: CheckAbstract, Detail: "abstract is empty"}
	case n > c.cfg.MaxAbstractWords:
		return Result{Name: CheckAbstract, Detail: fmt.Sprintf("%d words exceeds %d", n, c.cfg.MaxAbstractWords)}
	}
	return Result{Name: CheckAbstract, Passed: true, Detail: fmt.Sprintf("%d words", n)}
}

func (c *Checker) checkDenylist(body string) Result {
	lower := strings.ToLower(collapseSpace(body))
	var found []string
	for _, phrase := range c.cfg.Denylist {
		p := strings.ToLower(collapseSpace(phrase))
		if p != "" && strings.Contains(lower, p) {
			found = append(found, fmt.Sprintf("%q", phrase))
		}
	}
	if len(found) > 0 {
		return Result{Name: CheckDenylist, Detail: "body contains " + strings.Join(found, ", ")}
	}
	return Result{Name: CheckDenylist, Passed: true, Detail: fmt.Sprintf("%d phrases clear", len(c.cfg.Denylist))}
}

func (c *Checker) checkAuthor(body string) Result {
	name := collapseSpace(c.author)
	if name == "" {
		return Result{Name: CheckAuthorName, Passed: true, Detail: "no author configured"}
	}
	if strings.Contains(strings.ToLower(collapseSpace(body)), strings.ToLower(name)) {
		return Result{Name: CheckAuthorName, Detail: fmt.Sprintf("body mentions %q", name)}
	}
	return Result{Name: CheckAuthorName, Passed: true, Detail: "author name absent from body"}
}

func (c *Checker) checkBodyWords(body string) Result {
	n := metadata.WordCount(body)
	if n < c.cfg.MinBodyWords {
		return Result{Name: CheckBodyWords, Detail: fmt.Sprintf("%d words is below %d", n, c.cfg.MinBodyWords)}
	}
	return Result{Name: CheckBodyWords, Passed: true, Detail: fmt.Sprintf("%d words", n)}
}

func checkDisclosure(text string) Result {
	if strings.TrimSpace(text) == "" {
		return Result{Name: CheckDisclosure, Detail: "no PDF text to inspect"}
	}
	if !strings.Contains(strings.ToLower(collapseSpace(text)), strings.ToLower(render.DisclosureHeading)) {
		return Result{Name: CheckDisclosure, Detail: "AI-assistance disclosure missing"}
	}
	return Result{Name: CheckDisclosure, Passed: true, Detail: "present"}
}

func checkPages(n int) Result {
	if n < 1 {
		return Result{Name: CheckPages, Detail: "PDF has no pages"}
	}
	return Result{Name: CheckPages, Passed: true, Detail: fmt.Sprintf("%d pages", n)}
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
