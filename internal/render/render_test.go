// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/midnghtsapphire/SSRN-AUTOMATION/internal/runner"
	"github.com/midnghtsapphire/SSRN-AUTOMATION/internal/runner/runnertest"
	"github.com/midnghtsapphire/SSRN-AUTOMATION/pkg/types"
)

func samplePaper() types.PaperData {
	return types.PaperData{
		Title:     "Efficient Inefficiency: Price Discovery Paradoxes",
		Subtitle:  "Why noise helps markets learn",
		Author:    "Walter Evans",
		Date:      "March 04, 2026",
		DateShort: "20260304",
		Keywords:  []string{"market microstructure", "price discovery"},
		JELCodes:  []string{"G14", "D83"},
		Abstract:  "We study <noise> in prices.",
		Sections: []types.Section{
			{Name: "Introduction", Body: "First **bold** point.\n\n<script>alert(1)</script>"},
			{Name: "Conclusion", Body: "- one\n- two"},
		},
		Model: "gpt-4.1-mini",
	}
}

// writePDF writes a minimal well-formed PDF with the given page count.
func writePDF(t *testing.T, path string, pages int) {
	t.Helper()
	var kids []string
	for i := 0; i < pages; i++ {
		kids = append(kids, fmt.Sprintf("%d 0 R", i+3))
	}
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), pages),
	}
	for i := 0; i < pages; i++ {
		objects = append(objects, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>")
	}

	var b bytes.Buffer
	b.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	require.NoError(t, os.WriteFile(path, b.Bytes(), 0o644))
}

func TestHTML(t *testing.T) {
	doc, err := HTML(samplePaper())
	require.NoError(t, err)
	s := string(doc)

	assert.Contains(t, s, "<h1>Efficient Inefficiency: Price Discovery Paradoxes</h1>")
	assert.Contains(t, s, "Why noise helps markets learn")
	assert.Contains(t, s, "G14, D83")
	assert.Contains(t, s, "market microstructure, price discovery")
	assert.Contains(t, s, "We study &lt;noise&gt; in prices.")
	assert.Contains(t, s, "<strong>bold</strong>")
	assert.Contains(t, s, "<li>two</li>")
	assert.NotContains(t, s, "<script>")
	assert.Contains(t, s, DisclosureHeading)
	assert.Contains(t, s, "(gpt-4.1-mini)")
	assert.Less(t, strings.Index(s, "Introduction"), strings.Index(s, "Conclusion"))
}

func TestHTMLOmitsEmptyOptionalFields(t *testing.T) {
	p := samplePaper()
	p.Subtitle = ""
	doc, err := HTML(p)
	require.NoError(t, err)
	assert.NotContains(t, string(doc), "<h2>")
	assert.NotContains(t, string(doc), "ORCID:")
}

func TestDisclosureDefaultModel(t *testing.T) {
	assert.Contains(t, Disclosure(""), "a large language model")
}

func pdfWriter(t *testing.T, pages int) runnertest.Handler {
	return func(cmd runner.Command, _ string) (runner.Result, error) {
		writePDF(t, cmd.Args[len(cmd.Args)-1], pages)
		return runner.Result{}, nil
	}
}

func TestRenderWeasyPrint(t *testing.T) {
	dir := t.TempDir()
	fake := runnertest.New().Handle(EngineWeasyPrint, pdfWriter(t, 2))
	pdfPath := filepath.Join(dir, "Walter_Evans_Efficient_Inefficiency_20260304.pdf")

	htmlPath, err := New(fake, "").Render(context.Background(), samplePaper(), dir, pdfPath)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "paper_20260304.html"), htmlPath)
	assert.FileExists(t, htmlPath)
	require.Len(t, fake.Calls, 1)
	assert.Equal(t, []string{htmlPath, pdfPath}, fake.Calls[0].Args)

	n, err := PageCount(pdfPath)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestRenderWkhtmltopdfArgs(t *testing.T) {
	dir := t.TempDir()
	fake := runnertest.New().Handle(EngineWkhtmltopdf, pdfWriter(t, 1))
	pdfPath := filepath.Join(dir, "out.pdf")

	_, err := New(fake, EngineWkhtmltopdf).Render(context.Background(), samplePaper(), dir, pdfPath)
	require.NoError(t, err)
	assert.Contains(t, fake.Calls[0].Args, "--enable-local-file-access")
	assert.Equal(t, pdfPath, fake.Calls[0].Args[len(fake.Calls[0].Args)-1])
}

func TestRenderErrors(t *testing.T) {
	dir := t.TempDir()
	pdfPath := filepath.Join(dir, "out.pdf")

	_, err := New(runnertest.New(), "prince").Render(context.Background(), samplePaper(), dir, pdfPath)
	assert.ErrorContains(t, err, "unknown render engine")

	fake := runnertest.New().Handle(EngineWeasyPrint, runnertest.Fail(1, "bad css"))
	_, err = New(fake, "").Render(context.Background(), samplePaper(), dir, pdfPath)
	assert.ErrorContains(t, err, "bad css")

	// Engine exits cleanly but writes nothing.
	_, err = New(runnertest.New(), "").Render(context.Background(), samplePaper(), dir, pdfPath)
	assert.ErrorContains(t, err, "produced no PDF")

	empty := runnertest.New().Handle(EngineWeasyPrint, func(cmd runner.Command, _ string) (runner.Result, error) {
		return runner.Result{}, os.WriteFile(cmd.Args[1], nil, 0o644)
	})
	_, err = New(empty, "").Render(context.Background(), samplePaper(), dir, pdfPath)
	assert.ErrorContains(t, err, "empty PDF")
}

func TestCheckReportsMissingEngine(t *testing.T) {
	r := New(runnertest.New().Missing(EngineWeasyPrint), "")
	assert.ErrorContains(t, r.Check(), EngineWeasyPrint)
}

func TestPDFText(t *testing.T) {
	dir := t.TempDir()
	pdfPath := filepath.Join(dir, "p.pdf")
	writePDF(t, pdfPath, 1)
	fake := runnertest.New().Handle("pdftotext", runnertest.Output("extracted text\n"))

	text, err := PDFText(context.Background(), fake, pdfPath)
	require.NoError(t, err)
	assert.Equal(t, "extracted text\n", text)
	assert.Equal(t, []string{"-layout", pdfPath, "-"}, fake.Calls[0].Args)

	_, err = PDFText(context.Background(), fake, filepath.Join(dir, "missing.pdf"))
	assert.Error(t, err)
}

func TestPageCountRejectsNonPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not.pdf")
	require.NoError(t, os.WriteFile(path, []byte("plain text"), 0o644))
	_, err := PageCount(path)
	assert.Error(t, err)
}
