// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"context"
	"fmt"
	"os"

	"rsc.io/pdf"

	"github.com/midnghtsapphire/SSRN-AUTOMATION/internal/runner"
)

// PDFText extracts the text layer of a PDF with pdftotext.
func PDFText(ctx context.Context, exec runner.Executor, path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("reading PDF: %w", err)
	}
	res, err := exec.Run(ctx, runner.Command{Name: "pdftotext", Args: []string{"-layout", path, "-"}})
	if err != nil {
		return "", fmt.Errorf("extracting text from %s: %w", path, err)
	}
	return res.Stdout, nil
}

// PageCount returns the number of pages in the PDF at path.
func PageCount(path string) (n int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening PDF: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat PDF: %w", err)
	}

	// rsc.io/pdf panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			n, err = 0, fmt.Errorf("parsing PDF %s: %v", path, r)
		}
	}()
	doc, err := pdf.NewReader(f, info.Size())
	if err != nil {
		return 0, fmt.Errorf("parsing PDF %s: %w", path, err)
	}
	return doc.NumPage(), nil
}
