// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metadata

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/midnghtsapphire/SSRN-AUTOMATION/internal/naming"
	"github.com/midnghtsapphire/SSRN-AUTOMATION/pkg/types"
)

var rule = strings.Repeat("=", 60)

var submissionTemplate = template.Must(template.New("submission").Parse(`SSRN SUBMISSION INFORMATION
{{.Rule}}

PAPER DETAILS
Filename: {{.M.Filename}}
Title: {{.M.Title}}
Subtitle: {{.M.Subtitle}}

AUTHOR INFORMATION
Name: {{.M.Author}}
ORCID: {{.M.ORCID}}
Email: {{.M.Email}}
Affiliation: {{.M.Affiliation}}

METADATA
Date: {{.M.Date}}
Keywords: {{.M.Keywords}}
JEL Codes: {{.M.JELCodes}}
Word Count: {{.M.WordCount}}

ABSTRACT
{{.M.Abstract}}

SUGGESTED EJOURNALS
{{.M.EJournals}}

SUBMISSION CHECKLIST
[ ] Review paper for accuracy and verify every source it mentions
[ ] Confirm the AI-assistance disclosure is present and accurate
[ ] Verify all metadata is correct
[ ] Check filename follows {{.Prefix}}_[ShortTitle]_[YYYYMMDD].pdf
[ ] Upload to SSRN
[ ] Submit to suggested eJournals
[ ] Update tracking spreadsheet

{{.Rule}}
`))

// SubmissionFileName returns submission_info_<date>.txt.
func SubmissionFileName(m types.Metadata) string {
	return "submission_info_" + m.PaperType.FileTag() + m.DateShort + ".txt"
}

// WriteSubmissionInfo writes the human-readable submission sheet for m
// into dir and returns its path.
func WriteSubmissionInfo(dir string, m types.Metadata) (string, error) {
	var buf bytes.Buffer
	err := submissionTemplate.Execute(&buf, struct {
		M      types.Metadata
		Rule   string
		Prefix string
	}{m, rule, naming.AuthorPrefix(m.Author)})
	if err != nil {
		return "", fmt.Errorf("rendering submission info: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating metadata directory: %w", err)
	}
	path := filepath.Join(dir, SubmissionFileName(m))
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
