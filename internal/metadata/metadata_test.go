// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metadata

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/midnghtsapphire/SSRN-AUTOMATION/pkg/types"
)

func paper() types.PaperData {
	return types.PaperData{
		Title:       "The Rational Irrationality of Markets: Evidence Wanted",
		Subtitle:    "A testable account",
		Author:      "Walter Evans",
		Affiliation: "Independent Researcher",
		Date:        "January 05, 2026",
		DateShort:   "20260105",
		Keywords:    []string{"behavioral finance", "portfolio choice"},
		JELCodes:    []string{"G11", "d83"},
		Abstract:    "An abstract, with a comma.",
		Sections: []types.Section{
			{Name: "Introduction", Body: "One **two** three."},
			{Name: "Conclusion", Body: "<p>Four</p> [five](https://example.org) six"},
		},
		Topic: "market anomalies",
	}
}

func TestWordCount(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"plain words here", 3},
		{"<p>Tagged</p><em>text</em>", 2},
		{"## Heading\n\n**bold** and _em_", 4},
		{"see [the paper](https://x.org/a_b) now", 4},
		{"- item one\n- item two", 4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, WordCount(tt.in), tt.in)
	}
}

func TestSuggestEJournals(t *testing.T) {
	got := SuggestEJournals([]string{"behavioral finance"}, []string{"D83"})
	assert.Equal(t, []string{"Behavioral & Experimental Economics", "Microeconomics"}, got)

	got = SuggestEJournals([]string{"trading"}, []string{"G11", "C91"})
	assert.Len(t, got, 3)
	assert.IsIncreasing(t, got)
	assert.Equal(t, "Asset Pricing", got[0])

	assert.Empty(t, SuggestEJournals(nil, []string{"Z1", " "}))
}

func TestExtract(t *testing.T) {
	m, err := Extract(paper(), "")
	require.NoError(t, err)

	assert.Equal(t, "Walter_Evans_Rational_Irrationality_of_20260105.pdf", m.Filename)
	assert.Equal(t, "behavioral finance, portfolio choice", m.Keywords)
	assert.Equal(t, "G11, d83", m.JELCodes)
	assert.Equal(t, 6, m.WordCount)
	assert.Equal(t, "Asset Pricing, Behavioral & Experimental Economics, Corporate Finance", m.EJournals)
	assert.Equal(t, "Independent Researcher", m.Affiliation)

	m, err = Extract(paper(), "Jane Roe")
	require.NoError(t, err)
	assert.Equal(t, "Jane Roe", m.Author)
	assert.Equal(t, "Jane_Roe_Rational_Irrationality_of_20260105.pdf", m.Filename)

	bad := paper()
	bad.DateShort = "2026-01-05"
	_, err = Extract(bad, "")
	assert.Error(t, err)
}

func TestSaveAndLoadJSON(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "metadata")
	m, err := Extract(paper(), "")
	require.NoError(t, err)

	path, err := SaveJSON(dir, m)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "metadata_20260105.json"), path)

	got, err := LoadJSON(path)
	require.NoError(t, err)
	assert.Equal(t, m, got)
}

func TestAppendCSVWritesHeaderOnce(t *testing.T) {
	dir := t.TempDir()
	m, err := Extract(paper(), "")
	require.NoError(t, err)

	_, err = AppendCSV(dir, m)
	require.NoError(t, err)
	m.Title = "Second"
	path, err := AppendCSV(dir, m)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "papers_log.csv"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 3)
	assert.Equal(t, Columns, records[0])
	assert.Equal(t, "filename", records[0][0])
	assert.Equal(t, "abstract", records[0][13])
	assert.Equal(t, "An abstract, with a comma.", records[1][13])
	assert.Equal(t, "6", records[1][11])
	assert.Equal(t, "Second", records[2][1])

	rows, err := ReadCSV(dir)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Second", rows[1]["title"])
}

func TestReadCSVMissingLog(t *testing.T) {
	rows, err := ReadCSV(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestWriteSubmissionInfo(t *testing.T) {
	dir := t.TempDir()
	m, err := Extract(paper(), "")
	require.NoError(t, err)

	path, err := WriteSubmissionInfo(dir, m)
	require.NoError(t, err)
	assert.Equal(t, "submission_info_20260105.txt", filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	s := string(data)
	assert.Contains(t, s, "SSRN SUBMISSION INFORMATION")
	assert.Contains(t, s, "Filename: Walter_Evans_Rational_Irrationality_of_20260105.pdf")
	assert.Contains(t, s, "Affiliation: Independent Researcher")
	assert.Contains(t, s, "Walter_Evans_[ShortTitle]_[YYYYMMDD].pdf")
	assert.Contains(t, s, "AI-assistance disclosure")
}
