// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metadata derives the submission record for a paper and keeps the
// running CSV log of every paper produced.
package metadata

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/midnghtsapphire/SSRN-AUTOMATION/internal/naming"
	"github.com/midnghtsapphire/SSRN-AUTOMATION/pkg/types"
)

// LogFileName is the CSV log kept in the metadata directory.
const LogFileName = "papers_log.csv"

// maxEJournals caps the eJournal suggestions.
const maxEJournals = 3

// Columns is the fixed column order of the CSV log.
var Columns = []string{
	"filename", "title", "subtitle", "author", "orcid", "email",
	"date", "date_short", "keywords", "jel_codes", "topic",
	"word_count", "ejournals", "abstract",
}

var jelJournals = map[byte][]string{
	'D': {"Behavioral & Experimental Economics", "Microeconomics"},
	'G': {"Financial Economics", "Corporate Finance", "Asset Pricing"},
	'C': {"Econometrics", "Statistical Methods"},
	'E': {"Macroeconomics", "Monetary Economics"},
	'L': {"Industrial Organization", "Business Economics"},
	'M': {"Management", "Marketing", "Accounting"},
}

var keywordJournals = []struct {
	terms   []string
	journal string
}{
	{[]string{"behavioral", "psychology"}, "Behavioral & Experimental Economics"},
	{[]string{"market", "trading"}, "Financial Markets"},
	{[]string{"investment", "portfolio"}, "Asset Pricing"},
}

var (
	tagPattern      = regexp.MustCompile(`<[^>]+>`)
	linkPattern     = regexp.MustCompile(`!?\[([^\]]*)\]\([^)]*\)`)
	bulletPattern   = regexp.MustCompile(`(?m)^\s*(?:[-+*]|\d+\.)\s+`)
	emphasisPattern = regexp.MustCompile("[*_`#>]+")
)

// StripMarkup removes HTML tags and Markdown emphasis, heading and link
// syntax, leaving the visible words.
func StripMarkup(s string) string {
	s = tagPattern.ReplaceAllString(s, " ")
	s = linkPattern.ReplaceAllString(s, "$1")
	s = bulletPattern.ReplaceAllString(s, "")
	return emphasisPattern.ReplaceAllString(s, " ")
}

// WordCount counts the visible words of s.
func WordCount(s string) int {
	return len(strings.Fields(StripMarkup(s)))
}

// BodyText joins the section bodies of p.
func BodyText(p types.PaperData) string {
	parts := make([]string, len(p.Sections))
	for i, s := range p.Sections {
		parts[i] = s.Body
	}
	return strings.Join(parts, "\n\n")
}

// SuggestEJournals maps JEL code letters and keyword themes to SSRN
// eJournals, returning at most three in alphabetical order.
func SuggestEJournals(keywords, jelCodes []string) []string {
	set := map[string]bool{}
	for _, code := range jelCodes {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		for _, j := range jelJournals[strings.ToUpper(code)[0]] {
			set[j] = true
		}
	}
	kw := strings.ToLower(strings.Join(keywords, ", "))
	for _, rule := range keywordJournals {
		for _, term := range rule.terms {
			if strings.Contains(kw, term) {
				set[rule.journal] = true
				break
			}
		}
	}

	out := make([]string, 0, len(set))
	for j := range set {
		out = append(out, j)
	}
	sort.Strings(out)
	if len(out) > maxEJournals {
		out = out[:maxEJournals]
	}
	return out
}

// Extract builds the metadata record for p. A non-empty author overrides
// the author recorded in the paper.
func Extract(p types.PaperData, author string) (types.Metadata, error) {
	if author == "" {
		author = p.Author
	}
	filename, err := naming.FilenameFromShortDate(author, p.Title, p.DateShort)
	if err != nil {
		return types.Metadata{}, fmt.Errorf("building filename: %w", err)
	}
	return types.Metadata{
		Filename:    filename,
		Title:       p.Title,
		Subtitle:    p.Subtitle,
		Author:      author,
		ORCID:       p.ORCID,
		Email:       p.Email,
		Affiliation: p.Affiliation,
		Date:        p.Date,
		DateShort:   p.DateShort,
		Keywords:    strings.Join(p.Keywords, ", "),
		JELCodes:    strings.Join(p.JELCodes, ", "),
		Topic:       p.Topic,
		WordCount:   WordCount(BodyText(p)),
		EJournals:   strings.Join(SuggestEJournals(p.Keywords, p.JELCodes), ", "),
		Abstract:    p.Abstract,
		PaperType:   p.PaperType,
	}, nil
}

// JSONFileName returns metadata_<date>.json (metadata_subniche_<date>.json
// for a sub-niche paper).
func JSONFileName(m types.Metadata) string {
	return "metadata_" + m.PaperType.FileTag() + m.DateShort + ".json"
}

// SaveJSON writes m into dir and returns the file path.
func SaveJSON(dir string, m types.Metadata) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating metadata directory: %w", err)
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding metadata: %w", err)
	}
	path := filepath.Join(dir, JSONFileName(m))
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// LoadJSON reads a metadata file written by SaveJSON.
func LoadJSON(path string) (types.Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Metadata{}, fmt.Errorf("reading metadata: %w", err)
	}
	var m types.Metadata
	if err := json.Unmarshal(data, &m); err != nil {
		return types.Metadata{}, fmt.Errorf("parsing metadata %s: %w", path, err)
	}
	return m, nil
}

func row(m types.Metadata) []string {
	return []string{
		m.Filename, m.Title, m.Subtitle, m.Author, m.ORCID, m.Email,
		m.Date, m.DateShort, m.Keywords, m.JELCodes, m.Topic,
		strconv.Itoa(m.WordCount), m.EJournals, m.Abstract,
	}
}

// AppendCSV appends m to papers_log.csv in dir, writing the header first
// when the file is new.
func AppendCSV(dir string, m types.Metadata) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating metadata directory: %w", err)
	}
	path := filepath.Join(dir, LogFileName)
	_, statErr := os.Stat(path)
	isNew := errors.Is(statErr, fs.ErrNotExist)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if isNew {
		if err := w.Write(Columns); err != nil {
			return "", fmt.Errorf("writing CSV header: %w", err)
		}
	}
	if err := w.Write(row(m)); err != nil {
		return "", fmt.Errorf("writing CSV row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flushing %s: %w", path, err)
	}
	return path, nil
}

// ReadCSV returns every record in the log, keyed by column name.
func ReadCSV(dir string) ([]map[string]string, error) {
	f, err := os.Open(filepath.Join(dir, LogFileName))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening paper log: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing paper log: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	header := records[0]
	out := make([]map[string]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		m := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(rec) {
				m[col] = rec[i]
			}
		}
		out = append(out, m)
	}
	return out, nil
}
