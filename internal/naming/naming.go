// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package naming builds and validates output filenames of the form
// <Author_Name>_<ShortTitle>_<YYYYMMDD>.pdf.
package naming

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
)

// DateLayout is the short date format used in filenames.
const DateLayout = "20060102"

// fallbackTitle is used when no meaningful word survives filtering.
const fallbackTitle = "Paper"

var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true,
}

// AuthorPrefix converts an author name to its filename form:
// "Walter Evans" becomes "Walter_Evans".
func AuthorPrefix(author string) string {
	return keepWordChars(strings.Join(strings.Fields(author), "_"))
}

// ShortTitle derives the filename title from the part of title before the
// first colon. Stop words are dropped; the first three remaining words are
// kept, or two when fewer than three remain.
func ShortTitle(title string) string {
	head, _, _ := strings.Cut(title, ":")

	var meaningful []string
	for _, w := range strings.Fields(head) {
		if !stopWords[strings.ToLower(w)] {
			meaningful = append(meaningful, w)
		}
	}

	n := 2
	if len(meaningful) >= 3 {
		n = 3
	}
	if n > len(meaningful) {
		n = len(meaningful)
	}

	short := keepWordChars(strings.Join(meaningful[:n], "_"))
	short = strings.Trim(short, "_")
	if short == "" {
		return fallbackTitle
	}
	return short
}

// Filename returns the PDF filename for a paper.
func Filename(author, title string, date time.Time) string {
	return fmt.Sprintf("%s_%s_%s.pdf", AuthorPrefix(author), ShortTitle(title), date.Format(DateLayout))
}

// FilenameFromShortDate is Filename for callers holding a YYYYMMDD string.
func FilenameFromShortDate(author, title, dateShort string) (string, error) {
	d, err := time.Parse(DateLayout, dateShort)
	if err != nil {
		return "", fmt.Errorf("parsing date %q: %w", dateShort, err)
	}
	return Filename(author, title, d), nil
}

// Validate checks that name follows the convention for author.
func Validate(name, author string) error {
	prefix := AuthorPrefix(author)
	if prefix == "" {
		return fmt.Errorf("author name is empty")
	}
	re := regexp.MustCompile(`^` + regexp.QuoteMeta(prefix) + `_([A-Za-z0-9_]+)_(\d{8})\.pdf$`)
	m := re.FindStringSubmatch(name)
	if m == nil {
		return fmt.Errorf("filename %q does not match %s_[ShortTitle]_[YYYYMMDD].pdf", name, prefix)
	}
	if _, err := time.Parse(DateLayout, m[2]); err != nil {
		return fmt.Errorf("filename %q has invalid date %s", name, m[2])
	}
	return nil
}

// HumanTitle turns a filename back into a readable short title:
// "Walter_Evans_Rational_Irrationality_20250101.pdf" becomes
// "Rational Irrationality".
func HumanTitle(name, author string) string {
	s := strings.TrimSuffix(name, ".pdf")
	s = strings.TrimPrefix(s, AuthorPrefix(author)+"_")
	if i := strings.LastIndex(s, "_"); i >= 0 && len(s)-i-1 == len(DateLayout) {
		s = s[:i]
	}
	return strings.ReplaceAll(s, "_", " ")
}

func keepWordChars(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '_' || r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return r
		}
		return -1
	}, s)
}
