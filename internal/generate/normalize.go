// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"regexp"
	"strings"
)

var (
	// preamblePattern matches a conversational opener on the first line,
	// e.g. "Sure, here is the Introduction section:".
	preamblePattern = regexp.MustCompile(`(?i)^(sure|certainly|of course|here is|here's|below is)\b[^\n]*:\s*$`)

	fencePattern     = regexp.MustCompile("^```[a-zA-Z]*\\s*\\n([\\s\\S]*?)\\n```\\s*$")
	blankRunPattern  = regexp.MustCompile(`\n\s*\n(\s*\n)+`)
	headingPattern   = regexp.MustCompile(`\A#{1,6}\s+[^\n]*(\n+|\z)`)
	listSplitPattern = regexp.MustCompile(`[,;\n]`)
	bulletPattern    = regexp.MustCompile(`^(?:[-*•]|\d+[.)])\s*`)
)

// Normalize cleans a model response for inclusion in the paper: it trims
// whitespace, drops a conversational first line and a wrapping code fence,
// and collapses runs of blank lines. The wording is left unchanged.
func Normalize(text string) string {
	s := strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))

	if m := fencePattern.FindStringSubmatch(s); m != nil {
		s = strings.TrimSpace(m[1])
	}
	if first, rest, ok := strings.Cut(s, "\n"); ok && preamblePattern.MatchString(first) {
		s = strings.TrimSpace(rest)
	}

	s = blankRunPattern.ReplaceAllString(s, "\n\n")
	return s
}

// normalizeLine cleans a single-line answer such as a title: surrounding
// quotes and a trailing period are removed and inner whitespace collapsed.
func normalizeLine(text string) string {
	s := Normalize(text)
	if first, _, ok := strings.Cut(s, "\n"); ok {
		s = first
	}
	s = strings.Join(strings.Fields(s), " ")
	s = strings.Trim(s, `"'“”*`)
	s = strings.TrimPrefix(s, "Title: ")
	s = strings.TrimPrefix(s, "Subtitle: ")
	return strings.TrimSpace(s)
}

// stripHeading removes a leading Markdown heading the model may repeat
// above a section body.
func stripHeading(body string) string {
	return strings.TrimSpace(headingPattern.ReplaceAllString(body, ""))
}

// splitList parses a comma-, semicolon- or newline-separated answer into
// trimmed, de-duplicated items in order of first appearance.
func splitList(text string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, part := range listSplitPattern.Split(Normalize(text), -1) {
		item := strings.TrimSpace(bulletPattern.ReplaceAllString(strings.TrimSpace(part), ""))
		item = strings.TrimSuffix(item, ".")
		key := strings.ToLower(item)
		if item == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out
}

// TruncateWords limits text to max words. A truncated result ends with a
// period.
func TruncateWords(text string, max int) string {
	words := strings.Fields(text)
	if len(words) <= max {
		return strings.TrimSpace(text)
	}
	out := strings.Join(words[:max], " ")
	out = strings.TrimRight(out, ",;:")
	if !strings.HasSuffix(out, ".") {
		out += "."
	}
	return out
}
