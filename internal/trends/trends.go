// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package trends suggests paper topics from a set of sources and ranks
// them into a short list.
package trends

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Source yields candidate topics.
type Source interface {
	Name() string
	Topics(ctx context.Context) ([]string, error)
}

// StaticSource returns a fixed topic list.
type StaticSource struct {
	Label string
	List  []string
}

func (s StaticSource) Name() string { return s.Label }

func (s StaticSource) Topics(context.Context) ([]string, error) {
	return append([]string(nil), s.List...), nil
}

// SSRNSeeds are recurring high-download SSRN themes.
var SSRNSeeds = StaticSource{Label: "ssrn", List: []string{
	"ESG investing and corporate performance",
	"Cryptocurrency market microstructure",
	"Machine learning in credit risk assessment",
	"Remote work and productivity",
	"Climate risk in financial markets",
	"Central bank digital currencies",
	"Private equity performance attribution",
	"Behavioral biases in retail investing",
}}

// SearchInterestSeeds are finance themes with sustained public search interest.
var SearchInterestSeeds = StaticSource{Label: "search-interest", List: []string{
	"Inflation expectations and consumer behavior",
	"Bitcoin ETF market impact",
	"Sustainable finance regulations",
	"Interest rate policy effects",
	"Market sentiment analysis",
}}

// Report is the saved analysis, trends_report_<date>.json.
type Report struct {
	Date           string   `json:"date"`
	TrendingTopics []string `json:"trending_topics"`
	RankedTopics   []string `json:"ranked_topics"`
	TopSuggestions []string `json:"top_suggestions"`
}

// Analyzer gathers topics from its sources and ranks them.
type Analyzer struct {
	Sources []Source

	// Progress receives one line per source.
	Progress io.Writer

	// Now stamps the report. Tests override it.
	Now func() time.Time
}

// NewAnalyzer returns an Analyzer over sources.
func NewAnalyzer(sources ...Source) *Analyzer {
	return &Analyzer{Sources: sources, Progress: io.Discard, Now: time.Now}
}

// Rank removes case-insensitive duplicates, keeping the first spelling, and
// orders topics by word count, then alphabetically.
func Rank(topics []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, t := range topics {
		t = strings.Join(strings.Fields(t), " ")
		key := strings.ToLower(t)
		if t == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		wi, wj := len(strings.Fields(out[i])), len(strings.Fields(out[j]))
		if wi != wj {
			return wi < wj
		}
		return strings.ToLower(out[i]) < strings.ToLower(out[j])
	})
	return out
}

// Analyze collects every source and returns a report with count top
// suggestions. A failing source is reported on Progress and skipped; the
// call fails only when no source yields a topic.
func (a *Analyzer) Analyze(ctx context.Context, count int) (Report, error) {
	if count <= 0 {
		count = 5
	}
	var all []string
	var failed []string
	for _, s := range a.Sources {
		topics, err := s.Topics(ctx)
		if err != nil {
			fmt.Fprintf(a.Progress, "  %s: %v\n", s.Name(), err)
			failed = append(failed, s.Name())
		}
		if len(topics) > 0 {
			fmt.Fprintf(a.Progress, "  %s: %d topics\n", s.Name(), len(topics))
		}
		all = append(all, topics...)
	}
	if len(all) == 0 {
		if len(failed) > 0 {
			return Report{}, fmt.Errorf("no topics found (failed sources: %s)", strings.Join(failed, ", "))
		}
		return Report{}, fmt.Errorf("no topics found")
	}

	ranked := Rank(all)
	top := ranked
	if len(top) > count {
		top = top[:count]
	}
	return Report{
		Date:           a.Now().Format("2006-01-02 15:04:05"),
		TrendingTopics: all,
		RankedTopics:   ranked,
		TopSuggestions: top,
	}, nil
}

// SaveReport writes r into dir as trends_report_<YYYYMMDD>.json.
func SaveReport(dir string, r Report, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating metadata directory: %w", err)
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding trends report: %w", err)
	}
	path := filepath.Join(dir, "trends_report_"+now.Format("20060102")+".json")
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
