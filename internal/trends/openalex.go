// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package trends

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/midnghtsapphire/SSRN-AUTOMATION/internal/httputil"
)

// openAlexWorksURL is the OpenAlex Works endpoint. Declared as a var so
// tests can substitute an httptest server.
var openAlexWorksURL = "https://api.openalex.org/works"

// OpenAlexSource suggests topics from the titles of the most-cited recent
// works matching each keyword.
type OpenAlexSource struct {
	Client   *http.Client
	Keywords []string

	// Email is sent as the mailto parameter for polite pool access.
	Email string

	// PerKeyword bounds the titles taken per keyword (default 3).
	PerKeyword int

	// Since limits results to works published on or after this date.
	Since time.Time
}

func (s *OpenAlexSource) Name() string { return "openalex" }

func (s *OpenAlexSource) Topics(ctx context.Context) ([]string, error) {
	var out []string
	for _, kw := range s.Keywords {
		titles, err := s.search(ctx, kw)
		if err != nil {
			return out, fmt.Errorf("keyword %q: %w", kw, err)
		}
		out = append(out, titles...)
	}
	return out, nil
}

func (s *OpenAlexSource) search(ctx context.Context, keyword string) ([]string, error) {
	perPage := s.PerKeyword
	if perPage <= 0 {
		perPage = 3
	}
	params := url.Values{
		"search":   {keyword},
		"sort":     {"cited_by_count:desc"},
		"per_page": {strconv.Itoa(perPage)},
		"select":   {"title"},
	}
	if !s.Since.IsZero() {
		params.Set("filter", "from_publication_date:"+s.Since.Format("2006-01-02"))
	}
	if s.Email != "" {
		params.Set("mailto", s.Email)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, openAlexWorksURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", "ssrn-automation")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("OpenAlex API request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OpenAlex API returned HTTP %d", resp.StatusCode)
	}

	var body struct {
		Results []struct {
			Title string `json:"title"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("parsing OpenAlex response: %w", err)
	}

	var titles []string
	for _, w := range body.Results {
		if t := strings.Join(strings.Fields(w.Title), " "); t != "" {
			titles = append(titles, t)
		}
	}
	return titles, nil
}
