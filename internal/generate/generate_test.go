// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/midnghtsapphire/SSRN-AUTOMATION/internal/httputil"
	"github.com/midnghtsapphire/SSRN-AUTOMATION/pkg/types"
)

// scriptedBackend answers by task and records every prompt.
type scriptedBackend struct {
	answers map[string]string
	fail    map[string]error
	prompts []Prompt
}

func (s *scriptedBackend) Complete(_ context.Context, p Prompt) (string, error) {
	s.prompts = append(s.prompts, p)
	if err := s.fail[p.Task]; err != nil {
		return "", err
	}
	return s.answers[p.Task], nil
}

func defaultAnswers() map[string]string {
	return map[string]string{
		TaskSubNiche: "Green bond premium determinants",
		TaskTitle:    "\"Rational Irrationality: How Cognition Challenges Investor Biases\"",
		TaskSubtitle: "Subtitle: Evidence requirements for a contested claim",
		TaskKeywords: "Behavioral finance, investor biases, behavioral finance, asset pricing",
		TaskJEL:      "d83, G11\nC91",
		TaskAbstract: "We study biases. " + strings.Repeat("word ", 250),
		TaskSection:  "Sure, here is the section:\n\n## Heading\n\nFirst paragraph.\n\n\n\nSecond paragraph.",
	}
}

func fixedNow() time.Time {
	return time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC)
}

func newTestGenerator(b Completer) *Generator {
	g := New(b, types.AuthorConfig{Name: "Walter Evans", ORCID: "0000-0001", Affiliation: "Independent Researcher"}, types.Outline{}, "gpt-test")
	g.Now = fixedNow
	return g
}

func TestGenerate(t *testing.T) {
	b := &scriptedBackend{answers: defaultAnswers()}
	g := newTestGenerator(b)

	p, err := g.Generate(context.Background(), types.PaperRequest{Topic: "  investor biases "})
	require.NoError(t, err)

	assert.Equal(t, "Rational Irrationality: How Cognition Challenges Investor Biases", p.Title)
	assert.Equal(t, "Evidence requirements for a contested claim", p.Subtitle)
	assert.Equal(t, []string{"Behavioral finance", "investor biases", "asset pricing"}, p.Keywords)
	assert.Equal(t, []string{"D83", "G11", "C91"}, p.JELCodes)
	assert.Equal(t, "Walter Evans", p.Author)
	assert.Equal(t, "0000-0001", p.ORCID)
	assert.Equal(t, "October 14, 2026", p.Date)
	assert.Equal(t, "20261014", p.DateShort)
	assert.Equal(t, "investor biases", p.Topic)
	assert.Equal(t, types.PaperMain, p.PaperType)
	assert.Equal(t, "gpt-test", p.Model)

	assert.LessOrEqual(t, len(strings.Fields(p.Abstract)), MaxAbstractWords)
	assert.True(t, strings.HasSuffix(p.Abstract, "."))

	require.Len(t, p.Sections, 5)
	assert.Equal(t, "Introduction", p.Sections[0].Name)
	assert.Equal(t, "Conclusion", p.Sections[4].Name)
	assert.Equal(t, "First paragraph.\n\nSecond paragraph.", p.Sections[0].Body)

	// title, subtitle, keywords, jel, abstract, five sections
	require.Len(t, b.prompts, 10)
	for _, pr := range b.prompts {
		assert.Contains(t, pr.System, "Do not invent data")
	}
	assert.Contains(t, b.prompts[5].User, "Draft the Introduction section")
	assert.Equal(t, 1200, b.prompts[5].MaxTokens)
}

func TestGenerateErrors(t *testing.T) {
	t.Run("empty topic", func(t *testing.T) {
		_, err := newTestGenerator(&scriptedBackend{}).Generate(context.Background(), types.PaperRequest{Topic: " "})
		assert.Error(t, err)
	})

	t.Run("backend failure names the task", func(t *testing.T) {
		b := &scriptedBackend{answers: defaultAnswers(), fail: map[string]error{TaskAbstract: errors.New("quota")}}
		_, err := newTestGenerator(b).Generate(context.Background(), types.PaperRequest{Topic: "x"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "generating abstract: quota")
	})

	t.Run("empty title", func(t *testing.T) {
		answers := defaultAnswers()
		answers[TaskTitle] = "   "
		_, err := newTestGenerator(&scriptedBackend{answers: answers}).Generate(context.Background(), types.PaperRequest{Topic: "x"})
		assert.Error(t, err)
	})

	t.Run("empty section", func(t *testing.T) {
		answers := defaultAnswers()
		answers[TaskSection] = "## Only a heading\n\n"
		_, err := newTestGenerator(&scriptedBackend{answers: answers}).Generate(context.Background(), types.PaperRequest{Topic: "x"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Introduction")
	})
}

func TestGenerateCustomOutline(t *testing.T) {
	b := &scriptedBackend{answers: defaultAnswers()}
	outline := types.Outline{Sections: []types.OutlineSection{{Name: "Background", Purpose: "Review"}}}
	g := New(b, types.AuthorConfig{Name: "Walter Evans"}, outline, "m")

	p, err := g.Generate(context.Background(), types.PaperRequest{Topic: "x"})
	require.NoError(t, err)
	require.Len(t, p.Sections, 1)
	assert.Equal(t, "Background", p.Sections[0].Name)
}

func TestGenerateDual(t *testing.T) {
	b := &scriptedBackend{answers: defaultAnswers()}
	r, err := newTestGenerator(b).GenerateDual(context.Background(), "climate risk")
	require.NoError(t, err)

	assert.Equal(t, "climate risk", r.MainTopic)
	assert.Equal(t, "Green bond premium determinants", r.SubNicheTopic)
	assert.Equal(t, types.PaperMain, r.Main.PaperType)
	assert.Empty(t, r.Main.MainTopic)
	assert.Equal(t, types.PaperSubNiche, r.SubNiche.PaperType)
	assert.Equal(t, "climate risk", r.SubNiche.MainTopic)
	assert.Equal(t, "Green bond premium determinants", r.SubNiche.Topic)
}

func TestMockBackendEndToEnd(t *testing.T) {
	g := newTestGenerator(MockBackend{})
	r, err := g.GenerateDual(context.Background(), "order flow toxicity")
	require.NoError(t, err)

	assert.Equal(t, "Certain Uncertainty: Revisiting order flow toxicity", r.Main.Title)
	assert.Contains(t, r.SubNiche.Topic, "order flow toxicity")
	for _, s := range r.Main.Sections {
		assert.NotContains(t, s.Body, "Walter Evans")
		assert.Contains(t, s.Body, strings.ToLower(s.Name))
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "output")
	b := &scriptedBackend{answers: defaultAnswers()}
	r, err := newTestGenerator(b).GenerateDual(context.Background(), "climate risk")
	require.NoError(t, err)

	single, err := Save(dir, r.Main, false)
	require.NoError(t, err)
	assert.Equal(t, "paper_data_20261014.json", filepath.Base(single))

	mainFile, err := Save(dir, r.Main, true)
	require.NoError(t, err)
	subFile, err := Save(dir, r.SubNiche, true)
	require.NoError(t, err)
	assert.Equal(t, "paper_data_main_20261014.json", filepath.Base(mainFile))
	assert.Equal(t, "paper_data_subniche_20261014.json", filepath.Base(subFile))

	metaPath, err := SaveDualMeta(dir, r, mainFile, subFile)
	require.NoError(t, err)
	data, err := os.ReadFile(metaPath)
	require.NoError(t, err)
	var meta map[string]string
	require.NoError(t, json.Unmarshal(data, &meta))
	assert.Equal(t, subFile, meta["sub_niche_paper_file"])

	loaded, err := Load(subFile)
	require.NoError(t, err)
	assert.Equal(t, r.SubNiche, loaded)

	_, err = Load(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestNewCompleter(t *testing.T) {
	_, err := NewCompleter(types.LLMConfig{Provider: types.ProviderOpenAI, Model: "gpt-4.1-mini"}, nil)
	assert.Error(t, err, "missing key")

	c, err := NewCompleter(types.LLMConfig{Provider: types.ProviderOpenAI, Model: "gpt-4.1-mini", APIKey: "sk"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &OpenAIBackend{}, c)

	_, err = NewCompleter(types.LLMConfig{Provider: types.ProviderAnthropic}, nil)
	assert.Error(t, err)

	c, err = NewCompleter(types.LLMConfig{Provider: types.ProviderMock}, nil)
	require.NoError(t, err)
	assert.IsType(t, MockBackend{}, c)

	_, err = NewCompleter(types.LLMConfig{Provider: "bard"}, nil)
	assert.Error(t, err)
}

func TestOpenAIBackendComplete(t *testing.T) {
	var got map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"gpt-test",
			"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"A Title"}}]}`))
	}))
	defer ts.Close()

	b, err := NewOpenAI(types.LLMConfig{Model: "gpt-test", APIKey: "sk-test", BaseURL: ts.URL}, ts.Client())
	require.NoError(t, err)

	out, err := b.Complete(context.Background(), Prompt{System: "sys", User: "hello", Temperature: 0.5, MaxTokens: 10})
	require.NoError(t, err)
	assert.Equal(t, "A Title", out)
	assert.Equal(t, "gpt-test", got["model"])
	msgs, ok := got["messages"].([]any)
	require.True(t, ok)
	assert.Len(t, msgs, 2)
}

func TestAnthropicBackendComplete(t *testing.T) {
	httputil.RetryBaseDelay = time.Millisecond

	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		assert.Equal(t, "ak-test", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		var req anthropicRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "sys", req.System)
		assert.Equal(t, defaultAnthropicMaxTokens, req.MaxTokens)
		w.Write([]byte(`{"content":[{"type":"text","text":"Part one. "},{"type":"text","text":"Part two."}]}`))
	}))
	defer ts.Close()

	orig := anthropicAPIURL
	anthropicAPIURL = ts.URL
	t.Cleanup(func() { anthropicAPIURL = orig })

	b := &AnthropicBackend{APIKey: "ak-test", Model: "claude-test", Client: ts.Client(), MaxRetries: 2}
	out, err := b.Complete(context.Background(), Prompt{System: "sys", User: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "Part one. Part two.", out)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestAnthropicBackendEmptyContent(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"content":[]}`))
	}))
	defer ts.Close()

	orig := anthropicAPIURL
	anthropicAPIURL = ts.URL
	t.Cleanup(func() { anthropicAPIURL = orig })

	b := &AnthropicBackend{APIKey: "k", Model: "m", Client: ts.Client()}
	_, err := b.Complete(context.Background(), Prompt{User: "hi"})
	assert.Error(t, err)
}
