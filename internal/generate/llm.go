// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"fmt"
	"net/http"

	"github.com/midnghtsapphire/SSRN-AUTOMATION/pkg/types"
)

// Prompt is one completion request.
type Prompt struct {
	// Task names the request ("title", "abstract", "section", ...). Backends
	// ignore it except the mock, which answers by task.
	Task string

	System      string
	User        string
	Temperature float64
	MaxTokens   int
}

// Completer abstracts the text generation API so tests can supply a fake.
type Completer interface {
	Complete(ctx context.Context, p Prompt) (string, error)
}

// NewCompleter builds the backend selected by cfg.Provider.
func NewCompleter(cfg types.LLMConfig, client *http.Client) (Completer, error) {
	switch cfg.Provider {
	case types.ProviderOpenAI:
		return NewOpenAI(cfg, client)
	case types.ProviderAnthropic:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("anthropic api key missing; set llm.api_key or .secrets/anthropic-api-key")
		}
		return &AnthropicBackend{APIKey: cfg.APIKey, Model: cfg.Model, Client: client, MaxRetries: cfg.MaxRetries}, nil
	case types.ProviderMock:
		return MockBackend{}, nil
	default:
		return nil, fmt.Errorf("llm provider %q not supported", cfg.Provider)
	}
}
