// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials from a directory of plain-text files.
// The filename is the key name and the trimmed contents are the value.
//
// Recognized keys: openai-api-key, anthropic-api-key, notify-webhook-url.
package secrets

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/midnghtsapphire/SSRN-AUTOMATION/pkg/types"
)

const (
	KeyOpenAI        = "openai-api-key"
	KeyAnthropic     = "anthropic-api-key"
	KeyNotifyWebhook = "notify-webhook-url"
)

// Load reads every regular, non-hidden file in dir. A missing directory
// yields an empty map. Unreadable files are reported to warn and skipped.
func Load(dir string, warn io.Writer) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	out := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(warn, "warning: could not read secret %s: %v\n", name, err)
			continue
		}
		if v := strings.TrimSpace(string(data)); v != "" {
			out[name] = v
		}
	}
	return out, nil
}

// Apply fills empty credential fields of cfg from s. Values already set in
// config.json or the environment win.
func Apply(cfg *types.Config, s map[string]string) {
	if cfg.LLM.APIKey == "" {
		switch cfg.LLM.Provider {
		case types.ProviderOpenAI:
			cfg.LLM.APIKey = s[KeyOpenAI]
		case types.ProviderAnthropic:
			cfg.LLM.APIKey = s[KeyAnthropic]
		}
	}
	if cfg.Notify.WebhookURL == "" {
		cfg.Notify.WebhookURL = s[KeyNotifyWebhook]
	}
}
