// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/midnghtsapphire/SSRN-AUTOMATION/pkg/types"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
		want  map[string]string
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, KeyOpenAI, "  sk-abc123  \n")
				writeFile(t, dir, KeyNotifyWebhook, "https://hooks.example.com/x\n")
				return dir
			},
			want: map[string]string{
				KeyOpenAI:        "sk-abc123",
				KeyNotifyWebhook: "https://hooks.example.com/x",
			},
		},
		{
			name: "returns empty map for nonexistent directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: map[string]string{},
		},
		{
			name: "skips empty files dotfiles and subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, KeyAnthropic, "ak_123")
				writeFile(t, dir, "empty-key", "   \n\t")
				writeFile(t, dir, ".gitkeep", "x")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
				return dir
			},
			want: map[string]string{KeyAnthropic: "ak_123"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.setup(t), io.Discard)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApply(t *testing.T) {
	s := map[string]string{
		KeyOpenAI:        "sk-file",
		KeyAnthropic:     "ak-file",
		KeyNotifyWebhook: "https://hooks.example.com/file",
	}

	cfg := types.DefaultConfig()
	Apply(&cfg, s)
	assert.Equal(t, "sk-file", cfg.LLM.APIKey)
	assert.Equal(t, "https://hooks.example.com/file", cfg.Notify.WebhookURL)

	cfg = types.DefaultConfig()
	cfg.LLM.Provider = types.ProviderAnthropic
	Apply(&cfg, s)
	assert.Equal(t, "ak-file", cfg.LLM.APIKey)

	cfg = types.DefaultConfig()
	cfg.LLM.APIKey = "sk-config"
	cfg.Notify.WebhookURL = "https://hooks.example.com/config"
	Apply(&cfg, s)
	assert.Equal(t, "sk-config", cfg.LLM.APIKey)
	assert.Equal(t, "https://hooks.example.com/config", cfg.Notify.WebhookURL)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
