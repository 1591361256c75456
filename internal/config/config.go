// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config loads config.json through viper on top of built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/midnghtsapphire/SSRN-AUTOMATION/pkg/types"
)

// EnvPrefix prefixes environment overrides: SSRN_LLM_MODEL sets llm.model.
const EnvPrefix = "SSRN"

// New returns a viper instance with defaults registered and environment
// overrides enabled. When cfgFile is empty it searches ./config.json.
func New(cfgFile string) *viper.Viper {
	v := viper.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("json")
		v.AddConfigPath(".")
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, types.DefaultConfig())
	return v
}

// DotEnvFiles are read by LoadDotEnv, first match wins per variable.
var DotEnvFiles = []string{".env.local", ".env"}

// LoadDotEnv copies SSRN_* style assignments from the given env files into
// the process environment. Variables already set are left alone and missing
// files are skipped. It returns the files that were loaded.
func LoadDotEnv(files ...string) ([]string, error) {
	var loaded []string
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return loaded, fmt.Errorf("loading %s: %w", f, err)
		}
		loaded = append(loaded, f)
	}
	return loaded, nil
}

// Load reads the config file and decodes the merged settings. When no file
// was named and ./config.json is absent the defaults apply; a named file that
// is missing or malformed is an error.
func Load(v *viper.Viper) (types.Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return types.Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

// LoadOutline reads an outline.yaml file. An empty path returns the default
// outline.
func LoadOutline(path string) (types.Outline, error) {
	if path == "" {
		return types.DefaultOutline(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Outline{}, fmt.Errorf("reading outline: %w", err)
	}
	var o types.Outline
	if err := yaml.Unmarshal(data, &o); err != nil {
		return types.Outline{}, fmt.Errorf("parsing outline: %w", err)
	}
	if len(o.Sections) == 0 {
		return types.Outline{}, fmt.Errorf("outline %s has no sections", path)
	}
	for i, s := range o.Sections {
		if strings.TrimSpace(s.Name) == "" {
			return types.Outline{}, fmt.Errorf("outline %s: section %d has no name", path, i+1)
		}
	}
	return o, nil
}

func setDefaults(v *viper.Viper, d types.Config) {
	v.SetDefault("author.name", d.Author.Name)
	v.SetDefault("author.orcid", d.Author.ORCID)
	v.SetDefault("author.affiliation", d.Author.Affiliation)
	v.SetDefault("author.email", d.Author.Email)

	v.SetDefault("llm.provider", string(d.LLM.Provider))
	v.SetDefault("llm.model", d.LLM.Model)
	v.SetDefault("llm.api_key", d.LLM.APIKey)
	v.SetDefault("llm.base_url", d.LLM.BaseURL)
	v.SetDefault("llm.max_retries", d.LLM.MaxRetries)
	v.SetDefault("llm.timeout", d.LLM.Timeout)

	v.SetDefault("paths.output_dir", d.Paths.OutputDir)
	v.SetDefault("paths.metadata_dir", d.Paths.MetadataDir)
	v.SetDefault("paths.logs_dir", d.Paths.LogsDir)
	v.SetDefault("paths.registry_db", d.Paths.RegistryDB)
	v.SetDefault("paths.outline_file", d.Paths.OutlineFile)

	v.SetDefault("render.engine", string(d.Render.Engine))

	v.SetDefault("drive.remote", d.Drive.Remote)
	v.SetDefault("drive.folder_id", d.Drive.FolderID)
	v.SetDefault("drive.config_path", d.Drive.ConfigPath)

	v.SetDefault("git.repo_dir", d.Git.RepoDir)
	v.SetDefault("git.remote", d.Git.Remote)
	v.SetDefault("git.branch", d.Git.Branch)
	v.SetDefault("git.web_url", d.Git.WebURL)

	v.SetDefault("notify.webhook_url", d.Notify.WebhookURL)
	v.SetDefault("notify.command", d.Notify.Command)
	v.SetDefault("notify.recipient", d.Notify.Recipient)
	v.SetDefault("notify.reminder_time", d.Notify.ReminderTime)
	v.SetDefault("notify.timezone", d.Notify.Timezone)

	v.SetDefault("quality.strict", d.Quality.Strict)
	v.SetDefault("quality.max_abstract_words", d.Quality.MaxAbstractWords)
	v.SetDefault("quality.min_body_words", d.Quality.MinBodyWords)
	v.SetDefault("quality.denylist", d.Quality.Denylist)

	v.SetDefault("trends.enable_openalex", d.Trends.EnableOpenAlex)
	v.SetDefault("trends.keywords", d.Trends.Keywords)
	v.SetDefault("trends.count", d.Trends.Count)
	v.SetDefault("trends.email", d.Trends.Email)
}
