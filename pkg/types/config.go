// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// AuthorConfig identifies the person the paper is attributed to.
type AuthorConfig struct {
	Name        string `json:"name" yaml:"name" mapstructure:"name"`
	ORCID       string `json:"orcid" yaml:"orcid" mapstructure:"orcid"`
	Affiliation string `json:"affiliation" yaml:"affiliation" mapstructure:"affiliation"`
	Email       string `json:"email" yaml:"email" mapstructure:"email"`
}

// LLMProvider selects the text generation backend.
type LLMProvider string

const (
	ProviderOpenAI    LLMProvider = "openai"
	ProviderAnthropic LLMProvider = "anthropic"
	ProviderMock      LLMProvider = "mock"
)

// LLMConfig holds settings for the generation backend.
type LLMConfig struct {
	Provider LLMProvider `json:"provider" yaml:"provider" mapstructure:"provider"`

	// Model is the model identifier (e.g. "gpt-4.1-mini").
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// APIKey is the authentication key. Filled from .secrets/ when empty.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// BaseURL points at an OpenAI-compatible gateway when set.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`

	// MaxRetries is the number of retries on HTTP 429 (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`

	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
}

// PathsConfig holds the working directories of the pipeline.
type PathsConfig struct {
	OutputDir   string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`
	MetadataDir string `json:"metadata_dir" yaml:"metadata_dir" mapstructure:"metadata_dir"`
	LogsDir     string `json:"logs_dir" yaml:"logs_dir" mapstructure:"logs_dir"`

	// RegistryDB is the SQLite file recording pipeline runs.
	RegistryDB string `json:"registry_db" yaml:"registry_db" mapstructure:"registry_db"`

	// OutlineFile optionally overrides the default section outline.
	OutlineFile string `json:"outline_file,omitempty" yaml:"outline_file,omitempty" mapstructure:"outline_file"`
}

// RenderEngine identifies the HTML-to-PDF tool.
type RenderEngine string

const (
	EngineWeasyPrint  RenderEngine = "weasyprint"
	EngineWkhtmltopdf RenderEngine = "wkhtmltopdf"
)

// RenderConfig holds PDF rendering settings.
type RenderConfig struct {
	Engine RenderEngine `json:"engine" yaml:"engine" mapstructure:"engine"`
}

// DriveConfig holds the rclone destination for uploaded PDFs.
type DriveConfig struct {
	Remote     string `json:"remote" yaml:"remote" mapstructure:"remote"`
	FolderID   string `json:"folder_id" yaml:"folder_id" mapstructure:"folder_id"`
	ConfigPath string `json:"config_path,omitempty" yaml:"config_path,omitempty" mapstructure:"config_path"`
}

// Enabled reports whether a drive destination is configured.
func (d DriveConfig) Enabled() bool {
	return d.Remote != "" && d.FolderID != ""
}

// GitConfig holds the version-control backup destination.
type GitConfig struct {
	// RepoDir is a local clone that receives copies of each paper.
	RepoDir string `json:"repo_dir" yaml:"repo_dir" mapstructure:"repo_dir"`
	Remote  string `json:"remote" yaml:"remote" mapstructure:"remote"`
	Branch  string `json:"branch" yaml:"branch" mapstructure:"branch"`

	// WebURL is the repository browse URL, e.g. https://github.com/user/repo.
	WebURL string `json:"web_url,omitempty" yaml:"web_url,omitempty" mapstructure:"web_url"`
}

// Enabled reports whether a git backup destination is configured.
func (g GitConfig) Enabled() bool {
	return g.RepoDir != ""
}

// NotifyConfig holds notification delivery settings.
type NotifyConfig struct {
	WebhookURL string   `json:"webhook_url,omitempty" yaml:"webhook_url,omitempty" mapstructure:"webhook_url"`
	Command    []string `json:"command,omitempty" yaml:"command,omitempty" mapstructure:"command"`
	Recipient  string   `json:"recipient,omitempty" yaml:"recipient,omitempty" mapstructure:"recipient"`

	// ReminderTime is the local wall-clock time of the calendar reminder ("09:05").
	ReminderTime string `json:"reminder_time" yaml:"reminder_time" mapstructure:"reminder_time"`

	// Timezone is an IANA zone name (e.g. "America/Denver").
	Timezone string `json:"timezone" yaml:"timezone" mapstructure:"timezone"`
}

// QualityConfig holds checklist thresholds.
type QualityConfig struct {
	// Strict aborts the pipeline when a check fails instead of warning.
	Strict bool `json:"strict" yaml:"strict" mapstructure:"strict"`

	MaxAbstractWords int      `json:"max_abstract_words" yaml:"max_abstract_words" mapstructure:"max_abstract_words"`
	MinBodyWords     int      `json:"min_body_words" yaml:"min_body_words" mapstructure:"min_body_words"`
	Denylist         []string `json:"denylist" yaml:"denylist" mapstructure:"denylist"`
}

// TrendsConfig holds topic discovery settings.
type TrendsConfig struct {
	EnableOpenAlex bool     `json:"enable_openalex" yaml:"enable_openalex" mapstructure:"enable_openalex"`
	Keywords       []string `json:"keywords" yaml:"keywords" mapstructure:"keywords"`
	Count          int      `json:"count" yaml:"count" mapstructure:"count"`
	Email          string   `json:"email,omitempty" yaml:"email,omitempty" mapstructure:"email"`
}

// Config is the full configuration loaded from config.json.
type Config struct {
	Author  AuthorConfig  `json:"author" yaml:"author" mapstructure:"author"`
	LLM     LLMConfig     `json:"llm" yaml:"llm" mapstructure:"llm"`
	Paths   PathsConfig   `json:"paths" yaml:"paths" mapstructure:"paths"`
	Render  RenderConfig  `json:"render" yaml:"render" mapstructure:"render"`
	Drive   DriveConfig   `json:"drive" yaml:"drive" mapstructure:"drive"`
	Git     GitConfig     `json:"git" yaml:"git" mapstructure:"git"`
	Notify  NotifyConfig  `json:"notify" yaml:"notify" mapstructure:"notify"`
	Quality QualityConfig `json:"quality" yaml:"quality" mapstructure:"quality"`
	Trends  TrendsConfig  `json:"trends" yaml:"trends" mapstructure:"trends"`
}

// DefaultDenylist lists phrases that indicate leaked model boilerplate or
// unfinished placeholders in the paper body.
var DefaultDenylist = []string{
	"as an ai language model",
	"as a language model",
	"i cannot fulfill",
	"i'm sorry, but",
	"lorem ipsum",
	"[insert",
	"[citation needed]",
	"todo:",
}

// DefaultConfig returns the configuration used when config.json is absent.
func DefaultConfig() Config {
	return Config{
		Author: AuthorConfig{
			Name:        "Walter Evans",
			Affiliation: "Independent Researcher",
		},
		LLM: LLMConfig{
			Provider:   ProviderOpenAI,
			Model:      "gpt-4.1-mini",
			MaxRetries: 3,
			Timeout:    120 * time.Second,
		},
		Paths: PathsConfig{
			OutputDir:   "output",
			MetadataDir: "metadata",
			LogsDir:     "logs",
			RegistryDB:  "metadata/runs.db",
		},
		Render: RenderConfig{Engine: EngineWeasyPrint},
		Drive:  DriveConfig{Remote: "gdrive"},
		Git:    GitConfig{Remote: "origin", Branch: "main"},
		Notify: NotifyConfig{ReminderTime: "09:05", Timezone: "America/Denver"},
		Quality: QualityConfig{
			Strict:           true,
			MaxAbstractWords: 200,
			MinBodyWords:     500,
			Denylist:         append([]string(nil), DefaultDenylist...),
		},
		Trends: TrendsConfig{
			Keywords: []string{"behavioral finance", "cryptocurrency", "ESG investing", "inflation", "market volatility"},
			Count:    5,
		},
	}
}
