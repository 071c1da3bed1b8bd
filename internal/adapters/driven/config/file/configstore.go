package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/studyforge/studyforge-cli/internal/core/services"
)

// Default LLM settings. The defaults assume a local Ollama install.
const (
	DefaultProvider       = "ollama"
	DefaultTimeoutSeconds = 120
)

// Settings is the on-disk configuration shape. Unset fields fall back to
// defaults when loaded, so a config file only needs the values it changes.
type Settings struct {
	LLM      LLMSettings      `toml:"llm"`
	Storage  StorageSettings  `toml:"storage"`
	Pipeline PipelineSettings `toml:"pipeline"`
}

// LLMSettings selects and configures the completion backend.
type LLMSettings struct {
	// Provider is "ollama", "openai" or "anthropic". The openai provider
	// also covers LM Studio and other OpenAI-compatible local servers.
	Provider string `toml:"provider"`

	// BaseURL overrides the provider's default endpoint.
	BaseURL string `toml:"base_url,omitempty"`

	// Model is the model name to request.
	Model string `toml:"model,omitempty"`

	// APIKey authenticates hosted providers. Local servers ignore it.
	APIKey string `toml:"api_key,omitempty"`

	// TimeoutSeconds bounds each HTTP request.
	TimeoutSeconds int `toml:"timeout_seconds"`

	// RequestsPerSecond throttles completion calls. Zero disables
	// throttling.
	RequestsPerSecond float64 `toml:"requests_per_second,omitempty"`

	// Burst is the throttle burst size.
	Burst int `toml:"burst,omitempty"`
}

// StorageSettings configures plan persistence.
type StorageSettings struct {
	// DataDir is where the plan database lives. Empty means
	// ~/.studyforge/data.
	DataDir string `toml:"data_dir,omitempty"`
}

// PipelineSettings mirrors the pipeline configuration with file-friendly
// types; ToConfig converts it to the form the services expect.
type PipelineSettings struct {
	UnitSize    int    `toml:"unit_size"`
	OverlapSize int    `toml:"overlap_size"`
	Separator   string `toml:"separator,omitempty"`

	MinSections int `toml:"min_sections"`
	MaxSections int `toml:"max_sections"`

	TopicMin int `toml:"topic_min"`
	TopicMax int `toml:"topic_max"`

	PassageSize         int     `toml:"passage_size"`
	PassageOverlapRatio float64 `toml:"passage_overlap_ratio"`
	TopK                int     `toml:"top_k"`
	PrefilterLimit      int     `toml:"prefilter_limit"`

	Concurrency        int     `toml:"concurrency"`
	MaxRetries         int     `toml:"max_retries"`
	CallTimeoutSeconds int     `toml:"call_timeout_seconds"`
	MaxTokens          int     `toml:"max_tokens"`
	Temperature        float64 `toml:"temperature"`
}

// DefaultSettings returns the configuration used when no file exists.
func DefaultSettings() Settings {
	return Settings{
		LLM: LLMSettings{
			Provider:       DefaultProvider,
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
		Pipeline: PipelineSettings{
			UnitSize:            services.DefaultUnitSize,
			OverlapSize:         services.DefaultOverlapSize,
			Separator:           services.DefaultSeparator,
			MinSections:         services.DefaultSectionMin,
			MaxSections:         services.DefaultSectionMax,
			TopicMin:            services.DefaultTopicMin,
			TopicMax:            services.DefaultTopicMax,
			PassageSize:         services.DefaultPassageSize,
			PassageOverlapRatio: services.DefaultPassageOverlap,
			TopK:                services.DefaultTopK,
			PrefilterLimit:      services.DefaultPrefilterLimit,
			Concurrency:         services.DefaultConcurrency,
			MaxRetries:          services.DefaultMaxRetries,
			CallTimeoutSeconds:  int(services.DefaultCallTimeout / time.Second),
			MaxTokens:           services.DefaultMaxTokens,
			Temperature:         services.DefaultTemperature,
		},
	}
}

// ToConfig converts file settings to the pipeline configuration.
func (p PipelineSettings) ToConfig() services.Config {
	return services.Config{
		Chunking: services.ChunkingConfig{
			UnitSize:    p.UnitSize,
			OverlapSize: p.OverlapSize,
			Separator:   p.Separator,
		},
		Sections: services.SectionConfig{
			MinSections: p.MinSections,
			MaxSections: p.MaxSections,
		},
		Topics: services.TopicConfig{
			TargetMin: p.TopicMin,
			TargetMax: p.TopicMax,
		},
		Passages: services.PassageConfig{
			Size:           p.PassageSize,
			OverlapRatio:   p.PassageOverlapRatio,
			TopK:           p.TopK,
			PrefilterLimit: p.PrefilterLimit,
		},
		Extraction: services.ExtractionConfig{
			Concurrency: p.Concurrency,
			MaxRetries:  p.MaxRetries,
			CallTimeout: time.Duration(p.CallTimeoutSeconds) * time.Second,
			MaxTokens:   p.MaxTokens,
			Temperature: p.Temperature,
		},
	}
}

// Timeout returns the LLM request timeout as a duration.
func (l LLMSettings) Timeout() time.Duration {
	if l.TimeoutSeconds <= 0 {
		return DefaultTimeoutSeconds * time.Second
	}
	return time.Duration(l.TimeoutSeconds) * time.Second
}

// ConfigStore reads and writes TOML settings.
type ConfigStore struct {
	filePath string
}

// NewConfigStore creates a TOML-based config store. If configDir is empty,
// defaults to ~/.studyforge.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".studyforge")
	}

	// Ensure directory exists
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	return &ConfigStore{
		filePath: filepath.Join(configDir, "config.toml"),
	}, nil
}

// Path returns the config file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}

// Load reads settings from disk, layered over the defaults. A missing file
// is not an error: the defaults are returned.
func (s *ConfigStore) Load() (Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &settings); err != nil {
		return DefaultSettings(), fmt.Errorf("parsing %s: %w", s.filePath, err)
	}
	return settings, nil
}

// Save writes settings to disk.
func (s *ConfigStore) Save(settings Settings) error {
	data, err := toml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(s.filePath, data, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
