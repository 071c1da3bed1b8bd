package services

import (
	"fmt"
	"time"

	"github.com/studyforge/studyforge-cli/internal/core/domain"
)

// Default pipeline parameters. Unit sizing is character-based; the topic
// unit size targets roughly 2000 words of prose per extraction call with a
// 10% overlap, and passages are much finer-grained with a 20% overlap.
const (
	DefaultUnitSize    = 12000
	DefaultOverlapSize = 1200
	DefaultSeparator   = "\n\n"

	DefaultPassageSize    = 1000
	DefaultPassageOverlap = 0.2
	DefaultTopK           = 8
	DefaultPrefilterLimit = 50

	DefaultTopicMin = 8
	DefaultTopicMax = 15

	DefaultSectionMin = 3
	DefaultSectionMax = 20

	DefaultConcurrency = 4
	DefaultMaxRetries  = 2
	DefaultCallTimeout = 120 * time.Second
	DefaultMaxTokens   = 4000
	DefaultTemperature = 0.3
)

// ChunkingConfig controls topic-level unit splitting.
type ChunkingConfig struct {
	// UnitSize is the maximum characters per unit.
	UnitSize int `toml:"unit_size"`

	// OverlapSize is the characters shared between consecutive units.
	// Must be smaller than UnitSize.
	OverlapSize int `toml:"overlap_size"`

	// Separator is the preferred split boundary, normally a paragraph break.
	Separator string `toml:"separator"`
}

// SectionConfig controls chapter-aware segmentation.
type SectionConfig struct {
	// MinSections and MaxSections bound the plausible section count.
	// Detection results outside [MinSections, MaxSections] are discarded
	// and character splitting is used instead. This guard is what keeps a
	// noisy heading heuristic from fragmenting a book into hundreds of
	// false sections and multiplying every downstream stage.
	MinSections int `toml:"min_sections"`
	MaxSections int `toml:"max_sections"`
}

// TopicConfig bounds the size of the merged topic list.
type TopicConfig struct {
	// TargetMin is the desired minimum topic count. The merger never
	// fabricates topics to reach it; a shorter plan is returned as-is.
	TargetMin int `toml:"target_min"`

	// TargetMax is the hard upper bound on merged topics.
	TargetMax int `toml:"target_max"`
}

// PassageConfig controls passage-level re-splitting and ranking.
type PassageConfig struct {
	// Size is the target characters per passage.
	Size int `toml:"size"`

	// OverlapRatio is the fraction of Size shared between passages.
	OverlapRatio float64 `toml:"overlap_ratio"`

	// TopK is how many passages are kept per topic.
	TopK int `toml:"top_k"`

	// PrefilterLimit caps how many passages are offered to a completion
	// call for relevance judgment; larger sets are keyword-prefiltered
	// down to this bound first.
	PrefilterLimit int `toml:"prefilter_limit"`
}

// ExtractionConfig controls the per-unit completion calls.
type ExtractionConfig struct {
	// Concurrency is the worker-pool size for extraction calls.
	Concurrency int `toml:"concurrency"`

	// MaxRetries is how many times a failed unit call is retried before
	// the unit is skipped.
	MaxRetries int `toml:"max_retries"`

	// CallTimeout bounds each individual completion call.
	CallTimeout time.Duration `toml:"call_timeout"`

	// MaxTokens is the completion budget per call.
	MaxTokens int `toml:"max_tokens"`

	// Temperature is the starting sampling temperature. Retries lower it
	// for more conservative output.
	Temperature float64 `toml:"temperature"`
}

// Config gathers all tunable pipeline parameters.
type Config struct {
	Chunking   ChunkingConfig   `toml:"chunking"`
	Sections   SectionConfig    `toml:"sections"`
	Topics     TopicConfig      `toml:"topics"`
	Passages   PassageConfig    `toml:"passages"`
	Extraction ExtractionConfig `toml:"extraction"`
}

// DefaultConfig returns the standard pipeline configuration.
func DefaultConfig() Config {
	return Config{
		Chunking: ChunkingConfig{
			UnitSize:    DefaultUnitSize,
			OverlapSize: DefaultOverlapSize,
			Separator:   DefaultSeparator,
		},
		Sections: SectionConfig{
			MinSections: DefaultSectionMin,
			MaxSections: DefaultSectionMax,
		},
		Topics: TopicConfig{
			TargetMin: DefaultTopicMin,
			TargetMax: DefaultTopicMax,
		},
		Passages: PassageConfig{
			Size:           DefaultPassageSize,
			OverlapRatio:   DefaultPassageOverlap,
			TopK:           DefaultTopK,
			PrefilterLimit: DefaultPrefilterLimit,
		},
		Extraction: ExtractionConfig{
			Concurrency: DefaultConcurrency,
			MaxRetries:  DefaultMaxRetries,
			CallTimeout: DefaultCallTimeout,
			MaxTokens:   DefaultMaxTokens,
			Temperature: DefaultTemperature,
		},
	}
}

// Validate checks the configuration before any processing starts.
// All violations wrap domain.ErrInvalidConfig.
func (c Config) Validate() error {
	if c.Chunking.UnitSize <= 0 {
		return fmt.Errorf("%w: unit_size must be positive, got %d", domain.ErrInvalidConfig, c.Chunking.UnitSize)
	}
	if c.Chunking.OverlapSize < 0 {
		return fmt.Errorf("%w: overlap_size must not be negative, got %d", domain.ErrInvalidConfig, c.Chunking.OverlapSize)
	}
	if c.Chunking.OverlapSize >= c.Chunking.UnitSize {
		return fmt.Errorf("%w: overlap_size %d must be smaller than unit_size %d",
			domain.ErrInvalidConfig, c.Chunking.OverlapSize, c.Chunking.UnitSize)
	}
	if c.Passages.Size <= 0 {
		return fmt.Errorf("%w: passage size must be positive, got %d", domain.ErrInvalidConfig, c.Passages.Size)
	}
	if c.Passages.OverlapRatio < 0 || c.Passages.OverlapRatio >= 1 {
		return fmt.Errorf("%w: passage overlap_ratio must be in [0, 1), got %g",
			domain.ErrInvalidConfig, c.Passages.OverlapRatio)
	}
	if c.Passages.TopK <= 0 {
		return fmt.Errorf("%w: top_k must be positive, got %d", domain.ErrInvalidConfig, c.Passages.TopK)
	}
	if c.Topics.TargetMin <= 0 || c.Topics.TargetMax < c.Topics.TargetMin {
		return fmt.Errorf("%w: topic targets must satisfy 0 < target_min <= target_max, got [%d, %d]",
			domain.ErrInvalidConfig, c.Topics.TargetMin, c.Topics.TargetMax)
	}
	if c.Sections.MinSections <= 0 || c.Sections.MaxSections < c.Sections.MinSections {
		return fmt.Errorf("%w: section band must satisfy 0 < min <= max, got [%d, %d]",
			domain.ErrInvalidConfig, c.Sections.MinSections, c.Sections.MaxSections)
	}
	if c.Extraction.Concurrency <= 0 {
		return fmt.Errorf("%w: extraction concurrency must be positive, got %d",
			domain.ErrInvalidConfig, c.Extraction.Concurrency)
	}
	return nil
}
