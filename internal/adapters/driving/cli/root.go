// Package cli provides the command line interface for studyforge.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/studyforge/studyforge-cli/internal/adapters/driven/config/file"
	"github.com/studyforge/studyforge-cli/internal/adapters/driven/llm/anthropic"
	"github.com/studyforge/studyforge-cli/internal/adapters/driven/llm/ollama"
	"github.com/studyforge/studyforge-cli/internal/adapters/driven/llm/openai"
	"github.com/studyforge/studyforge-cli/internal/adapters/driven/llm/ratelimit"
	"github.com/studyforge/studyforge-cli/internal/adapters/driven/storage/sqlite"
	"github.com/studyforge/studyforge-cli/internal/core/ports/driven"
	"github.com/studyforge/studyforge-cli/internal/core/ports/driving"
	"github.com/studyforge/studyforge-cli/internal/core/services"
	"github.com/studyforge/studyforge-cli/internal/logger"
	"github.com/studyforge/studyforge-cli/internal/normalisers"
)

// version is set at build time via ldflags.
var version = "dev"

// Services used by the commands. Populated by ensureServices on first use;
// tests inject their own implementations directly.
var (
	planService driving.PlanService
	llmService  driven.LLMService
	planStore   driven.PlanStore
)

var verbose bool

// configDirOverride points the commands at an alternate config directory.
// Empty means ~/.studyforge; tests set it to a temp dir.
var configDirOverride string

var rootCmd = &cobra.Command{
	Use:   "studyforge",
	Short: "Turn a document into a study plan",
	Long: `studyforge reads a text document, segments it, extracts the topics worth
learning with a local or hosted LLM, and assembles a learning plan of topics
with their most relevant passages.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}

// Execute runs the root command.
func Execute() error {
	defer closeServices()
	return rootCmd.Execute()
}

// ensureServices builds the production service graph from the config file.
// Already-populated services are kept, which is how tests substitute mocks.
func ensureServices() error {
	if planService != nil {
		return nil
	}

	configStore, err := file.NewConfigStore(configDirOverride)
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	settings, err := configStore.Load()
	if err != nil {
		return err
	}

	if llmService == nil {
		llmService, err = buildLLM(settings.LLM)
		if err != nil {
			return err
		}
	}

	if planStore == nil {
		store, err := sqlite.NewStore(settings.Storage.DataDir)
		if err != nil {
			return fmt.Errorf("opening plan store: %w", err)
		}
		planStore = store
	}

	cfg := settings.Pipeline.ToConfig()
	pipeline, err := services.NewPipeline(normalisers.NewAutoSource(), planStore, llmService, cfg)
	if err != nil {
		return err
	}
	planService = pipeline
	return nil
}

// buildLLM constructs the completion backend selected in settings, wrapped
// in a request throttle when one is configured.
func buildLLM(settings file.LLMSettings) (driven.LLMService, error) {
	var inner driven.LLMService
	switch settings.Provider {
	case "openai":
		inner = openai.NewLLMService(openai.LLMConfig{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: settings.Timeout(),
		})
	case "anthropic":
		svc, err := anthropic.NewLLMService(anthropic.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: settings.Timeout(),
		})
		if err != nil {
			return nil, err
		}
		inner = svc
	default:
		inner = ollama.NewLLMService(ollama.LLMConfig{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: settings.Timeout(),
		})
	}

	if settings.RequestsPerSecond > 0 {
		return ratelimit.NewLLMService(inner, settings.RequestsPerSecond, settings.Burst), nil
	}
	return inner, nil
}

func closeServices() {
	if llmService != nil {
		_ = llmService.Close()
	}
	if store, ok := planStore.(*sqlite.Store); ok {
		_ = store.Close()
	}
}
