package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/studyforge/studyforge-cli/internal/adapters/driven/config/file"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage studyforge configuration",
	Long:  `Inspect or initialise the configuration file at ~/.studyforge/config.toml.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	store, err := file.NewConfigStore(configDirOverride)
	if err != nil {
		return err
	}
	if _, err := os.Stat(store.Path()); err == nil {
		cmd.Printf("Config file already exists at %s\n", store.Path())
		return nil
	}
	if err := store.Save(file.DefaultSettings()); err != nil {
		return err
	}
	cmd.Printf("Wrote default config to %s\n", store.Path())
	return nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	store, err := file.NewConfigStore(configDirOverride)
	if err != nil {
		return err
	}
	settings, err := store.Load()
	if err != nil {
		return err
	}

	cmd.Printf("Config file: %s\n\n", store.Path())
	cmd.Printf("LLM provider: %s\n", settings.LLM.Provider)
	if settings.LLM.BaseURL != "" {
		cmd.Printf("LLM base URL: %s\n", settings.LLM.BaseURL)
	}
	if settings.LLM.Model != "" {
		cmd.Printf("LLM model: %s\n", settings.LLM.Model)
	}
	cmd.Printf("Unit size: %d chars (overlap %d)\n", settings.Pipeline.UnitSize, settings.Pipeline.OverlapSize)
	cmd.Printf("Topics: %d-%d\n", settings.Pipeline.TopicMin, settings.Pipeline.TopicMax)
	cmd.Printf("Passages: %d chars, top %d per topic\n", settings.Pipeline.PassageSize, settings.Pipeline.TopK)
	cmd.Printf("Extraction: %d workers, %d retries\n", settings.Pipeline.Concurrency, settings.Pipeline.MaxRetries)
	return nil
}
