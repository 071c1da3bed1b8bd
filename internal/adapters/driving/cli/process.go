package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/studyforge/studyforge-cli/internal/core/ports/driving"
)

var (
	processForce      bool
	processLLMRanking bool
	processSkipPing   bool
)

var processCmd = &cobra.Command{
	Use:   "process [file]",
	Short: "Build a learning plan from a document",
	Long: `Runs the full pipeline over a document: segmentation, topic extraction,
topic merging, and passage ranking. The finished plan is stored locally and
printed as a summary.

A plan already stored for the same document content and settings is reused;
pass --force to regenerate it.`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	processCmd.Flags().BoolVarP(&processForce, "force", "f", false, "Regenerate even when a cached plan exists")
	processCmd.Flags().BoolVar(&processLLMRanking, "llm-ranking", false, "Rank passages with the LLM instead of keyword scoring")
	processCmd.Flags().BoolVar(&processSkipPing, "skip-ping", false, "Skip the LLM reachability check")
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	ctx := cmd.Context()

	if llmService != nil && !processSkipPing {
		if err := llmService.Ping(ctx); err != nil {
			return fmt.Errorf("LLM backend not reachable, is it running? (%w)", err)
		}
	}
	if planService == nil {
		return errors.New("plan service not configured")
	}

	plan, err := planService.Process(ctx, args[0], driving.ProcessOptions{
		Force:         processForce,
		UseLLMRanking: processLLMRanking,
	})
	if err != nil {
		return err
	}

	cmd.Printf("Plan %s for %q (%d words)\n", plan.ID, plan.Meta.Title, plan.Meta.WordCount)
	cmd.Printf("%d topics:\n", len(plan.Topics))
	for _, tp := range plan.Topics {
		cmd.Printf("  %2d. %s [%s] (%d passages)\n",
			tp.Topic.Position, tp.Topic.Title, tp.Topic.Importance, len(tp.Passages))
	}
	return nil
}
