package cli

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"
)

var planShowJSON bool

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Manage stored learning plans",
	Long:  `List, view, or delete learning plans stored from earlier runs.`,
}

var planListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored plans",
	Args:  cobra.NoArgs,
	RunE:  runPlanList,
}

var planShowCmd = &cobra.Command{
	Use:   "show [plan-id]",
	Short: "Show a stored plan",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlanShow,
}

var planDeleteCmd = &cobra.Command{
	Use:   "delete [plan-id]",
	Short: "Delete a stored plan",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlanDelete,
}

func init() {
	planShowCmd.Flags().BoolVar(&planShowJSON, "json", false, "Print the full plan as JSON")

	planCmd.AddCommand(planListCmd)
	planCmd.AddCommand(planShowCmd)
	planCmd.AddCommand(planDeleteCmd)
	rootCmd.AddCommand(planCmd)
}

func runPlanList(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	if planService == nil {
		return errors.New("plan service not configured")
	}

	plans, err := planService.List(cmd.Context())
	if err != nil {
		return err
	}
	if len(plans) == 0 {
		cmd.Println("No plans stored yet. Run 'studyforge process <file>' first.")
		return nil
	}

	for _, plan := range plans {
		cmd.Printf("%s  %s (%s, %d words) %s\n",
			plan.ID, plan.Meta.Title, plan.Meta.FileName, plan.Meta.WordCount,
			plan.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func runPlanShow(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	if planService == nil {
		return errors.New("plan service not configured")
	}

	plan, err := planService.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if planShowJSON {
		data, err := json.MarshalIndent(plan, "", "  ")
		if err != nil {
			return err
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("%s (%s, %d words)\n", plan.Meta.Title, plan.Meta.FileName, plan.Meta.WordCount)
	if plan.Meta.Author != "" {
		cmd.Printf("Author: %s\n", plan.Meta.Author)
	}
	cmd.Printf("Created: %s\n\n", plan.CreatedAt.Format("2006-01-02 15:04"))

	for _, tp := range plan.Topics {
		cmd.Printf("%2d. %s [%s]\n", tp.Topic.Position, tp.Topic.Title, tp.Topic.Importance)
		if tp.Topic.Description != "" {
			cmd.Printf("    %s\n", tp.Topic.Description)
		}
		for _, p := range tp.Passages {
			cmd.Printf("    - (offset %d, score %.1f) %s\n", p.Start, p.Score, truncate(p.Text, 100))
		}
	}
	return nil
}

func runPlanDelete(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	if planStore == nil {
		return errors.New("plan store not configured")
	}

	if err := planStore.DeletePlan(cmd.Context(), args[0]); err != nil {
		return err
	}
	cmd.Printf("Deleted plan %s\n", args[0])
	return nil
}

// truncate shortens s for one-line display.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
