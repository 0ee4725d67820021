package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/example/curator/internal/models"
	"github.com/example/curator/internal/wire"
)

// planStatusOrder lists plan statuses in lifecycle order for display.
var planStatusOrder = []string{
	models.PlanStatusPending,
	models.PlanStatusNeedsReview,
	models.PlanStatusNeedsSpecial,
	models.PlanStatusExecuting,
	models.PlanStatusExecuted,
	models.PlanStatusFailed,
}

var outcomeOrder = []string{
	models.OutcomePending,
	models.OutcomeSucceeded,
	models.OutcomeSkipped,
	models.OutcomeFailed,
}

// StatusCmd returns the status command
func StatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Summarize plans, operations, index and suggestions",
		Long: `Display a summary of the stored state:
- Plans by status and operations by outcome
- Indexed folder count and unresolved duplicate paths
- Stored advisor suggestions
- Recent activity

This provides a focused view of "where did the last run leave things?"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()

			report, err := wire.ReportService().Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to load status: %w", err)
			}

			fmt.Println("Curator Status")
			fmt.Println()

			if len(report.PlansByStatus) == 0 {
				fmt.Println("Plans: (none)")
			} else {
				fmt.Println("Plans:")
				for _, status := range orderedCounts(report.PlansByStatus, planStatusOrder) {
					fmt.Printf("  %-26s %d\n", status, report.PlansByStatus[status])
				}
			}
			fmt.Println()

			if len(report.OpsByOutcome) == 0 {
				fmt.Println("Operations: (none)")
			} else {
				fmt.Println("Operations:")
				for _, outcome := range orderedCounts(report.OpsByOutcome, outcomeOrder) {
					fmt.Printf("  %-26s %d\n", outcome, report.OpsByOutcome[outcome])
				}
			}
			fmt.Println()

			fmt.Printf("Index: %d folder(s), %d duplicate path(s)\n", report.IndexedFolders, report.Collisions)
			fmt.Printf("Suggestions: %d stored\n", report.Suggestions)

			if len(report.RecentActivity) > 0 {
				fmt.Println()
				fmt.Println("Recent activity:")
				for _, a := range report.RecentActivity {
					line := fmt.Sprintf("  %s  %s  %s", a.CreatedAt, a.Actor, a.Action)
					if a.PlanID != "" {
						line += "  " + a.PlanID
					}
					if a.Detail != "" {
						line += "  (" + a.Detail + ")"
					}
					fmt.Println(line)
				}
			}

			return nil
		},
	}
}

// orderedCounts returns the keys of counts with known keys first, in the
// given order, and any remaining keys sorted. Zero counts are dropped.
func orderedCounts(counts map[string]int, order []string) []string {
	known := make(map[string]bool, len(order))
	var keys []string
	for _, k := range order {
		known[k] = true
		if counts[k] > 0 {
			keys = append(keys, k)
		}
	}

	var rest []string
	for k, n := range counts {
		if !known[k] && n > 0 {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)

	return append(keys, rest...)
}
