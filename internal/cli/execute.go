package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/curator/internal/models"
	"github.com/example/curator/internal/ports/primary"
	"github.com/example/curator/internal/wire"
)

func planExecuteCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "execute [plan-id]",
		Short: "Execute one plan against the remote store",
		Long: `Claim a plan and apply its operations in order, rate limited and
batched per the configured pacing. Failures are recorded per operation
and do not abort the plan; a failed plan can be re-executed and only
its unsatisfied operations run again.

--dry-run resolves every operation and reports would-be outcomes
without issuing a single mutating remote call.

Examples:
  curator plan execute PLAN-001
  curator plan execute PLAN-001 --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireBridge(); err != nil {
				return err
			}
			ctx := NewContext()

			report, err := wire.ExecuteService().ExecutePlan(ctx, primary.ExecuteRequest{
				PlanID: args[0],
				DryRun: dryRun,
			})
			if err != nil {
				return err
			}

			printExecuteReport(report)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Resolve operations without touching the remote store")

	return cmd
}

func planExecutePendingCmd() *cobra.Command {
	var dryRun bool
	var workers int

	cmd := &cobra.Command{
		Use:   "execute-pending",
		Short: "Execute every pending plan",
		Long: `Execute every claimable pending plan. Independent plans run
concurrently up to --workers; operations within one plan stay strictly
sequential and all plans share one pacing budget.

Examples:
  curator plan execute-pending
  curator plan execute-pending --workers 3 --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireBridge(); err != nil {
				return err
			}
			ctx := NewContext()

			reports, err := wire.ExecuteService().ExecutePending(ctx, primary.ExecutePendingRequest{
				DryRun:  dryRun,
				Workers: workers,
			})
			if err != nil {
				return err
			}

			if len(reports) == 0 {
				fmt.Println("No pending plans.")
				return nil
			}

			for i, report := range reports {
				if i > 0 {
					fmt.Println()
				}
				printExecuteReport(report)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Resolve operations without touching the remote store")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Concurrent plans (defaults to the configured worker count)")

	return cmd
}

func printExecuteReport(report *primary.ExecuteReport) {
	if report.DryRun {
		fmt.Printf("Plan %s (dry run): %d would run, %d already satisfied\n", report.PlanID, report.Pending, report.Skipped)
		return
	}

	glyph := color.New(color.FgGreen).Sprint("✓")
	if report.Status == models.PlanStatusFailed {
		glyph = color.New(color.FgRed).Sprint("✗")
	}
	fmt.Printf("%s Plan %s %s: %d succeeded, %d skipped, %d failed", glyph, report.PlanID, report.Status, report.Succeeded, report.Skipped, report.Failed)
	if report.BatchPauses > 0 {
		fmt.Printf(" (%d batch pauses)", report.BatchPauses)
	}
	fmt.Println()

	for _, f := range report.Failures {
		retry := ""
		if f.Retryable {
			retry = " (retryable)"
		}
		fmt.Printf("  ✗ op %d %s %s → %s: %s%s\n", f.Seq, f.Kind, f.SourceName, f.TargetPath, f.Reason, retry)
	}
	if report.Failed > 0 {
		fmt.Println()
		fmt.Println("💡 Re-run failed operations:")
		fmt.Printf("   curator plan execute %s\n", report.PlanID)
	}
}
