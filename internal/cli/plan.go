package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/curator/internal/models"
	"github.com/example/curator/internal/ports/primary"
	"github.com/example/curator/internal/wire"
)

// PlanCmd returns the plan command
func PlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Build, inspect and execute move plans",
		Long:  `Build plans from a classification pass, inspect their operations and execute them against the remote store.`,
	}

	cmd.AddCommand(planBuildCmd())
	cmd.AddCommand(planListCmd())
	cmd.AddCommand(planShowCmd())
	cmd.AddCommand(planApproveCmd())
	cmd.AddCommand(planDeleteCmd())
	cmd.AddCommand(planExecuteCmd())
	cmd.AddCommand(planExecutePendingCmd())

	return cmd
}

func planBuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build [folder...]",
		Short: "Build plans from a classification pass",
		Long: `Classify the in-scope inventory and persist one plan per target
category, plus review and special-handling plans as needed.

Examples:
  curator plan build
  curator plan build Unsorted`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireBridge(); err != nil {
				return err
			}
			ctx := NewContext()

			resp, err := wire.PlanService().BuildPlans(ctx, primary.BuildPlansRequest{
				Scope: args,
			})
			if err != nil {
				return fmt.Errorf("failed to build plans: %w", err)
			}

			if len(resp.Plans) == 0 {
				fmt.Println("Nothing to plan. Everything in scope is already in place.")
				return nil
			}

			fmt.Printf("✓ Created %d plan(s):\n\n", len(resp.Plans))
			for _, p := range resp.Plans {
				fmt.Printf("%s %s: %s (%d operations) [%s]\n", planStatusGlyph(p.Status), p.ID, p.Category, p.OpCount, p.Status)
			}

			fmt.Println()
			fmt.Printf("%d classified, %d unmatched, %d ambiguous", resp.Classified, resp.Unmatched, resp.Ambiguous)
			if resp.NeedsMerge > 0 {
				fmt.Printf(", %d need a merge pass", resp.NeedsMerge)
			}
			fmt.Println()
			fmt.Println()
			fmt.Println("💡 Next steps:")
			fmt.Println("   curator plan list")
			fmt.Printf("   curator plan execute %s --dry-run\n", resp.Plans[0].ID)
			return nil
		},
	}
}

func planListCmd() *cobra.Command {
	var status string
	var category string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List plans",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()

			plans, err := wire.PlanService().ListPlans(ctx, primary.PlanFilters{
				Status:   status,
				Category: category,
				Limit:    limit,
			})
			if err != nil {
				return fmt.Errorf("failed to list plans: %w", err)
			}

			if len(plans) == 0 {
				fmt.Println("No plans found.")
				fmt.Println()
				fmt.Println("Build plans from the current inventory:")
				fmt.Println("  curator plan build")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "ID\tCATEGORY\tSTATUS\tOPS\tCREATED")
			fmt.Fprintln(w, "--\t--------\t------\t---\t-------")
			for _, p := range plans {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", p.ID, p.Category, p.Status, p.OpCount, p.CreatedAt)
			}
			w.Flush()
			return nil
		},
	}

	cmd.Flags().StringVarP(&status, "status", "s", "", "Filter by status")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Filter by category")
	cmd.Flags().IntVar(&limit, "limit", 0, "Limit the number of plans shown")

	return cmd
}

func planShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [plan-id]",
		Short: "Show a plan and its operations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()
			planID := args[0]

			plan, err := wire.PlanService().GetPlan(ctx, planID)
			if err != nil {
				return fmt.Errorf("plan not found: %w", err)
			}

			fmt.Printf("Plan: %s\n", plan.ID)
			fmt.Printf("Category: %s\n", plan.Category)
			fmt.Printf("Status: %s\n", plan.Status)
			if plan.Description != "" {
				fmt.Printf("Description: %s\n", plan.Description)
			}
			if plan.RunID != "" {
				fmt.Printf("Run: %s\n", plan.RunID)
			}
			fmt.Printf("Created: %s\n", plan.CreatedAt)
			if plan.ExecutedAt != "" {
				fmt.Printf("Executed: %s\n", plan.ExecutedAt)
			}

			ops, err := wire.PlanService().GetOperations(ctx, planID)
			if err != nil {
				return fmt.Errorf("failed to load operations: %w", err)
			}
			if len(ops) == 0 {
				return nil
			}

			fmt.Println()
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "SEQ\tKIND\tSOURCE\tTARGET\tOUTCOME\tREASON")
			fmt.Fprintln(w, "---\t----\t------\t------\t-------\t------")
			for _, op := range ops {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", op.Seq, op.Kind, op.SourceName, op.TargetPath, op.Outcome, op.Reason)
			}
			w.Flush()
			return nil
		},
	}
}

func planApproveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "approve [plan-id]",
		Short: "Approve a review or special-handling plan into pending",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()
			planID := args[0]

			if err := wire.PlanService().ApprovePlan(ctx, planID); err != nil {
				return fmt.Errorf("failed to approve plan: %w", err)
			}

			fmt.Printf("✓ Plan %s approved\n", planID)
			fmt.Println()
			fmt.Println("💡 Execute it:")
			fmt.Printf("   curator plan execute %s\n", planID)
			return nil
		},
	}
}

func planDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [plan-id]",
		Short: "Delete a plan and its operations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()
			planID := args[0]

			if err := wire.PlanService().DeletePlan(ctx, planID); err != nil {
				return fmt.Errorf("failed to delete plan: %w", err)
			}

			fmt.Printf("✓ Plan %s deleted\n", planID)
			return nil
		},
	}
}

// planStatusGlyph renders a colored marker for a plan status.
func planStatusGlyph(status string) string {
	switch status {
	case models.PlanStatusExecuted:
		return color.New(color.FgGreen).Sprint("✓")
	case models.PlanStatusFailed:
		return color.New(color.FgRed).Sprint("✗")
	case models.PlanStatusExecuting:
		return color.New(color.FgCyan).Sprint("⟳")
	case models.PlanStatusNeedsReview, models.PlanStatusNeedsSpecial:
		return color.New(color.FgYellow).Sprint("!")
	default:
		return "•"
	}
}
