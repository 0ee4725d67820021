package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/example/curator/internal/tui"
	"github.com/example/curator/internal/wire"
)

// ReviewCmd returns the review command with all subcommands
func ReviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Review plans awaiting approval",
		Long: `Open an interactive review of every plan awaiting approval.

Plans built from ambiguous classifications stop in needs_review and
never execute until approved here (or with 'review approve'). The UI
shows each plan's operations so the decision is made against what
would actually move.

Keys: enter views a plan, a approves, d deletes, esc goes back, q quits.

Examples:
  curator review
  curator review approve PLAN-002`,
		RunE: func(cmd *cobra.Command, args []string) error {
			model := tui.NewReviewModel(wire.PlanService())
			if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
				return fmt.Errorf("failed to run review UI: %w", err)
			}
			return nil
		},
	}

	cmd.AddCommand(reviewApproveCmd())

	return cmd
}

func reviewApproveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "approve [plan-id]",
		Short: "Approve a plan without opening the UI",
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
