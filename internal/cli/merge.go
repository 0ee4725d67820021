package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/curator/internal/wire"
)

// MergeCmd returns the merge command
func MergeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge [plan-id]",
		Short: "Consolidate duplicate folders",
		Long: `Build a merge plan moving the contents of every duplicate folder
into its primary (the earliest-known registration). The merge plan is a
regular plan; execute it like any other.

With a plan ID the named special-handling plan is approved into pending
once the merge plan exists, so it can run after the merge.

Examples:
  curator merge detect
  curator merge run
  curator merge PLAN-003`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			blocked := ""
			if len(args) > 0 {
				blocked = args[0]
			}
			return runMergePass(blocked)
		},
	}

	cmd.AddCommand(mergeDetectCmd())
	cmd.AddCommand(mergeRunCmd())

	return cmd
}

func mergeDetectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect",
		Short: "List duplicate folder groups without building a plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()

			collisions, err := wire.ScanService().ListCollisions(ctx)
			if err != nil {
				return fmt.Errorf("failed to detect duplicates: %w", err)
			}

			if len(collisions) == 0 {
				fmt.Println("No duplicate folders found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "PATH\tFOLDERS\tREMOTE IDS")
			fmt.Fprintln(w, "----\t-------\t----------")
			for _, c := range collisions {
				fmt.Fprintf(w, "%s\t%d\t%s\n", c.Path, len(c.RemoteIDs), strings.Join(c.RemoteIDs, ", "))
			}
			w.Flush()

			fmt.Println()
			fmt.Println("💡 Build the merge plan:")
			fmt.Println("   curator merge run")
			return nil
		},
	}
}

func mergeRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Build a merge plan from the current duplicate groups",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMergePass("")
		},
	}
}

// runMergePass builds the merge plan and, when blocked names a
// special-handling plan, approves it into pending afterwards.
func runMergePass(blocked string) error {
	ctx := NewContext()

	resp, err := wire.MergeService().BuildMergePlan(ctx)
	if err != nil {
		return fmt.Errorf("failed to build merge plan: %w", err)
	}

	switch {
	case len(resp.Groups) == 0:
		fmt.Println("No duplicate folders found. Nothing to merge.")
	case resp.PlanID == "":
		fmt.Println("Duplicate folders found, but none have contents to move.")
	default:
		fmt.Printf("✓ Created merge plan %s: %d duplicate group(s), %d operation(s)\n", resp.PlanID, len(resp.Groups), resp.Plan.OpCount)
		for _, g := range resp.Groups {
			fmt.Printf("  %s (%d folders)\n", g.Path, len(g.RemoteIDs))
		}
		fmt.Println()
		fmt.Println("💡 Execute it:")
		fmt.Printf("   curator plan execute %s\n", resp.PlanID)
	}

	if blocked != "" {
		if err := wire.PlanService().ApprovePlan(ctx, blocked); err != nil {
			return fmt.Errorf("failed to approve plan %s: %w", blocked, err)
		}
		fmt.Printf("✓ Plan %s approved\n", blocked)
		if resp.PlanID != "" {
			fmt.Printf("  Execute it after the merge plan %s\n", resp.PlanID)
		}
	}
	return nil
}
