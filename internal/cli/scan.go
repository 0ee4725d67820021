package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/curator/internal/ports/primary"
	"github.com/example/curator/internal/wire"
)

// ScanCmd returns the scan command
func ScanCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Walk the remote tree and refresh the folder index",
		Long: `Walk the remote inventory tree breadth-first, rebuild the folder
index and persist the snapshot. A snapshot younger than the configured
TTL is served as-is; --force always re-walks.

Examples:
  curator scan
  curator scan --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireBridge(); err != nil {
				return err
			}
			ctx := NewContext()

			resp, err := wire.ScanService().RefreshIndex(ctx, primary.RefreshIndexRequest{
				Force: force,
			})
			if err != nil {
				return fmt.Errorf("failed to refresh index: %w", err)
			}

			source := "remote walk"
			if resp.FromSnapshot {
				source = "stored snapshot"
			}
			fmt.Printf("✓ Indexed %d folders (%s)\n", resp.Folders, source)
			if resp.Collisions > 0 {
				fmt.Printf("  %d duplicate paths found\n", resp.Collisions)
				fmt.Println()
				fmt.Println("💡 Inspect and resolve them:")
				fmt.Println("   curator merge detect")
				fmt.Println("   curator merge run")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Re-walk the remote tree even with a fresh snapshot")

	cmd.AddCommand(scanCollisionsCmd())
	cmd.AddCommand(scanDuplicatesCmd())

	return cmd
}

func scanCollisionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "collisions",
		Short: "List canonical paths occupied by more than one folder",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()

			collisions, err := wire.ScanService().ListCollisions(ctx)
			if err != nil {
				return fmt.Errorf("failed to list collisions: %w", err)
			}

			if len(collisions) == 0 {
				fmt.Println("No duplicate paths found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "PATH\tFOLDERS\tREMOTE IDS")
			fmt.Fprintln(w, "----\t-------\t----------")
			for _, c := range collisions {
				fmt.Fprintf(w, "%s\t%d\t%s\n", c.Path, len(c.RemoteIDs), strings.Join(c.RemoteIDs, ", "))
			}
			w.Flush()
			return nil
		},
	}
}

func scanDuplicatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "duplicates [leaf-name]",
		Short: "Find folders sharing a leaf name across different parents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()
			leaf := args[0]

			paths, err := wire.ScanService().FindDuplicateLeaves(ctx, leaf)
			if err != nil {
				return fmt.Errorf("failed to search the index: %w", err)
			}

			if len(paths) == 0 {
				fmt.Printf("No folders named '%s' found.\n", leaf)
				return nil
			}

			fmt.Printf("Found %d folder(s) named '%s':\n\n", len(paths), leaf)
			for _, p := range paths {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}
}
