package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/curator/internal/models"
	"github.com/example/curator/internal/ports/primary"
	"github.com/example/curator/internal/wire"
)

// RulesCmd returns the rules command with all subcommands
func RulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Manage the classification rule set",
		Long: `Inspect, seed and replace the stored classification rules.

Rules are evaluated highest priority first; within a priority, in file
order. Loading a file replaces the whole stored set atomically, and
nothing is installed when any rule fails to compile.

Examples:
  curator rules list
  curator rules seed
  curator rules lint rules.yaml
  curator rules load rules.yaml`,
	}

	cmd.AddCommand(rulesListCmd())
	cmd.AddCommand(rulesSeedCmd())
	cmd.AddCommand(rulesLoadCmd())
	cmd.AddCommand(rulesLintCmd())

	return cmd
}

func rulesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the stored rules in evaluation order",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()

			rules, err := wire.RulesService().ListRules(ctx)
			if err != nil {
				return fmt.Errorf("failed to list rules: %w", err)
			}

			if len(rules) == 0 {
				fmt.Println("No rules stored.")
				fmt.Println()
				fmt.Println("💡 Install the defaults:")
				fmt.Println("   curator rules seed")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "NAME\tPRIORITY\tMATCHER\tTARGET")
			fmt.Fprintln(w, "----\t--------\t-------\t------")
			for _, r := range rules {
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", r.Name, r.Priority, matcherCell(r), r.TargetPath)
			}
			w.Flush()

			fmt.Printf("\n%d rule(s)\n", len(rules))
			return nil
		},
	}
}

func rulesSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Install the built-in default rule set",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()

			n, err := wire.RulesService().SeedDefaults(ctx)
			if err != nil {
				return fmt.Errorf("failed to seed rules: %w", err)
			}

			fmt.Printf("✓ Installed %d default rule(s)\n", n)
			return nil
		},
	}
}

func rulesLoadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load [file]",
		Short: "Replace the stored rules with a rules file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()

			n, err := wire.RulesService().LoadFile(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to load rules: %w", err)
			}

			fmt.Printf("✓ Loaded %d rule(s) from %s\n", n, args[0])
			return nil
		},
	}
}

func rulesLintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lint [file]",
		Short: "Validate a rules file without installing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()

			report, err := wire.RulesService().LintFile(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to lint rules: %w", err)
			}

			if len(report.Problems) == 0 {
				fmt.Printf("%s %d rule(s), no problems\n", color.New(color.FgGreen).Sprint("✓"), report.Rules)
				return nil
			}

			fmt.Printf("%s %d problem(s) in %s:\n", color.New(color.FgRed).Sprint("✗"), len(report.Problems), args[0])
			for _, p := range report.Problems {
				fmt.Printf("  - %s\n", p)
			}
			return fmt.Errorf("rules file has %d problem(s)", len(report.Problems))
		},
	}
}

// matcherCell renders a rule's matcher in one table cell.
func matcherCell(r *primary.RuleView) string {
	switch r.MatcherKind {
	case models.MatcherKeywords:
		cell := strings.Join(r.Keywords, ",")
		if r.WholeWord {
			cell += " (whole word)"
		}
		return cell
	case models.MatcherPattern:
		return "/" + r.Pattern + "/"
	default:
		return r.MatcherKind
	}
}
