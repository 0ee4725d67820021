package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/curator/internal/ports/primary"
	"github.com/example/curator/internal/wire"
)

// SuggestCmd returns the suggest command with all subcommands
func SuggestCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "suggest [name...]",
		Short: "Ask the category advisor about unmatched folder names",
		Long: `Ask the configured advisor for category proposals. Without
arguments the recorded unmatched backlog is used; with arguments only
the named folders are asked about. Proposals are cached, so repeated
runs do not call the advisor again for the same name.

Requires an advisor block in ~/.curator/config.yaml.

Examples:
  curator suggest
  curator suggest "Maitreya Lara" "Blueprint Crate"
  curator suggest list
  curator suggest accept "Blueprint Crate" Objects`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()

			suggestions, err := wire.SuggestService().SuggestUnmatched(ctx, primary.SuggestRequest{Names: args, Limit: limit})
			if err != nil {
				return fmt.Errorf("failed to get suggestions: %w", err)
			}

			if len(suggestions) == 0 {
				fmt.Println("Nothing to suggest. The unmatched backlog is empty.")
				fmt.Println()
				fmt.Println("💡 Record unmatched names first:")
				fmt.Println("   curator classify --save-review")
				return nil
			}

			printSuggestions(suggestions)

			fmt.Println()
			fmt.Println("💡 Accept a proposal:")
			fmt.Println("   curator suggest accept [name] [category]")
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of backlog names to ask about")

	cmd.AddCommand(suggestListCmd())
	cmd.AddCommand(suggestAcceptCmd())

	return cmd
}

func suggestListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored suggestions and decisions",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()

			suggestions, err := wire.SuggestService().ListSuggestions(ctx, limit)
			if err != nil {
				return fmt.Errorf("failed to list suggestions: %w", err)
			}

			if len(suggestions) == 0 {
				fmt.Println("No suggestions stored.")
				return nil
			}

			printSuggestions(suggestions)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of suggestions to show")

	return cmd
}

func suggestAcceptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "accept [name] [category]",
		Short: "Record a manual category decision for a name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()

			if err := wire.SuggestService().Accept(ctx, args[0], args[1]); err != nil {
				return fmt.Errorf("failed to accept suggestion: %w", err)
			}

			fmt.Printf("✓ Recorded %s as %s\n", args[0], args[1])
			fmt.Println()
			fmt.Println("💡 Promote the decision into a rule to classify with it:")
			fmt.Println("   curator rules list")
			return nil
		},
	}
}

func printSuggestions(suggestions []*primary.SuggestionView) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "NAME\tCATEGORY\tSOURCE\tCONFIDENCE")
	fmt.Fprintln(w, "----\t--------\t------\t----------")
	for _, s := range suggestions {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.Name, categoryOrDash(s.Category), s.Source, confidencePercent(s.Confidence))
	}
	w.Flush()
}

func categoryOrDash(category string) string {
	if category == "" {
		return "-"
	}
	return category
}

func confidencePercent(confidence float64) string {
	if confidence <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.0f%%", confidence*100)
}
