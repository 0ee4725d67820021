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

// ClassifyCmd returns the classify command
func ClassifyCmd() *cobra.Command {
	var saveReview bool

	cmd := &cobra.Command{
		Use:   "classify [folder...]",
		Short: "Classify in-scope folders against the stored rules",
		Long: `Classify every in-scope top-level folder and item against the
stored rule set and show where each one would go. A pure preview:
nothing is planned or moved.

With folder names as arguments only those top-level folders are
classified. --save-review records the unmatched names so a later
advisor pass can pick them up.

Examples:
  curator classify
  curator classify Unsorted "New Purchases"
  curator classify --save-review`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireBridge(); err != nil {
				return err
			}
			ctx := NewContext()

			resp, err := wire.ClassifyService().ClassifyInventory(ctx, primary.ClassifyRequest{
				Scope: args,
			})
			if err != nil {
				return fmt.Errorf("failed to classify: %w", err)
			}

			if len(resp.Classifications) == 0 {
				fmt.Println("Nothing to classify.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "NAME\tTARGET\tCONFIDENCE\tRULE")
			fmt.Fprintln(w, "----\t------\t----------\t----")
			for _, c := range resp.Classifications {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.Name, targetCell(c), confidenceCell(c.Confidence), c.RuleName)
			}
			w.Flush()

			fmt.Println()
			fmt.Printf("%d classified, %d unmatched, %d ambiguous\n", resp.Classified, resp.Unmatched, resp.Ambiguous)

			if saveReview {
				unmatched := unmatchedNames(resp.Classifications)
				recorded, err := wire.SuggestService().RecordUnmatched(ctx, unmatched)
				if err != nil {
					return fmt.Errorf("failed to record unmatched names: %w", err)
				}
				fmt.Printf("✓ Recorded %d unmatched name(s) for review\n", recorded)
				if recorded > 0 {
					fmt.Println()
					fmt.Println("💡 Ask the advisor about them:")
					fmt.Println("   curator suggest")
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&saveReview, "save-review", false, "Record unmatched names for a later advisor pass")

	cmd.AddCommand(classifyNameCmd())

	return cmd
}

func classifyNameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "name [name]",
		Short: "Classify a single name without touching the remote store",
		Long: `Run one name through the rule set and show the match, for rule
debugging. The name is treated as a folder so brand layering applies.

Examples:
  curator classify name "Blueberry - Summer Dress - Maitreya"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()

			view, err := wire.ClassifyService().ClassifyName(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to classify name: %w", err)
			}

			fmt.Printf("Name: %s\n", view.Name)
			fmt.Printf("Normalized: %s\n", view.NormalizedName)
			fmt.Printf("Confidence: %s\n", confidenceCell(view.Confidence))
			if view.TargetPath != "" {
				fmt.Printf("Target: %s\n", view.TargetPath)
			}
			if view.RuleName != "" {
				fmt.Printf("Rule: %s\n", view.RuleName)
			}
			if view.Brand != "" {
				fmt.Printf("Brand: %s\n", view.Brand)
			}
			if view.ProductSubfolder != "" {
				fmt.Printf("Product subfolder: %s\n", view.ProductSubfolder)
			}
			if view.AlsoMatched != "" {
				fmt.Printf("Also matched: %s\n", view.AlsoMatched)
			}
			return nil
		},
	}
}

// unmatchedNames collects the names the pass could not place.
func unmatchedNames(views []*primary.ClassificationView) []string {
	var out []string
	for _, c := range views {
		if c.Confidence == models.ConfidenceUnmatched {
			out = append(out, c.Name)
		}
	}
	return out
}

func targetCell(c *primary.ClassificationView) string {
	if c.TargetPath == "" {
		return "-"
	}
	return c.TargetPath
}

// confidenceCell renders a colored confidence marker.
func confidenceCell(confidence string) string {
	switch confidence {
	case models.ConfidenceMatched:
		return color.New(color.FgGreen).Sprint(confidence)
	case models.ConfidenceAmbiguous:
		return color.New(color.FgYellow).Sprint(confidence)
	case models.ConfidenceUnmatched:
		return color.New(color.FgRed).Sprint(confidence)
	default:
		return confidence
	}
}
