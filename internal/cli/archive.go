package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/curator/internal/wire"
)

// ArchiveCmd returns the archive command
func ArchiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "archive",
		Short: "Upload a status report to the configured archive",
		Long: `Render the current status report as JSON and upload it to the
configured S3-compatible archive bucket.

Requires an archive block in ~/.curator/config.yaml.

Examples:
  curator archive`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()

			key, err := wire.ReportService().Export(ctx)
			if err != nil {
				return fmt.Errorf("failed to export report: %w", err)
			}

			fmt.Printf("✓ Uploaded %s\n", key)
			return nil
		},
	}
}
