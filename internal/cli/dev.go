package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/curator/internal/db"
)

// DevCmd returns the dev command group for development utilities.
func DevCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Development utilities (use via curator-dev shim)",
		Long: `Development utilities for working with the curator dev database.

These commands are intended to be run via the curator-dev shim, which
sets CURATOR_DB_PATH to ~/.curator/dev.db. Running without the shim
will error to prevent accidental modification of the production
database.`,
	}

	cmd.AddCommand(devResetCmd())
	return cmd
}

func devResetCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset dev database with fresh fixtures",
		Long: `Delete the dev database and recreate it with fixture data.

This command:
1. Deletes the existing dev database file
2. Creates a fresh database with the current schema
3. Seeds fixture data for development

Safety: This command requires CURATOR_DB_PATH to be set (via the
curator-dev shim) to prevent accidental reset of the production
database.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Safety check: require CURATOR_DB_PATH to be set
			dbPath := os.Getenv("CURATOR_DB_PATH")
			if dbPath == "" {
				return fmt.Errorf("CURATOR_DB_PATH not set - use 'curator-dev dev reset' instead of 'curator dev reset'\n\nThis safety check prevents accidental reset of your production database")
			}

			// Confirmation unless --force
			if !force {
				fmt.Printf("This will delete and recreate: %s\n", dbPath)
				fmt.Print("Continue? [y/N] ")
				var response string
				fmt.Scanln(&response)
				if response != "y" && response != "Y" {
					fmt.Println("Aborted.")
					return nil
				}
			}

			// Close any existing DB connection
			db.Close()

			// Delete existing database
			if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to delete database: %w", err)
			}
			fmt.Printf("✓ Deleted %s\n", dbPath)

			// Create fresh database with schema
			database, err := db.GetDB()
			if err != nil {
				return fmt.Errorf("failed to create database: %w", err)
			}
			fmt.Println("✓ Created fresh database with schema")

			// Seed fixtures
			if err := db.SeedFixtures(database); err != nil {
				return fmt.Errorf("failed to seed fixtures: %w", err)
			}
			fmt.Println("✓ Seeded fixture data")

			fmt.Println("\nDev database reset complete!")
			fmt.Println("\nSeeded entities:")
			fmt.Println("  - 4 rules")
			fmt.Println("  - 4 plans across the lifecycle")
			fmt.Println("  - 10 operations")
			fmt.Println("  - 7 indexed folders")
			fmt.Println("  - 3 suggestions")

			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")
	return cmd
}
