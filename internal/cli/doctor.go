package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/curator/internal/adapters/corrade"
	"github.com/example/curator/internal/adapters/sqlite"
	"github.com/example/curator/internal/config"
	"github.com/example/curator/internal/db"
)

// DoctorCmd returns the doctor command
func DoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the curator environment health",
		Long: `Check the health of the curator environment.

Verifies:
- The config file loads and validates
- The database opens and has rules installed
- The Corrade bridge is configured and answers a ping

Run this after editing the config or when a command misbehaves.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			issues := 0

			fmt.Println("=== Curator Environment Health Check ===")
			fmt.Println()

			// 1. Configuration
			fmt.Println("1. Configuration")
			cfgPath, err := config.DefaultPath()
			if err != nil {
				fmt.Printf("   ✗ Cannot resolve config path: %v\n", err)
				issues++
			} else if _, statErr := os.Stat(cfgPath); os.IsNotExist(statErr) {
				fmt.Printf("   ✓ No config file at %s (defaults in use)\n", cfgPath)
			} else {
				fmt.Printf("   ✓ Config file: %s\n", cfgPath)
			}

			cfg, err := config.LoadDefault()
			if err != nil {
				issues++
				fmt.Printf("   ✗ Config does not load: %v\n", err)
				fmt.Println()
				fmt.Printf("   FIX: Edit %s\n", cfgPath)
				fmt.Println()
				fmt.Printf("=== %d issue(s) found ===\n", issues)
				os.Exit(1)
			}

			// 2. Database
			fmt.Println()
			fmt.Println("2. Database")
			dbPath, err := db.GetDBPath()
			if err != nil {
				issues++
				fmt.Printf("   ✗ Cannot resolve database path: %v\n", err)
			} else if info, statErr := os.Stat(dbPath); statErr != nil {
				fmt.Printf("   ✓ No database at %s yet (created on first use)\n", dbPath)
			} else {
				fmt.Printf("   ✓ Database exists (%d KB)\n", info.Size()/1024)
			}

			database, err := db.GetDB()
			if err != nil {
				issues++
				fmt.Printf("   ✗ Database does not open: %v\n", err)
				database = nil
			}

			// 3. Rules
			fmt.Println()
			fmt.Println("3. Rules")
			if database == nil {
				fmt.Println("   ⚠ Skipped (database unavailable)")
			} else {
				count, err := sqlite.NewRuleRepository(database).Count(context.Background())
				switch {
				case err != nil:
					issues++
					fmt.Printf("   ✗ Cannot count rules: %v\n", err)
				case count == 0:
					issues++
					fmt.Println("   ✗ No rules installed")
					fmt.Println()
					fmt.Println("   FIX: Run 'curator rules seed'")
				default:
					fmt.Printf("   ✓ %d rule(s) installed\n", count)
				}
			}

			// 4. Bridge
			fmt.Println()
			fmt.Println("4. Corrade Bridge")
			if !cfg.BridgeConfigured() {
				issues++
				fmt.Println("   ✗ Bridge not configured")
				fmt.Println()
				fmt.Printf("   FIX: Set bridge.url in %s\n", cfgPath)
			} else {
				client := corrade.NewClient(corrade.Config{
					URL:               cfg.Bridge.URL,
					Group:             cfg.Bridge.Group,
					Password:          cfg.Bridge.Password,
					Root:              cfg.Bridge.Root,
					RequestsPerSecond: cfg.Bridge.RequestsPerSecond,
					Timeout:           cfg.Bridge.Timeout.Std(),
				})

				ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
				defer cancel()

				if err := client.Ping(ctx); err != nil {
					issues++
					fmt.Printf("   ✗ Bridge not answering: %v\n", err)
					fmt.Println()
					fmt.Println("   FIX: Check that Corrade is running and the group/password match")
				} else {
					fmt.Printf("   ✓ Bridge answering at %s\n", cfg.Bridge.URL)
				}
			}

			// Summary
			fmt.Println()
			if issues == 0 {
				fmt.Println("=== All checks passed! ===")
			} else {
				fmt.Printf("=== %d issue(s) found ===\n", issues)
				os.Exit(1)
			}
			return nil
		},
	}
}
