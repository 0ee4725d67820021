package db

import (
	"database/sql"
	"fmt"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.DB) error
}

// migrations is the list of all migrations in order
var migrations = []Migration{
	{
		Version: 1,
		Name:    "baseline_rules_plans_operations_index",
		Up:      migrationV1,
	},
	{
		Version: 2,
		Name:    "add_suggestions_and_activity_log",
		Up:      migrationV2,
	},
	{
		Version: 3,
		Name:    "add_run_id_to_plans",
		Up:      migrationV3,
	},
}

// RunMigrations applies all pending migrations in order
func RunMigrations() error {
	db, err := GetDB()
	if err != nil {
		return fmt.Errorf("failed to get database: %w", err)
	}

	// Create schema_version table if it doesn't exist
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	// Get current schema version
	var currentVersion int
	err = db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	// Run pending migrations
	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		fmt.Printf("Running migration %d: %s\n", migration.Version, migration.Name)

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
		}

		if err := migration.Up(db); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}

		_, err = tx.Exec("INSERT INTO schema_version (version) VALUES (?)", migration.Version)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}

		fmt.Printf("✓ Migration %d completed\n", migration.Version)
	}

	return nil
}

// migrationV1 creates the baseline tables: rules, plans, operations and
// the folder index snapshot.
func migrationV1(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS rules (
			name TEXT PRIMARY KEY,
			priority INTEGER NOT NULL,
			seq INTEGER NOT NULL,
			matcher_kind TEXT NOT NULL CHECK(matcher_kind IN ('keywords', 'pattern')),
			keywords TEXT,
			whole_word INTEGER NOT NULL DEFAULT 1,
			pattern TEXT,
			target_path TEXT NOT NULL,
			brand_subfolder INTEGER NOT NULL DEFAULT 0,
			subfolder_rules TEXT,
			description TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create rules: %w", err)
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_rules_priority ON rules(priority DESC, seq ASC)`)
	if err != nil {
		return fmt.Errorf("failed to index rules: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS plans (
			id TEXT PRIMARY KEY,
			category TEXT NOT NULL,
			status TEXT NOT NULL CHECK(status IN ('pending', 'needs_review', 'needs_special_handling', 'executing', 'executed', 'failed')) DEFAULT 'pending',
			description TEXT,
			op_count INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			executed_at DATETIME
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create plans: %w", err)
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_plans_status ON plans(status)`)
	if err != nil {
		return fmt.Errorf("failed to index plans: %w", err)
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_plans_category ON plans(category)`)
	if err != nil {
		return fmt.Errorf("failed to index plans by category: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS operations (
			plan_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			kind TEXT NOT NULL CHECK(kind IN ('create_folder', 'move_item', 'move_contents')),
			source_id TEXT,
			source_name TEXT,
			target_path TEXT NOT NULL,
			outcome TEXT NOT NULL CHECK(outcome IN ('pending', 'succeeded', 'skipped_already_satisfied', 'failed')) DEFAULT 'pending',
			reason TEXT,
			executed_at DATETIME,
			PRIMARY KEY (plan_id, seq),
			FOREIGN KEY (plan_id) REFERENCES plans(id) ON DELETE CASCADE
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create operations: %w", err)
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_operations_outcome ON operations(plan_id, outcome)`)
	if err != nil {
		return fmt.Errorf("failed to index operations: %w", err)
	}

	// One row per (path, remote folder) registration, in registration
	// order. The same path key may appear under several remote IDs when
	// the viewer holds duplicate folders.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS index_snapshot (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			path_key TEXT NOT NULL,
			path TEXT NOT NULL,
			remote_id TEXT NOT NULL,
			registered_at DATETIME NOT NULL,
			refreshed_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (path_key, remote_id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create index_snapshot: %w", err)
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_index_snapshot_remote ON index_snapshot(remote_id)`)
	if err != nil {
		return fmt.Errorf("failed to index index_snapshot: %w", err)
	}

	return nil
}

// migrationV2 adds the advisor suggestion cache and the activity log.
func migrationV2(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS suggestions (
			name TEXT PRIMARY KEY,
			category TEXT NOT NULL,
			source TEXT NOT NULL CHECK(source IN ('advisor', 'manual', 'unmatched')),
			confidence REAL NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create suggestions: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS activity_log (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			actor TEXT NOT NULL,
			action TEXT NOT NULL,
			plan_id TEXT,
			detail TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create activity_log: %w", err)
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_activity_log_plan ON activity_log(plan_id)`)
	if err != nil {
		return fmt.Errorf("failed to index activity_log: %w", err)
	}

	return nil
}

// migrationV3 adds run ownership to plans so one executor run can claim a
// plan exclusively.
func migrationV3(db *sql.DB) error {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM pragma_table_info('plans') WHERE name='run_id'").Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to inspect plans columns: %w", err)
	}
	if count > 0 {
		return nil
	}

	_, err = db.Exec(`ALTER TABLE plans ADD COLUMN run_id TEXT`)
	if err != nil {
		return fmt.Errorf("failed to add run_id to plans: %w", err)
	}

	return nil
}
