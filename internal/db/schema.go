package db

// SchemaSQL is the complete modern schema for fresh curator installs.
// This schema reflects the current state after all migrations.
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. All tests
// use it via GetSchemaSQL(); repository code that references a column
// missing here fails immediately with "no such column" instead of
// drifting silently. Keep it in sync with the migrations list when adding
// columns or tables.
const SchemaSQL = `
-- Rules (the ordered classification rule set)
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
);

CREATE INDEX IF NOT EXISTS idx_rules_priority ON rules(priority DESC, seq ASC);

-- Plans (ordered batches of move operations with a lifecycle status)
CREATE TABLE IF NOT EXISTS plans (
	id TEXT PRIMARY KEY,
	category TEXT NOT NULL,
	status TEXT NOT NULL CHECK(status IN ('pending', 'needs_review', 'needs_special_handling', 'executing', 'executed', 'failed')) DEFAULT 'pending',
	description TEXT,
	run_id TEXT,
	op_count INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	executed_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_plans_status ON plans(status);
CREATE INDEX IF NOT EXISTS idx_plans_category ON plans(category);

-- Operations (one row per move/create step, owned by a plan)
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
);

CREATE INDEX IF NOT EXISTS idx_operations_outcome ON operations(plan_id, outcome);

-- Folder index snapshot, one row per (path, remote folder) registration
-- in registration order. A path key appears under several remote IDs when
-- the viewer holds duplicate folders.
CREATE TABLE IF NOT EXISTS index_snapshot (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	path_key TEXT NOT NULL,
	path TEXT NOT NULL,
	remote_id TEXT NOT NULL,
	registered_at DATETIME NOT NULL,
	refreshed_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	UNIQUE (path_key, remote_id)
);

CREATE INDEX IF NOT EXISTS idx_index_snapshot_remote ON index_snapshot(remote_id);

-- Suggestions (advisory category mappings for unmatched names)
CREATE TABLE IF NOT EXISTS suggestions (
	name TEXT PRIMARY KEY,
	category TEXT NOT NULL,
	source TEXT NOT NULL CHECK(source IN ('advisor', 'manual', 'unmatched')),
	confidence REAL NOT NULL DEFAULT 0,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Activity log (audit trail of runs and plan transitions)
CREATE TABLE IF NOT EXISTS activity_log (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	actor TEXT NOT NULL,
	action TEXT NOT NULL,
	plan_id TEXT,
	detail TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_activity_log_plan ON activity_log(plan_id);
`

// InitSchema creates the database schema
func InitSchema() error {
	db, err := GetDB()
	if err != nil {
		return err
	}

	// Check if schema_version table exists to determine if this is a fresh install
	var tableCount int
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return err
	}

	if tableCount == 0 {
		// Fresh install - check for pre-versioning tables (migrations needed)
		var oldTableCount int
		err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name IN ('rules', 'plans')").Scan(&oldTableCount)
		if err != nil {
			return err
		}

		if oldTableCount > 0 {
			// Pre-versioning install - run migrations to upgrade
			return RunMigrations()
		}

		// Completely fresh install - create modern schema directly and
		// mark every migration as applied so they never re-run.
		_, err = db.Exec(SchemaSQL)
		if err != nil {
			return err
		}
		_, err = db.Exec(`
			CREATE TABLE IF NOT EXISTS schema_version (
				version INTEGER PRIMARY KEY,
				applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
			)
		`)
		if err != nil {
			return err
		}
		for _, m := range migrations {
			_, err = db.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version)
			if err != nil {
				return err
			}
		}
		return nil
	}

	// schema_version table exists - run any pending migrations
	return RunMigrations()
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
