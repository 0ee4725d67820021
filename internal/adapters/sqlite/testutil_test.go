// Package sqlite_test contains integration tests for SQLite repositories.
//
// This file is the SINGLE POINT where the database schema is loaded for
// tests. All test setup uses db.GetSchemaSQL() so tests run against the
// authoritative schema instead of drifting copies. Do not hardcode CREATE
// TABLE statements in test files; use setupTestDB() and the seed helpers.
package sqlite_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/curator/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	// One connection only: each :memory: connection is its own database,
	// and concurrent tests must all see the same one.
	testDB.SetMaxOpenConns(1)

	if _, err := testDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	// Use the authoritative schema from schema.go
	_, err = testDB.Exec(db.GetSchemaSQL())
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedPlan inserts a test plan and returns its ID.
func seedPlan(t *testing.T, db *sql.DB, id, category, status string) string {
	t.Helper()
	if id == "" {
		id = "PLAN-001"
	}
	if category == "" {
		category = "Clothing"
	}
	if status == "" {
		status = "pending"
	}
	_, err := db.Exec("INSERT INTO plans (id, category, status) VALUES (?, ?, ?)", id, category, status)
	if err != nil {
		t.Fatalf("failed to seed plan: %v", err)
	}
	return id
}
