package db

import (
	"database/sql"
	"fmt"
	"time"
)

// SeedFixtures populates the database with development fixtures: a small
// rule set, plans in every lifecycle state, their operations, a folder
// index snapshot and a few advisor suggestions.
func SeedFixtures(database *sql.DB) error {
	now := time.Now().Format(time.RFC3339)

	// Rules (keywords and subfolder_rules are stored as JSON)
	rules := []struct {
		name     string
		priority int
		seq      int
		kind     string
		keywords string
		pattern  string
		target   string
		brand    int
	}{
		{"Demos", 90, 1, "pattern", "", `\bdemo\b`, "_Demos", 0},
		{"Corsets", 87, 2, "keywords", `["corset","corsets"]`, "", "BDSM/Clothing/Corsets", 1},
		{"Hair", 78, 3, "keywords", `["Hair","Hairstyle","Magika","Truth"]`, "", "Body Parts/Hair", 1},
		{"Clothing", 70, 4, "keywords", `["Dress","Gown","Skirt","Jacket"]`, "", "Clothing", 1},
	}
	for _, r := range rules {
		if _, err := database.Exec(
			`INSERT INTO rules (name, priority, seq, matcher_kind, keywords, whole_word, pattern, target_path, brand_subfolder, created_at)
			 VALUES (?, ?, ?, ?, NULLIF(?, ''), 1, NULLIF(?, ''), ?, ?, ?)`,
			r.name, r.priority, r.seq, r.kind, r.keywords, r.pattern, r.target, r.brand, now,
		); err != nil {
			return fmt.Errorf("seed rules: %w", err)
		}
	}

	// Plans across the lifecycle
	plans := []struct {
		id, category, status, description string
		opCount                           int
	}{
		{"PLAN-001", "Clothing", "executed", "4 entries classified into Clothing", 4},
		{"PLAN-002", "BDSM", "pending", "2 entries classified into BDSM", 3},
		{"PLAN-003", "Review", "needs_review", "1 entry matched more than one rule", 1},
		{"PLAN-004", "Body Parts", "failed", "2 entries classified into Body Parts", 2},
	}
	for _, p := range plans {
		if _, err := database.Exec(
			"INSERT INTO plans (id, category, status, description, op_count, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
			p.id, p.category, p.status, p.description, p.opCount, now, now,
		); err != nil {
			return fmt.Errorf("seed plans: %w", err)
		}
	}

	// Operations
	ops := []struct {
		planID                       string
		seq                          int
		kind, sourceID, name, target string
		outcome                      string
		reason                       string
	}{
		{"PLAN-001", 1, "create_folder", "", "", "Clothing/Maitreya", "succeeded", ""},
		{"PLAN-001", 2, "create_folder", "", "", "Clothing/Maitreya/Dress", "succeeded", ""},
		{"PLAN-001", 3, "move_contents", "b7e2c9d1", "Maitreya Dress (Add Me)", "Clothing/Maitreya/Dress", "succeeded", ""},
		{"PLAN-001", 4, "move_item", "a1f4d8e2", "Cuban heel pumps", "Clothing/Shoes", "succeeded", ""},
		{"PLAN-002", 1, "create_folder", "", "", "BDSM/Equipment", "pending", ""},
		{"PLAN-002", 2, "create_folder", "", "", "BDSM/Equipment/KDC", "pending", ""},
		{"PLAN-002", 3, "move_contents", "c3a9b0f7", "KDC Slave cuffs", "BDSM/Equipment/KDC", "pending", ""},
		{"PLAN-003", 1, "move_contents", "d8e1a2b3", "BDSM Corset Harness", "BDSM/Clothing/Corsets", "pending", `also matched rule "BDSM Restraints"`},
		{"PLAN-004", 1, "move_contents", "e9f2b3c4", "Magika - Sadie Hair", "Body Parts/Hair/Magika/Sadie", "succeeded", ""},
		{"PLAN-004", 2, "move_contents", "f0a3c4d5", "Truth - Lana Hair", "Body Parts/Hair/Truth/Lana", "failed", "remote call failed: timeout"},
	}
	for _, o := range ops {
		if _, err := database.Exec(
			`INSERT INTO operations (plan_id, seq, kind, source_id, source_name, target_path, outcome, reason)
			 VALUES (?, ?, ?, NULLIF(?, ''), NULLIF(?, ''), ?, ?, NULLIF(?, ''))`,
			o.planID, o.seq, o.kind, o.sourceID, o.name, o.target, o.outcome, o.reason,
		); err != nil {
			return fmt.Errorf("seed operations: %w", err)
		}
	}

	// Folder index snapshot
	folders := []struct{ key, path, remoteID string }{
		{"clothing", "Clothing", "11111111-aaaa"},
		{"clothing/shoes", "Clothing/Shoes", "22222222-bbbb"},
		{"clothing/maitreya", "Clothing/Maitreya", "33333333-cccc"},
		{"clothing/maitreya/dress", "Clothing/Maitreya/Dress", "44444444-dddd"},
		{"bdsm", "BDSM", "55555555-eeee"},
		{"body parts", "Body Parts", "66666666-ffff"},
		{"body parts/hair", "Body Parts/Hair", "77777777-0000"},
	}
	for _, f := range folders {
		if _, err := database.Exec(
			"INSERT INTO index_snapshot (path_key, path, remote_id, registered_at, refreshed_at) VALUES (?, ?, ?, ?, ?)",
			f.key, f.path, f.remoteID, now, now,
		); err != nil {
			return fmt.Errorf("seed index_snapshot: %w", err)
		}
	}

	// Suggestions
	suggestions := []struct {
		name, category, source string
		confidence             float64
	}{
		{"Kalhene Anatomy Add-on", "Body Parts/Bodies", "advisor", 0.82},
		{"Foxy Roulette Gacha", "Objects/Check", "advisor", 0.55},
		{"mystery folder", "Objects", "manual", 1.0},
	}
	for _, s := range suggestions {
		if _, err := database.Exec(
			"INSERT INTO suggestions (name, category, source, confidence, created_at) VALUES (?, ?, ?, ?, ?)",
			s.name, s.category, s.source, s.confidence, now,
		); err != nil {
			return fmt.Errorf("seed suggestions: %w", err)
		}
	}

	// Activity log
	activities := []struct{ actor, action, planID, detail string }{
		{"cli", "plan_built", "PLAN-001", "4 operations"},
		{"cli", "plan_executed", "PLAN-001", "4 succeeded"},
		{"cli", "plan_built", "PLAN-004", "2 operations"},
		{"cli", "plan_failed", "PLAN-004", "1 failed"},
	}
	for _, a := range activities {
		if _, err := database.Exec(
			"INSERT INTO activity_log (actor, action, plan_id, detail, created_at) VALUES (?, ?, ?, ?, ?)",
			a.actor, a.action, a.planID, a.detail, now,
		); err != nil {
			return fmt.Errorf("seed activity_log: %w", err)
		}
	}

	return nil
}
