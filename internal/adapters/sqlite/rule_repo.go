// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/curator/internal/ports/secondary"
)

// RuleRepository implements secondary.RuleRepository with SQLite.
type RuleRepository struct {
	db *sql.DB
}

// NewRuleRepository creates a new SQLite rule repository.
func NewRuleRepository(db *sql.DB) *RuleRepository {
	return &RuleRepository{db: db}
}

// ReplaceAll atomically swaps the stored rule set for the given one.
func (r *RuleRepository) ReplaceAll(ctx context.Context, rules []*secondary.RuleRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin rule replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM rules"); err != nil {
		return fmt.Errorf("failed to clear rules: %w", err)
	}

	for _, rule := range rules {
		var keywords, pattern, subfolders, desc sql.NullString
		if rule.Keywords != "" {
			keywords = sql.NullString{String: rule.Keywords, Valid: true}
		}
		if rule.Pattern != "" {
			pattern = sql.NullString{String: rule.Pattern, Valid: true}
		}
		if rule.SubfolderRules != "" {
			subfolders = sql.NullString{String: rule.SubfolderRules, Valid: true}
		}
		if rule.Description != "" {
			desc = sql.NullString{String: rule.Description, Valid: true}
		}

		_, err := tx.ExecContext(ctx,
			`INSERT INTO rules (name, priority, seq, matcher_kind, keywords, whole_word, pattern, target_path, brand_subfolder, subfolder_rules, description)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			rule.Name, rule.Priority, rule.Seq, rule.MatcherKind, keywords,
			rule.WholeWord, pattern, rule.TargetPath, rule.BrandSubfolder, subfolders, desc,
		)
		if err != nil {
			return fmt.Errorf("failed to insert rule %s: %w", rule.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit rule replace: %w", err)
	}

	return nil
}

// List retrieves the full rule set ordered by priority then seq.
func (r *RuleRepository) List(ctx context.Context) ([]*secondary.RuleRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name, priority, seq, matcher_kind, keywords, whole_word, pattern, target_path, brand_subfolder, subfolder_rules, description, created_at
		 FROM rules ORDER BY priority DESC, seq ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}
	defer rows.Close()

	var rules []*secondary.RuleRecord
	for rows.Next() {
		var (
			keywords   sql.NullString
			pattern    sql.NullString
			subfolders sql.NullString
			desc       sql.NullString
			createdAt  time.Time
		)

		record := &secondary.RuleRecord{}
		err := rows.Scan(&record.Name, &record.Priority, &record.Seq, &record.MatcherKind,
			&keywords, &record.WholeWord, &pattern, &record.TargetPath,
			&record.BrandSubfolder, &subfolders, &desc, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}

		record.Keywords = keywords.String
		record.Pattern = pattern.String
		record.SubfolderRules = subfolders.String
		record.Description = desc.String
		record.CreatedAt = createdAt.Format(time.RFC3339)

		rules = append(rules, record)
	}

	return rules, rows.Err()
}

// Count returns the number of stored rules.
func (r *RuleRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM rules").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count rules: %w", err)
	}
	return count, nil
}

// Ensure RuleRepository implements the interface
var _ secondary.RuleRepository = (*RuleRepository)(nil)
