package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/curator/internal/ports/secondary"
)

// SuggestionRepository implements secondary.SuggestionRepository with SQLite.
type SuggestionRepository struct {
	db *sql.DB
}

// NewSuggestionRepository creates a new SQLite suggestion repository.
func NewSuggestionRepository(db *sql.DB) *SuggestionRepository {
	return &SuggestionRepository{db: db}
}

// Upsert stores a suggestion, replacing any previous one for the same name.
func (r *SuggestionRepository) Upsert(ctx context.Context, record *secondary.SuggestionRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO suggestions (name, category, source, confidence)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
		   category = excluded.category,
		   source = excluded.source,
		   confidence = excluded.confidence`,
		record.Name, record.Category, record.Source, record.Confidence,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert suggestion for %q: %w", record.Name, err)
	}
	return nil
}

// GetByName retrieves the suggestion for a name, or nil when none exists.
func (r *SuggestionRepository) GetByName(ctx context.Context, name string) (*secondary.SuggestionRecord, error) {
	var createdAt time.Time
	record := &secondary.SuggestionRecord{}
	err := r.db.QueryRowContext(ctx,
		"SELECT name, category, source, confidence, created_at FROM suggestions WHERE name = ?",
		name,
	).Scan(&record.Name, &record.Category, &record.Source, &record.Confidence, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get suggestion: %w", err)
	}
	record.CreatedAt = createdAt.Format(time.RFC3339)
	return record, nil
}

// List retrieves suggestions with optional filters.
func (r *SuggestionRepository) List(ctx context.Context, filters secondary.SuggestionFilters) ([]*secondary.SuggestionRecord, error) {
	query := "SELECT name, category, source, confidence, created_at FROM suggestions WHERE 1=1"
	args := []interface{}{}

	if filters.Source != "" {
		query += " AND source = ?"
		args = append(args, filters.Source)
	}

	query += " ORDER BY confidence DESC, name ASC"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list suggestions: %w", err)
	}
	defer rows.Close()

	var records []*secondary.SuggestionRecord
	for rows.Next() {
		var createdAt time.Time
		record := &secondary.SuggestionRecord{}
		err := rows.Scan(&record.Name, &record.Category, &record.Source, &record.Confidence, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan suggestion: %w", err)
		}
		record.CreatedAt = createdAt.Format(time.RFC3339)
		records = append(records, record)
	}

	return records, rows.Err()
}

// Delete removes a suggestion, typically after it is promoted to a rule.
func (r *SuggestionRepository) Delete(ctx context.Context, name string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM suggestions WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("failed to delete suggestion: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("suggestion for %q not found", name)
	}

	return nil
}

// Ensure SuggestionRepository implements the interface
var _ secondary.SuggestionRepository = (*SuggestionRepository)(nil)
