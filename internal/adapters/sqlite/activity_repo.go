package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/curator/internal/ports/secondary"
)

// ActivityRepository implements secondary.ActivityRepository with SQLite.
type ActivityRepository struct {
	db *sql.DB
}

// NewActivityRepository creates a new SQLite activity repository.
func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Append writes one activity entry and fills in its assigned ID.
func (r *ActivityRepository) Append(ctx context.Context, entry *secondary.ActivityRecord) error {
	var planID, detail sql.NullString
	if entry.PlanID != "" {
		planID = sql.NullString{String: entry.PlanID, Valid: true}
	}
	if entry.Detail != "" {
		detail = sql.NullString{String: entry.Detail, Valid: true}
	}

	result, err := r.db.ExecContext(ctx,
		"INSERT INTO activity_log (actor, action, plan_id, detail) VALUES (?, ?, ?, ?)",
		entry.Actor, entry.Action, planID, detail,
	)
	if err != nil {
		return fmt.Errorf("failed to append activity: %w", err)
	}

	if id, err := result.LastInsertId(); err == nil {
		entry.ID = id
	}

	return nil
}

// ListRecent retrieves the newest entries, optionally scoped to a plan.
func (r *ActivityRepository) ListRecent(ctx context.Context, planID string, limit int) ([]*secondary.ActivityRecord, error) {
	query := "SELECT id, actor, action, plan_id, detail, created_at FROM activity_log WHERE 1=1"
	args := []interface{}{}

	if planID != "" {
		query += " AND plan_id = ?"
		args = append(args, planID)
	}

	query += " ORDER BY id DESC"

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	var entries []*secondary.ActivityRecord
	for rows.Next() {
		var (
			planIDVal sql.NullString
			detail    sql.NullString
			createdAt time.Time
		)

		entry := &secondary.ActivityRecord{}
		err := rows.Scan(&entry.ID, &entry.Actor, &entry.Action, &planIDVal, &detail, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity entry: %w", err)
		}

		entry.PlanID = planIDVal.String
		entry.Detail = detail.String
		entry.CreatedAt = createdAt.Format(time.RFC3339)

		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// Ensure ActivityRepository implements the interface
var _ secondary.ActivityRepository = (*ActivityRepository)(nil)
