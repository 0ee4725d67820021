// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/curator/internal/ports/secondary"
)

// PlanRepository implements secondary.PlanRepository with SQLite.
type PlanRepository struct {
	db        *sql.DB
	logWriter secondary.LogWriter
}

// NewPlanRepository creates a new SQLite plan repository.
// logWriter is optional - if nil, no audit logging is performed.
func NewPlanRepository(db *sql.DB, logWriter secondary.LogWriter) *PlanRepository {
	return &PlanRepository{db: db, logWriter: logWriter}
}

// Create persists a new plan.
func (r *PlanRepository) Create(ctx context.Context, plan *secondary.PlanRecord) error {
	var desc sql.NullString
	if plan.Description != "" {
		desc = sql.NullString{String: plan.Description, Valid: true}
	}

	status := plan.Status
	if status == "" {
		status = "pending"
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO plans (id, category, status, description, op_count) VALUES (?, ?, ?, ?, ?)",
		plan.ID, plan.Category, status, desc, plan.OpCount,
	)
	if err != nil {
		return fmt.Errorf("failed to create plan: %w", err)
	}

	if r.logWriter != nil {
		_ = r.logWriter.LogCreate(ctx, "plan", plan.ID)
	}

	return nil
}

// GetByID retrieves a plan by its ID.
func (r *PlanRepository) GetByID(ctx context.Context, id string) (*secondary.PlanRecord, error) {
	record, err := r.scanPlan(r.db.QueryRowContext(ctx,
		`SELECT id, category, status, description, run_id, op_count, created_at, updated_at, executed_at
		 FROM plans WHERE id = ?`,
		id,
	))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("plan %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	return record, nil
}

// List retrieves plans matching the given filters.
func (r *PlanRepository) List(ctx context.Context, filters secondary.PlanFilters) ([]*secondary.PlanRecord, error) {
	query := `SELECT id, category, status, description, run_id, op_count, created_at, updated_at, executed_at
		FROM plans WHERE 1=1`
	args := []any{}

	if filters.Category != "" {
		query += " AND category = ?"
		args = append(args, filters.Category)
	}

	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, filters.Status)
	}

	query += " ORDER BY created_at DESC, id DESC"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	defer rows.Close()

	var plans []*secondary.PlanRecord
	for rows.Next() {
		record, err := r.scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		plans = append(plans, record)
	}

	return plans, rows.Err()
}

// UpdateStatus updates the plan status.
func (r *PlanRepository) UpdateStatus(ctx context.Context, id, status string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE plans SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		status, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update plan status: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("plan %s not found", id)
	}

	return nil
}

// Claim atomically moves an executable plan into executing under the
// given run ID. The status predicate makes concurrent claims mutually
// exclusive: exactly one UPDATE wins.
func (r *PlanRepository) Claim(ctx context.Context, id, runID string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE plans SET status = 'executing', run_id = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND status IN ('pending', 'failed', 'executed')`,
		runID, id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to claim plan: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	return rowsAffected > 0, nil
}

// Finish releases a claimed plan into its terminal status and stamps
// executed_at.
func (r *PlanRepository) Finish(ctx context.Context, id, status string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE plans SET status = ?, run_id = NULL, executed_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND status = 'executing'`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("failed to finish plan: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("plan %s is not executing", id)
	}

	if r.logWriter != nil {
		_ = r.logWriter.LogStatusChange(ctx, "plan", id, "executing", status)
	}

	return nil
}

// Delete removes a plan from persistence. Operations go with it via the
// foreign key cascade.
func (r *PlanRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM plans WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete plan: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("plan %s not found", id)
	}

	return nil
}

// GetNextID returns the next available plan ID.
func (r *PlanRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, 6) AS INTEGER)), 0) FROM plans",
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next plan ID: %w", err)
	}

	return fmt.Sprintf("PLAN-%03d", maxID+1), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PlanRepository) scanPlan(row rowScanner) (*secondary.PlanRecord, error) {
	var (
		desc       sql.NullString
		runID      sql.NullString
		createdAt  time.Time
		updatedAt  time.Time
		executedAt sql.NullTime
	)

	record := &secondary.PlanRecord{}
	err := row.Scan(&record.ID, &record.Category, &record.Status, &desc, &runID,
		&record.OpCount, &createdAt, &updatedAt, &executedAt)
	if err != nil {
		return nil, err
	}

	record.Description = desc.String
	record.RunID = runID.String
	record.CreatedAt = createdAt.Format(time.RFC3339)
	record.UpdatedAt = updatedAt.Format(time.RFC3339)
	if executedAt.Valid {
		record.ExecutedAt = executedAt.Time.Format(time.RFC3339)
	}

	return record, nil
}

// Ensure PlanRepository implements the interface
var _ secondary.PlanRepository = (*PlanRepository)(nil)
