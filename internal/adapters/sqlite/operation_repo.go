// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/curator/internal/ports/secondary"
)

// OperationRepository implements secondary.OperationRepository with SQLite.
type OperationRepository struct {
	db *sql.DB
}

// NewOperationRepository creates a new SQLite operation repository.
func NewOperationRepository(db *sql.DB) *OperationRepository {
	return &OperationRepository{db: db}
}

// CreateBatch persists a plan's operations in sequence order.
func (r *OperationRepository) CreateBatch(ctx context.Context, planID string, ops []*secondary.OperationRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin operation batch: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO operations (plan_id, seq, kind, source_id, source_name, target_path, outcome, reason)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("failed to prepare operation insert: %w", err)
	}
	defer stmt.Close()

	for _, op := range ops {
		var sourceID, sourceName, reason sql.NullString
		if op.SourceID != "" {
			sourceID = sql.NullString{String: op.SourceID, Valid: true}
		}
		if op.SourceName != "" {
			sourceName = sql.NullString{String: op.SourceName, Valid: true}
		}
		if op.Reason != "" {
			reason = sql.NullString{String: op.Reason, Valid: true}
		}

		outcome := op.Outcome
		if outcome == "" {
			outcome = "pending"
		}

		_, err := stmt.ExecContext(ctx, planID, op.Seq, op.Kind, sourceID, sourceName, op.TargetPath, outcome, reason)
		if err != nil {
			return fmt.Errorf("failed to insert operation %d of %s: %w", op.Seq, planID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit operation batch: %w", err)
	}

	return nil
}

// ListByPlan retrieves a plan's operations ordered by seq.
func (r *OperationRepository) ListByPlan(ctx context.Context, planID string) ([]*secondary.OperationRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT plan_id, seq, kind, source_id, source_name, target_path, outcome, reason, executed_at
		 FROM operations WHERE plan_id = ? ORDER BY seq ASC`,
		planID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list operations: %w", err)
	}
	defer rows.Close()

	var ops []*secondary.OperationRecord
	for rows.Next() {
		var (
			sourceID   sql.NullString
			sourceName sql.NullString
			reason     sql.NullString
			executedAt sql.NullTime
		)

		record := &secondary.OperationRecord{}
		err := rows.Scan(&record.PlanID, &record.Seq, &record.Kind, &sourceID, &sourceName,
			&record.TargetPath, &record.Outcome, &reason, &executedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan operation: %w", err)
		}

		record.SourceID = sourceID.String
		record.SourceName = sourceName.String
		record.Reason = reason.String
		if executedAt.Valid {
			record.ExecutedAt = executedAt.Time.Format(time.RFC3339)
		}

		ops = append(ops, record)
	}

	return ops, rows.Err()
}

// UpdateOutcome records the outcome of one operation.
func (r *OperationRepository) UpdateOutcome(ctx context.Context, planID string, seq int, outcome, reason string) error {
	var reasonVal sql.NullString
	if reason != "" {
		reasonVal = sql.NullString{String: reason, Valid: true}
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE operations SET outcome = ?, reason = ?, executed_at = CURRENT_TIMESTAMP
		 WHERE plan_id = ? AND seq = ?`,
		outcome, reasonVal, planID, seq,
	)
	if err != nil {
		return fmt.Errorf("failed to update operation outcome: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("operation %d of plan %s not found", seq, planID)
	}

	return nil
}

// ResetOutcomes returns failed operations to pending so a plan can be
// re-run without touching already-satisfied ones.
func (r *OperationRepository) ResetOutcomes(ctx context.Context, planID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE operations SET outcome = 'pending', reason = NULL, executed_at = NULL
		 WHERE plan_id = ? AND outcome = 'failed'`,
		planID,
	)
	if err != nil {
		return fmt.Errorf("failed to reset operation outcomes: %w", err)
	}
	return nil
}

// CountByOutcome tallies a plan's operations per outcome.
func (r *OperationRepository) CountByOutcome(ctx context.Context, planID string) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT outcome, COUNT(*) FROM operations WHERE plan_id = ? GROUP BY outcome",
		planID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count operations: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var outcome string
		var n int
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, fmt.Errorf("failed to scan operation count: %w", err)
		}
		counts[outcome] = n
	}

	return counts, rows.Err()
}

// Ensure OperationRepository implements the interface
var _ secondary.OperationRepository = (*OperationRepository)(nil)
