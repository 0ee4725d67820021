package models

import (
	"database/sql"
	"time"
)

// Plan is a named, ordered batch of move/create operations generated from
// one classification pass. Operations are stored separately and applied in
// sequence order by the executor. A plan is owned by at most one executor
// run at a time.
type Plan struct {
	ID          string
	Category    string
	Status      string
	Description sql.NullString
	RunID       sql.NullString
	OpCount     int
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ExecutedAt  sql.NullTime
}

// Plan status constants
const (
	PlanStatusPending      = "pending"
	PlanStatusNeedsReview  = "needs_review"
	PlanStatusNeedsSpecial = "needs_special_handling"
	PlanStatusExecuting    = "executing"
	PlanStatusExecuted     = "executed"
	PlanStatusFailed       = "failed"
)

// Executable reports whether a plan may be claimed by an executor run.
// Executed plans stay claimable: re-running one is a no-op because the
// Folder Index is re-consulted before every operation.
func (p *Plan) Executable() bool {
	switch p.Status {
	case PlanStatusPending, PlanStatusFailed, PlanStatusExecuted:
		return true
	}
	return false
}
