package models

import (
	"database/sql"
)

// Operation kind constants. There is deliberately no delete kind: the
// operation domain contains only folder creation and moves, so no code
// path can ask the remote store to destroy anything.
const (
	OpKindCreateFolder = "create_folder"
	OpKindMoveItem     = "move_item"
	OpKindMoveContents = "move_contents"
)

// Operation outcome constants
const (
	OutcomePending   = "pending"
	OutcomeSucceeded = "succeeded"
	OutcomeSkipped   = "skipped_already_satisfied"
	OutcomeFailed    = "failed"
)

// MoveOperation is a single step of a plan: create one folder, move one
// item, or move one folder's contents to a target path. Persisted per plan
// in sequence order; all writes go through OperationRepository.
type MoveOperation struct {
	PlanID     string
	Seq        int
	Kind       string
	SourceID   string
	SourceName string
	TargetPath CanonicalPath
	Outcome    string
	Reason     sql.NullString
	ExecutedAt sql.NullTime
}

// Terminal reports whether the operation already has a final outcome from
// a previous run.
func (o *MoveOperation) Terminal() bool {
	return o.Outcome == OutcomeSucceeded || o.Outcome == OutcomeSkipped
}
