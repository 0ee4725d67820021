package secondary

import "context"

// LogWriter defines the interface for writing audit log entries.
// Implementations extract the actor from context.
type LogWriter interface {
	// LogCreate logs the creation of an entity.
	LogCreate(ctx context.Context, entityType, entityID string) error

	// LogStatusChange logs an entity status transition.
	LogStatusChange(ctx context.Context, entityType, entityID, oldStatus, newStatus string) error

	// LogRun logs a run-level event against a plan, detail free-form.
	LogRun(ctx context.Context, action, planID, detail string) error
}

// ActivityRepository defines the secondary port for the activity log.
type ActivityRepository interface {
	// Append writes one activity entry.
	Append(ctx context.Context, entry *ActivityRecord) error

	// ListRecent retrieves the newest entries, optionally scoped to a plan.
	ListRecent(ctx context.Context, planID string, limit int) ([]*ActivityRecord, error)
}

// ActivityRecord represents one audit entry as stored in persistence.
type ActivityRecord struct {
	ID        int64
	Actor     string
	Action    string
	PlanID    string
	Detail    string
	CreatedAt string
}
