// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"fmt"

	"github.com/example/curator/internal/ctxutil"
	"github.com/example/curator/internal/ports/secondary"
)

// LogWriterAdapter implements secondary.LogWriter using ActivityRepository.
type LogWriterAdapter struct {
	activityRepo secondary.ActivityRepository
}

// NewLogWriterAdapter creates a new LogWriterAdapter.
func NewLogWriterAdapter(activityRepo secondary.ActivityRepository) *LogWriterAdapter {
	return &LogWriterAdapter{activityRepo: activityRepo}
}

// LogCreate logs the creation of an entity.
func (w *LogWriterAdapter) LogCreate(ctx context.Context, entityType, entityID string) error {
	return w.write(ctx, "create", entityType, entityID, "")
}

// LogStatusChange logs an entity status transition.
func (w *LogWriterAdapter) LogStatusChange(ctx context.Context, entityType, entityID, oldStatus, newStatus string) error {
	return w.write(ctx, "status_change", entityType, entityID, fmt.Sprintf("%s -> %s", oldStatus, newStatus))
}

// LogRun logs a run-level event against a plan.
func (w *LogWriterAdapter) LogRun(ctx context.Context, action, planID, detail string) error {
	return w.append(ctx, action, planID, detail)
}

// write routes the entry's plan_id column: plan events carry their plan
// ID there, everything else carries the entity in the detail text.
func (w *LogWriterAdapter) write(ctx context.Context, action, entityType, entityID, detail string) error {
	planID := ""
	if entityType == "plan" {
		planID = entityID
	} else if detail == "" {
		detail = entityType + " " + entityID
	} else {
		detail = entityType + " " + entityID + ": " + detail
	}
	return w.append(ctx, action, planID, detail)
}

func (w *LogWriterAdapter) append(ctx context.Context, action, planID, detail string) error {
	actor := ctxutil.ActorFromContext(ctx)
	if actor == "" {
		actor = "cli"
	}

	return w.activityRepo.Append(ctx, &secondary.ActivityRecord{
		Actor:  actor,
		Action: action,
		PlanID: planID,
		Detail: detail,
	})
}

// Ensure LogWriterAdapter implements the interface
var _ secondary.LogWriter = (*LogWriterAdapter)(nil)
