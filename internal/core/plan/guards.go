package plan

import (
	"fmt"

	"github.com/example/curator/internal/models"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// ExecutePlanContext provides context for plan execution guards.
type ExecutePlanContext struct {
	PlanID  string
	Status  string
	OpCount int
}

// ApprovePlanContext provides context for plan approval guards.
type ApprovePlanContext struct {
	PlanID string
	Status string
}

// DeletePlanContext provides context for plan deletion guards.
type DeletePlanContext struct {
	PlanID string
	Status string
}

// CanExecutePlan evaluates whether a plan may be claimed for execution.
// Rules:
// - Review and special-handling plans must be approved first
// - A plan already claimed by another run cannot be claimed again
// - An empty plan has nothing to execute
func CanExecutePlan(ctx ExecutePlanContext) GuardResult {
	switch ctx.Status {
	case models.PlanStatusNeedsReview:
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("plan %s needs review. Approve first with: curator review approve %s", ctx.PlanID, ctx.PlanID),
		}
	case models.PlanStatusNeedsSpecial:
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("plan %s needs a merge pass. Resolve first with: curator merge %s", ctx.PlanID, ctx.PlanID),
		}
	case models.PlanStatusExecuting:
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("plan %s is already being executed by another run", ctx.PlanID),
		}
	}

	if ctx.OpCount == 0 {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("plan %s has no operations", ctx.PlanID),
		}
	}

	return GuardResult{Allowed: true}
}

// CanApprovePlan evaluates whether a plan can be approved into pending.
// Rules:
// - Only review and special-handling plans need approval
func CanApprovePlan(ctx ApprovePlanContext) GuardResult {
	if ctx.Status != models.PlanStatusNeedsReview && ctx.Status != models.PlanStatusNeedsSpecial {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("can only approve plans awaiting review (current status: %s)", ctx.Status),
		}
	}

	return GuardResult{Allowed: true}
}

// CanDeletePlan evaluates whether a plan can be deleted.
// Rules:
// - A plan claimed by a running executor cannot be deleted
func CanDeletePlan(ctx DeletePlanContext) GuardResult {
	if ctx.Status == models.PlanStatusExecuting {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("cannot delete plan %s while it is executing", ctx.PlanID),
		}
	}

	return GuardResult{Allowed: true}
}
