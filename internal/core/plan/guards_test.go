package plan

import (
	"testing"

	"github.com/example/curator/internal/models"
)

func TestCanExecutePlan(t *testing.T) {
	tests := []struct {
		name        string
		ctx         ExecutePlanContext
		wantAllowed bool
		wantReason  string
	}{
		{
			name: "can execute pending plan with operations",
			ctx: ExecutePlanContext{
				PlanID:  "PLAN-001",
				Status:  models.PlanStatusPending,
				OpCount: 12,
			},
			wantAllowed: true,
		},
		{
			name: "can re-execute failed plan",
			ctx: ExecutePlanContext{
				PlanID:  "PLAN-002",
				Status:  models.PlanStatusFailed,
				OpCount: 3,
			},
			wantAllowed: true,
		},
		{
			name: "can re-execute executed plan",
			ctx: ExecutePlanContext{
				PlanID:  "PLAN-003",
				Status:  models.PlanStatusExecuted,
				OpCount: 5,
			},
			wantAllowed: true,
		},
		{
			name: "cannot execute plan awaiting review",
			ctx: ExecutePlanContext{
				PlanID:  "PLAN-004",
				Status:  models.PlanStatusNeedsReview,
				OpCount: 2,
			},
			wantAllowed: false,
			wantReason:  "plan PLAN-004 needs review. Approve first with: curator review approve PLAN-004",
		},
		{
			name: "cannot execute plan awaiting merge",
			ctx: ExecutePlanContext{
				PlanID:  "PLAN-005",
				Status:  models.PlanStatusNeedsSpecial,
				OpCount: 2,
			},
			wantAllowed: false,
			wantReason:  "plan PLAN-005 needs a merge pass. Resolve first with: curator merge PLAN-005",
		},
		{
			name: "cannot execute plan claimed by another run",
			ctx: ExecutePlanContext{
				PlanID:  "PLAN-006",
				Status:  models.PlanStatusExecuting,
				OpCount: 9,
			},
			wantAllowed: false,
			wantReason:  "plan PLAN-006 is already being executed by another run",
		},
		{
			name: "cannot execute empty plan",
			ctx: ExecutePlanContext{
				PlanID:  "PLAN-007",
				Status:  models.PlanStatusPending,
				OpCount: 0,
			},
			wantAllowed: false,
			wantReason:  "plan PLAN-007 has no operations",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanExecutePlan(tt.ctx)
			if result.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v", result.Allowed, tt.wantAllowed)
			}
			if !tt.wantAllowed && result.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", result.Reason, tt.wantReason)
			}
		})
	}
}

func TestCanApprovePlan(t *testing.T) {
	tests := []struct {
		name        string
		ctx         ApprovePlanContext
		wantAllowed bool
		wantReason  string
	}{
		{
			name: "can approve plan awaiting review",
			ctx: ApprovePlanContext{
				PlanID: "PLAN-001",
				Status: models.PlanStatusNeedsReview,
			},
			wantAllowed: true,
		},
		{
			name: "can approve plan awaiting special handling",
			ctx: ApprovePlanContext{
				PlanID: "PLAN-002",
				Status: models.PlanStatusNeedsSpecial,
			},
			wantAllowed: true,
		},
		{
			name: "cannot approve pending plan",
			ctx: ApprovePlanContext{
				PlanID: "PLAN-003",
				Status: models.PlanStatusPending,
			},
			wantAllowed: false,
			wantReason:  "can only approve plans awaiting review (current status: pending)",
		},
		{
			name: "cannot approve executed plan",
			ctx: ApprovePlanContext{
				PlanID: "PLAN-004",
				Status: models.PlanStatusExecuted,
			},
			wantAllowed: false,
			wantReason:  "can only approve plans awaiting review (current status: executed)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanApprovePlan(tt.ctx)
			if result.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v", result.Allowed, tt.wantAllowed)
			}
			if !tt.wantAllowed && result.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", result.Reason, tt.wantReason)
			}
		})
	}
}

func TestCanDeletePlan(t *testing.T) {
	tests := []struct {
		name        string
		ctx         DeletePlanContext
		wantAllowed bool
		wantReason  string
	}{
		{
			name: "can delete pending plan",
			ctx: DeletePlanContext{
				PlanID: "PLAN-001",
				Status: models.PlanStatusPending,
			},
			wantAllowed: true,
		},
		{
			name: "can delete failed plan",
			ctx: DeletePlanContext{
				PlanID: "PLAN-002",
				Status: models.PlanStatusFailed,
			},
			wantAllowed: true,
		},
		{
			name: "cannot delete executing plan",
			ctx: DeletePlanContext{
				PlanID: "PLAN-003",
				Status: models.PlanStatusExecuting,
			},
			wantAllowed: false,
			wantReason:  "cannot delete plan PLAN-003 while it is executing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanDeletePlan(tt.ctx)
			if result.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v", result.Allowed, tt.wantAllowed)
			}
			if !tt.wantAllowed && result.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", result.Reason, tt.wantReason)
			}
		})
	}
}

func TestGuardResult_Error(t *testing.T) {
	t.Run("allowed result returns nil error", func(t *testing.T) {
		result := GuardResult{Allowed: true}
		if err := result.Error(); err != nil {
			t.Errorf("expected nil error, got %v", err)
		}
	})

	t.Run("not allowed result returns error with reason", func(t *testing.T) {
		result := GuardResult{Allowed: false, Reason: "test reason"}
		err := result.Error()
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if err.Error() != "test reason" {
			t.Errorf("error = %q, want %q", err.Error(), "test reason")
		}
	})
}
