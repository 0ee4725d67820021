package primary

import "context"

// PlanService defines the primary port for plan operations.
type PlanService interface {
	// BuildPlans runs a classification pass and persists one plan per
	// target category, plus review and special-handling plans as needed.
	BuildPlans(ctx context.Context, req BuildPlansRequest) (*BuildPlansResponse, error)

	// GetPlan retrieves a plan by ID.
	GetPlan(ctx context.Context, planID string) (*Plan, error)

	// ListPlans lists plans with optional filters.
	ListPlans(ctx context.Context, filters PlanFilters) ([]*Plan, error)

	// GetOperations retrieves a plan's operations in sequence order.
	GetOperations(ctx context.Context, planID string) ([]*PlanOperation, error)

	// ApprovePlan moves a review or special-handling plan into pending.
	ApprovePlan(ctx context.Context, planID string) error

	// DeletePlan deletes a plan and its operations.
	DeletePlan(ctx context.Context, planID string) error
}

// BuildPlansRequest contains parameters for a plan build pass.
type BuildPlansRequest struct {
	// Scope restricts classification to these top-level folder names.
	Scope []string
}

// BuildPlansResponse contains the result of a plan build pass.
type BuildPlansResponse struct {
	PlanIDs    []string
	Plans      []*Plan
	Classified int
	Unmatched  int
	Ambiguous  int
	NeedsMerge int
}

// Plan represents a plan entity at the port boundary.
type Plan struct {
	ID          string
	Category    string
	Status      string
	Description string
	RunID       string
	OpCount     int
	CreatedAt   string
	UpdatedAt   string
	ExecutedAt  string
}

// PlanOperation represents one plan step at the port boundary.
type PlanOperation struct {
	PlanID     string
	Seq        int
	Kind       string
	SourceID   string
	SourceName string
	TargetPath string
	Outcome    string
	Reason     string
	ExecutedAt string
}

// PlanFilters contains filter options for listing plans.
type PlanFilters struct {
	Category string
	Status   string
	Limit    int
}
