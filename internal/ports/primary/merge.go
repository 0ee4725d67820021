package primary

import "context"

// MergeService defines the primary port for duplicate folder merging.
type MergeService interface {
	// BuildMergePlan turns the index's duplicate groups into a merge plan
	// moving contents of every non-primary duplicate into its primary.
	BuildMergePlan(ctx context.Context) (*MergePlanResponse, error)
}

// MergePlanResponse contains the result of a merge plan build.
type MergePlanResponse struct {
	PlanID string
	Plan   *Plan
	Groups []*Collision
}
