package primary

import "context"

// ExecuteService defines the primary port for plan execution.
type ExecuteService interface {
	// ExecutePlan claims one plan and applies its operations against the
	// remote store under rate limiting and batching.
	ExecutePlan(ctx context.Context, req ExecuteRequest) (*ExecuteReport, error)

	// ExecutePending executes every claimable pending plan, independent
	// plans concurrently up to the configured worker bound.
	ExecutePending(ctx context.Context, req ExecutePendingRequest) ([]*ExecuteReport, error)
}

// ExecuteRequest contains parameters for executing one plan.
type ExecuteRequest struct {
	PlanID string
	DryRun bool
}

// ExecutePendingRequest contains parameters for executing all pending plans.
type ExecutePendingRequest struct {
	DryRun bool

	// Workers overrides the configured plan concurrency when positive.
	Workers int
}

// ExecuteReport summarizes one plan execution.
type ExecuteReport struct {
	PlanID      string
	Status      string
	DryRun      bool
	Succeeded   int
	Skipped     int
	Failed      int
	Pending     int
	BatchPauses int
	Failures    []*OperationFailure
}

// OperationFailure describes one failed operation for the run report.
type OperationFailure struct {
	Seq        int
	Kind       string
	SourceName string
	TargetPath string
	Reason     string
	Retryable  bool
}
