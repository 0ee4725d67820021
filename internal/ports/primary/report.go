package primary

import "context"

// ReportService defines the primary port for run status and report export.
type ReportService interface {
	// Status summarizes stored plans, operations, index and suggestions.
	Status(ctx context.Context) (*StatusReport, error)

	// Export renders the status report and uploads it to the archive,
	// returning the stored object key.
	Export(ctx context.Context) (string, error)
}

// StatusReport summarizes the system state for the operator.
type StatusReport struct {
	PlansByStatus  map[string]int
	OpsByOutcome   map[string]int
	IndexedFolders int
	Collisions     int
	Suggestions    int
	RecentActivity []*ActivityView
}

// ActivityView represents one audit entry at the port boundary.
type ActivityView struct {
	Actor     string
	Action    string
	PlanID    string
	Detail    string
	CreatedAt string
}
