// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import "context"

// RuleRepository defines the secondary port for rule persistence. The rule
// set is replaced wholesale: rules are immutable once loaded and their
// evaluation order is part of the set, not of any single rule.
type RuleRepository interface {
	// ReplaceAll atomically swaps the stored rule set for the given one.
	ReplaceAll(ctx context.Context, rules []*RuleRecord) error

	// List retrieves the full rule set ordered by priority then seq.
	List(ctx context.Context) ([]*RuleRecord, error)

	// Count returns the number of stored rules.
	Count(ctx context.Context) (int, error)
}

// RuleRecord represents a rule as stored in persistence. Keywords and
// SubfolderRules hold JSON documents.
type RuleRecord struct {
	Name           string
	Priority       int
	Seq            int
	MatcherKind    string
	Keywords       string
	WholeWord      bool
	Pattern        string
	TargetPath     string
	BrandSubfolder bool
	SubfolderRules string
	Description    string
	CreatedAt      string
}

// PlanRepository defines the secondary port for plan persistence.
type PlanRepository interface {
	// Create persists a new plan.
	Create(ctx context.Context, plan *PlanRecord) error

	// GetByID retrieves a plan by its ID.
	GetByID(ctx context.Context, id string) (*PlanRecord, error)

	// List retrieves plans matching the given filters.
	List(ctx context.Context, filters PlanFilters) ([]*PlanRecord, error)

	// UpdateStatus updates the plan status.
	UpdateStatus(ctx context.Context, id, status string) error

	// Claim atomically moves an executable plan into executing under the
	// given run ID. Returns false when the plan was not claimable.
	Claim(ctx context.Context, id, runID string) (bool, error)

	// Finish releases a claimed plan into its terminal status and stamps
	// executed_at.
	Finish(ctx context.Context, id, status string) error

	// Delete removes a plan and its operations from persistence.
	Delete(ctx context.Context, id string) error

	// GetNextID returns the next available plan ID.
	GetNextID(ctx context.Context) (string, error)
}

// PlanRecord represents a plan as stored in persistence.
type PlanRecord struct {
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

// PlanFilters contains filter options for querying plans.
type PlanFilters struct {
	Category string
	Status   string
	Limit    int
}

// OperationRepository defines the secondary port for operation persistence.
type OperationRepository interface {
	// CreateBatch persists a plan's operations in sequence order.
	CreateBatch(ctx context.Context, planID string, ops []*OperationRecord) error

	// ListByPlan retrieves a plan's operations ordered by seq.
	ListByPlan(ctx context.Context, planID string) ([]*OperationRecord, error)

	// UpdateOutcome records the outcome of one operation.
	UpdateOutcome(ctx context.Context, planID string, seq int, outcome, reason string) error

	// ResetOutcomes returns failed operations to pending so a plan can be
	// re-run without touching already-satisfied ones.
	ResetOutcomes(ctx context.Context, planID string) error

	// CountByOutcome tallies a plan's operations per outcome.
	CountByOutcome(ctx context.Context, planID string) (map[string]int, error)
}

// OperationRecord represents one plan operation as stored in persistence.
type OperationRecord struct {
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

// IndexRepository defines the secondary port for folder index snapshots.
type IndexRepository interface {
	// ReplaceSnapshot atomically swaps the stored snapshot.
	ReplaceSnapshot(ctx context.Context, entries []*IndexRecord) error

	// LoadSnapshot retrieves every stored registration in its original
	// registration order. Replaying the records rebuilds the in-memory
	// index exactly, duplicate groups and their primaries included.
	LoadSnapshot(ctx context.Context) ([]*IndexRecord, error)

	// Register upserts a single registration, used when the executor
	// creates a folder mid-run. A new remote ID at an occupied path is
	// stored alongside the old one, not over it.
	Register(ctx context.Context, entry *IndexRecord) error

	// Count returns the number of snapshot entries.
	Count(ctx context.Context) (int, error)
}

// IndexRecord represents one folder index entry as stored in persistence.
type IndexRecord struct {
	PathKey      string
	Path         string
	RemoteID     string
	RegisteredAt string
	RefreshedAt  string
}

// SuggestionRepository defines the secondary port for advisor suggestions.
type SuggestionRepository interface {
	// Upsert stores a suggestion, replacing any previous one for the name.
	Upsert(ctx context.Context, suggestion *SuggestionRecord) error

	// GetByName retrieves the cached suggestion for a name, nil when absent.
	GetByName(ctx context.Context, name string) (*SuggestionRecord, error)

	// List retrieves suggestions matching the given filters.
	List(ctx context.Context, filters SuggestionFilters) ([]*SuggestionRecord, error)

	// Delete removes a suggestion.
	Delete(ctx context.Context, name string) error
}

// SuggestionRecord represents a suggestion as stored in persistence.
type SuggestionRecord struct {
	Name       string
	Category   string
	Source     string
	Confidence float64
	CreatedAt  string
}

// SuggestionFilters contains filter options for querying suggestions.
type SuggestionFilters struct {
	Source string
	Limit  int
}
