package app

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/curator/internal/ports/primary"
	"github.com/example/curator/internal/ports/secondary"
)

// ReportServiceImpl implements the ReportService interface. The archive
// is optional; a nil archive disables Export but Status keeps working.
type ReportServiceImpl struct {
	planRepo       secondary.PlanRepository
	opRepo         secondary.OperationRepository
	suggestionRepo secondary.SuggestionRepository
	activityRepo   secondary.ActivityRepository
	indexes        indexProvider
	archive        secondary.ReportArchive
}

// NewReportService creates a new ReportService with injected
// dependencies. archive may be nil when no archive is configured.
func NewReportService(
	planRepo secondary.PlanRepository,
	opRepo secondary.OperationRepository,
	suggestionRepo secondary.SuggestionRepository,
	activityRepo secondary.ActivityRepository,
	indexes indexProvider,
	archive secondary.ReportArchive,
) *ReportServiceImpl {
	return &ReportServiceImpl{
		planRepo:       planRepo,
		opRepo:         opRepo,
		suggestionRepo: suggestionRepo,
		activityRepo:   activityRepo,
		indexes:        indexes,
		archive:        archive,
	}
}

// Status summarizes stored plans, operations, index and suggestions.
func (s *ReportServiceImpl) Status(ctx context.Context) (*primary.StatusReport, error) {
	report := &primary.StatusReport{
		PlansByStatus: make(map[string]int),
		OpsByOutcome:  make(map[string]int),
	}

	// 1. Tally plans by status and their operations by outcome
	plans, err := s.planRepo.List(ctx, secondary.PlanFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	for _, record := range plans {
		report.PlansByStatus[record.Status]++

		counts, err := s.opRepo.CountByOutcome(ctx, record.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count operations for %s: %w", record.ID, err)
		}
		for outcome, n := range counts {
			report.OpsByOutcome[outcome] += n
		}
	}

	// 2. Index figures
	idx, err := s.indexes.CurrentIndex(ctx)
	if err != nil {
		return nil, err
	}
	report.IndexedFolders = idx.Len()
	report.Collisions = len(idx.Collisions())

	// 3. Suggestion count
	suggestions, err := s.suggestionRepo.List(ctx, secondary.SuggestionFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to list suggestions: %w", err)
	}
	report.Suggestions = len(suggestions)

	// 4. Recent activity
	entries, err := s.activityRepo.ListRecent(ctx, "", 10)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	for _, entry := range entries {
		report.RecentActivity = append(report.RecentActivity, &primary.ActivityView{
			Actor:     entry.Actor,
			Action:    entry.Action,
			PlanID:    entry.PlanID,
			Detail:    entry.Detail,
			CreatedAt: entry.CreatedAt,
		})
	}

	return report, nil
}

// Export renders the status report as JSON and uploads it to the archive.
func (s *ReportServiceImpl) Export(ctx context.Context) (string, error) {
	// 1. Guard check
	if s.archive == nil {
		return "", fmt.Errorf("archive not configured. Set archive endpoint and credentials in ~/.curator/config.yaml")
	}

	// 2. Render the report
	report, err := s.Status(ctx)
	if err != nil {
		return "", err
	}
	payload, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode status report: %w", err)
	}

	// 3. Upload
	name := fmt.Sprintf("status-%s.json", time.Now().UTC().Format("20060102T150405Z"))
	key, err := s.archive.Upload(ctx, name, payload, "application/json")
	if err != nil {
		return "", fmt.Errorf("failed to upload status report: %w", err)
	}
	return key, nil
}

// Ensure ReportServiceImpl implements the interface
var _ primary.ReportService = (*ReportServiceImpl)(nil)
