package app

import (
	"context"
	"fmt"

	"github.com/example/curator/internal/core/plan"
	"github.com/example/curator/internal/models"
	"github.com/example/curator/internal/ports/primary"
	"github.com/example/curator/internal/ports/secondary"
)

// PlanServiceImpl implements the PlanService interface.
type PlanServiceImpl struct {
	planRepo       secondary.PlanRepository
	opRepo         secondary.OperationRepository
	ruleRepo       secondary.RuleRepository
	suggestionRepo secondary.SuggestionRepository
	remote         secondary.RemoteStore
	indexes        indexProvider
	logWriter      secondary.LogWriter
}

// NewPlanService creates a new PlanService with injected dependencies.
func NewPlanService(
	planRepo secondary.PlanRepository,
	opRepo secondary.OperationRepository,
	ruleRepo secondary.RuleRepository,
	suggestionRepo secondary.SuggestionRepository,
	remote secondary.RemoteStore,
	indexes indexProvider,
	logWriter secondary.LogWriter,
) *PlanServiceImpl {
	return &PlanServiceImpl{
		planRepo:       planRepo,
		opRepo:         opRepo,
		ruleRepo:       ruleRepo,
		suggestionRepo: suggestionRepo,
		remote:         remote,
		indexes:        indexes,
		logWriter:      logWriter,
	}
}

// BuildPlans runs a classification pass and persists one plan per target
// category, plus review and special-handling plans as needed.
func (s *PlanServiceImpl) BuildPlans(ctx context.Context, req primary.BuildPlansRequest) (*primary.BuildPlansResponse, error) {
	// 1. Classify the in-scope inventory
	classifications, err := classifyEntries(ctx, s.remote, s.ruleRepo, req.Scope)
	if err != nil {
		return nil, err
	}
	if len(classifications) == 0 {
		return &primary.BuildPlansResponse{}, nil
	}

	// 2. Build drafts against the current folder index
	idx, err := s.indexes.CurrentIndex(ctx)
	if err != nil {
		return nil, err
	}
	result := plan.Build(classifications, idx)

	// 3. Persist one plan per draft
	resp := &primary.BuildPlansResponse{
		Classified: result.Totals.Classified,
		Unmatched:  result.Totals.Unmatched,
		Ambiguous:  result.Totals.Ambiguous,
		NeedsMerge: result.Totals.NeedsMerge,
	}
	for _, draft := range result.Drafts {
		record, err := persistDraft(ctx, s.planRepo, s.opRepo, draft)
		if err != nil {
			return nil, err
		}
		resp.PlanIDs = append(resp.PlanIDs, record.ID)
		resp.Plans = append(resp.Plans, recordToPlan(record))
	}

	// 4. Remember unmatched names so the advisor can pick them up
	if err := s.recordUnmatched(ctx, result.Unmatched); err != nil {
		return nil, err
	}

	return resp, nil
}

// GetPlan retrieves a plan by ID.
func (s *PlanServiceImpl) GetPlan(ctx context.Context, planID string) (*primary.Plan, error) {
	record, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	return recordToPlan(record), nil
}

// ListPlans lists plans with optional filters.
func (s *PlanServiceImpl) ListPlans(ctx context.Context, filters primary.PlanFilters) ([]*primary.Plan, error) {
	records, err := s.planRepo.List(ctx, secondary.PlanFilters{
		Category: filters.Category,
		Status:   filters.Status,
		Limit:    filters.Limit,
	})
	if err != nil {
		return nil, err
	}

	plans := make([]*primary.Plan, 0, len(records))
	for _, record := range records {
		plans = append(plans, recordToPlan(record))
	}
	return plans, nil
}

// GetOperations retrieves a plan's operations in sequence order.
func (s *PlanServiceImpl) GetOperations(ctx context.Context, planID string) ([]*primary.PlanOperation, error) {
	// Surface a missing plan as such rather than an empty list.
	if _, err := s.planRepo.GetByID(ctx, planID); err != nil {
		return nil, err
	}

	records, err := s.opRepo.ListByPlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	ops := make([]*primary.PlanOperation, 0, len(records))
	for _, record := range records {
		ops = append(ops, recordToOperation(record))
	}
	return ops, nil
}

// ApprovePlan moves a review or special-handling plan into pending.
func (s *PlanServiceImpl) ApprovePlan(ctx context.Context, planID string) error {
	// 1. Get the plan
	record, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		return err
	}

	// 2. Guard check
	guard := plan.CanApprovePlan(plan.ApprovePlanContext{
		PlanID: record.ID,
		Status: record.Status,
	})
	if err := guard.Error(); err != nil {
		return err
	}

	// 3. Move to pending
	if err := s.planRepo.UpdateStatus(ctx, planID, models.PlanStatusPending); err != nil {
		return fmt.Errorf("failed to approve plan %s: %w", planID, err)
	}

	// 4. Audit the approval
	if err := s.logWriter.LogStatusChange(ctx, "plan", planID, record.Status, models.PlanStatusPending); err != nil {
		return fmt.Errorf("failed to log approval: %w", err)
	}

	return nil
}

// DeletePlan deletes a plan and its operations.
func (s *PlanServiceImpl) DeletePlan(ctx context.Context, planID string) error {
	// 1. Get the plan
	record, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		return err
	}

	// 2. Guard check
	guard := plan.CanDeletePlan(plan.DeletePlanContext{
		PlanID: record.ID,
		Status: record.Status,
	})
	if err := guard.Error(); err != nil {
		return err
	}

	// 3. Delete; operations cascade
	return s.planRepo.Delete(ctx, planID)
}

// recordUnmatched upserts an unmatched marker per name so the advisor has
// a backlog to work through. Existing advisor or manual suggestions for a
// name are left alone.
func (s *PlanServiceImpl) recordUnmatched(ctx context.Context, unmatched []models.Classification) error {
	seen := make(map[string]bool, len(unmatched))
	for _, c := range unmatched {
		name := c.Entry.Name
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		existing, err := s.suggestionRepo.GetByName(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to check suggestion for %q: %w", name, err)
		}
		if existing != nil {
			continue
		}

		record := &secondary.SuggestionRecord{
			Name:   name,
			Source: models.SuggestionSourceUnmatched,
		}
		if err := s.suggestionRepo.Upsert(ctx, record); err != nil {
			return fmt.Errorf("failed to record unmatched name %q: %w", name, err)
		}
	}
	return nil
}

// persistDraft stores one draft as a plan with its operations and returns
// the stored row. Shared with the merge service.
func persistDraft(ctx context.Context, planRepo secondary.PlanRepository, opRepo secondary.OperationRepository, draft plan.Draft) (*secondary.PlanRecord, error) {
	id, err := planRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate plan ID: %w", err)
	}

	record := &secondary.PlanRecord{
		ID:          id,
		Category:    draft.Category,
		Status:      draft.Status,
		Description: draft.Description,
		OpCount:     len(draft.Ops),
	}
	if err := planRepo.Create(ctx, record); err != nil {
		return nil, err
	}

	ops := make([]*secondary.OperationRecord, 0, len(draft.Ops))
	for _, op := range draft.Ops {
		ops = append(ops, &secondary.OperationRecord{
			PlanID:     id,
			Seq:        op.Seq,
			Kind:       op.Kind,
			SourceID:   op.SourceID,
			SourceName: op.SourceName,
			TargetPath: op.TargetPath.String(),
			Outcome:    op.Outcome,
			Reason:     op.Reason.String,
		})
	}
	if err := opRepo.CreateBatch(ctx, id, ops); err != nil {
		return nil, fmt.Errorf("failed to store operations for plan %s: %w", id, err)
	}

	return planRepo.GetByID(ctx, id)
}

func recordToPlan(record *secondary.PlanRecord) *primary.Plan {
	return &primary.Plan{
		ID:          record.ID,
		Category:    record.Category,
		Status:      record.Status,
		Description: record.Description,
		RunID:       record.RunID,
		OpCount:     record.OpCount,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
		ExecutedAt:  record.ExecutedAt,
	}
}

func recordToOperation(record *secondary.OperationRecord) *primary.PlanOperation {
	return &primary.PlanOperation{
		PlanID:     record.PlanID,
		Seq:        record.Seq,
		Kind:       record.Kind,
		SourceID:   record.SourceID,
		SourceName: record.SourceName,
		TargetPath: record.TargetPath,
		Outcome:    record.Outcome,
		Reason:     record.Reason,
		ExecutedAt: record.ExecutedAt,
	}
}

// Ensure PlanServiceImpl implements the interface
var _ primary.PlanService = (*PlanServiceImpl)(nil)
