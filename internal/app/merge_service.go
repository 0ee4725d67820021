package app

import (
	"context"

	"github.com/example/curator/internal/core/merge"
	"github.com/example/curator/internal/ports/primary"
	"github.com/example/curator/internal/ports/secondary"
)

// MergeServiceImpl implements the MergeService interface.
type MergeServiceImpl struct {
	planRepo secondary.PlanRepository
	opRepo   secondary.OperationRepository
	indexes  indexProvider
}

// NewMergeService creates a new MergeService with injected dependencies.
func NewMergeService(
	planRepo secondary.PlanRepository,
	opRepo secondary.OperationRepository,
	indexes indexProvider,
) *MergeServiceImpl {
	return &MergeServiceImpl{
		planRepo: planRepo,
		opRepo:   opRepo,
		indexes:  indexes,
	}
}

// BuildMergePlan turns the index's duplicate groups into one merge plan.
func (s *MergeServiceImpl) BuildMergePlan(ctx context.Context) (*primary.MergePlanResponse, error) {
	// 1. Collect duplicate groups from the current index
	idx, err := s.indexes.CurrentIndex(ctx)
	if err != nil {
		return nil, err
	}
	groups := idx.Collisions()

	resp := &primary.MergePlanResponse{}
	for _, g := range groups {
		resp.Groups = append(resp.Groups, &primary.Collision{
			Path:      g.Path.String(),
			RemoteIDs: g.IDs,
		})
	}
	if len(groups) == 0 {
		return resp, nil
	}

	// 2. Resolve each group into move_contents operations
	draft := merge.Resolve(groups)
	if len(draft.Ops) == 0 {
		return resp, nil
	}

	// 3. Persist the draft
	record, err := persistDraft(ctx, s.planRepo, s.opRepo, draft)
	if err != nil {
		return nil, err
	}
	resp.PlanID = record.ID
	resp.Plan = recordToPlan(record)
	return resp, nil
}

// Ensure MergeServiceImpl implements the interface
var _ primary.MergeService = (*MergeServiceImpl)(nil)
