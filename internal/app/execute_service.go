package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/example/curator/internal/core/batch"
	"github.com/example/curator/internal/core/plan"
	"github.com/example/curator/internal/models"
	"github.com/example/curator/internal/ports/primary"
	"github.com/example/curator/internal/ports/secondary"
)

// errPlanClaimed signals a concurrent executor won the claim race. The
// pending-queue runner treats it as "someone else's plan", not a failure.
var errPlanClaimed = errors.New("already claimed by another run")

// ExecuteConfig tunes the executor's pacing and concurrency.
type ExecuteConfig struct {
	// OpDelay is the minimum spacing between remote operations.
	OpDelay time.Duration
	// BatchSize is the number of operations per batch; BatchDelay is the
	// pause at each batch boundary.
	BatchSize  int
	BatchDelay time.Duration
	// MaxWorkers bounds concurrent plan execution in ExecutePending.
	MaxWorkers int
}

// ExecuteServiceImpl implements the ExecuteService interface.
type ExecuteServiceImpl struct {
	planRepo  secondary.PlanRepository
	opRepo    secondary.OperationRepository
	remote    secondary.RemoteStore
	indexes   indexProvider
	logWriter secondary.LogWriter
	cfg       ExecuteConfig
}

// NewExecuteService creates a new ExecuteService with injected dependencies.
func NewExecuteService(
	planRepo secondary.PlanRepository,
	opRepo secondary.OperationRepository,
	remote secondary.RemoteStore,
	indexes indexProvider,
	logWriter secondary.LogWriter,
	cfg ExecuteConfig,
) *ExecuteServiceImpl {
	return &ExecuteServiceImpl{
		planRepo:  planRepo,
		opRepo:    opRepo,
		remote:    remote,
		indexes:   indexes,
		logWriter: logWriter,
		cfg:       cfg,
	}
}

// ExecutePlan claims one plan and applies its operations against the
// remote store under rate limiting and batching.
func (s *ExecuteServiceImpl) ExecutePlan(ctx context.Context, req primary.ExecuteRequest) (*primary.ExecuteReport, error) {
	pacer := batch.New(s.cfg.OpDelay, s.cfg.BatchSize, s.cfg.BatchDelay)
	return s.executePlan(ctx, req.PlanID, req.DryRun, pacer)
}

// ExecutePending executes every claimable pending plan, independent plans
// concurrently up to the configured worker bound.
func (s *ExecuteServiceImpl) ExecutePending(ctx context.Context, req primary.ExecutePendingRequest) ([]*primary.ExecuteReport, error) {
	// 1. Collect the executable queue
	records, err := s.planRepo.List(ctx, secondary.PlanFilters{Status: models.PlanStatusPending})
	if err != nil {
		return nil, fmt.Errorf("failed to list pending plans: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	// 2. One pacer for the whole run so the remote pacing contract holds
	// across concurrent plans
	pacer := batch.New(s.cfg.OpDelay, s.cfg.BatchSize, s.cfg.BatchDelay)

	workers := s.cfg.MaxWorkers
	if req.Workers > 0 {
		workers = req.Workers
	}
	if workers <= 0 {
		workers = 1
	}

	// Each worker writes only its own slot, so the slice needs no lock.
	reports := make([]*primary.ExecuteReport, len(records))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, record := range records {
		i, record := i, record
		g.Go(func() error {
			report, err := s.executePlan(gctx, record.ID, req.DryRun, pacer)
			if err != nil {
				if errors.Is(err, errPlanClaimed) {
					return nil
				}
				return err
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// 3. Drop the slots lost to claim races
	out := make([]*primary.ExecuteReport, 0, len(reports))
	for _, r := range reports {
		if r != nil {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *ExecuteServiceImpl) executePlan(ctx context.Context, planID string, dryRun bool, pacer *batch.Pacer) (*primary.ExecuteReport, error) {
	// 1. Get the plan
	record, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}

	// 2. Guard check
	guard := plan.CanExecutePlan(plan.ExecutePlanContext{
		PlanID:  record.ID,
		Status:  record.Status,
		OpCount: record.OpCount,
	})
	if err := guard.Error(); err != nil {
		return nil, err
	}

	// 3. Dry run reports what would happen without claiming or writing
	if dryRun {
		ops, err := s.opRepo.ListByPlan(ctx, planID)
		if err != nil {
			return nil, fmt.Errorf("failed to load operations for plan %s: %w", planID, err)
		}
		report := &primary.ExecuteReport{PlanID: planID, Status: record.Status, DryRun: true}
		for _, op := range ops {
			if terminalOutcome(op.Outcome) {
				report.Skipped++
			} else {
				report.Pending++
			}
		}
		return report, nil
	}

	// 4. Claim the plan for this run
	runID := uuid.NewString()
	claimed, err := s.planRepo.Claim(ctx, planID, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to claim plan %s: %w", planID, err)
	}
	if !claimed {
		return nil, fmt.Errorf("plan %s: %w", planID, errPlanClaimed)
	}

	// Any exit before the clean finish releases the claim as failed so
	// the plan stays re-runnable, even when the run context is gone.
	finished := false
	defer func() {
		if !finished {
			cleanup := context.WithoutCancel(ctx)
			_ = s.planRepo.Finish(cleanup, planID, models.PlanStatusFailed)
		}
	}()

	// 5. Re-open failed operations, keep already-satisfied ones closed
	if err := s.opRepo.ResetOutcomes(ctx, planID); err != nil {
		return nil, fmt.Errorf("failed to reset outcomes for plan %s: %w", planID, err)
	}

	ops, err := s.opRepo.ListByPlan(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to load operations for plan %s: %w", planID, err)
	}

	if err := s.logWriter.LogRun(ctx, "execute_start", planID, fmt.Sprintf("run %s, %d operations", runID, len(ops))); err != nil {
		return nil, fmt.Errorf("failed to log run start: %w", err)
	}

	// 6. Apply the operations in sequence
	report := &primary.ExecuteReport{PlanID: planID}
	for _, op := range ops {
		if terminalOutcome(op.Outcome) {
			report.Skipped++
			continue
		}

		if err := pacer.Before(ctx); err != nil {
			return nil, err
		}

		outcome, reason, opErr := s.applyOperation(ctx, op)
		if opErr != nil {
			// A canceled run stops issuing remote calls; the operation
			// stays pending and the deferred finish releases the claim.
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}

			if err := s.opRepo.UpdateOutcome(ctx, planID, op.Seq, models.OutcomeFailed, opErr.Error()); err != nil {
				return nil, fmt.Errorf("failed to record outcome for %s/%d: %w", planID, op.Seq, err)
			}
			report.Failed++
			report.Failures = append(report.Failures, &primary.OperationFailure{
				Seq:        op.Seq,
				Kind:       op.Kind,
				SourceName: op.SourceName,
				TargetPath: op.TargetPath,
				Reason:     opErr.Error(),
				Retryable:  secondary.IsRetryable(opErr),
			})
		} else {
			if err := s.opRepo.UpdateOutcome(ctx, planID, op.Seq, outcome, reason); err != nil {
				return nil, fmt.Errorf("failed to record outcome for %s/%d: %w", planID, op.Seq, err)
			}
			switch outcome {
			case models.OutcomeSucceeded:
				report.Succeeded++
			case models.OutcomeSkipped:
				report.Skipped++
			}
		}

		paused, err := pacer.After(ctx)
		if err != nil {
			return nil, err
		}
		if paused {
			report.BatchPauses++
		}
	}

	// 7. Release the claim into the terminal status
	status := models.PlanStatusExecuted
	if report.Failed > 0 {
		status = models.PlanStatusFailed
	}
	if err := s.planRepo.Finish(ctx, planID, status); err != nil {
		return nil, fmt.Errorf("failed to finish plan %s: %w", planID, err)
	}
	finished = true
	report.Status = status

	detail := fmt.Sprintf("%d succeeded, %d skipped, %d failed", report.Succeeded, report.Skipped, report.Failed)
	if err := s.logWriter.LogRun(ctx, "execute_finish", planID, detail); err != nil {
		return nil, fmt.Errorf("failed to log run finish: %w", err)
	}

	return report, nil
}

// applyOperation runs one operation against the remote store, returning
// the outcome to record and an optional human-readable reason.
func (s *ExecuteServiceImpl) applyOperation(ctx context.Context, op *secondary.OperationRecord) (string, string, error) {
	target := models.ParsePath(op.TargetPath)
	if len(target) == 0 {
		return "", "", fmt.Errorf("operation %d has an empty target path", op.Seq)
	}

	switch op.Kind {
	case models.OpKindCreateFolder:
		return s.applyCreateFolder(ctx, target)

	case models.OpKindMoveItem:
		if _, err := s.ensurePath(ctx, target); err != nil {
			return "", "", err
		}
		if err := s.remote.MoveItem(ctx, op.SourceID, target); err != nil {
			return "", "", err
		}
		return models.OutcomeSucceeded, "", nil

	case models.OpKindMoveContents:
		if _, err := s.ensurePath(ctx, target); err != nil {
			return "", "", err
		}
		moved, err := s.remote.MoveFolderContents(ctx, op.SourceID, target)
		if err != nil {
			return "", "", err
		}
		return models.OutcomeSucceeded, fmt.Sprintf("moved %d items", moved), nil

	default:
		return "", "", fmt.Errorf("unknown operation kind %q", op.Kind)
	}
}

// applyCreateFolder creates the target folder unless it already exists.
// The index answers first; on a miss the remote is probed before
// creating, since another run may have created the folder after the
// plan was built. Ancestors are ensured before the target so segment
// locks are taken one at a time.
func (s *ExecuteServiceImpl) applyCreateFolder(ctx context.Context, target models.CanonicalPath) (string, string, error) {
	_, known, err := s.indexes.ResolveFolder(ctx, target)
	if err != nil {
		return "", "", err
	}
	if known {
		return models.OutcomeSkipped, "already exists", nil
	}

	if len(target) > 1 {
		if _, err := s.ensurePath(ctx, target.Parent()); err != nil {
			return "", "", err
		}
	}

	_, created, err := s.ensureSegment(ctx, target)
	if err != nil {
		return "", "", err
	}
	if !created {
		return models.OutcomeSkipped, "already exists", nil
	}
	return models.OutcomeSucceeded, "", nil
}

// ensurePath makes sure every segment of a destination path exists,
// creating missing folders as it descends. Returns the folder ID of the
// deepest segment.
func (s *ExecuteServiceImpl) ensurePath(ctx context.Context, target models.CanonicalPath) (string, error) {
	var folderID string
	for i := 1; i <= len(target); i++ {
		id, _, err := s.ensureSegment(ctx, target[:i])
		if err != nil {
			return "", err
		}
		folderID = id
	}
	return folderID, nil
}

// ensureSegment resolves or creates a single folder, holding its create
// lock across the probe-then-create window so parallel plans cannot
// create the same folder twice. created reports whether this call made
// the folder rather than finding it.
func (s *ExecuteServiceImpl) ensureSegment(ctx context.Context, p models.CanonicalPath) (string, bool, error) {
	id, known, err := s.indexes.ResolveFolder(ctx, p)
	if err != nil {
		return "", false, err
	}
	if known {
		return id, false, nil
	}

	unlock := s.indexes.LockPath(p)
	defer unlock()

	// Re-check under the lock; a parallel plan may have won the race.
	id, known, err = s.indexes.ResolveFolder(ctx, p)
	if err != nil {
		return "", false, err
	}
	if known {
		return id, false, nil
	}

	id, err = s.remote.ResolveFolderID(ctx, p)
	if err != nil {
		return "", false, err
	}
	created := false
	if id == "" {
		id, err = s.remote.CreateFolder(ctx, p.Parent(), p.Leaf())
		if err != nil {
			return "", false, err
		}
		created = true
	}
	if err := s.indexes.RegisterFolder(ctx, p, id); err != nil {
		return "", false, err
	}
	return id, created, nil
}

func terminalOutcome(outcome string) bool {
	return outcome == models.OutcomeSucceeded || outcome == models.OutcomeSkipped
}

// Ensure ExecuteServiceImpl implements the interface
var _ primary.ExecuteService = (*ExecuteServiceImpl)(nil)
