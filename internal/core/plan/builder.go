// Package plan contains the pure business logic for building and guarding
// sort plans. The builder turns classification results into ordered
// operation lists; it performs no I/O and consults the Folder Index only
// through its in-memory snapshot.
package plan

import (
	"database/sql"
	"fmt"
	"sort"

	"github.com/example/curator/internal/core/index"
	"github.com/example/curator/internal/models"
)

// Review and merge drafts use fixed category names so they sort apart
// from the per-category plans.
const (
	CategoryReview  = "Review"
	CategorySpecial = "Special Handling"
)

// Draft is a plan before persistence: the repository assigns the plan ID
// and stamps each operation with it.
type Draft struct {
	Category    string
	Status      string
	Description string
	Ops         []models.MoveOperation
}

// Totals summarizes one build pass for run reports.
type Totals struct {
	Classified int
	Unmatched  int
	Ambiguous  int
	NeedsMerge int
}

// Result is the full output of a build pass. Unmatched classifications
// never become operations; they are surfaced for review and suggestion
// capture instead.
type Result struct {
	Drafts    []Draft
	Unmatched []models.Classification
	Totals    Totals
}

// Build groups classifications into one draft per top-level target
// category, plus a review draft for ambiguous matches and a special
// handling draft for entries whose target folder is duplicated remotely.
// Output is deterministic: the same classifications and index snapshot
// always produce identical drafts, and no canonical path receives more
// than one create_folder operation per pass.
func Build(classifications []models.Classification, idx *index.Index) Result {
	ordered := make([]models.Classification, len(classifications))
	copy(ordered, classifications)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Entry.Name != ordered[j].Entry.Name {
			return ordered[i].Entry.Name < ordered[j].Entry.Name
		}
		return ordered[i].Entry.RemoteID < ordered[j].Entry.RemoteID
	})

	var (
		result     Result
		byCategory = make(map[string][]models.Classification)
		review     []models.Classification
		special    []models.Classification
	)
	for _, c := range ordered {
		switch c.Confidence {
		case models.ConfidenceUnmatched:
			result.Unmatched = append(result.Unmatched, c)
			result.Totals.Unmatched++
		case models.ConfidenceAmbiguous:
			review = append(review, c)
			result.Totals.Ambiguous++
		default:
			if idx.HasCollision(c.TargetPath) {
				special = append(special, c)
				result.Totals.NeedsMerge++
				continue
			}
			result.Totals.Classified++
			top := c.TargetPath.Top()
			byCategory[top] = append(byCategory[top], c)
		}
	}

	// One created-set across the whole pass: categories own disjoint
	// subtrees, so sharing it only dedupes, never reorders dependencies.
	created := make(map[string]bool)

	categories := make([]string, 0, len(byCategory))
	for cat := range byCategory {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	for _, cat := range categories {
		group := byCategory[cat]
		result.Drafts = append(result.Drafts, Draft{
			Category:    cat,
			Status:      models.PlanStatusPending,
			Description: fmt.Sprintf("%d entries classified into %s", len(group), cat),
			Ops:         emitOps(group, idx, created, ""),
		})
	}

	if len(review) > 0 {
		result.Drafts = append(result.Drafts, Draft{
			Category:    CategoryReview,
			Status:      models.PlanStatusNeedsReview,
			Description: fmt.Sprintf("%d entries matched more than one rule", len(review)),
			Ops:         emitOps(review, idx, created, "ambiguous"),
		})
	}

	if len(special) > 0 {
		result.Drafts = append(result.Drafts, Draft{
			Category:    CategorySpecial,
			Status:      models.PlanStatusNeedsSpecial,
			Description: fmt.Sprintf("%d entries target a duplicated folder", len(special)),
			Ops:         emitOps(special, idx, created, "target folder duplicated remotely"),
		})
	}

	return result
}

// emitOps produces the operation sequence for one draft: create_folder
// operations for every missing ancestor of each target, then the move
// itself. The created set spans the whole build pass so a path is created
// at most once.
func emitOps(group []models.Classification, idx *index.Index, created map[string]bool, note string) []models.MoveOperation {
	var ops []models.MoveOperation
	seq := 0
	add := func(op models.MoveOperation) {
		seq++
		op.Seq = seq
		op.Outcome = models.OutcomePending
		ops = append(ops, op)
	}

	for _, c := range group {
		for _, ancestor := range c.TargetPath.Ancestors() {
			key := ancestor.Key()
			if created[key] {
				continue
			}
			if _, exists := idx.Resolve(ancestor); exists {
				continue
			}
			created[key] = true
			add(models.MoveOperation{
				Kind:       models.OpKindCreateFolder,
				TargetPath: ancestor,
			})
		}

		kind := models.OpKindMoveItem
		if c.Entry.IsFolder() {
			kind = models.OpKindMoveContents
		}
		reason := note
		if c.Confidence == models.ConfidenceAmbiguous && c.AlsoMatched != "" {
			reason = fmt.Sprintf("also matched rule %q", c.AlsoMatched)
		}
		add(models.MoveOperation{
			Kind:       kind,
			SourceID:   c.Entry.RemoteID,
			SourceName: c.Entry.Name,
			TargetPath: c.TargetPath,
			Reason:     nullable(reason),
		})
	}
	return ops
}

func nullable(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
