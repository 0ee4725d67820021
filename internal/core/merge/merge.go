// Package merge reconciles remote folders that canonicalize to the same
// path. One folder survives as primary; every other duplicate has its
// contents moved into the primary and is left behind empty. Deleting the
// empty shells stays a manual step.
package merge

import (
	"database/sql"
	"fmt"

	"github.com/example/curator/internal/core/index"
	"github.com/example/curator/internal/core/plan"
	"github.com/example/curator/internal/models"
)

// PickPrimary selects the surviving folder for one duplicate group. IDs
// arrive in registration order, so the earliest-known registration wins.
func PickPrimary(ids []string) (primary string, duplicates []string) {
	if len(ids) == 0 {
		return "", nil
	}
	return ids[0], ids[1:]
}

// Resolve turns duplicate groups into a merge draft: one move_contents
// operation per non-primary duplicate, destination composed from the
// group's canonical segments. Composing from segments rather than
// concatenating rooted strings is what keeps a merge at BDSM/Equipment/NGW
// from producing a BDSM/Equipment/NGW/BDSM/... destination.
func Resolve(groups []index.DuplicateGroup) plan.Draft {
	draft := plan.Draft{
		Category: "Merge",
		Status:   models.PlanStatusPending,
	}

	seq := 0
	merged := 0
	for _, g := range groups {
		primary, duplicates := PickPrimary(g.IDs)
		if primary == "" {
			continue
		}
		for _, dup := range duplicates {
			seq++
			merged++
			draft.Ops = append(draft.Ops, models.MoveOperation{
				Seq:        seq,
				Kind:       models.OpKindMoveContents,
				SourceID:   dup,
				SourceName: g.Path.Leaf(),
				TargetPath: g.Path,
				Outcome:    models.OutcomePending,
				Reason: sql.NullString{
					String: fmt.Sprintf("duplicate of %s", primary),
					Valid:  true,
				},
			})
		}
	}

	draft.Description = fmt.Sprintf("%d duplicate folders merged across %d paths", merged, len(groups))
	return draft
}
