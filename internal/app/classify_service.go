package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/curator/internal/core/rules"
	"github.com/example/curator/internal/models"
	"github.com/example/curator/internal/ports/primary"
	"github.com/example/curator/internal/ports/secondary"
)

// ClassifyServiceImpl implements the ClassifyService interface.
type ClassifyServiceImpl struct {
	remote   secondary.RemoteStore
	ruleRepo secondary.RuleRepository
}

// NewClassifyService creates a new ClassifyService with injected dependencies.
func NewClassifyService(remote secondary.RemoteStore, ruleRepo secondary.RuleRepository) *ClassifyServiceImpl {
	return &ClassifyServiceImpl{
		remote:   remote,
		ruleRepo: ruleRepo,
	}
}

// ClassifyInventory classifies every in-scope top-level folder and item
// against the stored rule set. Read-only: nothing is planned or moved.
func (s *ClassifyServiceImpl) ClassifyInventory(ctx context.Context, req primary.ClassifyRequest) (*primary.ClassifyResponse, error) {
	classifications, err := classifyEntries(ctx, s.remote, s.ruleRepo, req.Scope)
	if err != nil {
		return nil, err
	}

	resp := &primary.ClassifyResponse{}
	for _, c := range classifications {
		resp.Classifications = append(resp.Classifications, classificationToView(c))
		switch c.Confidence {
		case models.ConfidenceUnmatched:
			resp.Unmatched++
		case models.ConfidenceAmbiguous:
			resp.Ambiguous++
		default:
			resp.Classified++
		}
	}
	return resp, nil
}

// ClassifyName classifies a single name without touching the remote
// store, for rule debugging. The name is treated as a folder so brand
// layering applies.
func (s *ClassifyServiceImpl) ClassifyName(ctx context.Context, name string) (*primary.ClassificationView, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("name is required")
	}

	set, err := loadRuleSet(ctx, s.ruleRepo)
	if err != nil {
		return nil, err
	}
	if set.Len() == 0 {
		return nil, fmt.Errorf("no rules are loaded. Seed the defaults with: curator rules seed")
	}

	entry := models.RawEntry{Name: name, Kind: models.EntryKindFolder}
	return classificationToView(rules.Classify(entry, set)), nil
}

// classifyEntries lists the in-scope top level of the inventory and
// classifies each entry against the stored rule set. Shared by the
// classify and plan services so a dry pass and a plan build see identical
// results.
func classifyEntries(ctx context.Context, remote secondary.RemoteStore, ruleRepo secondary.RuleRepository, scope []string) ([]models.Classification, error) {
	// 1. Compile the stored rule set
	set, err := loadRuleSet(ctx, ruleRepo)
	if err != nil {
		return nil, err
	}
	if set.Len() == 0 {
		return nil, fmt.Errorf("no rules are loaded. Seed the defaults with: curator rules seed")
	}

	// 2. List the top level of the inventory
	entries, err := remote.ListRoot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory root: %w", err)
	}

	// 3. Classify the in-scope working set
	scoped := make(map[string]bool, len(scope))
	for _, name := range scope {
		scoped[strings.ToLower(strings.TrimSpace(name))] = true
	}
	targets := ruleTargetTops(set)

	var out []models.Classification
	for _, e := range entries {
		if models.IsSystemFolder(e.Name) {
			continue
		}
		folded := strings.ToLower(e.Name)
		if len(scoped) > 0 && !scoped[folded] {
			continue
		}
		// Category folders themselves stay put; moving Clothing into
		// Clothing/... would eat the destination tree.
		if e.Folder && targets[folded] {
			continue
		}

		raw := models.RawEntry{
			RemoteID: e.ID,
			ParentID: e.ParentID,
			Name:     e.Name,
			Kind:     entryKind(e),
		}
		out = append(out, rules.Classify(raw, set))
	}
	return out, nil
}

// ruleTargetTops collects the case-folded top segments of every rule
// target in the set.
func ruleTargetTops(set *rules.Set) map[string]bool {
	tops := make(map[string]bool)
	for _, c := range set.Rules() {
		if top := c.Rule.TargetPath.Top(); top != "" {
			tops[strings.ToLower(top)] = true
		}
	}
	return tops
}

func entryKind(e *secondary.RemoteEntry) string {
	if e.Folder {
		return models.EntryKindFolder
	}
	return models.EntryKindItem
}

func classificationToView(c models.Classification) *primary.ClassificationView {
	view := &primary.ClassificationView{
		Name:             c.Entry.Name,
		NormalizedName:   c.NormalizedName,
		RemoteID:         c.Entry.RemoteID,
		Folder:           c.Entry.IsFolder(),
		Brand:            c.Brand,
		ProductSubfolder: c.ProductSubfolder,
		Confidence:       c.Confidence,
		RuleName:         c.RuleName,
		AlsoMatched:      c.AlsoMatched,
	}
	if len(c.TargetPath) > 0 {
		view.TargetPath = c.TargetPath.String()
	}
	return view
}

// Ensure ClassifyServiceImpl implements the interface
var _ primary.ClassifyService = (*ClassifyServiceImpl)(nil)
