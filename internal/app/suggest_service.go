package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/curator/internal/models"
	"github.com/example/curator/internal/ports/primary"
	"github.com/example/curator/internal/ports/secondary"
)

// SuggestServiceImpl implements the SuggestService interface. The advisor
// is optional; a nil advisor disables SuggestUnmatched but list and accept
// keep working.
type SuggestServiceImpl struct {
	advisor        secondary.CategoryAdvisor
	suggestionRepo secondary.SuggestionRepository
	ruleRepo       secondary.RuleRepository
}

// NewSuggestService creates a new SuggestService with injected
// dependencies. advisor may be nil when no advisor is configured.
func NewSuggestService(
	advisor secondary.CategoryAdvisor,
	suggestionRepo secondary.SuggestionRepository,
	ruleRepo secondary.RuleRepository,
) *SuggestServiceImpl {
	return &SuggestServiceImpl{
		advisor:        advisor,
		suggestionRepo: suggestionRepo,
		ruleRepo:       ruleRepo,
	}
}

// SuggestUnmatched asks the advisor for category proposals, reusing cached
// suggestions where a category is already stored.
func (s *SuggestServiceImpl) SuggestUnmatched(ctx context.Context, req primary.SuggestRequest) ([]*primary.SuggestionView, error) {
	// 1. Guard check
	if s.advisor == nil {
		return nil, fmt.Errorf("advisor not configured. Set advisor endpoint and key in ~/.curator/config.yaml")
	}

	// 2. Collect the names to consult on
	names := req.Names
	if len(names) == 0 {
		records, err := s.suggestionRepo.List(ctx, secondary.SuggestionFilters{
			Source: models.SuggestionSourceUnmatched,
			Limit:  req.Limit,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list unmatched names: %w", err)
		}
		for _, record := range records {
			names = append(names, record.Name)
		}
	}
	if len(names) == 0 {
		return nil, nil
	}

	categories, err := s.categories(ctx)
	if err != nil {
		return nil, err
	}
	if len(categories) == 0 {
		return nil, fmt.Errorf("no rules are loaded. Seed the defaults with: curator rules seed")
	}

	// 3. Consult the advisor, skipping names already decided
	views := make([]*primary.SuggestionView, 0, len(names))
	for _, name := range names {
		existing, err := s.suggestionRepo.GetByName(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to check suggestion for %q: %w", name, err)
		}
		if existing != nil && existing.Category != "" {
			views = append(views, recordToSuggestion(existing))
			continue
		}

		suggestion, err := s.advisor.SuggestCategory(ctx, name, categories)
		if err != nil {
			return nil, fmt.Errorf("advisor failed on %q: %w", name, err)
		}

		record := &secondary.SuggestionRecord{
			Name:       name,
			Category:   suggestion.Category,
			Source:     models.SuggestionSourceAdvisor,
			Confidence: suggestion.Confidence,
		}
		if err := s.suggestionRepo.Upsert(ctx, record); err != nil {
			return nil, fmt.Errorf("failed to store suggestion for %q: %w", name, err)
		}
		views = append(views, recordToSuggestion(record))
	}
	return views, nil
}

// RecordUnmatched stores names the classifier could not place. Names
// that already have any stored record keep it; a manual or advisor
// decision must not be downgraded back to unmatched.
func (s *SuggestServiceImpl) RecordUnmatched(ctx context.Context, names []string) (int, error) {
	recorded := 0
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		existing, err := s.suggestionRepo.GetByName(ctx, name)
		if err != nil {
			return recorded, fmt.Errorf("failed to check suggestion for %q: %w", name, err)
		}
		if existing != nil {
			continue
		}

		record := &secondary.SuggestionRecord{
			Name:   name,
			Source: models.SuggestionSourceUnmatched,
		}
		if err := s.suggestionRepo.Upsert(ctx, record); err != nil {
			return recorded, fmt.Errorf("failed to record %q: %w", name, err)
		}
		recorded++
	}
	return recorded, nil
}

// ListSuggestions retrieves stored suggestions, newest first.
func (s *SuggestServiceImpl) ListSuggestions(ctx context.Context, limit int) ([]*primary.SuggestionView, error) {
	records, err := s.suggestionRepo.List(ctx, secondary.SuggestionFilters{Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("failed to list suggestions: %w", err)
	}
	views := make([]*primary.SuggestionView, 0, len(records))
	for _, record := range records {
		views = append(views, recordToSuggestion(record))
	}
	return views, nil
}

// Accept records a manual category decision for a name. The category must
// be the top segment of a loaded rule target; matching is case-insensitive
// and the stored spelling is the rule set's.
func (s *SuggestServiceImpl) Accept(ctx context.Context, name, category string) error {
	// 1. Guard checks
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("name is required")
	}

	categories, err := s.categories(ctx)
	if err != nil {
		return err
	}
	canonical := ""
	for _, c := range categories {
		if strings.EqualFold(c, category) {
			canonical = c
			break
		}
	}
	if canonical == "" {
		return fmt.Errorf("unknown category %q. Known categories: %s", category, strings.Join(categories, ", "))
	}

	// 2. Store the decision
	record := &secondary.SuggestionRecord{
		Name:       name,
		Category:   canonical,
		Source:     models.SuggestionSourceManual,
		Confidence: 1.0,
	}
	if err := s.suggestionRepo.Upsert(ctx, record); err != nil {
		return fmt.Errorf("failed to store decision for %q: %w", name, err)
	}
	return nil
}

// categories lists the distinct top-level target segments of the loaded
// rules, in rule priority order.
func (s *SuggestServiceImpl) categories(ctx context.Context) ([]string, error) {
	records, err := s.ruleRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}

	seen := make(map[string]bool)
	var out []string
	for _, record := range records {
		top := models.ParsePath(record.TargetPath).Top()
		if top == "" {
			continue
		}
		key := strings.ToLower(top)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, top)
	}
	return out, nil
}

func recordToSuggestion(record *secondary.SuggestionRecord) *primary.SuggestionView {
	return &primary.SuggestionView{
		Name:       record.Name,
		Category:   record.Category,
		Source:     record.Source,
		Confidence: record.Confidence,
		CreatedAt:  record.CreatedAt,
	}
}

// Ensure SuggestServiceImpl implements the interface
var _ primary.SuggestService = (*SuggestServiceImpl)(nil)
