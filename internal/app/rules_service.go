package app

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/example/curator/internal/core/rules"
	"github.com/example/curator/internal/models"
	"github.com/example/curator/internal/ports/primary"
	"github.com/example/curator/internal/ports/secondary"
)

// RulesServiceImpl implements the RulesService interface.
type RulesServiceImpl struct {
	ruleRepo  secondary.RuleRepository
	logWriter secondary.LogWriter
}

// NewRulesService creates a new RulesService with injected dependencies.
func NewRulesService(ruleRepo secondary.RuleRepository, logWriter secondary.LogWriter) *RulesServiceImpl {
	return &RulesServiceImpl{
		ruleRepo:  ruleRepo,
		logWriter: logWriter,
	}
}

// ListRules retrieves the stored rule set in evaluation order.
func (s *RulesServiceImpl) ListRules(ctx context.Context) ([]*primary.RuleView, error) {
	records, err := s.ruleRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}

	views := make([]*primary.RuleView, 0, len(records))
	for _, record := range records {
		r, err := recordToRule(record)
		if err != nil {
			return nil, err
		}
		views = append(views, &primary.RuleView{
			Name:           r.Name,
			Priority:       r.Priority,
			Seq:            r.Seq,
			MatcherKind:    r.MatcherKind,
			Keywords:       r.Keywords,
			WholeWord:      r.WholeWord,
			Pattern:        r.Pattern,
			TargetPath:     r.TargetPath.String(),
			BrandSubfolder: r.BrandSubfolder,
			Subfolders:     len(r.SubfolderRules),
			Description:    r.Description.String,
		})
	}
	return views, nil
}

// SeedDefaults installs the built-in rule set, replacing the stored one.
func (s *RulesServiceImpl) SeedDefaults(ctx context.Context) (int, error) {
	rs := rules.DefaultRules()
	if err := s.install(ctx, rs, "defaults"); err != nil {
		return 0, err
	}
	return len(rs), nil
}

// LoadFile validates, compiles and installs a rules file, replacing the
// stored set. A file that fails validation installs nothing.
func (s *RulesServiceImpl) LoadFile(ctx context.Context, path string) (int, error) {
	rs, err := rules.LoadFile(path)
	if err != nil {
		return 0, err
	}
	if err := s.install(ctx, rs, filepath.Base(path)); err != nil {
		return 0, err
	}
	return len(rs), nil
}

// LintFile validates and compiles a rules file without installing it.
func (s *RulesServiceImpl) LintFile(ctx context.Context, path string) (*primary.LintReport, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	count, problems := rules.Lint(raw)
	return &primary.LintReport{
		Rules:    count,
		Problems: problems,
	}, nil
}

// install swaps the stored rule set wholesale and audits the install.
func (s *RulesServiceImpl) install(ctx context.Context, rs []models.Rule, source string) error {
	if len(rs) == 0 {
		return fmt.Errorf("rule set is empty")
	}

	records := make([]*secondary.RuleRecord, 0, len(rs))
	for i := range rs {
		record, err := ruleToRecord(rs[i])
		if err != nil {
			return err
		}
		records = append(records, record)
	}

	if err := s.ruleRepo.ReplaceAll(ctx, records); err != nil {
		return fmt.Errorf("failed to install rules: %w", err)
	}

	if err := s.logWriter.LogCreate(ctx, "ruleset", source); err != nil {
		return fmt.Errorf("failed to log rule install: %w", err)
	}
	return nil
}

// loadRuleSet compiles the stored rule set. Shared by every service that
// evaluates rules.
func loadRuleSet(ctx context.Context, ruleRepo secondary.RuleRepository) (*rules.Set, error) {
	records, err := ruleRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}

	rs := make([]models.Rule, 0, len(records))
	for _, record := range records {
		r, err := recordToRule(record)
		if err != nil {
			return nil, err
		}
		rs = append(rs, r)
	}

	set, err := rules.NewSet(rs)
	if err != nil {
		return nil, fmt.Errorf("failed to compile stored rules: %w", err)
	}
	return set, nil
}

// recordToRule decodes a stored rule row into the domain model.
func recordToRule(record *secondary.RuleRecord) (models.Rule, error) {
	r := models.Rule{
		Name:           record.Name,
		Priority:       record.Priority,
		Seq:            record.Seq,
		MatcherKind:    record.MatcherKind,
		WholeWord:      record.WholeWord,
		Pattern:        record.Pattern,
		TargetPath:     models.ParsePath(record.TargetPath),
		BrandSubfolder: record.BrandSubfolder,
	}
	if record.Keywords != "" {
		if err := json.Unmarshal([]byte(record.Keywords), &r.Keywords); err != nil {
			return models.Rule{}, fmt.Errorf("failed to decode keywords for rule %s: %w", record.Name, err)
		}
	}
	if record.SubfolderRules != "" {
		if err := json.Unmarshal([]byte(record.SubfolderRules), &r.SubfolderRules); err != nil {
			return models.Rule{}, fmt.Errorf("failed to decode subfolder rules for rule %s: %w", record.Name, err)
		}
	}
	if record.Description != "" {
		r.Description = sql.NullString{String: record.Description, Valid: true}
	}
	return r, nil
}

// ruleToRecord encodes a domain rule for storage.
func ruleToRecord(r models.Rule) (*secondary.RuleRecord, error) {
	record := &secondary.RuleRecord{
		Name:           r.Name,
		Priority:       r.Priority,
		Seq:            r.Seq,
		MatcherKind:    r.MatcherKind,
		WholeWord:      r.WholeWord,
		Pattern:        r.Pattern,
		TargetPath:     r.TargetPath.String(),
		BrandSubfolder: r.BrandSubfolder,
		Description:    r.Description.String,
	}
	if len(r.Keywords) > 0 {
		b, err := json.Marshal(r.Keywords)
		if err != nil {
			return nil, fmt.Errorf("failed to encode keywords for rule %s: %w", r.Name, err)
		}
		record.Keywords = string(b)
	}
	if len(r.SubfolderRules) > 0 {
		b, err := json.Marshal(r.SubfolderRules)
		if err != nil {
			return nil, fmt.Errorf("failed to encode subfolder rules for rule %s: %w", r.Name, err)
		}
		record.SubfolderRules = string(b)
	}
	return record, nil
}

// Ensure RulesServiceImpl implements the interface
var _ primary.RulesService = (*RulesServiceImpl)(nil)
