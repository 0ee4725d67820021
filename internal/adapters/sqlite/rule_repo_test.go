package sqlite_test

import (
	"context"
	"testing"

	"github.com/example/curator/internal/adapters/sqlite"
	"github.com/example/curator/internal/ports/secondary"
)

func testRuleSet() []*secondary.RuleRecord {
	return []*secondary.RuleRecord{
		{
			Name:        "Shoes",
			Priority:    80,
			Seq:         1,
			MatcherKind: "keywords",
			Keywords:    `["shoes","boots","heels"]`,
			WholeWord:   true,
			TargetPath:  "Clothing/Shoes",
		},
		{
			Name:           "Restraints",
			Priority:       90,
			Seq:            2,
			MatcherKind:    "keywords",
			Keywords:       `["cuffs","restraints"]`,
			WholeWord:      true,
			TargetPath:     "BDSM/Restraints",
			BrandSubfolder: true,
		},
		{
			Name:        "Hair",
			Priority:    80,
			Seq:         3,
			MatcherKind: "pattern",
			Pattern:     `(?i)\bhair\b`,
			TargetPath:  "Body Parts/Hair",
			Description: "catch hairstyles by token",
		},
	}
}

func TestRuleRepository_ReplaceAll_List(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewRuleRepository(db)
	ctx := context.Background()

	if err := repo.ReplaceAll(ctx, testRuleSet()); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	rules, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	if len(rules) != 3 {
		t.Fatalf("expected 3 rules, got %d", len(rules))
	}

	// Priority descending, then seq ascending
	wantOrder := []string{"Restraints", "Shoes", "Hair"}
	for i, want := range wantOrder {
		if rules[i].Name != want {
			t.Errorf("position %d: expected %s, got %s", i, want, rules[i].Name)
		}
	}

	if rules[0].Keywords != `["cuffs","restraints"]` {
		t.Errorf("unexpected keywords: %s", rules[0].Keywords)
	}
	if !rules[0].BrandSubfolder {
		t.Error("expected Restraints to keep brand_subfolder")
	}
	if rules[2].Pattern != `(?i)\bhair\b` {
		t.Errorf("unexpected pattern: %s", rules[2].Pattern)
	}
	if rules[2].Description != "catch hairstyles by token" {
		t.Errorf("unexpected description: %s", rules[2].Description)
	}
}

func TestRuleRepository_ReplaceAll_SwapsWholesale(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewRuleRepository(db)
	ctx := context.Background()

	if err := repo.ReplaceAll(ctx, testRuleSet()); err != nil {
		t.Fatalf("first ReplaceAll failed: %v", err)
	}

	replacement := []*secondary.RuleRecord{
		{
			Name:        "Furniture",
			Priority:    60,
			Seq:         1,
			MatcherKind: "keywords",
			Keywords:    `["chair","table"]`,
			TargetPath:  "Home/Furniture",
		},
	}

	if err := repo.ReplaceAll(ctx, replacement); err != nil {
		t.Fatalf("second ReplaceAll failed: %v", err)
	}

	rules, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(rules) != 1 {
		t.Fatalf("expected old rules to be replaced, got %d rules", len(rules))
	}
	if rules[0].Name != "Furniture" {
		t.Errorf("expected Furniture, got %s", rules[0].Name)
	}
}

func TestRuleRepository_Count(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewRuleRepository(db)
	ctx := context.Background()

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 rules in fresh db, got %d", count)
	}

	if err := repo.ReplaceAll(ctx, testRuleSet()); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	count, err = repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3 rules, got %d", count)
	}
}
