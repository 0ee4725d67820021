package rules

import (
	"fmt"
	"sort"

	"github.com/example/curator/internal/core/brand"
	"github.com/example/curator/internal/core/name"
	"github.com/example/curator/internal/models"
)

// Set is a compiled rule set in evaluation order: priority descending,
// declaration sequence ascending within a priority. The order is fixed at
// construction; evaluation never depends on map iteration.
type Set struct {
	compiled []*Compiled
}

// NewSet compiles and orders a rule set. Any compile failure aborts the
// whole load.
func NewSet(rs []models.Rule) (*Set, error) {
	compiled := make([]*Compiled, 0, len(rs))
	for _, r := range rs {
		c, err := CompileRule(r)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, c)
	}
	sort.SliceStable(compiled, func(i, j int) bool {
		if compiled[i].Rule.Priority != compiled[j].Rule.Priority {
			return compiled[i].Rule.Priority > compiled[j].Rule.Priority
		}
		return compiled[i].Rule.Seq < compiled[j].Rule.Seq
	})
	return &Set{compiled: compiled}, nil
}

// Len returns the number of rules in the set.
func (s *Set) Len() int {
	return len(s.compiled)
}

// Rules returns the compiled rules in evaluation order.
func (s *Set) Rules() []*Compiled {
	return s.compiled
}

// Match finds the winning rule for a normalized name. The first rule in
// evaluation order that matches wins; a second match at the same priority
// marks the result ambiguous with both rule names recorded, and the
// first-declared rule still decides the target.
type Match struct {
	Rule        *Compiled
	AlsoMatched string
	Ambiguous   bool
}

// Match evaluates the set against a normalized name.
func (s *Set) Match(normalized string) Match {
	for i, c := range s.compiled {
		if !c.Matches(normalized) {
			continue
		}
		m := Match{Rule: c}
		for _, other := range s.compiled[i+1:] {
			if other.Rule.Priority != c.Rule.Priority {
				break
			}
			if other.Matches(normalized) {
				m.Ambiguous = true
				m.AlsoMatched = other.Rule.Name
				break
			}
		}
		return m
	}
	return Match{}
}

// Classify runs the full pipeline for one entry: normalize the name,
// extract brand and product, find the winning rule, and compose the target
// path. Folders get the brand/product layering beneath the category;
// loose items move to the category directly. Unmatched entries carry no
// target path and are excluded from plan generation downstream.
func Classify(entry models.RawEntry, set *Set) models.Classification {
	normalized := name.Normalize(entry.Name)
	c := models.Classification{
		Entry:          entry,
		NormalizedName: normalized,
	}

	ext := brand.Extract(normalized)
	c.Brand = ext.Brand

	m := set.Match(normalized)
	if m.Rule == nil {
		c.Confidence = models.ConfidenceUnmatched
		return c
	}

	c.RuleName = m.Rule.Rule.Name
	c.AlsoMatched = m.AlsoMatched
	if m.Ambiguous {
		c.Confidence = models.ConfidenceAmbiguous
	} else {
		c.Confidence = models.ConfidenceMatched
	}

	c.ProductSubfolder = m.Rule.Subfolder(normalized)
	c.TargetPath = composeTarget(m.Rule.Rule, entry, ext, normalized, c.ProductSubfolder)
	return c
}

// composeTarget builds the destination path from canonical segments. The
// base is the rule's target; folders under a brand-layered rule gain
// Brand/Product segments (or keep their own name when no brand was found);
// a product subfolder goes last.
func composeTarget(r models.Rule, entry models.RawEntry, ext brand.Extraction, normalized, subfolder string) models.CanonicalPath {
	target := make(models.CanonicalPath, len(r.TargetPath))
	copy(target, r.TargetPath)

	if r.BrandSubfolder && entry.IsFolder() {
		if ext.Brand != "" {
			target = target.Child(name.Segment(ext.Brand))
			if ext.Product != "" {
				target = target.Child(name.Segment(ext.Product))
			}
		} else if normalized != "" {
			target = target.Child(name.Segment(normalized))
		}
	}

	if subfolder != "" && entry.IsFolder() {
		target = target.Child(subfolder)
	}

	return target
}

// ValidateTargets checks every rule points somewhere. Used by the loader
// after schema validation; an empty target would send entries to the root.
func ValidateTargets(rs []models.Rule) error {
	for _, r := range rs {
		if len(r.TargetPath) == 0 {
			return fmt.Errorf("rule %q has an empty target path", r.Name)
		}
	}
	return nil
}
