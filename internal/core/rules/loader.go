package rules

import (
	"database/sql"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/example/curator/internal/models"
)

type ruleFile struct {
	Rules []ruleDoc `yaml:"rules"`
}

type ruleDoc struct {
	Name           string         `yaml:"name"`
	Priority       int            `yaml:"priority"`
	Target         string         `yaml:"target"`
	Keywords       []string       `yaml:"keywords,omitempty"`
	Pattern        string         `yaml:"pattern,omitempty"`
	WholeWord      bool           `yaml:"whole_word,omitempty"`
	BrandSubfolder bool           `yaml:"brand_subfolder,omitempty"`
	Description    string         `yaml:"description,omitempty"`
	Subfolders     []subfolderDoc `yaml:"subfolders,omitempty"`
}

type subfolderDoc struct {
	Segment   string   `yaml:"segment"`
	Keywords  []string `yaml:"keywords"`
	Exclude   []string `yaml:"exclude,omitempty"`
	WholeWord bool     `yaml:"whole_word,omitempty"`
}

// LoadFile reads a YAML rules file and returns its rules in declaration
// order. The file is schema-validated and every matcher is test-compiled
// before anything is returned; a bad rules file must fail the run before
// the first remote call.
func LoadFile(path string) ([]models.Rule, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}
	return Parse(raw)
}

// Parse validates and decodes a raw YAML rules document.
func Parse(raw []byte) ([]models.Rule, error) {
	if err := validateSchema(raw); err != nil {
		return nil, err
	}

	var doc ruleFile
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse rules file: %w", err)
	}

	out := make([]models.Rule, 0, len(doc.Rules))
	for i, rd := range doc.Rules {
		out = append(out, buildRule(i, rd))
	}

	if err := ValidateTargets(out); err != nil {
		return nil, err
	}
	// Compile check: surfaces bad regexes and empty keyword lists now.
	if _, err := NewSet(out); err != nil {
		return nil, err
	}
	return out, nil
}

// Lint validates a raw rules document, collecting every problem it can
// find instead of stopping at the first. Returns the rule count alongside
// the problems so a report can say "12 rules, 2 problems".
func Lint(raw []byte) (int, []string) {
	var problems []string
	if err := validateSchema(raw); err != nil {
		problems = append(problems, err.Error())
	}

	var doc ruleFile
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		if len(problems) == 0 {
			problems = append(problems, fmt.Sprintf("failed to parse rules file: %v", err))
		}
		return 0, problems
	}

	for i, rd := range doc.Rules {
		r := buildRule(i, rd)
		if len(r.TargetPath) == 0 {
			problems = append(problems, fmt.Sprintf("rule %q has an empty target path", r.Name))
		}
		if _, err := CompileRule(r); err != nil {
			problems = append(problems, err.Error())
		}
	}
	return len(doc.Rules), problems
}

func buildRule(i int, rd ruleDoc) models.Rule {
	r := models.Rule{
		Name:           rd.Name,
		Priority:       rd.Priority,
		Seq:            i + 1,
		TargetPath:     models.ParsePath(rd.Target),
		Keywords:       rd.Keywords,
		WholeWord:      rd.WholeWord,
		Pattern:        rd.Pattern,
		BrandSubfolder: rd.BrandSubfolder,
	}
	if rd.Pattern != "" {
		r.MatcherKind = models.MatcherPattern
	} else {
		r.MatcherKind = models.MatcherKeywords
	}
	if rd.Description != "" {
		r.Description = sql.NullString{String: rd.Description, Valid: true}
	}
	for _, sd := range rd.Subfolders {
		r.SubfolderRules = append(r.SubfolderRules, models.SubfolderRule{
			Segment:   sd.Segment,
			Keywords:  sd.Keywords,
			Exclude:   sd.Exclude,
			WholeWord: sd.WholeWord,
		})
	}
	return r
}
