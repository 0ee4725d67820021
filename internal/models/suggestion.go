package models

import "time"

// Suggestion is an advisory category mapping produced by the category
// advisor for a name the rule set could not place. Suggestions are cached
// and surfaced to the operator; they are never applied automatically.
type Suggestion struct {
	Name       string
	Category   string
	Source     string
	Confidence float64
	CreatedAt  time.Time
}

// Suggestion source constants. An unmatched marker is written by the plan
// builder for names no rule placed; the advisor and manual decisions
// replace it.
const (
	SuggestionSourceAdvisor   = "advisor"
	SuggestionSourceManual    = "manual"
	SuggestionSourceUnmatched = "unmatched"
)
