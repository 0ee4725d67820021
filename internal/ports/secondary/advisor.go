package secondary

import "context"

// CategoryAdvisor defines the secondary port for advisory category
// suggestions on names the rule set could not place. Suggestions are
// cached and surfaced to the operator; nothing is moved on their basis
// automatically.
type CategoryAdvisor interface {
	// SuggestCategory proposes one of the known categories for a name.
	SuggestCategory(ctx context.Context, name string, categories []string) (*AdvisorSuggestion, error)
}

// AdvisorSuggestion is one advisory category proposal.
type AdvisorSuggestion struct {
	Category   string
	Confidence float64
}
