package primary

import "context"

// SuggestService defines the primary port for the category advisor.
type SuggestService interface {
	// SuggestUnmatched asks the advisor for category proposals for every
	// name the last classification pass could not place. Cached
	// suggestions are reused without calling the advisor again.
	SuggestUnmatched(ctx context.Context, req SuggestRequest) ([]*SuggestionView, error)

	// RecordUnmatched stores names the classifier could not place so a
	// later advisor pass can pick them up. Names with a stored decision
	// are left alone. Returns the number of names recorded.
	RecordUnmatched(ctx context.Context, names []string) (int, error)

	// ListSuggestions retrieves stored suggestions.
	ListSuggestions(ctx context.Context, limit int) ([]*SuggestionView, error)

	// Accept records a manual category decision for a name.
	Accept(ctx context.Context, name, category string) error
}

// SuggestRequest contains parameters for an advisor pass.
type SuggestRequest struct {
	Names []string
	Limit int
}

// SuggestionView represents a suggestion at the port boundary.
type SuggestionView struct {
	Name       string
	Category   string
	Source     string
	Confidence float64
	CreatedAt  string
}
