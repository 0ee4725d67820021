package primary

import "context"

// ClassifyService defines the primary port for name classification.
type ClassifyService interface {
	// ClassifyInventory classifies every in-scope top-level folder and
	// item against the stored rule set.
	ClassifyInventory(ctx context.Context, req ClassifyRequest) (*ClassifyResponse, error)

	// ClassifyName classifies a single name without touching the remote
	// store, for rule debugging.
	ClassifyName(ctx context.Context, name string) (*ClassificationView, error)
}

// ClassifyRequest contains parameters for an inventory classification pass.
type ClassifyRequest struct {
	// Scope restricts the pass to these top-level folder names. Empty
	// means every unsorted folder in the configured scan root.
	Scope []string
}

// ClassifyResponse contains the result of a classification pass.
type ClassifyResponse struct {
	Classifications []*ClassificationView
	Classified      int
	Unmatched       int
	Ambiguous       int
}

// ClassificationView represents a classification at the port boundary.
type ClassificationView struct {
	Name             string
	NormalizedName   string
	RemoteID         string
	Folder           bool
	TargetPath       string
	Brand            string
	ProductSubfolder string
	Confidence       string
	RuleName         string
	AlsoMatched      string
}
