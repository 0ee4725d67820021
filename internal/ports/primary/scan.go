// Package primary defines the primary ports (driving adapters) for the
// application. CLI commands talk to the application services exclusively
// through these interfaces.
package primary

import "context"

// ScanService defines the primary port for remote tree scanning and
// folder index maintenance.
type ScanService interface {
	// RefreshIndex walks the remote tree and rebuilds the folder index,
	// persisting the snapshot. With Force false a recent snapshot is
	// loaded instead of re-listing the remote store.
	RefreshIndex(ctx context.Context, req RefreshIndexRequest) (*RefreshIndexResponse, error)

	// ListCollisions returns canonical paths occupied by more than one
	// remote folder.
	ListCollisions(ctx context.Context) ([]*Collision, error)

	// FindDuplicateLeaves reports folders sharing a leaf name across
	// different parents (fragmentation report, no action taken).
	FindDuplicateLeaves(ctx context.Context, leafName string) ([]string, error)
}

// RefreshIndexRequest contains parameters for an index refresh.
type RefreshIndexRequest struct {
	Force bool
}

// RefreshIndexResponse contains the result of an index refresh.
type RefreshIndexResponse struct {
	Folders      int
	Collisions   int
	FromSnapshot bool
}

// Collision is a duplicated canonical path at the port boundary.
type Collision struct {
	Path      string
	RemoteIDs []string
}
