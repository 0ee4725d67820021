package secondary

import (
	"context"
	"errors"
)

// RemoteStore defines the secondary port for the remote inventory service.
// The remote side is rate limited and non-transactional; it offers no
// atomic "move folder" and the core never asks it to delete anything.
// Folder and item IDs are the opaque identifiers observed in listings.
// Destination paths are passed as canonical segment sequences relative to
// the configured inventory root; the adapter composes the absolute remote
// path.
type RemoteStore interface {
	// Ping verifies the remote bridge is reachable and accepting commands.
	Ping(ctx context.Context) error

	// ListRoot returns the immediate children of the configured root.
	ListRoot(ctx context.Context) ([]*RemoteEntry, error)

	// List returns the immediate children (folders and items) of a folder
	// observed in an earlier listing.
	List(ctx context.Context, folderID string) ([]*RemoteEntry, error)

	// CreateFolder creates a folder under parentPath and returns its remote
	// ID. A same-named folder already present at parentPath is adopted
	// instead of duplicated.
	CreateFolder(ctx context.Context, parentPath []string, name string) (string, error)

	// MoveItem moves a single item into the destination folder.
	MoveItem(ctx context.Context, itemID string, destination []string) error

	// MoveFolderContents moves every descendant of a folder into the
	// destination, preserving subfolder structure, and reports how many
	// items moved. Emptied source folders stay behind.
	MoveFolderContents(ctx context.Context, folderID string, destination []string) (int, error)

	// ResolveFolderID returns the remote ID of the folder at the given
	// path, or empty when it does not exist.
	ResolveFolderID(ctx context.Context, path []string) (string, error)
}

// RemoteEntry represents one child of a remote folder as observed.
type RemoteEntry struct {
	ID       string
	ParentID string
	Name     string
	Folder   bool
}

// RetryableError is implemented by adapter errors that distinguish
// transient failures from remote rejections.
type RetryableError interface {
	error
	Retryable() bool
}

// IsRetryable reports whether err is a transient failure worth retrying.
func IsRetryable(err error) bool {
	var r RetryableError
	return errors.As(err, &r) && r.Retryable()
}
