package models

// Entry kind constants
const (
	EntryKindFolder = "folder"
	EntryKindItem   = "item"
)

// RawEntry is a folder or item as observed in the remote inventory tree.
// Entries are produced by the remote store adapter and are read-only to
// the classification core. RemoteID is opaque and stable across sessions.
type RawEntry struct {
	RemoteID  string
	ParentID  string
	Name      string
	Kind      string
	ItemCount int
}

// IsFolder reports whether the entry is a container rather than a leaf item.
func (e RawEntry) IsFolder() bool {
	return e.Kind == EntryKindFolder
}

// SystemFolderNames are inventory folders owned by the platform. They are
// never classified, moved, or used as merge sources.
var SystemFolderNames = map[string]bool{
	"Calling Cards":       true,
	"Current Outfit":      true,
	"Landmarks":           true,
	"Lost And Found":      true,
	"Materials":           true,
	"My Favorites":        true,
	"My Outfits":          true,
	"Notecards":           true,
	"Photo Album":         true,
	"Trash":               true,
	"Inbox":               true,
	"Received Items":      true,
	"Animation Overrides": true,
	"#RLV":                true,
	"Animations":          true,
	"Library":             true,
}

// IsSystemFolder reports whether a folder name belongs to the platform
// and must be left alone.
func IsSystemFolder(name string) bool {
	return SystemFolderNames[name]
}
