// Package index maintains the mapping from canonical paths to remote
// folder identifiers. The index is the single authority on "does this
// path already exist" and the source of duplicate-folder detection; it
// resolves at most one remote ID per canonical path but remembers every
// registration, so collisions survive a snapshot round-trip.
package index

import (
	"sort"
	"strings"
	"time"

	"github.com/example/curator/internal/models"
)

// Entry is one registered folder.
type Entry struct {
	Path         models.CanonicalPath
	RemoteID     string
	RegisteredAt time.Time
}

// Registration is one Register call worth keeping: a remote folder seen
// at a canonical path at some time. Unlike Entry there may be several
// per path.
type Registration struct {
	Path     models.CanonicalPath
	RemoteID string
	At       time.Time
}

// DuplicateGroup collects remote folders observed at the same canonical
// path. IDs preserve registration order: the first is the earliest known.
type DuplicateGroup struct {
	Path models.CanonicalPath
	IDs  []string
}

// Index is the in-memory map. It carries no locking; the app-level
// service serializes access for concurrent plan workers.
type Index struct {
	byKey  map[string]Entry
	byLeaf map[string][]string
	dupes  map[string]*DuplicateGroup
	log    []Registration
}

// New returns an empty index.
func New() *Index {
	return &Index{
		byKey:  make(map[string]Entry),
		byLeaf: make(map[string][]string),
		dupes:  make(map[string]*DuplicateGroup),
	}
}

// Resolve returns the remote ID registered for a canonical path.
func (x *Index) Resolve(p models.CanonicalPath) (string, bool) {
	e, ok := x.byKey[p.Key()]
	if !ok {
		return "", false
	}
	return e.RemoteID, true
}

// Register records a folder at a canonical path. Registering a second
// remote ID at an occupied path keeps the first registration and records
// the collision as a duplicate group; the return value reports whether
// the path was free.
func (x *Index) Register(p models.CanonicalPath, remoteID string, at time.Time) bool {
	key := p.Key()
	existing, occupied := x.byKey[key]
	if occupied {
		if existing.RemoteID == remoteID {
			return true
		}
		g, ok := x.dupes[key]
		if !ok {
			g = &DuplicateGroup{Path: existing.Path, IDs: []string{existing.RemoteID}}
			x.dupes[key] = g
		}
		if containsID(g.IDs, remoteID) {
			return false
		}
		g.IDs = append(g.IDs, remoteID)
		leaf := foldLeaf(p)
		x.byLeaf[leaf] = append(x.byLeaf[leaf], remoteID)
		x.log = append(x.log, Registration{Path: p, RemoteID: remoteID, At: at})
		return false
	}

	x.byKey[key] = Entry{Path: p, RemoteID: remoteID, RegisteredAt: at}
	leaf := foldLeaf(p)
	x.byLeaf[leaf] = append(x.byLeaf[leaf], remoteID)
	x.log = append(x.log, Registration{Path: p, RemoteID: remoteID, At: at})
	return true
}

// FindDuplicates returns the remote IDs of folders sharing a leaf name
// anywhere in the tree. Purely informational: the "28 HUDs folders" class
// of fragmentation is reported, never acted on automatically.
func (x *Index) FindDuplicates(leafName string) []string {
	ids := x.byLeaf[foldSegment(leafName)]
	if len(ids) < 2 {
		return nil
	}
	out := make([]string, len(ids))
	copy(out, ids)
	sort.Strings(out)
	return out
}

// Collisions returns every canonical path observed with more than one
// remote ID, ordered by path. These groups feed the merge resolver.
func (x *Index) Collisions() []DuplicateGroup {
	keys := make([]string, 0, len(x.dupes))
	for k := range x.dupes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]DuplicateGroup, 0, len(keys))
	for _, k := range keys {
		g := x.dupes[k]
		ids := make([]string, len(g.IDs))
		copy(ids, g.IDs)
		out = append(out, DuplicateGroup{Path: g.Path, IDs: ids})
	}
	return out
}

// HasCollision reports whether a canonical path is occupied by more than
// one remote folder.
func (x *Index) HasCollision(p models.CanonicalPath) bool {
	_, ok := x.dupes[p.Key()]
	return ok
}

// Entries returns every registration ordered by path key, for snapshots
// and reports.
func (x *Index) Entries() []Entry {
	keys := make([]string, 0, len(x.byKey))
	for k := range x.byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]Entry, 0, len(keys))
	for _, k := range keys {
		out = append(out, x.byKey[k])
	}
	return out
}

// Registrations returns every distinct registration in the order it was
// made, including the extra IDs behind collisions. Persisting and
// replaying this list reproduces the index exactly.
func (x *Index) Registrations() []Registration {
	out := make([]Registration, len(x.log))
	copy(out, x.log)
	return out
}

// Len returns the number of registered paths.
func (x *Index) Len() int {
	return len(x.byKey)
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func foldLeaf(p models.CanonicalPath) string {
	return foldSegment(p.Leaf())
}

// foldSegment matches the case folding of CanonicalPath.Key so that leaf
// lookups and path lookups agree.
func foldSegment(s string) string {
	return strings.ToLower(s)
}
