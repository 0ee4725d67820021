package models

import "strings"

// CanonicalPath is an ordered sequence of sanitized folder-name segments
// identifying one position in the target hierarchy. Destination paths are
// always composed from segments; two already-rooted strings are never
// concatenated, which is what kept the predecessor system doubling its
// root segment during merges.
type CanonicalPath []string

// ParsePath splits a slash-separated path into segments. Empty segments
// from doubled or trailing slashes are dropped.
func ParsePath(s string) CanonicalPath {
	parts := strings.Split(s, "/")
	segs := make(CanonicalPath, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		segs = append(segs, p)
	}
	return segs
}

// String renders the path as slash-separated segments.
func (p CanonicalPath) String() string {
	return strings.Join(p, "/")
}

// Key is the case-folded form used for Folder Index lookups. Remote
// folder names compare case-insensitively.
func (p CanonicalPath) Key() string {
	return strings.ToLower(p.String())
}

// Top returns the first segment, or "" for an empty path.
func (p CanonicalPath) Top() string {
	if len(p) == 0 {
		return ""
	}
	return p[0]
}

// Leaf returns the last segment, or "" for an empty path.
func (p CanonicalPath) Leaf() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// Parent returns the path without its leaf segment.
func (p CanonicalPath) Parent() CanonicalPath {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1]
}

// Child returns a copy of the path extended by one segment.
func (p CanonicalPath) Child(segment string) CanonicalPath {
	out := make(CanonicalPath, len(p), len(p)+1)
	copy(out, p)
	return append(out, segment)
}

// Equal reports whether two paths have identical segments.
func (p CanonicalPath) Equal(other CanonicalPath) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// Ancestors returns every prefix of the path from the top-level segment
// down to the path itself, in order. Used to emit create_folder operations
// for missing intermediate folders.
func (p CanonicalPath) Ancestors() []CanonicalPath {
	out := make([]CanonicalPath, 0, len(p))
	for i := 1; i <= len(p); i++ {
		out = append(out, p[:i])
	}
	return out
}
