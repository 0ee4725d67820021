// Package name canonicalizes raw inventory names for rule matching and for
// safe use as path segments.
package name

import (
	"strings"
	"unicode"
)

// preservedPunct is punctuation that carries meaning for brand extraction
// and rule matching, plus the ASCII quotes that typographic quotes fold
// into. It survives normalization even at the edges of a name.
var preservedPunct = map[rune]bool{
	'*':  true,
	'[':  true,
	']':  true,
	'~':  true,
	'.':  true,
	':':  true,
	'+':  true,
	'\'': true,
	'"':  true,
}

// Normalize canonicalizes a raw inventory name. Unicode space variants fold
// to ASCII space, typographic quotes fold to ASCII quotes, path separators
// and control characters become safe substitutes, repeated whitespace
// collapses, and leading/trailing runs of decorative punctuation are
// trimmed. Case is preserved; use Fold for the matching form.
//
// Normalize is total, deterministic, and idempotent:
// Normalize(Normalize(x)) == Normalize(x) for every input.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch {
		case r == '​' || unicode.IsSpace(r):
			b.WriteByte(' ')
		case r >= '‘' && r <= '‛':
			b.WriteByte('\'')
		case r >= '“' && r <= '‟':
			b.WriteByte('"')
		case r == '/' || r == '\\':
			b.WriteByte('-')
		case unicode.IsControl(r) || r == unicode.ReplacementChar:
			b.WriteByte(' ')
		default:
			b.WriteRune(r)
		}
	}

	// Collapse whitespace runs and trim the ends.
	s := strings.Join(strings.Fields(b.String()), " ")

	// Trim decorative punctuation runs from the edges until stable, so a
	// name like "-- demo --" and its once-trimmed form normalize equally.
	for {
		t := strings.TrimSpace(strings.TrimFunc(s, isDecoration))
		if t == s {
			return s
		}
		s = t
	}
}

// Fold returns the case-folded form of a normalized name, used for all
// matching and index lookups. Display code keeps the Normalize result.
func Fold(s string) string {
	return strings.ToLower(s)
}

// Segment renders a raw name as a single safe path segment. An input that
// normalizes to nothing becomes "-" so the segment is never empty.
func Segment(raw string) string {
	s := Normalize(raw)
	if s == "" {
		return "-"
	}
	return s
}

func isDecoration(r rune) bool {
	if preservedPunct[r] {
		return false
	}
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}
