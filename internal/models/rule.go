package models

import (
	"database/sql"
	"time"
)

// Matcher kind constants
const (
	MatcherKeywords = "keywords"
	MatcherPattern  = "pattern"
)

// Rule maps a name pattern to a target category path. Rules are evaluated
// in descending priority; ties are broken by declaration order (Seq, lower
// first). Rules are immutable once loaded.
type Rule struct {
	Name           string
	Priority       int
	Seq            int
	MatcherKind    string
	Keywords       []string
	WholeWord      bool
	Pattern        string
	TargetPath     CanonicalPath
	BrandSubfolder bool
	SubfolderRules []SubfolderRule
	Description    sql.NullString
	CreatedAt      time.Time
}

// SubfolderRule places matched entries into a product-type subfolder
// beneath the rule's target path when any of its keywords occur in the
// entry name (wardrobe-style Hair/, HUDs/, Skins/ splits). Exclude
// keywords veto the match ("chair" must not read as "hair").
type SubfolderRule struct {
	Keywords  []string
	Exclude   []string
	WholeWord bool
	Segment   string
}
