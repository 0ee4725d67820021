package models

// Classification confidence constants
const (
	ConfidenceMatched   = "matched"
	ConfidenceUnmatched = "unmatched"
	ConfidenceAmbiguous = "ambiguous"
)

// Classification is the result of evaluating the rule set against one
// normalized entry name. TargetPath is the fully composed destination
// (category, optional brand segment, optional product subfolder).
type Classification struct {
	Entry            RawEntry
	NormalizedName   string
	TargetPath       CanonicalPath
	Brand            string
	ProductSubfolder string
	Confidence       string
	RuleName         string
	AlsoMatched      string
}

// Matched reports whether the entry resolved to exactly one rule.
func (c Classification) Matched() bool {
	return c.Confidence == ConfidenceMatched
}
