// Package brand pulls a brand token and residual product name out of a
// normalized inventory name using an ordered set of lexical patterns.
package brand

import (
	"regexp"
	"strings"
)

// Extraction is the result of scanning one name. Brand is empty when no
// structural pattern matched; Product is then the whole input name.
type Extraction struct {
	Brand   string
	Product string
}

// Structural patterns, most specific first. Each must anchor at the start
// of the name and capture the brand token in group 1; the remainder after
// the whole match is the raw product name.
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`^\[([^\]]+)\]\s*`),          // [Brand] Rest
	regexp.MustCompile(`^\*([^*]+)\*\s*`),           // *Brand* Rest
	regexp.MustCompile(`^[.\s]*::([^:]+)::[.\s]*`),  // .::Brand::. Rest
	regexp.MustCompile(`^~([^~]+)~\s*`),             // ~Brand~ Rest
	regexp.MustCompile(`^::([^:]+)::\s*`),           // ::Brand:: Rest
	regexp.MustCompile(`^([^:]+?)\s*::\s+`),         // Brand :: Rest
	regexp.MustCompile(`^([^-–—]+?)\s*[-–—]\s+`),    // Brand - Rest
	regexp.MustCompile(`^([^:]+?)\s*:\s+`),          // Brand: Rest (fallback)
}

// guardedPatterns need a plausibility check on the captured token: a bare
// separator also splits names like "Demo - Top" or "v2 - fixed" where the
// prefix is not a brand.
var guardedPatterns = map[int]bool{6: true, 7: true}

var notBrands = map[string]bool{
	"demo": true,
	"v1":   true,
	"v2":   true,
}

var suffixNoise = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\s*(hair|skin|head|body|eyes|shape|\(box\)|\(boxed\)|boxed|box)\s*$`),
	regexp.MustCompile(`(?i)\s*v?\d+\.?\d*\s*$`),
	regexp.MustCompile(`\s*[-–—:]+\s*$`),
}

// Extract scans a normalized name for a brand token. Patterns are tried
// once each in fixed order; the first structural match wins. The result is
// independent of rule matching: a name can carry a brand even when its
// category came from an unrelated keyword.
func Extract(name string) Extraction {
	for i, re := range patterns {
		loc := re.FindStringSubmatchIndex(name)
		if loc == nil {
			continue
		}
		token := strings.TrimSpace(name[loc[2]:loc[3]])
		if guardedPatterns[i] && !plausibleBrand(token) {
			continue
		}
		if token == "" {
			continue
		}
		rest := strings.TrimSpace(name[loc[1]:])
		return Extraction{Brand: token, Product: CleanProduct(rest)}
	}
	return Extraction{Product: name}
}

// CleanProduct strips wardrobe noise from a raw product name: trailing
// type words (Hair, Skin, boxed...), version numbers, and dangling
// separators. An all-noise name cleans to "".
func CleanProduct(product string) string {
	out := strings.TrimSpace(product)
	for changed := true; changed; {
		changed = false
		for _, re := range suffixNoise {
			trimmed := strings.TrimSpace(re.ReplaceAllString(out, ""))
			if trimmed != out {
				out = trimmed
				changed = true
			}
		}
	}
	return out
}

func plausibleBrand(token string) bool {
	if len(token) <= 2 {
		return false
	}
	return !notBrands[strings.ToLower(token)]
}
