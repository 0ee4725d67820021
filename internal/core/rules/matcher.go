// Package rules evaluates an ordered, user-extensible rule set against
// normalized inventory names and composes the full classification for an
// entry: target category path, brand segment, and product subfolder.
package rules

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/example/curator/internal/models"
)

// Compiled is a rule with its matcher built. Keyword tokens are always
// regexp-escaped before compilation; a literal "*HDM*" in a rule must match
// the asterisks, never act as a quantifier. User-supplied patterns compile
// case-insensitive as written.
type Compiled struct {
	Rule       models.Rule
	matcher    *regexp.Regexp
	subfolders []compiledSubfolder
}

type compiledSubfolder struct {
	segment string
	match   *regexp.Regexp
	exclude *regexp.Regexp
}

// CompileRule builds the matcher for one rule. An uncompilable pattern is
// a load-time error; nothing may reach the remote store with a rule set
// that only partially compiled.
func CompileRule(r models.Rule) (*Compiled, error) {
	c := &Compiled{Rule: r}

	switch r.MatcherKind {
	case models.MatcherKeywords:
		if len(r.Keywords) == 0 {
			return nil, fmt.Errorf("rule %q has no keywords", r.Name)
		}
		re, err := compileKeywords(r.Keywords, r.WholeWord)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", r.Name, err)
		}
		c.matcher = re
	case models.MatcherPattern:
		if r.Pattern == "" {
			return nil, fmt.Errorf("rule %q has an empty pattern", r.Name)
		}
		re, err := regexp.Compile("(?i)" + r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rule %q: invalid pattern: %w", r.Name, err)
		}
		c.matcher = re
	default:
		return nil, fmt.Errorf("rule %q has unknown matcher kind %q", r.Name, r.MatcherKind)
	}

	for _, sub := range r.SubfolderRules {
		cs := compiledSubfolder{segment: sub.Segment}
		re, err := compileKeywords(sub.Keywords, sub.WholeWord)
		if err != nil {
			return nil, fmt.Errorf("rule %q subfolder %q: %w", r.Name, sub.Segment, err)
		}
		cs.match = re
		if len(sub.Exclude) > 0 {
			ex, err := compileKeywords(sub.Exclude, false)
			if err != nil {
				return nil, fmt.Errorf("rule %q subfolder %q: %w", r.Name, sub.Segment, err)
			}
			cs.exclude = ex
		}
		c.subfolders = append(c.subfolders, cs)
	}

	return c, nil
}

// Matches reports whether the compiled matcher finds the rule anywhere in
// the normalized name.
func (c *Compiled) Matches(name string) bool {
	return c.matcher.MatchString(name)
}

// Subfolder returns the product-type segment for the name, or "" when no
// subfolder rule applies. Subfolder rules run in declaration order; the
// first hit wins.
func (c *Compiled) Subfolder(name string) string {
	for _, sub := range c.subfolders {
		if !sub.match.MatchString(name) {
			continue
		}
		if sub.exclude != nil && sub.exclude.MatchString(name) {
			continue
		}
		return sub.segment
	}
	return ""
}

// compileKeywords builds one case-insensitive alternation over escaped
// keywords. Keywords with word-character edges get \b boundaries when
// wholeWord is set; tokens edged by punctuation ("*HDM*") match as plain
// substrings, since \b against punctuation does not mean what rule
// authors expect.
func compileKeywords(keywords []string, wholeWord bool) (*regexp.Regexp, error) {
	alts := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		alt := regexp.QuoteMeta(kw)
		if wholeWord && wordEdged(kw) {
			alt = `\b` + alt + `\b`
		}
		alts = append(alts, alt)
	}
	if len(alts) == 0 {
		return nil, fmt.Errorf("no usable keywords")
	}
	return regexp.Compile("(?i)(?:" + strings.Join(alts, "|") + ")")
}

// wordEdged reports whether a keyword starts and ends on a word character,
// the only shape where \b boundaries behave as expected.
func wordEdged(s string) bool {
	runes := []rune(s)
	if len(runes) == 0 {
		return false
	}
	return isWordRune(runes[0]) && isWordRune(runes[len(runes)-1])
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
