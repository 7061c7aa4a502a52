// Package normalize cleans extracted article text and splits it into words and sentences.
// All keyword matching in the pipeline works on the tokens produced here, so word boundaries
// behave the same for æ, ø and å as for ascii letters.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// DefaultMinLength is the minimum number of runes for text to be worth summarizing
const DefaultMinLength = 50

var sentenceSplit = regexp.MustCompile(`[.!?]+`)

// Normalizer collapses whitespace and strips boilerplate prefixes left by page extraction
type Normalizer struct {
	prefixes  []string
	minLength int
}

// New makes a Normalizer stripping the given prefixes, minLength <= 0 means DefaultMinLength
func New(prefixes []string, minLength int) *Normalizer {
	if minLength <= 0 {
		minLength = DefaultMinLength
	}
	res := &Normalizer{minLength: minLength}
	for _, p := range prefixes {
		if p = strings.TrimSpace(norm.NFC.String(p)); p != "" {
			res.prefixes = append(res.prefixes, p)
		}
	}
	return res
}

// Normalize returns NFC text with whitespace runs collapsed and leading boilerplate removed
func (n *Normalizer) Normalize(s string) string {
	s = strings.Join(strings.Fields(norm.NFC.String(s)), " ")
	for {
		stripped := false
		for _, p := range n.prefixes {
			if rest, ok := cutPrefixFold(s, p); ok {
				s = strings.TrimSpace(rest)
				stripped = true
			}
		}
		if !stripped {
			return s
		}
	}
}

// Sufficient reports whether normalized text is long enough to be used
func (n *Normalizer) Sufficient(s string) bool {
	return RuneLen(s) >= n.minLength
}

// cutPrefixFold removes prefix from s ignoring case. A prefix ending in a letter or digit only
// matches a whole word, so "PENGE" is stripped from "PENGE Renten stiger" but not from "Pengene".
func cutPrefixFold(s, prefix string) (string, bool) {
	pr := []rune(prefix)
	sr := []rune(s)
	if len(sr) < len(pr) || !strings.EqualFold(string(sr[:len(pr)]), prefix) {
		return s, false
	}
	if isWordRune(pr[len(pr)-1]) && len(sr) > len(pr) && isWordRune(sr[len(pr)]) {
		return s, false
	}
	return string(sr[len(pr):]), true
}

// Lower lowercases text with danish casing rules after NFC normalization
func Lower(s string) string {
	// casers keep state and are not safe for concurrent use
	return cases.Lower(language.Danish).String(norm.NFC.String(s))
}

// Tokens splits text into lowercase words, anything not a letter or digit separates words
func Tokens(s string) []string {
	return strings.FieldsFunc(Lower(s), func(r rune) bool { return !isWordRune(r) })
}

// WordCount returns the number of whitespace separated fields
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// RuneLen returns the length of s in characters
func RuneLen(s string) int {
	return len([]rune(s))
}

// Truncate cuts s to at most n runes
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// Sentences splits text on runs of sentence terminators and trims each part, keeping empty parts
func Sentences(s string) []string {
	parts := sentenceSplit.Split(s, -1)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
