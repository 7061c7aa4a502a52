// Package summary builds short extractive summaries of article text.
package summary

import (
	"strings"
	"unicode"

	"github.com/minepenge/minepenge/pkg/config"
	"github.com/minepenge/minepenge/pkg/normalize"
)

// Summarizer picks the first meaningful sentence of an article
type Summarizer struct {
	lex  config.SummaryLexicon
	norm *normalize.Normalizer
}

// New makes a Summarizer from the summary section of the lexicon
func New(lex config.SummaryLexicon) *Summarizer {
	return &Summarizer{lex: lex, norm: normalize.New(lex.StripPrefixes, lex.MinLength)}
}

// Summarize returns a marked summary, or the unavailable text when there is too little to work with
func (s *Summarizer) Summarize(text string) string {
	// length gate applies to the input, before boilerplate is stripped
	if !s.norm.Sufficient(strings.Join(strings.Fields(text), " ")) {
		return s.lex.Unavailable
	}
	clean := s.norm.Normalize(text)
	if clean == "" {
		return s.lex.Unavailable
	}

	for _, sentence := range normalize.Sentences(clean) {
		if normalize.RuneLen(sentence) <= s.lex.MinSentence || isShouting(sentence) {
			continue
		}
		return s.lex.Marker + s.clip(sentence)
	}
	return s.lex.Marker + s.clip(clean)
}

// Unavailable returns the placeholder used for text too short to summarize
func (s *Summarizer) Unavailable() string { return s.lex.Unavailable }

func (s *Summarizer) clip(text string) string {
	if normalize.RuneLen(text) <= s.lex.MaxLength {
		return text
	}
	return strings.TrimRightFunc(normalize.Truncate(text, s.lex.MaxLength), unicode.IsSpace) + "..."
}

// isShouting reports whether s has cased letters and none of them lower case
func isShouting(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			cased = true
		}
	}
	return cased
}
