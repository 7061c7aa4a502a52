// Package classify assigns topic tags, audiences and difficulty levels to article text
// by deterministic keyword matching.
package classify

import (
	"github.com/minepenge/minepenge/pkg/config"
	"github.com/minepenge/minepenge/pkg/normalize"
)

type group struct {
	label   string
	matcher *normalize.Matcher
	size    int
}

// Classifier holds the compiled keyword groups of a lexicon
type Classifier struct {
	lex       *config.Lexicon
	tags      []group
	priority  map[string]bool
	audiences []group

	taggerTags      []normalize.Phrase
	tagCategory     map[string][]string // tagger tag -> category names
	categoryOrder   map[string]int
	targetAudiences []group
	technical       *normalize.Matcher
}

// New compiles all classification groups of the lexicon
func New(lex *config.Lexicon) *Classifier {
	c := &Classifier{
		lex:           lex,
		priority:      make(map[string]bool, len(lex.Tags.Priority)),
		tagCategory:   make(map[string][]string),
		categoryOrder: make(map[string]int, len(lex.Tagger.Categories)),
		technical:     normalize.NewMatcher(lex.Tagger.TechnicalTerms),
	}
	c.tags = compileGroups(lex.Tags.Categories)
	c.audiences = compileGroups(lex.Audiences.Groups)
	c.targetAudiences = compileGroups(lex.Tagger.Audiences)
	for _, p := range lex.Tags.Priority {
		c.priority[p] = true
	}

	seen := make(map[string]bool)
	for i, cat := range lex.Tagger.Categories {
		c.categoryOrder[cat.Name] = i
		for _, tag := range cat.Tags {
			c.tagCategory[tag] = append(c.tagCategory[tag], cat.Name)
			if !seen[tag] {
				seen[tag] = true
				c.taggerTags = append(c.taggerTags, normalize.Compile(tag))
			}
		}
	}
	return c
}

func compileGroups(groups []config.Group) []group {
	res := make([]group, 0, len(groups))
	for _, g := range groups {
		m := normalize.NewMatcher(g.Keywords)
		res = append(res, group{label: g.Label, matcher: m, size: len(m.Phrases())})
	}
	return res
}
