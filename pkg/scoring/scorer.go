// Package scoring rates how relevant an article is for danish personal finance readers.
package scoring

import (
	"math"
	"sort"

	"github.com/minepenge/minepenge/pkg/config"
	"github.com/minepenge/minepenge/pkg/normalize"
)

// DefaultMinScore is the threshold below which articles are dropped
const DefaultMinScore = 5.0

// Scorer computes keyword based relevance scores
type Scorer struct {
	lex       config.ScoringLexicon
	primary   *normalize.Matcher
	secondary *normalize.Matcher
	negative  *normalize.Matcher
	highValue *normalize.Matcher
	breadth   []config.BreadthBonus
}

// Result is a score with the parts it was built from
type Result struct {
	Score          float64
	Primary        float64
	Secondary      float64
	Breadth        float64
	HighValue      float64
	LengthFactor   float64
	LengthBonus    float64
	Penalty        float64
	BaseBonus      float64
	PrimaryMatches int
	Negatives      []string
}

// New makes a Scorer from the scoring section of the lexicon
func New(lex config.ScoringLexicon) *Scorer {
	breadth := make([]config.BreadthBonus, len(lex.Breadth))
	copy(breadth, lex.Breadth)
	// highest threshold first, first applicable wins
	sort.SliceStable(breadth, func(i, j int) bool { return breadth[i].MinMatches > breadth[j].MinMatches })

	return &Scorer{
		lex:       lex,
		primary:   normalize.NewMatcher(lex.Primary),
		secondary: normalize.NewMatcher(lex.Secondary),
		negative:  normalize.NewMatcher(lex.Negative),
		highValue: normalize.NewMatcher(lex.HighValue),
		breadth:   breadth,
	}
}

// Score returns the relevance score of an article body and title
func (s *Scorer) Score(text, title string) float64 {
	return s.Breakdown(text, title).Score
}

// Breakdown scores an article and reports the components of the score
func (s *Scorer) Breakdown(text, title string) Result {
	body, head := normalize.NewText(text), normalize.NewText(title)
	w := s.lex.Weights
	res := Result{LengthFactor: 1}

	for _, p := range s.primary.Phrases() {
		if body.Has(p) {
			res.Primary += w.Primary.Body
			res.PrimaryMatches++
		}
		if head.Has(p) {
			res.Primary += w.Primary.Title
			res.PrimaryMatches++
		}
	}

	for _, p := range s.secondary.Phrases() {
		if body.Has(p) {
			res.Secondary += w.Secondary.Body
		}
		if head.Has(p) {
			res.Secondary += w.Secondary.Title
		}
	}

	for _, b := range s.breadth {
		if res.PrimaryMatches >= b.MinMatches {
			res.Breadth = b.Bonus
			break
		}
	}

	for _, p := range s.highValue.Phrases() {
		if body.Has(p) {
			res.HighValue += w.HighValue.Body
		}
		if head.Has(p) {
			res.HighValue += w.HighValue.Title
		}
	}

	score := res.Primary + res.Secondary + res.Breadth + res.HighValue

	length := normalize.RuneLen(text)
	if length < s.lex.ShortLength {
		res.LengthFactor = s.lex.ShortMultiplier
		score *= s.lex.ShortMultiplier
	}
	if length > s.lex.LongLength {
		res.LengthBonus = s.lex.LongBonus
		score += s.lex.LongBonus
	}

	// penalty comes after the length factor so short articles are not penalized less
	for _, p := range s.negative.Phrases() {
		inBody, inTitle := body.Has(p), head.Has(p)
		if inBody {
			res.Penalty += w.Negative.Body
		}
		if inTitle {
			res.Penalty += w.Negative.Title
		}
		if inBody || inTitle {
			res.Negatives = append(res.Negatives, p.Keyword)
		}
	}
	score -= res.Penalty

	if score > 0 {
		res.BaseBonus = s.lex.BaseBonus
		score += s.lex.BaseBonus
	}

	res.Score = score
	return res
}

// Round2 rounds a score to two decimals for storage
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
