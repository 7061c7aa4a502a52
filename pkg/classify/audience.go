package classify

import (
	"math"
	"sort"

	"github.com/minepenge/minepenge/pkg/normalize"
)

// Audience returns the first audience group with a keyword in text, or the fallback audience
func (c *Classifier) Audience(text string) string {
	t := normalize.NewText(text)
	for _, g := range c.audiences {
		if g.matcher.Any(t) {
			return g.label
		}
	}
	return c.lex.Audiences.Fallback
}

// AudienceConfidence scores every tagger audience by the share of its keywords found in text
func (c *Classifier) AudienceConfidence(text string) map[string]float64 {
	t := normalize.NewText(text)
	res := make(map[string]float64, len(c.targetAudiences))
	for _, g := range c.targetAudiences {
		if g.size == 0 {
			res[g.label] = 0
			continue
		}
		conf := float64(g.matcher.CountMatched(t)) / float64(g.size) * c.lex.Tagger.Scale
		res[g.label] = math.Round(math.Min(1, conf)*100) / 100
	}
	return res
}

// TargetAudiences picks audiences scoring above the threshold, best first, capped at max audiences
func (c *Classifier) TargetAudiences(scores map[string]float64) []string {
	var res []string
	order := make(map[string]int, len(c.targetAudiences))
	for i, g := range c.targetAudiences {
		order[g.label] = i
		if scores[g.label] > c.lex.Tagger.Threshold {
			res = append(res, g.label)
		}
	}
	sort.SliceStable(res, func(i, j int) bool {
		if scores[res[i]] != scores[res[j]] {
			return scores[res[i]] > scores[res[j]]
		}
		return order[res[i]] < order[res[j]]
	})
	if len(res) > c.lex.Tagger.MaxAudiences {
		res = res[:c.lex.Tagger.MaxAudiences]
	}
	return res
}
