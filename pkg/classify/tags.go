package classify

import (
	"sort"

	"github.com/minepenge/minepenge/pkg/normalize"
)

// Tags returns up to max tags for the article text, priority topics first. Never empty.
func (c *Classifier) Tags(text string) []string {
	cfg := c.lex.Tags
	if normalize.RuneLen(text) < cfg.MinTextLength {
		return []string{cfg.ShortFallback}
	}
	t := normalize.NewText(normalize.Truncate(text, cfg.ScanLimit))

	var found []string
	seen := make(map[string]bool, len(c.tags))
	for _, g := range c.tags {
		if !seen[g.label] && g.matcher.Any(t) {
			seen[g.label] = true
			found = append(found, g.label)
		}
	}
	if len(found) == 0 {
		return []string{cfg.Fallback}
	}

	// priority labels first, discovery order kept within both partitions
	sort.SliceStable(found, func(i, j int) bool { return c.priority[found[i]] && !c.priority[found[j]] })
	if len(found) > cfg.MaxTags {
		found = found[:cfg.MaxTags]
	}
	return found
}

// MatchTags returns every tagger tag present in text, at most max tags ranked by frequency
func (c *Classifier) MatchTags(text string) []string {
	t := normalize.NewText(text)
	type hit struct {
		tag   string
		count int
		order int
	}
	var hits []hit
	for i, p := range c.taggerTags {
		if n := t.Count(p); n > 0 {
			hits = append(hits, hit{tag: p.Keyword, count: n, order: i})
		}
	}

	if maxTags := c.lex.Tagger.MaxTags; len(hits) > maxTags {
		sort.SliceStable(hits, func(i, j int) bool {
			if hits[i].count != hits[j].count {
				return hits[i].count > hits[j].count
			}
			return hits[i].order < hits[j].order
		})
		hits = hits[:maxTags]
	}

	res := make([]string, 0, len(hits))
	for _, h := range hits {
		res = append(res, h.tag)
	}
	return res
}

// Categories maps tagger tags to their distinct category names in configured order
func (c *Classifier) Categories(tags []string) []string {
	seen := make(map[string]bool)
	var res []string
	for _, tag := range tags {
		for _, cat := range c.tagCategory[tag] {
			if !seen[cat] {
				seen[cat] = true
				res = append(res, cat)
			}
		}
	}
	sort.SliceStable(res, func(i, j int) bool { return c.categoryOrder[res[i]] < c.categoryOrder[res[j]] })
	return res
}
