package dataset

import (
	"math"
	"sort"
	"time"

	"github.com/minepenge/minepenge/pkg/domain"
	"github.com/minepenge/minepenge/pkg/normalize"
)

const (
	topTagsLimit  = 10
	highRelevance = 15.0
)

// score distribution buckets, lower bound inclusive
var scoreBuckets = []struct {
	name string
	min  float64
}{
	{name: "20+", min: 20},
	{name: "15-20", min: 15},
	{name: "10-15", min: 10},
	{name: "5-10", min: 5},
}

// BuildMetadata computes dataset aggregates, all lists are sorted for stable output
func BuildMetadata(articles []domain.Article, now time.Time) domain.Metadata {
	md := domain.Metadata{
		TotalArticles: len(articles),
		LastUpdated:   now,
		ScrapingStats: domain.ScrapingStats{
			ArticlesPerSource:          map[string]int{},
			RelevanceScoreDistribution: map[string]int{"5-10": 0, "10-15": 0, "15-20": 0, "20+": 0},
		},
	}

	sources, topics := map[string]bool{}, map[string]bool{}
	audiences, difficulties := map[string]bool{}, map[string]bool{}
	tagCounts := map[string]int{}
	var scoreSum float64
	var summaryLen int

	for _, a := range articles {
		sources[a.Source] = true
		audiences[a.Audience] = true
		difficulties[a.Difficulty] = true
		for _, tag := range a.Tags {
			topics[tag] = true
			tagCounts[tag]++
		}
		md.ScrapingStats.ArticlesPerSource[a.Source]++
		for _, b := range scoreBuckets {
			if a.RelevanceScore >= b.min {
				md.ScrapingStats.RelevanceScoreDistribution[b.name]++
				break
			}
		}
		if a.RelevanceScore >= highRelevance {
			md.ScrapingStats.QualityMetrics.ArticlesWithHighRelevance++
		}
		scoreSum += a.RelevanceScore
		summaryLen += normalize.RuneLen(a.Summary)
	}

	md.Sources = sortedKeys(sources)
	md.Topics = sortedKeys(topics)
	md.Audiences = sortedKeys(audiences)
	md.Difficulties = sortedKeys(difficulties)
	md.TopTags = topTags(tagCounts, topTagsLimit)
	if n := len(articles); n > 0 {
		md.AverageRelevanceScore = round2(scoreSum / float64(n))
		md.ScrapingStats.QualityMetrics.AverageContentLength = round2(float64(summaryLen) / float64(n))
	}
	return md
}

func topTags(counts map[string]int, limit int) []domain.TagCount {
	res := make([]domain.TagCount, 0, len(counts))
	for tag, n := range counts {
		res = append(res, domain.TagCount{Tag: tag, Count: n})
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Count != res[j].Count {
			return res[i].Count > res[j].Count
		}
		return res[i].Tag < res[j].Tag
	})
	if len(res) > limit {
		res = res[:limit]
	}
	return res
}

func sortedKeys(m map[string]bool) []string {
	res := make([]string, 0, len(m))
	for k := range m {
		res = append(res, k)
	}
	sort.Strings(res)
	return res
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
