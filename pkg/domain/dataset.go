package domain

import "time"

// Dataset is the consolidated document consumed by the front-end
type Dataset struct {
	Articles []Article `json:"articles"`
	Metadata Metadata  `json:"metadata"`
}

// Metadata holds aggregates computed over the dataset articles
type Metadata struct {
	TotalArticles         int           `json:"totalArticles"`
	LastUpdated           time.Time     `json:"lastUpdated"`
	Sources               []string      `json:"sources"`
	Topics                []string      `json:"topics"`
	Audiences             []string      `json:"audiences"`
	Difficulties          []string      `json:"difficulties"`
	AverageRelevanceScore float64       `json:"averageRelevanceScore"`
	TopTags               []TagCount    `json:"topTags"`
	ScrapingStats         ScrapingStats `json:"scrapingStats"`
}

// TagCount is a tag with the number of articles carrying it
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// ScrapingStats groups per-source and score distribution stats
type ScrapingStats struct {
	ArticlesPerSource          map[string]int `json:"articlesPerSource"`
	RelevanceScoreDistribution map[string]int `json:"relevanceScoreDistribution"`
	QualityMetrics             QualityMetrics `json:"qualityMetrics"`
}

// QualityMetrics summarizes content quality of the dataset
type QualityMetrics struct {
	AverageContentLength      float64 `json:"averageContentLength"`
	ArticlesWithHighRelevance int     `json:"articlesWithHighRelevance"`
}
