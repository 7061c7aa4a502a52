package domain

import "time"

// Article is a scored, classified article as persisted in the dataset
type Article struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Summary        string    `json:"summary"`
	Tags           []string  `json:"tags"`
	Source         string    `json:"source"`
	PublishedAt    string    `json:"publishedAt"`
	FoundAt        time.Time `json:"foundAt"`
	Audience       string    `json:"audience"`
	Difficulty     string    `json:"difficulty"`
	URL            string    `json:"url"`
	RelevanceScore float64   `json:"relevance_score"`
}

// RawArticle is the extraction layer output, already stripped of HTML
type RawArticle struct {
	URL       string     `json:"url"`
	Title     string     `json:"title"`
	Text      string     `json:"text"`
	Source    string     `json:"source"`
	Summary   string     `json:"summary,omitempty"`
	Published *time.Time `json:"published,omitempty"`
}

// TaggedArticle is the batch tagger output with multi-label audiences
type TaggedArticle struct {
	ArticleID        string             `json:"article_id"`
	Title            string             `json:"title"`
	Source           string             `json:"source"`
	URL              string             `json:"url"`
	Summary          string             `json:"summary"`
	TargetAudiences  []string           `json:"target_audiences"`
	ComplexityLevel  string             `json:"complexity_level"`
	Difficulty       string             `json:"difficulty"`
	Tags             []string           `json:"minepenge_tags"`
	TagCategories    []string           `json:"tag_categories"`
	ConfidenceScores map[string]float64 `json:"confidence_scores"`
	WordCount        int                `json:"word_count"`
	Content          string             `json:"content,omitempty"`
	PublishedAt      string             `json:"published_at,omitempty"`
	TaggedAt         time.Time          `json:"tagged_at"`
}
