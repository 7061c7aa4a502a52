package domain

import "time"

// Rating is a reader verdict on an article
type Rating string

// enum of ratings
const (
	RatingPositive Rating = "positive"
	RatingNegative Rating = "negative"
)

// Valid reports whether the rating is one of the known values
func (r Rating) Valid() bool {
	return r == RatingPositive || r == RatingNegative
}

// Feedback is a single reader feedback entry
type Feedback struct {
	ArticleID int64     `json:"articleId"`
	Rating    Rating    `json:"rating"`
	Comment   string    `json:"comment"`
	Timestamp time.Time `json:"timestamp"`
}

// FeedbackStats summarizes the feedback log
type FeedbackStats struct {
	Total         int     `json:"total_feedback"`
	PositiveRatio float64 `json:"positive_ratio"`
	Recent        int     `json:"recent_feedback"`
}
