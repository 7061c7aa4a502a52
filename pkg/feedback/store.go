// Package feedback keeps reader ratings of articles in a JSON log.
package feedback

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"sync"
	"time"

	"github.com/minepenge/minepenge/pkg/dataset"
	"github.com/minepenge/minepenge/pkg/domain"
)

// ErrInvalidRating is returned for ratings other than positive or negative
var ErrInvalidRating = errors.New("invalid rating")

const recentWindow = 7 * 24 * time.Hour

type fileContent struct {
	Feedback []domain.Feedback `json:"feedback"`
}

// Store appends feedback to a JSON file, safe for concurrent use
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore makes a Store for the log at path
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Add validates and appends one entry, the file is rewritten atomically
func (s *Store) Add(fb domain.Feedback) error {
	if !fb.Rating.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidRating, fb.Rating)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	content, err := s.read()
	if err != nil {
		return err
	}
	content.Feedback = append(content.Feedback, fb)
	if err := dataset.WriteJSON(s.path, content); err != nil {
		return fmt.Errorf("save feedback: %w", err)
	}
	return nil
}

// List returns all entries in insertion order
func (s *Store) List() ([]domain.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	content, err := s.read()
	if err != nil {
		return nil, err
	}
	return content.Feedback, nil
}

// Stats summarizes the log, recent counts entries of the last seven days before now
func (s *Store) Stats(now time.Time) (domain.FeedbackStats, error) {
	entries, err := s.List()
	if err != nil {
		return domain.FeedbackStats{}, err
	}
	res := domain.FeedbackStats{Total: len(entries)}
	if res.Total == 0 {
		return res, nil
	}

	positive := 0
	weekAgo := now.Add(-recentWindow)
	for _, fb := range entries {
		if fb.Rating == domain.RatingPositive {
			positive++
		}
		if fb.Timestamp.After(weekAgo) {
			res.Recent++
		}
	}
	res.PositiveRatio = math.Round(float64(positive)/float64(res.Total)*1000) / 10
	return res, nil
}

func (s *Store) read() (fileContent, error) {
	var content fileContent
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return content, nil
	}
	if err != nil {
		return content, fmt.Errorf("read feedback: %w", err)
	}
	if err := json.Unmarshal(data, &content); err != nil {
		return content, fmt.Errorf("parse feedback: %w", err)
	}
	return content, nil
}
