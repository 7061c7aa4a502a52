package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/minepenge/minepenge/pkg/dataset"
	"github.com/minepenge/minepenge/pkg/domain"
	"github.com/minepenge/minepenge/pkg/feed"
	"github.com/minepenge/minepenge/pkg/feedback"
	"github.com/minepenge/minepenge/pkg/scheduler"
)

const (
	defaultRelevantMinScore = 3.0
	recentWindow            = 7 * 24 * time.Hour
)

// articlesResponse is the envelope of all article listings
type articlesResponse struct {
	Articles []domain.Article `json:"articles"`
	MinScore *float64         `json:"min_score,omitempty"`
}

// statisticsResponse summarizes the dataset
type statisticsResponse struct {
	TotalArticles  int               `json:"total_articles"`
	Sources        []string          `json:"sources"`
	Topics         []string          `json:"topics"`
	Audiences      []string          `json:"audiences"`
	Difficulties   []string          `json:"difficulties"`
	RecentArticles int               `json:"recent_articles"`
	AverageScore   float64           `json:"average_relevance_score"`
	TopTags        []domain.TagCount `json:"top_tags"`
	LastUpdated    time.Time         `json:"last_updated"`
}

// scraperStatusResponse reports harvest state
type scraperStatusResponse struct {
	IsRunning      bool        `json:"is_running"`
	LastRun        *domain.Run `json:"last_run"`
	ArticlesFound  int         `json:"articles_found"`
	SourcesScraped []string    `json:"sources_scraped"`
}

// statusHandler returns server status
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"status":  "ok",
		"version": s.version,
		"time":    s.now().UTC(),
	}
	RenderJSON(w, r, http.StatusOK, status)
}

// loadArticles reads the dataset, a cold start gives an empty list
func (s *Server) loadArticles(w http.ResponseWriter, r *http.Request) ([]domain.Article, bool) {
	ds, err := s.Articles.Load()
	if err != nil {
		log.Printf("[ERROR] failed to load dataset: %v", err)
		RenderError(w, r, errors.New("failed to load articles"), http.StatusInternalServerError)
		return nil, false
	}
	if ds.Articles == nil {
		return []domain.Article{}, true
	}
	return ds.Articles, true
}

// limitParam reads optional positive limit query param, 0 means no limit
func limitParam(r *http.Request) (int, error) {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid limit %q", v)
	}
	return n, nil
}

func applyLimit(articles []domain.Article, limit int) []domain.Article {
	if limit > 0 && len(articles) > limit {
		return articles[:limit]
	}
	return articles
}

// articlesHandler returns all articles by relevance
func (s *Server) articlesHandler(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r)
	if err != nil {
		RenderError(w, r, err, http.StatusBadRequest)
		return
	}
	articles, ok := s.loadArticles(w, r)
	if !ok {
		return
	}
	dataset.Sort(articles)
	RenderJSON(w, r, http.StatusOK, articlesResponse{Articles: applyLimit(articles, limit)})
}

// latestArticlesHandler returns articles by discovery time, newest first
func (s *Server) latestArticlesHandler(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r)
	if err != nil {
		RenderError(w, r, err, http.StatusBadRequest)
		return
	}
	articles, ok := s.loadArticles(w, r)
	if !ok {
		return
	}
	dataset.SortLatest(articles)
	RenderJSON(w, r, http.StatusOK, articlesResponse{Articles: applyLimit(articles, limit)})
}

// relevantArticlesHandler returns articles scored at least min_score
func (s *Server) relevantArticlesHandler(w http.ResponseWriter, r *http.Request) {
	minScore := defaultRelevantMinScore
	if v := r.URL.Query().Get("min_score"); v != "" {
		score, err := strconv.ParseFloat(v, 64)
		if err != nil {
			RenderError(w, r, fmt.Errorf("invalid min_score %q", v), http.StatusBadRequest)
			return
		}
		minScore = score
	}
	articles, ok := s.loadArticles(w, r)
	if !ok {
		return
	}

	res := make([]domain.Article, 0, len(articles))
	for _, a := range articles {
		if a.RelevanceScore >= minScore {
			res = append(res, a)
		}
	}
	dataset.Sort(res)
	RenderJSON(w, r, http.StatusOK, articlesResponse{Articles: res, MinScore: &minScore})
}

// sourceArticlesHandler returns articles of one source, case-insensitive
func (s *Server) sourceArticlesHandler(w http.ResponseWriter, r *http.Request) {
	source := r.PathValue("source")
	articles, ok := s.loadArticles(w, r)
	if !ok {
		return
	}

	res := make([]domain.Article, 0, len(articles))
	for _, a := range articles {
		if strings.EqualFold(a.Source, source) {
			res = append(res, a)
		}
	}
	dataset.Sort(res)
	RenderJSON(w, r, http.StatusOK, articlesResponse{Articles: res})
}

// dateRangeHandler returns articles found between start_date and end_date, both optional and inclusive
func (s *Server) dateRangeHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StartDate string `json:"start_date"`
		EndDate   string `json:"end_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RenderError(w, r, fmt.Errorf("invalid request: %w", err), http.StatusBadRequest)
		return
	}

	var from, to time.Time
	if req.StartDate != "" {
		t, ok := dataset.ParseTime(req.StartDate)
		if !ok {
			RenderError(w, r, fmt.Errorf("invalid start_date %q", req.StartDate), http.StatusBadRequest)
			return
		}
		from = t
	}
	if req.EndDate != "" {
		t, ok := dataset.ParseTime(req.EndDate)
		if !ok {
			RenderError(w, r, fmt.Errorf("invalid end_date %q", req.EndDate), http.StatusBadRequest)
			return
		}
		// a bare date covers the whole day
		if t.Equal(t.Truncate(24 * time.Hour)) {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		to = t
	}

	articles, ok := s.loadArticles(w, r)
	if !ok {
		return
	}
	res := make([]domain.Article, 0, len(articles))
	for _, a := range articles {
		if !from.IsZero() && a.FoundAt.Before(from) {
			continue
		}
		if !to.IsZero() && a.FoundAt.After(to) {
			continue
		}
		res = append(res, a)
	}
	dataset.SortLatest(res)
	RenderJSON(w, r, http.StatusOK, articlesResponse{Articles: res})
}

// statisticsHandler summarizes the dataset
func (s *Server) statisticsHandler(w http.ResponseWriter, r *http.Request) {
	articles, ok := s.loadArticles(w, r)
	if !ok {
		return
	}
	now := s.now()
	meta := dataset.BuildMetadata(articles, now)

	recent := 0
	for _, a := range articles {
		if now.Sub(a.FoundAt) <= recentWindow {
			recent++
		}
	}

	RenderJSON(w, r, http.StatusOK, statisticsResponse{
		TotalArticles:  meta.TotalArticles,
		Sources:        meta.Sources,
		Topics:         meta.Topics,
		Audiences:      meta.Audiences,
		Difficulties:   meta.Difficulties,
		RecentArticles: recent,
		AverageScore:   meta.AverageRelevanceScore,
		TopTags:        meta.TopTags,
		LastUpdated:    meta.LastUpdated,
	})
}

// feedbackHandler stores a reader rating
func (s *Server) feedbackHandler(w http.ResponseWriter, r *http.Request) {
	var fb domain.Feedback
	if err := json.NewDecoder(r.Body).Decode(&fb); err != nil {
		RenderError(w, r, fmt.Errorf("invalid feedback: %w", err), http.StatusBadRequest)
		return
	}
	if fb.Timestamp.IsZero() {
		fb.Timestamp = s.now()
	}

	if err := s.Feedback.Add(fb); err != nil {
		if errors.Is(err, feedback.ErrInvalidRating) {
			RenderError(w, r, err, http.StatusBadRequest)
			return
		}
		log.Printf("[ERROR] failed to save feedback: %v", err)
		RenderError(w, r, errors.New("failed to save feedback"), http.StatusInternalServerError)
		return
	}
	if s.Metrics != nil {
		s.Metrics.FeedbackReceived(string(fb.Rating))
	}
	RenderJSON(w, r, http.StatusOK, map[string]string{"message": "Feedback submitted successfully"})
}

// feedbackStatsHandler summarizes the feedback log
func (s *Server) feedbackStatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := s.Feedback.Stats(s.now())
	if err != nil {
		log.Printf("[ERROR] failed to read feedback: %v", err)
		RenderError(w, r, errors.New("failed to read feedback"), http.StatusInternalServerError)
		return
	}
	RenderJSON(w, r, http.StatusOK, stats)
}

// scraperStatusHandler reports whether a harvest is running and the last recorded run
func (s *Server) scraperStatusHandler(w http.ResponseWriter, r *http.Request) {
	resp := scraperStatusResponse{SourcesScraped: []string{}}
	for _, src := range s.Config.GetFullConfig().EnabledSources() {
		resp.SourcesScraped = append(resp.SourcesScraped, src.Name)
	}
	if s.Harvester != nil {
		resp.IsRunning = s.Harvester.Running()
	}
	if s.Runs != nil {
		run, found, err := s.Runs.LastRun(r.Context())
		if err != nil {
			log.Printf("[WARN] failed to get last run: %v", err)
		}
		if found {
			resp.LastRun = &run
		}
	}

	articles, ok := s.loadArticles(w, r)
	if !ok {
		return
	}
	resp.ArticlesFound = len(articles)
	RenderJSON(w, r, http.StatusOK, resp)
}

// scrapeHandler starts a harvest in background
func (s *Server) scrapeHandler(w http.ResponseWriter, r *http.Request) {
	if s.Harvester == nil {
		RenderError(w, r, errors.New("harvest is not available"), http.StatusServiceUnavailable)
		return
	}
	if err := s.Harvester.Trigger(); err != nil {
		if errors.Is(err, scheduler.ErrRunInProgress) {
			RenderError(w, r, err, http.StatusConflict)
			return
		}
		log.Printf("[ERROR] failed to start harvest: %v", err)
		RenderError(w, r, err, http.StatusInternalServerError)
		return
	}
	RenderJSON(w, r, http.StatusAccepted, map[string]string{"message": "harvest started"})
}

// rssHandler serves the dataset as RSS, optionally limited to one tag
func (s *Server) rssHandler(w http.ResponseWriter, r *http.Request) {
	tag := r.PathValue("tag")
	if tag == "" {
		tag = r.URL.Query().Get("tag")
	}

	ds, err := s.Articles.Load()
	if err != nil {
		log.Printf("[ERROR] failed to load dataset for RSS: %v", err)
		http.Error(w, "Failed to generate RSS feed", http.StatusInternalServerError)
		return
	}
	articles := ds.Articles
	dataset.SortLatest(articles)

	rss, err := feed.NewGenerator(s.Config.GetFullConfig().Server.BaseURL).GenerateRSS(articles, tag)
	if err != nil {
		log.Printf("[ERROR] failed to generate RSS feed: %v", err)
		http.Error(w, "Failed to generate RSS feed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	if _, err := w.Write([]byte(rss)); err != nil {
		log.Printf("[ERROR] failed to write RSS response: %v", err)
	}
}

// opmlHandler lists the configured sources and their feeds
func (s *Server) opmlHandler(w http.ResponseWriter, _ *http.Request) {
	cfg := s.Config.GetFullConfig()
	opml, err := feed.NewGenerator(cfg.Server.BaseURL).GenerateOPML(cfg.Sources)
	if err != nil {
		log.Printf("[ERROR] failed to generate OPML: %v", err)
		http.Error(w, "Failed to generate OPML", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/x-opml; charset=utf-8")
	if _, err := w.Write([]byte(opml)); err != nil {
		log.Printf("[ERROR] failed to write OPML response: %v", err)
	}
}
