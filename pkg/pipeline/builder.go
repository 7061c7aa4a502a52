package pipeline

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/minepenge/minepenge/pkg/dataset"
	"github.com/minepenge/minepenge/pkg/dedup"
	"github.com/minepenge/minepenge/pkg/domain"
	"github.com/minepenge/minepenge/pkg/normalize"
	"github.com/minepenge/minepenge/pkg/scoring"
)

//go:generate moq -out mocks/store.go -pkg mocks -skip-ensure -fmt goimports . DatasetStore

// DatasetStore loads and saves the consolidated dataset
type DatasetStore interface {
	Load() (domain.Dataset, error)
	Save(ds domain.Dataset) error
	Path() string
}

// BuildReport describes the result of a build job
type BuildReport struct {
	Files      []string
	PerSource  map[string]int
	Loaded     int
	Dropped    int
	Duplicates int
	Total      int
	Path       string
	SizeBytes  int64
}

// BuildJob consolidates tagged batch files into the dataset
type BuildJob struct {
	InputDir string
	Pattern  string

	proc      *Processor
	store     DatasetStore
	assembler *dataset.Assembler
	now       func() time.Time
}

// NewBuildJob makes a BuildJob, scoring and classification of incomplete records use proc.
// Duplicates are detected with a dedup.Deduplicator built from opts.
func NewBuildJob(proc *Processor, store DatasetStore, inputDir, pattern string, opts ...dedup.Option) *BuildJob {
	return &BuildJob{
		InputDir:  inputDir,
		Pattern:   pattern,
		proc:      proc,
		store:     store,
		assembler: dataset.NewAssembler(dedup.New(opts...)),
		now:       time.Now,
	}
}

// Run reads batches, merges them with the stored dataset and saves the result
func (b *BuildJob) Run() (BuildReport, error) {
	report := BuildReport{PerSource: map[string]int{}, Path: b.store.Path()}

	batches, err := dataset.ReadBatches(b.InputDir, b.Pattern)
	if err != nil {
		return report, fmt.Errorf("read batches: %w", err)
	}

	now := b.now()
	var articles []domain.Article
	for _, batch := range batches {
		report.Files = append(report.Files, batch.File)
		report.PerSource[batch.Source] += len(batch.Records)
		report.Loaded += len(batch.Records)
		for _, rec := range batch.Records {
			art, ok := b.Convert(rec, now)
			if !ok {
				report.Dropped++
				continue
			}
			articles = append(articles, art)
		}
		lgr.Printf("[INFO] loaded %d articles from %s", len(batch.Records), batch.File)
	}

	prior, err := b.store.Load()
	if err != nil {
		return report, fmt.Errorf("load dataset: %w", err)
	}
	ds, res := b.assembler.Assemble(prior.Articles, articles, now)
	report.Duplicates = res.Removed()
	report.Total = len(ds.Articles)

	if err := b.store.Save(ds); err != nil {
		return report, err
	}
	if fi, err := os.Stat(b.store.Path()); err == nil {
		report.SizeBytes = fi.Size()
	}
	return report, nil
}

// Convert turns a batch record into an article, filling missing fields the way a harvest would.
// Records without url or below the source threshold are rejected.
func (b *BuildJob) Convert(rec dataset.Record, now time.Time) (domain.Article, bool) {
	p := b.proc
	if rec.URL == "" {
		lgr.Printf("[DEBUG] skip record %q without url", rec.Title)
		return domain.Article{}, false
	}

	title := p.norm.Normalize(rec.Title)
	text := p.norm.Normalize(rec.Body())
	if text == "" {
		text = p.norm.Normalize(rec.Summary)
	}

	var score float64
	if rec.RelevanceScore != nil {
		score = *rec.RelevanceScore
	} else {
		score = p.scorer.Score(text, title)
	}
	ov := p.overrides[rec.Source]
	if minScore := p.MinScore(rec.Source); !ov.SkipRelevanceGate && score < minScore {
		lgr.Printf("[DEBUG] skip %s, relevance %.2f below %.2f", rec.URL, score, minScore)
		return domain.Article{}, false
	}
	if score < ov.ScoreFloor {
		score = ov.ScoreFloor
	}

	art := domain.Article{
		ID:             ArticleID(rec.URL),
		Title:          title,
		Summary:        rec.Summary,
		Tags:           rec.Tags,
		Source:         rec.Source,
		Audience:       rec.Audience,
		Difficulty:     rec.Difficulty,
		URL:            rec.URL,
		RelevanceScore: scoring.Round2(score),
	}
	if art.Title == "" {
		art.Title = NoTitle
	}
	if art.Summary == "" {
		art.Summary = p.summarizer.Summarize(text)
	}
	if len(art.Tags) == 0 {
		art.Tags = p.classifier.Tags(text)
	}
	if art.Audience == "" {
		art.Audience = p.classifier.Audience(text)
	}
	if art.Difficulty == "" {
		art.Difficulty = p.classifier.Difficulty(text)
	}

	art.FoundAt = now
	if found, ok := rec.Found(); ok {
		art.FoundAt = found
	}
	art.PublishedAt = publishedText(rec, now)
	return art, true
}

// publishedText keeps relative strings from the scraper and renders timestamps relative to now
func publishedText(rec dataset.Record, now time.Time) string {
	for _, v := range []string{rec.PublishedAt, rec.PublishedAtAlt} {
		if v == "" {
			continue
		}
		if t, ok := dataset.ParseTime(v); ok {
			return RelativeTime(&t, now)
		}
		return normalize.Truncate(v, 64)
	}
	return RelativeTime(nil, now)
}

// Print writes a human readable summary of the report
func (r BuildReport) Print(w io.Writer) {
	fmt.Fprintf(w, "found %d batch files:\n", len(r.Files))
	for _, f := range r.Files {
		fmt.Fprintf(w, "  - %s\n", f)
	}
	sources := make([]string, 0, len(r.PerSource))
	for s := range r.PerSource {
		sources = append(sources, s)
	}
	sort.Strings(sources)
	fmt.Fprintf(w, "articles per source:\n")
	for _, s := range sources {
		fmt.Fprintf(w, "  %s: %d\n", s, r.PerSource[s])
	}
	fmt.Fprintf(w, "dropped records: %d\n", r.Dropped)
	fmt.Fprintf(w, "duplicates removed: %d\n", r.Duplicates)
	fmt.Fprintf(w, "total articles: %d\n", r.Total)
	fmt.Fprintf(w, "saved %s (%.2f MB)\n", r.Path, float64(r.SizeBytes)/1024/1024)
}
