// Package pipeline turns extracted articles and batch files into dataset articles.
// Processor applies the quality gates to single articles during a harvest, TagJob and
// BuildJob are the offline batch jobs working on scraper output files.
package pipeline

import (
	"crypto/md5" //nolint:gosec // used for stable ids, not security
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/minepenge/minepenge/pkg/classify"
	"github.com/minepenge/minepenge/pkg/config"
	"github.com/minepenge/minepenge/pkg/domain"
	"github.com/minepenge/minepenge/pkg/normalize"
	"github.com/minepenge/minepenge/pkg/scoring"
	"github.com/minepenge/minepenge/pkg/summary"
)

//go:generate moq -out mocks/detector.go -pkg mocks -skip-ensure -fmt goimports . LanguageDetector

// NoTitle replaces empty titles
const NoTitle = "Ingen titel"

// DefaultMinTextLength is the length gate used when none is configured
const DefaultMinTextLength = 100

// LanguageDetector reports the ISO 639-1 code of text, ok is false when detection is not reliable
type LanguageDetector interface {
	Detect(text string) (code string, ok bool)
}

// Outcome is the result of processing one article
type Outcome int

// enum of processing outcomes
const (
	OutcomeAccepted Outcome = iota
	OutcomeTooShort
	OutcomeWrongLanguage
	OutcomeLowRelevance
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeTooShort:
		return "too short"
	case OutcomeWrongLanguage:
		return "wrong language"
	case OutcomeLowRelevance:
		return "low relevance"
	default:
		return "unknown"
	}
}

// Params holds processor dependencies and gate settings
type Params struct {
	Lexicon       *config.Lexicon
	Detector      LanguageDetector // nil disables the language gate
	MinTextLength int
	Language      string
	MinScore      float64
	Sources       []config.SourceConfig
}

// Processor normalizes, gates, scores and classifies raw articles
type Processor struct {
	norm       *normalize.Normalizer
	scorer     *scoring.Scorer
	classifier *classify.Classifier
	summarizer *summary.Summarizer
	detector   LanguageDetector

	minTextLength int
	language      string
	minScore      float64
	overrides     map[string]config.SourceOverrides
}

// NewProcessor makes a Processor, zero values in params fall back to defaults
func NewProcessor(p Params) *Processor {
	lex := p.Lexicon
	if lex == nil {
		lex = config.DefaultLexicon()
	}
	res := &Processor{
		norm:          normalize.New(nil, 0), // boilerplate prefixes are stripped by the summarizer only
		scorer:        scoring.New(lex.Scoring),
		classifier:    classify.New(lex),
		summarizer:    summary.New(lex.Summary),
		detector:      p.Detector,
		minTextLength: p.MinTextLength,
		language:      p.Language,
		minScore:      p.MinScore,
		overrides:     make(map[string]config.SourceOverrides, len(p.Sources)),
	}
	if res.minTextLength <= 0 {
		res.minTextLength = DefaultMinTextLength
	}
	if res.language == "" {
		res.language = "da"
	}
	if res.minScore <= 0 {
		res.minScore = scoring.DefaultMinScore
	}
	for _, src := range p.Sources {
		res.overrides[src.Name] = src.Overrides
	}
	return res
}

// MinScore returns the effective relevance threshold of a source
func (p *Processor) MinScore(source string) float64 {
	if ov, ok := p.overrides[source]; ok && ov.MinScore != nil {
		return *ov.MinScore
	}
	return p.minScore
}

// Process runs the gates on raw and builds the article. The article is valid only for OutcomeAccepted.
func (p *Processor) Process(raw domain.RawArticle, foundAt time.Time) (domain.Article, Outcome) {
	ov := p.overrides[raw.Source]
	text := p.norm.Normalize(raw.Text)
	title := p.norm.Normalize(raw.Title)

	if !ov.SkipLengthGate && normalize.RuneLen(text) < p.minTextLength {
		lgr.Printf("[DEBUG] skip %s, text too short (%d)", raw.URL, normalize.RuneLen(text))
		return domain.Article{}, OutcomeTooShort
	}

	if !ov.SkipLanguageGate && p.detector != nil {
		if code, ok := p.detector.Detect(text); ok && code != p.language {
			lgr.Printf("[DEBUG] skip %s, language %q", raw.URL, code)
			return domain.Article{}, OutcomeWrongLanguage
		}
	}

	score := p.scorer.Score(text, title)
	if minScore := p.MinScore(raw.Source); !ov.SkipRelevanceGate && score < minScore {
		lgr.Printf("[DEBUG] skip %s, relevance %.2f below %.2f", raw.URL, score, minScore)
		return domain.Article{}, OutcomeLowRelevance
	}
	if score < ov.ScoreFloor {
		score = ov.ScoreFloor
	}

	if title == "" {
		title = NoTitle
	}
	sum := p.summarizer.Summarize(text)
	if sum == p.summarizer.Unavailable() && raw.Summary != "" {
		sum = p.summarizer.Summarize(raw.Summary)
	}

	return domain.Article{
		ID:             ArticleID(raw.URL),
		Title:          title,
		Summary:        sum,
		Tags:           p.classifier.Tags(text),
		Source:         raw.Source,
		PublishedAt:    RelativeTime(raw.Published, foundAt),
		FoundAt:        foundAt,
		Audience:       p.classifier.Audience(text),
		Difficulty:     p.classifier.Difficulty(text),
		URL:            raw.URL,
		RelevanceScore: scoring.Round2(score),
	}, OutcomeAccepted
}

// RelativeTime renders published as a danish "time ago" string relative to now
func RelativeTime(published *time.Time, now time.Time) string {
	if published == nil || published.IsZero() {
		return "Ukendt dato"
	}
	diff := now.Sub(*published)
	switch {
	case diff < time.Hour:
		return "Lige nu"
	case diff < 24*time.Hour:
		if h := int(diff.Hours()); h != 1 {
			return fmt.Sprintf("%d timer siden", h)
		}
		return "1 time siden"
	default:
		if d := int(diff.Hours() / 24); d != 1 {
			return fmt.Sprintf("%d dage siden", d)
		}
		return "1 dag siden"
	}
}

// ArticleID derives a stable numeric id from the url
func ArticleID(url string) int64 {
	sum := md5.Sum([]byte(url)) //nolint:gosec // not security related
	id, err := strconv.ParseInt(hex.EncodeToString(sum[:4]), 16, 64)
	if err != nil {
		return 0
	}
	return id
}

// TaggedID derives the batch tagger article id from url and title
func TaggedID(url, title string) string {
	sum := md5.Sum([]byte(url + title)) //nolint:gosec // not security related
	return hex.EncodeToString(sum[:])[:12]
}
