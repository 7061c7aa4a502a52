// Package dedup removes repeated articles by url, content hash and title similarity.
package dedup

import (
	"crypto/md5" //nolint:gosec // content fingerprint, not security
	"encoding/hex"
	"strings"

	"github.com/minepenge/minepenge/pkg/domain"
	"github.com/minepenge/minepenge/pkg/normalize"
)

// DefaultThreshold is the title similarity above which two articles are the same story
const DefaultThreshold = 0.8

// Metric selects how title word overlap is normalized
type Metric string

// supported similarity metrics
const (
	MetricOverlap Metric = "overlap" // |A∩B| / max(|A|,|B|)
	MetricJaccard Metric = "jaccard" // |A∩B| / |A∪B|
)

// Deduplicator keeps the first of every group of duplicate articles
type Deduplicator struct {
	threshold float64
	metric    Metric
}

// Option configures a Deduplicator
type Option func(*Deduplicator)

// WithThreshold sets the title similarity threshold
func WithThreshold(v float64) Option {
	return func(d *Deduplicator) { d.threshold = v }
}

// WithMetric sets the title similarity metric
func WithMetric(m Metric) Option {
	return func(d *Deduplicator) { d.metric = m }
}

// New makes a Deduplicator, defaults to the overlap metric with DefaultThreshold
func New(opts ...Option) *Deduplicator {
	d := &Deduplicator{threshold: DefaultThreshold, metric: MetricOverlap}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Result holds surviving articles and how many were dropped for each reason
type Result struct {
	Articles []domain.Article
	ByURL    int
	ByHash   int
	ByTitle  int
}

// Removed returns the total number of dropped articles
func (r Result) Removed() int { return r.ByURL + r.ByHash + r.ByTitle }

// Deduplicate returns survivors in input order, first seen wins
func (d *Deduplicator) Deduplicate(articles []domain.Article) []domain.Article {
	return d.Run(articles).Articles
}

// Run deduplicates articles and reports the drop counts
func (d *Deduplicator) Run(articles []domain.Article) Result {
	res := Result{Articles: make([]domain.Article, 0, len(articles))}
	urls := make(map[string]bool, len(articles))
	hashes := make(map[string]bool, len(articles))
	var titles []map[string]struct{}

	for _, a := range articles {
		if urls[a.URL] {
			res.ByURL++
			continue
		}
		h := ContentHash(a)
		if hashes[h] {
			res.ByHash++
			continue
		}
		words := titleWords(a.Title)
		if d.similarToAny(words, titles) {
			res.ByTitle++
			continue
		}
		urls[a.URL] = true
		hashes[h] = true
		titles = append(titles, words)
		res.Articles = append(res.Articles, a)
	}
	return res
}

func (d *Deduplicator) similarToAny(words map[string]struct{}, accepted []map[string]struct{}) bool {
	for _, other := range accepted {
		if d.similarity(words, other) > d.threshold {
			return true
		}
	}
	return false
}

// Similarity returns the title word similarity of two titles in [0,1]
func (d *Deduplicator) Similarity(a, b string) float64 {
	return d.similarity(titleWords(a), titleWords(b))
}

func (d *Deduplicator) similarity(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	common := 0
	for w := range a {
		if _, ok := b[w]; ok {
			common++
		}
	}
	if d.metric == MetricJaccard {
		return float64(common) / float64(len(a)+len(b)-common)
	}
	return float64(common) / float64(max(len(a), len(b)))
}

// ContentHash fingerprints an article by summary and title
func ContentHash(a domain.Article) string {
	sum := md5.Sum([]byte(a.Summary + " " + a.Title)) //nolint:gosec // content fingerprint, not security
	return hex.EncodeToString(sum[:])
}

func titleWords(title string) map[string]struct{} {
	fields := strings.Fields(normalize.Lower(title))
	res := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		res[f] = struct{}{}
	}
	return res
}
