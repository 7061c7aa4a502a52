// Package dataset merges article batches into the consolidated dataset and persists it.
package dataset

import (
	"sort"
	"time"

	"github.com/minepenge/minepenge/pkg/dedup"
	"github.com/minepenge/minepenge/pkg/domain"
)

// Deduplicator removes repeated articles, first seen wins
type Deduplicator interface {
	Run(articles []domain.Article) dedup.Result
}

// Assembler merges a prior dataset with a new batch
type Assembler struct {
	dedup Deduplicator
}

// NewAssembler makes an Assembler using the given deduplicator
func NewAssembler(d Deduplicator) *Assembler {
	return &Assembler{dedup: d}
}

// Assemble merges prior and batch, keeping the best version of duplicates, and computes metadata
func (a *Assembler) Assemble(prior, batch []domain.Article, now time.Time) (domain.Dataset, dedup.Result) {
	all := make([]domain.Article, 0, len(prior)+len(batch))
	all = append(all, prior...)
	all = append(all, batch...)

	// sort before dedup so the most relevant and freshest copy survives
	Sort(all)
	res := a.dedup.Run(all)
	Sort(res.Articles)

	return domain.Dataset{Articles: res.Articles, Metadata: BuildMetadata(res.Articles, now)}, res
}

// Sort orders articles by relevance, then by discovery time, newest first
func Sort(articles []domain.Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		if articles[i].RelevanceScore != articles[j].RelevanceScore {
			return articles[i].RelevanceScore > articles[j].RelevanceScore
		}
		return articles[i].FoundAt.After(articles[j].FoundAt)
	})
}

// SortLatest orders articles by discovery time, newest first
func SortLatest(articles []domain.Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].FoundAt.After(articles[j].FoundAt)
	})
}
