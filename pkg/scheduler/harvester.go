// Package scheduler runs harvests: discover links of every source, extract and gate the pages,
// merge the result into the dataset and notify the optional sinks.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/minepenge/minepenge/pkg/content"
	"github.com/minepenge/minepenge/pkg/dataset"
	"github.com/minepenge/minepenge/pkg/dedup"
	"github.com/minepenge/minepenge/pkg/domain"
	"github.com/minepenge/minepenge/pkg/pipeline"
	"github.com/minepenge/minepenge/pkg/source"
)

//go:generate moq -out mocks/discoverer.go -pkg mocks -skip-ensure -fmt goimports . Discoverer
//go:generate moq -out mocks/extractor.go -pkg mocks -skip-ensure -fmt goimports . Extractor
//go:generate moq -out mocks/processor.go -pkg mocks -skip-ensure -fmt goimports . Processor
//go:generate moq -out mocks/dataset_store.go -pkg mocks -skip-ensure -fmt goimports . DatasetStore
//go:generate moq -out mocks/run_store.go -pkg mocks -skip-ensure -fmt goimports . RunStore
//go:generate moq -out mocks/uploader.go -pkg mocks -skip-ensure -fmt goimports . Uploader
//go:generate moq -out mocks/publisher.go -pkg mocks -skip-ensure -fmt goimports . Publisher
//go:generate moq -out mocks/recorder.go -pkg mocks -skip-ensure -fmt goimports . Recorder

// Discoverer lists article links of a site
type Discoverer interface {
	Discover(ctx context.Context) ([]source.Link, error)
}

// Extractor downloads an article page and extracts its text
type Extractor interface {
	Extract(ctx context.Context, urlStr string) (content.Page, error)
}

// Processor turns a raw article into a dataset article
type Processor interface {
	Process(raw domain.RawArticle, foundAt time.Time) (domain.Article, pipeline.Outcome)
}

// DatasetStore loads and saves the consolidated dataset
type DatasetStore interface {
	Load() (domain.Dataset, error)
	Save(ds domain.Dataset) error
	Path() string
}

// RunStore keeps run history
type RunStore interface {
	SaveRun(ctx context.Context, run domain.Run) error
}

// Uploader copies the saved dataset file elsewhere
type Uploader interface {
	Upload(ctx context.Context, path string) error
}

// Publisher announces newly added articles
type Publisher interface {
	Publish(ctx context.Context, articles []domain.Article) error
}

// Recorder collects run metrics
type Recorder interface {
	ArticleProcessed(source, outcome string)
	LinksDiscovered(source string, n int)
	RunFinished(status string, duration time.Duration, total, duplicates int)
}

// Source pairs the link discovery of a site with the extractor reading its pages
type Source struct {
	Name       string
	Discoverer Discoverer
	Extractor  Extractor
}

// Params for NewHarvester. Runs, Uploader, Publisher and Metrics are optional.
type Params struct {
	Sources    []Source
	Processor  Processor
	Store      DatasetStore
	Runs       RunStore
	Uploader   Uploader
	Publisher  Publisher
	Metrics    Recorder
	MaxWorkers int // sources harvested concurrently
	BatchSize  int // pages fetched concurrently per source
	Dedup      []dedup.Option
}

// Harvester performs harvest runs
type Harvester struct {
	Params
	assembler *dataset.Assembler
	now       func() time.Time
}

// NewHarvester makes a Harvester, zero worker settings default to 5
func NewHarvester(p Params) *Harvester {
	if p.MaxWorkers <= 0 {
		p.MaxWorkers = 5
	}
	if p.BatchSize <= 0 {
		p.BatchSize = 5
	}
	return &Harvester{Params: p, assembler: dataset.NewAssembler(dedup.New(p.Dedup...)), now: time.Now}
}

// Run harvests all sources and saves the merged dataset. Source failures make the run partial,
// only a failure to save the dataset is returned as error.
func (h *Harvester) Run(ctx context.Context) (domain.Run, error) {
	started := h.now()
	run := domain.Run{ID: uuid.NewString(), StartedAt: started, Status: domain.RunRunning}
	lgr.Printf("[INFO] harvest run %s started, %d sources", run.ID, len(h.Sources))

	prior, err := h.Store.Load()
	if err != nil {
		return h.finish(ctx, run, fmt.Errorf("load dataset: %w", err))
	}
	known := make(map[string]bool, len(prior.Articles))
	for _, a := range prior.Articles {
		known[a.URL] = true
	}

	var mu sync.Mutex
	var batch []domain.Article
	run.Sources = make([]domain.SourceReport, len(h.Sources))

	g := errgroup.Group{}
	g.SetLimit(h.MaxWorkers)
	for i, src := range h.Sources {
		g.Go(func() error {
			accepted, rep := h.harvestSource(ctx, src, known)
			run.Sources[i] = rep
			mu.Lock()
			batch = append(batch, accepted...)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // workers never return errors, failures are in the source reports

	if ctx.Err() != nil {
		return h.finish(ctx, run, fmt.Errorf("harvest interrupted: %w", ctx.Err()))
	}

	ds, res := h.assembler.Assemble(prior.Articles, batch, h.now())
	if err := h.Store.Save(ds); err != nil {
		return h.finish(ctx, run, err)
	}

	var added []domain.Article
	for _, a := range ds.Articles {
		if !known[a.URL] {
			added = append(added, a)
		}
	}
	run.Accepted, run.New, run.Duplicates, run.Total = len(batch), len(added), res.Removed(), len(ds.Articles)
	lgr.Printf("[INFO] dataset saved to %s, %d articles, %d new, %d duplicates removed",
		h.Store.Path(), run.Total, run.New, run.Duplicates)

	h.notify(ctx, added)
	return h.finish(ctx, run, nil)
}

// harvestSource discovers links of one source, skips links already in the dataset and processes the rest
func (h *Harvester) harvestSource(ctx context.Context, src Source, known map[string]bool) ([]domain.Article, domain.SourceReport) {
	rep := domain.SourceReport{Source: src.Name}
	links, err := src.Discoverer.Discover(ctx)
	if err != nil {
		lgr.Printf("[WARN] source %s failed, %v", src.Name, err)
		rep.Error = err.Error()
		return nil, rep
	}
	rep.Found = len(links)
	if h.Metrics != nil {
		h.Metrics.LinksDiscovered(src.Name, len(links))
	}

	var mu sync.Mutex
	var accepted []domain.Article

	g := errgroup.Group{}
	g.SetLimit(h.BatchSize)
	for _, link := range links {
		if known[link.URL] {
			mu.Lock()
			rep.Known++
			mu.Unlock()
			continue
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			page, err := src.Extractor.Extract(ctx, link.URL)
			if err != nil {
				lgr.Printf("[DEBUG] %s: extraction of %s failed, %v", src.Name, link.URL, err)
				mu.Lock()
				rep.Failed++
				mu.Unlock()
				h.record(src.Name, "extraction failed")
				return nil
			}

			art, outcome := h.Processor.Process(rawArticle(src.Name, link, page), h.now())
			h.record(src.Name, outcome.String())

			mu.Lock()
			defer mu.Unlock()
			rep.Validated++
			switch outcome {
			case pipeline.OutcomeAccepted:
				rep.Processed++
				accepted = append(accepted, art)
			case pipeline.OutcomeTooShort:
				rep.TooShort++
			case pipeline.OutcomeWrongLanguage:
				rep.WrongLang++
			case pipeline.OutcomeLowRelevance:
				rep.LowRelevant++
			}
			return nil
		})
	}
	_ = g.Wait()

	lgr.Printf("[INFO] source %s: %d links, %d known, %d accepted, %d failed",
		src.Name, rep.Found, rep.Known, rep.Processed, rep.Failed)
	return accepted, rep
}

// rawArticle merges the extracted page with hints from the listing, the page wins when it has a value
func rawArticle(name string, link source.Link, page content.Page) domain.RawArticle {
	raw := domain.RawArticle{
		URL:       link.URL,
		Title:     page.Title,
		Text:      page.Text,
		Source:    name,
		Summary:   link.Summary,
		Published: page.Published,
	}
	if raw.Title == "" {
		raw.Title = link.Title
	}
	if raw.Summary == "" {
		raw.Summary = page.Description
	}
	if raw.Published == nil {
		raw.Published = link.Published
	}
	return raw
}

// notify hands new articles and the saved file to the optional sinks, failures are only logged
func (h *Harvester) notify(ctx context.Context, added []domain.Article) {
	if h.Uploader != nil {
		if err := h.Uploader.Upload(ctx, h.Store.Path()); err != nil {
			lgr.Printf("[WARN] dataset upload failed, %v", err)
		}
	}
	if h.Publisher != nil && len(added) > 0 {
		if err := h.Publisher.Publish(ctx, added); err != nil {
			lgr.Printf("[WARN] publish of %d new articles failed, %v", len(added), err)
		}
	}
}

// finish sets the final status, stores the run and records metrics
func (h *Harvester) finish(ctx context.Context, run domain.Run, err error) (domain.Run, error) {
	finished := h.now()
	run.FinishedAt = &finished
	run.Status = domain.RunOK
	for _, s := range run.Sources {
		if s.Error != "" {
			run.Status = domain.RunPartial
			break
		}
	}
	if err != nil {
		run.Status = domain.RunFailed
		run.Error = err.Error()
		lgr.Printf("[ERROR] harvest run %s failed, %v", run.ID, err)
	}

	if h.Runs != nil {
		if serr := h.Runs.SaveRun(context.WithoutCancel(ctx), run); serr != nil {
			lgr.Printf("[WARN] can't save run %s, %v", run.ID, serr)
		}
	}
	if h.Metrics != nil {
		h.Metrics.RunFinished(string(run.Status), finished.Sub(run.StartedAt), run.Total, run.Duplicates)
	}
	lgr.Printf("[INFO] harvest run %s finished with status %s in %v", run.ID, run.Status, finished.Sub(run.StartedAt))
	return run, err
}

func (h *Harvester) record(src, outcome string) {
	if h.Metrics != nil {
		h.Metrics.ArticleProcessed(src, outcome)
	}
}
