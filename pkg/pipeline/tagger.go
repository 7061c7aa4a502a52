package pipeline

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/minepenge/minepenge/pkg/classify"
	"github.com/minepenge/minepenge/pkg/config"
	"github.com/minepenge/minepenge/pkg/dataset"
	"github.com/minepenge/minepenge/pkg/domain"
	"github.com/minepenge/minepenge/pkg/normalize"
	"github.com/minepenge/minepenge/pkg/summary"
)

const (
	taggedPrefix   = "tagged_"
	reportFileName = "tagging_report.json"
	reportTopTags  = 20
)

// TaggedFile is the content of one tagger output file
type TaggedFile struct {
	Metadata TaggedMetadata         `json:"metadata"`
	Articles []domain.TaggedArticle `json:"articles"`
}

// TaggedMetadata describes the tagger run over one input file
type TaggedMetadata struct {
	OriginalFile        string    `json:"original_file"`
	TotalArticles       int       `json:"total_articles"`
	TaggedAt            time.Time `json:"tagged_at"`
	TagCategoriesUsed   []string  `json:"tag_categories_used"`
	TargetAudiencesUsed []string  `json:"target_audiences_used"`
}

// TagReport summarizes a tagger run over all input files
type TagReport struct {
	Summary struct {
		FilesProcessed int       `json:"total_files_processed"`
		ArticlesTagged int       `json:"total_articles_tagged"`
		ProcessingDate time.Time `json:"processing_date"`
	} `json:"summary"`
	TagStats        []domain.TagCount `json:"tag_statistics"`
	AudienceStats   map[string]int    `json:"audience_statistics"`
	ComplexityStats map[string]int    `json:"complexity_statistics"`
	TaggedFiles     []string          `json:"tagged_files"`
}

// TagJob adds multi-label tags, audiences and complexity to raw scraper files
type TagJob struct {
	InputDir  string
	OutputDir string

	lex        *config.Lexicon
	classifier *classify.Classifier
	summarizer *summary.Summarizer
	now        func() time.Time
}

// NewTagJob makes a TagJob reading raw files from inputDir and writing to outputDir
func NewTagJob(lex *config.Lexicon, inputDir, outputDir string) *TagJob {
	if lex == nil {
		lex = config.DefaultLexicon()
	}
	return &TagJob{
		InputDir:   inputDir,
		OutputDir:  outputDir,
		lex:        lex,
		classifier: classify.New(lex),
		summarizer: summary.New(lex.Summary),
		now:        time.Now,
	}
}

// Run tags every input file and writes the report. Files failing to parse are logged and skipped,
// write failures abort the job.
func (j *TagJob) Run() (TagReport, error) {
	files, err := filepath.Glob(filepath.Join(j.InputDir, "*.json"))
	if err != nil {
		return TagReport{}, fmt.Errorf("glob input files: %w", err)
	}
	sort.Strings(files)

	var tagged []TaggedFile
	var outFiles []string
	for _, f := range files {
		name := filepath.Base(f)
		if strings.HasPrefix(name, taggedPrefix) || name == reportFileName {
			continue
		}
		lgr.Printf("[INFO] tagging %s", name)
		records, err := dataset.ReadRecords(f)
		if err != nil {
			lgr.Printf("[WARN] skip %s, %v", name, err)
			continue
		}

		source := dataset.SourceFromFile(name)
		tf := j.TagFile(name, source, records)
		outPath := filepath.Join(j.OutputDir, taggedPrefix+name)
		if err := dataset.WriteJSON(outPath, tf); err != nil {
			return TagReport{}, fmt.Errorf("save tagged file: %w", err)
		}
		lgr.Printf("[INFO] tagged %d articles into %s", len(tf.Articles), outPath)
		tagged = append(tagged, tf)
		outFiles = append(outFiles, outPath)
	}

	report := j.Report(tagged, outFiles)
	if len(outFiles) == 0 {
		lgr.Printf("[WARN] no input files in %s", j.InputDir)
		return report, nil
	}
	if err := dataset.WriteJSON(filepath.Join(j.OutputDir, reportFileName), report); err != nil {
		return report, fmt.Errorf("save tagging report: %w", err)
	}
	return report, nil
}

// TagFile tags all records of one input file
func (j *TagJob) TagFile(name, source string, records []dataset.Record) TaggedFile {
	now := j.now()
	res := TaggedFile{
		Metadata: TaggedMetadata{
			OriginalFile:  name,
			TotalArticles: len(records),
			TaggedAt:      now,
		},
		Articles: make([]domain.TaggedArticle, 0, len(records)),
	}
	for _, cat := range j.lex.Tagger.Categories {
		res.Metadata.TagCategoriesUsed = append(res.Metadata.TagCategoriesUsed, cat.Name)
	}
	for _, aud := range j.lex.Tagger.Audiences {
		res.Metadata.TargetAudiencesUsed = append(res.Metadata.TargetAudiencesUsed, aud.Label)
	}
	for _, rec := range records {
		if rec.Source == "" {
			rec.Source = source
		}
		res.Articles = append(res.Articles, j.Tag(rec, now))
	}
	return res
}

// Tag classifies one record on its title, summary and body
func (j *TagJob) Tag(rec dataset.Record, now time.Time) domain.TaggedArticle {
	body := rec.Body()
	full := strings.TrimSpace(strings.Join([]string{rec.Title, rec.Summary, body}, " "))

	tags := j.classifier.MatchTags(full)
	confidence := j.classifier.AudienceConfidence(full)
	sum := rec.Summary
	if sum == "" {
		sum = j.summarizer.Summarize(body)
	}
	published := rec.PublishedAt
	if published == "" {
		published = rec.PublishedAtAlt
	}

	return domain.TaggedArticle{
		ArticleID:        TaggedID(rec.URL, rec.Title),
		Title:            rec.Title,
		Source:           rec.Source,
		URL:              rec.URL,
		Summary:          sum,
		TargetAudiences:  nonNil(j.classifier.TargetAudiences(confidence)),
		ComplexityLevel:  j.classifier.Complexity(full),
		Difficulty:       j.classifier.Difficulty(full),
		Tags:             nonNil(tags),
		TagCategories:    nonNil(j.classifier.Categories(tags)),
		ConfidenceScores: confidence,
		WordCount:        normalize.WordCount(full),
		Content:          body,
		PublishedAt:      published,
		TaggedAt:         now,
	}
}

// Report counts tags, audiences and complexity levels over tagged files
func (j *TagJob) Report(files []TaggedFile, paths []string) TagReport {
	var res TagReport
	res.Summary.FilesProcessed = len(files)
	res.Summary.ProcessingDate = j.now()
	res.AudienceStats = map[string]int{}
	res.ComplexityStats = map[string]int{}
	res.TaggedFiles = nonNil(paths)

	tagCounts := map[string]int{}
	for _, f := range files {
		res.Summary.ArticlesTagged += len(f.Articles)
		for _, a := range f.Articles {
			for _, tag := range a.Tags {
				tagCounts[tag]++
			}
			for _, aud := range a.TargetAudiences {
				res.AudienceStats[aud]++
			}
			level := a.ComplexityLevel
			if level == "" {
				level = "ukendt"
			}
			res.ComplexityStats[level]++
		}
	}

	res.TagStats = make([]domain.TagCount, 0, len(tagCounts))
	for tag, n := range tagCounts {
		res.TagStats = append(res.TagStats, domain.TagCount{Tag: tag, Count: n})
	}
	sort.Slice(res.TagStats, func(i, k int) bool {
		if res.TagStats[i].Count != res.TagStats[k].Count {
			return res.TagStats[i].Count > res.TagStats[k].Count
		}
		return res.TagStats[i].Tag < res.TagStats[k].Tag
	})
	if len(res.TagStats) > reportTopTags {
		res.TagStats = res.TagStats[:reportTopTags]
	}
	return res
}

// Print writes a human readable summary of the report
func (r TagReport) Print(w io.Writer) {
	fmt.Fprintf(w, "tagging done\n")
	fmt.Fprintf(w, "files processed: %d\n", r.Summary.FilesProcessed)
	fmt.Fprintf(w, "articles tagged: %d\n", r.Summary.ArticlesTagged)
	if len(r.TagStats) > 0 {
		fmt.Fprintf(w, "top tags:\n")
		for i, tc := range r.TagStats {
			if i == 10 {
				break
			}
			fmt.Fprintf(w, "  %s: %d\n", tc.Tag, tc.Count)
		}
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
