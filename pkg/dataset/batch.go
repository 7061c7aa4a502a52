package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Record is one article in an input batch file. Scraper output, tagger output and
// dataset articles share most keys, so a single loose shape reads all of them.
type Record struct {
	Title           string             `json:"title"`
	Summary         string             `json:"summary"`
	Content         string             `json:"content"`
	Text            string             `json:"text"`
	Source          string             `json:"source"`
	URL             string             `json:"url"`
	Tags            []string           `json:"tags"`
	MinepengeTags   []string           `json:"minepenge_tags"`
	Audience        string             `json:"audience"`
	TargetAudiences []string           `json:"target_audiences"`
	Difficulty      string             `json:"difficulty"`
	PublishedAt     string             `json:"publishedAt"`
	PublishedAtAlt  string             `json:"published_at"`
	FoundAt         string             `json:"foundAt"`
	TaggedAt        string             `json:"tagged_at"`
	RelevanceScore  *float64           `json:"relevance_score"`
	Confidence      map[string]float64 `json:"confidence_scores"`
}

// Body returns the longest text field of the record
func (r Record) Body() string {
	if r.Content != "" {
		return r.Content
	}
	return r.Text
}

// Found returns the discovery time of the record, falling back to the tagging time
func (r Record) Found() (time.Time, bool) {
	for _, v := range []string{r.FoundAt, r.TaggedAt} {
		if t, ok := ParseTime(v); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// Batch is the content of one input file
type Batch struct {
	File    string
	Source  string
	Records []Record
}

// ReadBatches loads all files in dir matching pattern, skipping report and test files
func ReadBatches(dir, pattern string) ([]Batch, error) {
	files, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	sort.Strings(files)

	var res []Batch
	for _, f := range files {
		name := filepath.Base(f)
		if strings.Contains(name, "report") || strings.Contains(name, "test") {
			continue
		}
		records, err := ReadRecords(f)
		if err != nil {
			return nil, err
		}
		b := Batch{File: name, Source: SourceFromFile(name), Records: records}
		for i := range b.Records {
			if b.Records[i].Source == "" {
				b.Records[i].Source = b.Source
			}
		}
		res = append(res, b)
	}
	return res, nil
}

// ReadRecords reads a batch file holding either an array or an object with an article list
func ReadRecords(path string) ([]Record, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from configured input dir
	if err != nil {
		return nil, fmt.Errorf("read batch %s: %w", path, err)
	}

	var list []Record
	if err := json.Unmarshal(data, &list); err == nil {
		return list, nil
	}

	var obj struct {
		Articles  []Record `json:"articles"`
		Data      []Record `json:"data"`
		BlogPosts []Record `json:"blog_posts"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, fmt.Errorf("parse batch %s: %w", path, err)
	}
	switch {
	case obj.Articles != nil:
		return obj.Articles, nil
	case obj.Data != nil:
		return obj.Data, nil
	case obj.BlogPosts != nil:
		return obj.BlogPosts, nil
	}
	return nil, fmt.Errorf("parse batch %s: no article list found", path)
}

// SourceFromFile derives a source name from a batch file name
func SourceFromFile(name string) string {
	name = strings.TrimPrefix(filepath.Base(name), "tagged_")
	for _, suffix := range []string{"_blog_posts.json", "_articles.json", ".json"} {
		if strings.HasSuffix(name, suffix) {
			return strings.TrimSuffix(name, suffix)
		}
	}
	return name
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTime parses the timestamp formats found in batch files
func ParseTime(v string) (time.Time, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
