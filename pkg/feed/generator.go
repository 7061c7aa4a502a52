package feed

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/minepenge/minepenge/pkg/config"
	"github.com/minepenge/minepenge/pkg/domain"
)

// Generator renders dataset articles as RSS and sources as OPML
type Generator struct {
	baseURL string
	now     func() time.Time
}

// NewGenerator creates a new feed generator
func NewGenerator(baseURL string) *Generator {
	return &Generator{
		baseURL: strings.TrimRight(baseURL, "/"),
		now:     time.Now,
	}
}

// GenerateRSS creates an RSS 2.0 feed from articles, tag limits the feed to one topic
func (g *Generator) GenerateRSS(articles []domain.Article, tag string) (string, error) {
	title := "Mine Penge - alle emner"
	selfLink := g.baseURL + "/rss"
	if tag != "" {
		title = "Mine Penge - " + tag
		selfLink = fmt.Sprintf("%s/rss/%s", g.baseURL, tag)
	}

	rssItems := make([]*RSSItem, 0, len(articles))
	for _, a := range articles {
		if tag != "" && !hasTag(a, tag) {
			continue
		}
		rssItems = append(rssItems, g.convertToRSSItem(a))
	}

	feed := &RSS{
		Version: "2.0",
		Atom:    "http://www.w3.org/2005/Atom",
		Channel: &RSSChannel{
			Title:         title,
			Link:          g.baseURL + "/",
			Description:   "Udvalgte artikler om privatøkonomi fra danske medier og blogs",
			Language:      "da",
			AtomLink:      &AtomLink{Href: selfLink, Rel: "self", Type: "application/rss+xml"},
			LastBuildDate: g.now().Format(time.RFC1123Z),
			Items:         rssItems,
		},
	}

	output, err := xml.MarshalIndent(feed, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal RSS: %w", err)
	}
	return xml.Header + string(output), nil
}

func (g *Generator) convertToRSSItem(a domain.Article) *RSSItem {
	desc := a.Summary
	if len(a.Tags) > 0 {
		desc += fmt.Sprintf("\nEmner: %s", strings.Join(a.Tags, ", "))
	}
	desc += fmt.Sprintf("\nMålgruppe: %s, niveau: %s", a.Audience, a.Difficulty)

	return &RSSItem{
		Title:       fmt.Sprintf("[%.1f] %s", a.RelevanceScore, a.Title),
		Link:        a.URL,
		GUID:        a.URL,
		Description: desc,
		Author:      a.Source,
		PubDate:     a.FoundAt.Format(time.RFC1123Z),
		Categories:  a.Tags,
	}
}

func hasTag(a domain.Article, tag string) bool {
	for _, t := range a.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// GenerateOPML creates an OPML file listing the feeds of enabled sources
func (g *Generator) GenerateOPML(sources []config.SourceConfig) (string, error) {
	type outline struct {
		XMLName xml.Name `xml:"outline"`
		Text    string   `xml:"text,attr"`
		Title   string   `xml:"title,attr"`
		Type    string   `xml:"type,attr"`
		XMLUrl  string   `xml:"xmlUrl,attr"`
		HTMLUrl string   `xml:"htmlUrl,attr,omitempty"`
	}

	type body struct {
		XMLName  xml.Name  `xml:"body"`
		Outlines []outline `xml:"outline"`
	}

	type head struct {
		XMLName     xml.Name `xml:"head"`
		Title       string   `xml:"title"`
		DateCreated string   `xml:"dateCreated"`
	}

	type opml struct {
		XMLName xml.Name `xml:"opml"`
		Version string   `xml:"version,attr"`
		Head    head     `xml:"head"`
		Body    body     `xml:"body"`
	}

	outlines := make([]outline, 0, len(sources))
	for _, src := range sources {
		if !src.IsEnabled() {
			continue
		}
		for _, feedURL := range src.Feeds {
			outlines = append(outlines, outline{
				Text:    src.Name,
				Title:   src.Name,
				Type:    "rss",
				XMLUrl:  feedURL,
				HTMLUrl: src.BaseURL,
			})
		}
	}

	doc := opml{
		Version: "2.0",
		Head: head{
			Title:       "Mine Penge kilder",
			DateCreated: g.now().Format(time.RFC1123Z),
		},
		Body: body{
			Outlines: outlines,
		},
	}

	output, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal OPML: %w", err)
	}
	return xml.Header + string(output), nil
}
