// Package llm generates the weekly newsletter from the best articles of the dataset.
package llm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/microcosm-cc/bluemonday"
	"github.com/russross/blackfriday/v2"
	"github.com/sashabaranov/go-openai"

	"github.com/minepenge/minepenge/pkg/config"
	"github.com/minepenge/minepenge/pkg/dataset"
	"github.com/minepenge/minepenge/pkg/domain"
)

// ErrNoArticles is returned when there is nothing to write about
var ErrNoArticles = errors.New("no articles for newsletter")

//go:generate moq -out mocks/chat_client.go -pkg mocks -skip-ensure -fmt goimports . ChatClient

// ChatClient is the part of openai client used by the generator
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

const defaultSystemPrompt = "Du er en ekspert på personlig økonomi og skriver engagerende nyhedsbreve på dansk."

// Newsletter is a generated issue in markdown and html
type Newsletter struct {
	Date     time.Time
	Articles []domain.Article
	Markdown string
	HTML     string
	AI       bool // written by the model, false for the fallback text
}

// Generator writes newsletters with an OpenAI compatible model
type Generator struct {
	client    ChatClient
	cfg       config.LLMConfig
	systemMsg string
	policy    *bluemonday.Policy
	now       func() time.Time
}

// NewGenerator makes a generator from config. Without an api key every issue uses the fallback text.
func NewGenerator(cfg config.LLMConfig) *Generator {
	var client ChatClient
	if cfg.APIKey != "" {
		clientConfig := openai.DefaultConfig(cfg.APIKey)
		if cfg.Endpoint != "" {
			clientConfig.BaseURL = cfg.Endpoint
		}
		client = openai.NewClientWithConfig(clientConfig)
	}
	return newGenerator(client, cfg)
}

func newGenerator(client ChatClient, cfg config.LLMConfig) *Generator {
	systemMsg := cfg.SystemPrompt
	if systemMsg == "" {
		systemMsg = defaultSystemPrompt
	}
	if cfg.TopN <= 0 {
		cfg.TopN = 3
	}
	return &Generator{client: client, cfg: cfg, systemMsg: systemMsg, policy: bluemonday.UGCPolicy(), now: time.Now}
}

// TopArticles returns the n best articles by relevance, newest first on ties
func TopArticles(articles []domain.Article, n int) []domain.Article {
	res := make([]domain.Article, len(articles))
	copy(res, articles)
	dataset.Sort(res)
	if n > 0 && len(res) > n {
		res = res[:n]
	}
	return res
}

// Generate writes a newsletter about the top articles. Model failures fall back to a fixed template.
func (g *Generator) Generate(ctx context.Context, articles []domain.Article) (Newsletter, error) {
	top := TopArticles(articles, g.cfg.TopN)
	if len(top) == 0 {
		return Newsletter{}, ErrNoArticles
	}

	nl := Newsletter{Date: g.now(), Articles: top}
	content, err := g.complete(ctx, top)
	switch {
	case err != nil:
		lgr.Printf("[WARN] newsletter generation failed, using fallback: %v", err)
		nl.Markdown = FallbackMarkdown(top)
	case content == "":
		lgr.Printf("[WARN] empty newsletter from model, using fallback")
		nl.Markdown = FallbackMarkdown(top)
	default:
		nl.Markdown = content
		nl.AI = true
	}

	html, err := g.RenderHTML(nl.Markdown)
	if err != nil {
		return Newsletter{}, err
	}
	nl.HTML = html
	return nl, nil
}

func (g *Generator) complete(ctx context.Context, articles []domain.Article) (string, error) {
	if g.client == nil {
		return "", errors.New("llm api key is not set")
	}
	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.cfg.Model,
		Temperature: float32(g.cfg.Temperature),
		MaxTokens:   g.cfg.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: g.systemMsg},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(articles)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("llm request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// buildPrompt lists the articles and asks for a fixed newsletter structure
func buildPrompt(articles []domain.Article) string {
	var sb strings.Builder
	sb.WriteString("Du skal skrive et ugentligt nyhedsbrev for MinePenge.dk.\n\n")
	fmt.Fprintf(&sb, "Her er de %d bedste artikler fra denne uge:\n", len(articles))
	for i, a := range articles {
		fmt.Fprintf(&sb, "\nArtikel %d: %s\n", i+1, titleOrDefault(a.Title))
		fmt.Fprintf(&sb, "Kilde: %s\n", a.Source)
		fmt.Fprintf(&sb, "Resumé: %s\n", a.Summary)
		fmt.Fprintf(&sb, "Relevans: %.2f\n", a.RelevanceScore)
		fmt.Fprintf(&sb, "Tags: %s\n", strings.Join(a.Tags, ", "))
		fmt.Fprintf(&sb, "Link: %s\n", a.URL)
	}
	fmt.Fprintf(&sb, `
Skriv et engagerende nyhedsbrev på dansk i markdown med følgende struktur:

1. Kort introduktion (2-3 sætninger)
2. "Ugens %d bedste råd", hvor hver artikel får en sektion med overskrift, kort resumé (2-3 sætninger),
   et praktisk tip og et link til at læse mere
3. Afslutning med opfordring til at abonnere

Tone: venlig, professionel, dansk
Længde: 300-400 ord
`, len(articles))
	return sb.String()
}

// FallbackMarkdown is the newsletter used when the model is not available
func FallbackMarkdown(articles []domain.Article) string {
	var sb strings.Builder
	sb.WriteString("# MinePenge.dk - Ugens bedste råd\n\nHej!\n\n")
	fmt.Fprintf(&sb, "Her er ugens %d bedste artikler om personlig økonomi:\n", len(articles))
	for i, a := range articles {
		link := a.URL
		if link == "" {
			link = "#"
		}
		fmt.Fprintf(&sb, "\n## %d. %s\n\n", i+1, titleOrDefault(a.Title))
		if a.Summary != "" {
			fmt.Fprintf(&sb, "%s\n\n", a.Summary)
		}
		sb.WriteString("**Praktisk tip:** Læs den fulde artikel for at få alle detaljerne.\n\n")
		fmt.Fprintf(&sb, "[Læs mere](%s)\n", link)
	}
	sb.WriteString("\n---\n\nMed venlig hilsen,\nMinePenge.dk teamet\n")
	return sb.String()
}

func titleOrDefault(title string) string {
	if strings.TrimSpace(title) == "" {
		return "Ingen titel"
	}
	return title
}

var pageTmpl = template.Must(template.New("newsletter").Parse(`<!DOCTYPE html>
<html lang="da">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>MinePenge.dk - Ugens bedste råd {{.Date}}</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background-color: #1e40af; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; }
        .footer { background-color: #f3f4f6; padding: 20px; text-align: center; }
        a { color: #1e40af; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>MinePenge.dk</h1>
            <p>Ugens bedste råd</p>
        </div>
        <div class="content">
{{.Body}}
        </div>
        <div class="footer">
            <p>&copy; {{.Year}} MinePenge.dk - Din guide til personlig økonomi</p>
        </div>
    </div>
</body>
</html>
`))

// RenderHTML converts markdown to a sanitized html page
func (g *Generator) RenderHTML(markdown string) (string, error) {
	body := g.policy.SanitizeBytes(blackfriday.Run([]byte(markdown)))
	now := g.now()
	var buf bytes.Buffer
	err := pageTmpl.Execute(&buf, struct {
		Date string
		Year int
		Body template.HTML
	}{
		Date: now.Format("2006-01-02"),
		Year: now.Year(),
		Body: template.HTML(body), //nolint:gosec // sanitized by bluemonday
	})
	if err != nil {
		return "", fmt.Errorf("render newsletter html: %w", err)
	}
	return buf.String(), nil
}

// Save writes newsletter_<date>.md and newsletter_<date>.html to dir and returns their paths
func Save(nl Newsletter, dir string) (mdPath, htmlPath string, err error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", "", fmt.Errorf("create newsletter dir: %w", err)
	}
	base := "newsletter_" + nl.Date.Format("2006-01-02")
	mdPath = filepath.Join(dir, base+".md")
	htmlPath = filepath.Join(dir, base+".html")
	if err := os.WriteFile(mdPath, []byte(nl.Markdown), 0o600); err != nil {
		return "", "", fmt.Errorf("write %s: %w", mdPath, err)
	}
	if err := os.WriteFile(htmlPath, []byte(nl.HTML), 0o600); err != nil {
		return "", "", fmt.Errorf("write %s: %w", htmlPath, err)
	}
	return mdPath, htmlPath, nil
}
