package scraper

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/Mathusayini/News-Summarizer/internal/logger"
)

// DefaultTitle is used when a page has no usable <title>.
const DefaultTitle = "Untitled"

// ArticleContent is the raw text pulled from an article page. A zero value
// means the page could not be fetched or parsed.
type ArticleContent struct {
	Title   string
	Content string
	URL     string
}

// Empty reports whether nothing was extracted.
func (a ArticleContent) Empty() bool {
	return a.Title == "" && a.Content == ""
}

type Extractor struct {
	client    *http.Client
	userAgent string
}

func NewExtractor(timeout time.Duration, userAgent string) *Extractor {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if userAgent == "" {
		userAgent = "Mozilla/5.0"
	}
	return &Extractor{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Extract gets title and paragraph text of the page at url. Failures are
// logged and produce an empty ArticleContent.
func (e *Extractor) Extract(ctx context.Context, url string) ArticleContent {
	article, err := e.fetch(ctx, url)
	if err != nil {
		logger.Warn("⚠️ Can't get article content", "url", url, "error", err)
		return ArticleContent{}
	}
	logger.Debug("Got article content", "url", url, "chars", len(article.Content))
	return *article
}

func (e *Extractor) fetch(ctx context.Context, url string) (*ArticleContent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error building request: %w", err)
	}
	req.Header.Set("User-Agent", e.userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error loading page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error parsing HTML: %w", err)
	}

	return &ArticleContent{
		Title:   extractTitle(doc),
		Content: extractParagraphs(doc),
		URL:     url,
	}, nil
}

// extractTitle returns the document <title>, or DefaultTitle.
func extractTitle(doc *goquery.Document) string {
	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		return DefaultTitle
	}
	return title
}

// extractParagraphs joins the text of every <p> in document order.
func extractParagraphs(doc *goquery.Document) string {
	var paragraphs []string
	doc.Find("p").Each(func(i int, s *goquery.Selection) {
		paragraphs = append(paragraphs, s.Text())
	})
	return strings.Join(paragraphs, " ")
}
