package news

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/Mathusayini/News-Summarizer/internal/keywords"
	"github.com/Mathusayini/News-Summarizer/internal/logger"
	"github.com/Mathusayini/News-Summarizer/internal/metrics"
	"github.com/Mathusayini/News-Summarizer/internal/rss"
	"github.com/Mathusayini/News-Summarizer/internal/scraper"
	"github.com/Mathusayini/News-Summarizer/internal/sentiment"
)

const (
	// ManualSource labels articles whose URL was typed at the prompt.
	ManualSource = "manual"

	// MinContentChars is the shortest article text worth summarizing.
	MinContentChars = 100

	// DefaultMaxArticles caps how many feed entries are processed.
	DefaultMaxArticles = 5
)

// Article is one processed news item.
type Article struct {
	Title     string   `json:"title"`
	Content   string   `json:"-"`
	Summary   string   `json:"summary"`
	Keywords  []string `json:"keywords"`
	Sentiment string   `json:"sentiment"`
	Source    string   `json:"source"`
	URL       string   `json:"url"`
}

// Outcome is the terminal state of one pipeline run.
type Outcome string

const (
	OutcomeDone     Outcome = "done"
	OutcomeFailed   Outcome = "failed"   // nothing could be fetched
	OutcomeRejected Outcome = "rejected" // content too short
)

type Extractor interface {
	Extract(ctx context.Context, url string) scraper.ArticleContent
}

type Summarizer interface {
	Summarize(ctx context.Context, text string) string
}

type Classifier interface {
	Classify(ctx context.Context, text string) string
}

type FeedFetcher interface {
	Fetch(ctx context.Context, url string) (*rss.Feed, error)
}

type Pipeline struct {
	extractor  Extractor
	summarizer Summarizer
	classifier Classifier
	feeds      FeedFetcher
	metrics    *metrics.Metrics
}

func NewPipeline(extractor Extractor, summarizer Summarizer, classifier Classifier, feeds FeedFetcher) *Pipeline {
	return &Pipeline{
		extractor:  extractor,
		summarizer: summarizer,
		classifier: classifier,
		feeds:      feeds,
		metrics:    metrics.Global,
	}
}

// WithMetrics swaps the metrics sink, mostly for tests.
func (p *Pipeline) WithMetrics(m *metrics.Metrics) *Pipeline {
	p.metrics = m
	return p
}

// ProcessArticle fetches url and runs it through summary, keyword and
// sentiment extraction. The article is nil unless the outcome is OutcomeDone.
func (p *Pipeline) ProcessArticle(ctx context.Context, url, source string) (*Article, Outcome) {
	if source == "" {
		source = ManualSource
	}
	log := logger.Logger.With("run_id", uuid.NewString(), "url", url)
	start := time.Now()
	defer func() { p.metrics.RecordProcessingTime(time.Since(start)) }()

	log.Debug("Fetching article")
	page := p.extractor.Extract(ctx, url)
	if page.Title == "" || page.Content == "" {
		log.Warn("❌ Article could not be fetched")
		p.metrics.IncrementArticlesFailed()
		return nil, OutcomeFailed
	}

	if utf8.RuneCountInString(page.Content) < MinContentChars {
		log.Warn("❌ Article content too short or invalid", "chars", utf8.RuneCountInString(page.Content))
		p.metrics.IncrementArticlesRejected()
		return nil, OutcomeRejected
	}

	log.Debug("Summarizing article")
	summary := p.summarizer.Summarize(ctx, page.Content)

	kw := keywords.Extract(page.Content)

	label := p.classifier.Classify(ctx, page.Content)
	if !sentiment.Valid(label) {
		label = sentiment.Neutral
	}

	p.metrics.IncrementArticlesProcessed()
	log.Info("✅ Article processed", "title", page.Title, "sentiment", label, "took", time.Since(start))

	return &Article{
		Title:     page.Title,
		Content:   page.Content,
		Summary:   summary,
		Keywords:  kw,
		Sentiment: label,
		Source:    source,
		URL:       url,
	}, OutcomeDone
}

// ProcessFeed runs the first maxArticles entries of the feed through
// ProcessArticle, in feed order. Entries that yield no article are skipped.
func (p *Pipeline) ProcessFeed(ctx context.Context, feedURL string, maxArticles int) []*Article {
	if maxArticles <= 0 {
		maxArticles = DefaultMaxArticles
	}

	logger.Debug("Fetching RSS feed", "url", feedURL)
	feed, err := p.feeds.Fetch(ctx, feedURL)
	if err != nil {
		logger.Warn("❌ No articles found in RSS feed", "url", feedURL, "error", err)
		return nil
	}
	p.metrics.IncrementFeedsProcessed()

	source := feed.SourceName()
	entries := feed.Entries
	if len(entries) > maxArticles {
		entries = entries[:maxArticles]
	}
	logger.Info("Found articles in feed", "source", source, "total", len(feed.Entries), "processing", len(entries))

	var articles []*Article
	for i, entry := range entries {
		if ctx.Err() != nil {
			logger.Warn("Feed processing cancelled", "processed", i)
			break
		}
		logger.Debug("Processing feed entry", "n", i+1, "of", len(entries), "title", entry.Title)
		if entry.Link == "" {
			continue
		}
		article, outcome := p.ProcessArticle(ctx, entry.Link, source)
		if outcome != OutcomeDone {
			continue
		}
		articles = append(articles, article)
	}
	return articles
}
