package news

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Mathusayini/News-Summarizer/internal/metrics"
	"github.com/Mathusayini/News-Summarizer/internal/rss"
	"github.com/Mathusayini/News-Summarizer/internal/scraper"
	"github.com/Mathusayini/News-Summarizer/internal/sentiment"
	"github.com/Mathusayini/News-Summarizer/internal/summarize"
)

type fakeExtractor struct {
	pages map[string]scraper.ArticleContent
	calls []string
}

func (f *fakeExtractor) Extract(ctx context.Context, url string) scraper.ArticleContent {
	f.calls = append(f.calls, url)
	return f.pages[url]
}

type countingSummarizer struct{ calls int }

func (c *countingSummarizer) Summarize(ctx context.Context, text string) string {
	c.calls++
	return "A short summary."
}

type countingClassifier struct {
	calls int
	label string
}

func (c *countingClassifier) Classify(ctx context.Context, text string) string {
	c.calls++
	return c.label
}

type fakeFeeds struct {
	feed *rss.Feed
	err  error
}

func (f *fakeFeeds) Fetch(ctx context.Context, url string) (*rss.Feed, error) {
	return f.feed, f.err
}

var longText = strings.Repeat("Parliament debated the climate budget again. ", 4)

func newTestPipeline(ex *fakeExtractor, feeds FeedFetcher) (*Pipeline, *countingSummarizer, *countingClassifier) {
	sum := &countingSummarizer{}
	cls := &countingClassifier{label: sentiment.Negative}
	p := NewPipeline(ex, sum, cls, feeds).WithMetrics(metrics.New())
	return p, sum, cls
}

func TestProcessArticle_Done(t *testing.T) {
	ex := &fakeExtractor{pages: map[string]scraper.ArticleContent{
		"https://news.example/a": {Title: "Budget", Content: longText, URL: "https://news.example/a"},
	}}
	p, sum, cls := newTestPipeline(ex, nil)

	article, outcome := p.ProcessArticle(context.Background(), "https://news.example/a", "")
	if outcome != OutcomeDone {
		t.Fatalf("outcome = %q", outcome)
	}
	if article.Source != ManualSource {
		t.Errorf("Source = %q, want %q", article.Source, ManualSource)
	}
	if article.Title != "Budget" || article.Summary != "A short summary." || article.Sentiment != sentiment.Negative {
		t.Errorf("article = %+v", article)
	}
	if len(article.Keywords) == 0 || article.Keywords[0] != "parliament" {
		t.Errorf("keywords = %v", article.Keywords)
	}
	if sum.calls != 1 || cls.calls != 1 {
		t.Errorf("summarizer calls = %d, classifier calls = %d", sum.calls, cls.calls)
	}
}

func TestProcessArticle_ShortContentRejected(t *testing.T) {
	for _, n := range []int{0, 1, 50, 99} {
		t.Run(fmt.Sprintf("%d chars", n), func(t *testing.T) {
			content := strings.Repeat("x", n)
			ex := &fakeExtractor{pages: map[string]scraper.ArticleContent{
				"u": {Title: "T", Content: content},
			}}
			p, sum, cls := newTestPipeline(ex, nil)

			article, outcome := p.ProcessArticle(context.Background(), "u", "")
			if article != nil {
				t.Fatalf("expected no article, got %+v", article)
			}
			want := OutcomeRejected
			if n == 0 {
				want = OutcomeFailed
			}
			if outcome != want {
				t.Errorf("outcome = %q, want %q", outcome, want)
			}
			if sum.calls != 0 || cls.calls != 0 {
				t.Errorf("model stages ran for short content: summarize=%d classify=%d", sum.calls, cls.calls)
			}
		})
	}
}

func TestProcessArticle_CountsCharactersNotBytes(t *testing.T) {
	// 60 runes, 120 bytes.
	content := strings.Repeat("æ", 60)
	ex := &fakeExtractor{pages: map[string]scraper.ArticleContent{"u": {Title: "T", Content: content}}}
	p, _, _ := newTestPipeline(ex, nil)

	if _, outcome := p.ProcessArticle(context.Background(), "u", ""); outcome != OutcomeRejected {
		t.Errorf("outcome = %q, want rejected", outcome)
	}
}

func TestProcessArticle_FetchFailure(t *testing.T) {
	ex := &fakeExtractor{pages: map[string]scraper.ArticleContent{}}
	m := metrics.New()
	p, sum, _ := newTestPipeline(ex, nil)
	p.WithMetrics(m)

	article, outcome := p.ProcessArticle(context.Background(), "https://down.example", "")
	if article != nil || outcome != OutcomeFailed {
		t.Fatalf("got %+v, %q", article, outcome)
	}
	if sum.calls != 0 {
		t.Error("summarizer called after fetch failure")
	}
	if m.GetStats()["articles_failed"] != int64(1) {
		t.Errorf("articles_failed = %v", m.GetStats()["articles_failed"])
	}
}

func TestProcessArticle_InvalidLabelBecomesNeutral(t *testing.T) {
	ex := &fakeExtractor{pages: map[string]scraper.ArticleContent{"u": {Title: "T", Content: longText}}}
	p, _, cls := newTestPipeline(ex, nil)
	cls.label = "ecstatic"

	article, _ := p.ProcessArticle(context.Background(), "u", "")
	if article.Sentiment != sentiment.Neutral {
		t.Errorf("Sentiment = %q", article.Sentiment)
	}
}

func TestProcessFeed_CapsAndKeepsOrder(t *testing.T) {
	feed := &rss.Feed{Title: "Daily Wire"}
	pages := map[string]scraper.ArticleContent{}
	for i := 1; i <= 10; i++ {
		link := fmt.Sprintf("https://feed.example/%d", i)
		feed.Entries = append(feed.Entries, rss.Entry{Title: fmt.Sprintf("Story %d", i), Link: link})
		pages[link] = scraper.ArticleContent{Title: fmt.Sprintf("Story %d", i), Content: longText}
	}
	// The second entry is too short and gets skipped.
	pages["https://feed.example/2"] = scraper.ArticleContent{Title: "Story 2", Content: "tiny"}

	ex := &fakeExtractor{pages: pages}
	p, _, _ := newTestPipeline(ex, &fakeFeeds{feed: feed})

	articles := p.ProcessFeed(context.Background(), "https://feed.example/rss", 3)

	wantCalls := []string{"https://feed.example/1", "https://feed.example/2", "https://feed.example/3"}
	if strings.Join(ex.calls, ",") != strings.Join(wantCalls, ",") {
		t.Errorf("fetched %v, want %v", ex.calls, wantCalls)
	}
	if len(articles) != 2 {
		t.Fatalf("got %d articles, want 2", len(articles))
	}
	if articles[0].URL != "https://feed.example/1" || articles[1].URL != "https://feed.example/3" {
		t.Errorf("order = %s, %s", articles[0].URL, articles[1].URL)
	}
	for _, a := range articles {
		if a.Source != "Daily Wire" {
			t.Errorf("Source = %q", a.Source)
		}
	}
}

func TestProcessFeed_DefaultMax(t *testing.T) {
	feed := &rss.Feed{Title: "F"}
	for i := 0; i < 8; i++ {
		feed.Entries = append(feed.Entries, rss.Entry{Link: fmt.Sprintf("l%d", i)})
	}
	ex := &fakeExtractor{pages: map[string]scraper.ArticleContent{}}
	p, _, _ := newTestPipeline(ex, &fakeFeeds{feed: feed})

	p.ProcessFeed(context.Background(), "f", 0)
	if len(ex.calls) != DefaultMaxArticles {
		t.Errorf("processed %d entries, want %d", len(ex.calls), DefaultMaxArticles)
	}
}

func TestProcessFeed_FetchError(t *testing.T) {
	ex := &fakeExtractor{}
	p, _, _ := newTestPipeline(ex, &fakeFeeds{err: rss.ErrNoEntries})

	if got := p.ProcessFeed(context.Background(), "f", 5); len(got) != 0 {
		t.Errorf("got %d articles, want none", len(got))
	}
	if len(ex.calls) != 0 {
		t.Error("extractor called for a feed without entries")
	}

	p2, _, _ := newTestPipeline(ex, &fakeFeeds{err: errors.New("dns failure")})
	if got := p2.ProcessFeed(context.Background(), "f", 5); len(got) != 0 {
		t.Errorf("got %d articles, want none", len(got))
	}
}

type scriptedModel struct{}

func (scriptedModel) Ask(ctx context.Context, prompt string) (string, error) {
	if strings.HasPrefix(prompt, "What is the sentiment") {
		return " Positive\n", nil
	}
	return "  Volunteers restored the old harbour park.  ", nil
}

func TestEndToEnd_FeedWithOneArticle(t *testing.T) {
	paragraphs := []string{
		strings.Repeat("a", 49) + ".",
		strings.Repeat("b", 49) + ".",
		strings.Repeat("c", 49) + ".",
	}
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/article", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "<html><head><title>Harbour park reopens</title></head><body><p>%s</p><p>%s</p><p>%s</p></body></html>",
			paragraphs[0], paragraphs[1], paragraphs[2])
	})
	mux.HandleFunc("/rss", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprintf(w, `<?xml version="1.0"?><rss version="2.0"><channel><title>Harbour Gazette</title>
<item><title>Park</title><link>%s/article</link></item></channel></rss>`, srv.URL)
	})

	model := scriptedModel{}
	m := metrics.New()
	p := NewPipeline(
		scraper.NewExtractor(5*time.Second, "Mozilla/5.0"),
		summarize.New(model).WithMetrics(m),
		sentiment.New(model).WithMetrics(m),
		rss.NewFetcher(5*time.Second, "Mozilla/5.0"),
	).WithMetrics(m)

	articles := p.ProcessFeed(context.Background(), srv.URL+"/rss", 5)
	if len(articles) != 1 {
		t.Fatalf("got %d articles, want 1", len(articles))
	}
	a := articles[0]
	if a.Title != "Harbour park reopens" {
		t.Errorf("Title = %q", a.Title)
	}
	if a.Summary != "Volunteers restored the old harbour park." {
		t.Errorf("Summary = %q", a.Summary)
	}
	if len(a.Keywords) > 5 {
		t.Errorf("keywords = %v", a.Keywords)
	}
	if a.Sentiment != sentiment.Positive {
		t.Errorf("Sentiment = %q", a.Sentiment)
	}
	if a.Source != "Harbour Gazette" {
		t.Errorf("Source = %q", a.Source)
	}
	if a.URL != srv.URL+"/article" {
		t.Errorf("URL = %q", a.URL)
	}
}
