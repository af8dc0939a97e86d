package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Mathusayini/News-Summarizer/internal/logger"
	"github.com/Mathusayini/News-Summarizer/internal/metrics"
	"github.com/Mathusayini/News-Summarizer/internal/news"
	"github.com/Mathusayini/News-Summarizer/internal/rss"
)

const prompt = "🔗 Enter URL (or 'quit'): "

// Processor runs the article and feed pipelines.
type Processor interface {
	ProcessArticle(ctx context.Context, url, source string) (*news.Article, news.Outcome)
	ProcessFeed(ctx context.Context, feedURL string, maxArticles int) []*news.Article
}

// Saver persists processed articles.
type Saver interface {
	Save(ctx context.Context, a *news.Article) error
}

// Session is the interactive prompt loop.
type Session struct {
	processor       Processor
	store           Saver
	out             io.Writer
	st              styles
	maxFeedArticles int
	sources         []rss.Source
	metrics         *metrics.Metrics
}

func NewSession(processor Processor, store Saver, out io.Writer, maxFeedArticles int) *Session {
	return &Session{
		processor:       processor,
		store:           store,
		out:             out,
		st:              newStyles(out),
		maxFeedArticles: maxFeedArticles,
		metrics:         metrics.Global,
	}
}

// WithSources sets the preset feeds listed in the banner.
func (s *Session) WithSources(sources []rss.Source) *Session {
	s.sources = sources
	return s
}

// WithMetrics swaps the metrics sink, mostly for tests.
func (s *Session) WithMetrics(m *metrics.Metrics) *Session {
	s.metrics = m
	return s
}

// IsFeedURL reports whether input should go through the feed pipeline.
func IsFeedURL(input string) bool {
	lower := strings.ToLower(input)
	for _, marker := range []string{"rss", "feed", ".xml"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return strings.HasSuffix(input, "/rss")
}

// Run reads URLs from in until quit, EOF or ctx cancellation. A blocked
// read does not delay cancellation.
func (s *Session) Run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.banner()

	lines, readErr := readLines(ctx, in)
	for {
		fmt.Fprint(s.out, "\n"+s.st.label.Render(prompt))
		select {
		case <-ctx.Done():
			fmt.Fprintln(s.out)
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(s.out)
				return <-readErr
			}
			if quit := s.Handle(ctx, line); quit {
				return nil
			}
		}
	}
}

// readLines scans in on its own goroutine. The lines channel is closed at
// EOF, after the scan error (possibly nil) is sent on the error channel.
func readLines(ctx context.Context, in io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)

	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- scanner.Err()
		close(lines)
	}()

	return lines, errc
}

func (s *Session) banner() {
	fmt.Fprintln(s.out, s.st.title.Render("\n🧠 News Summarizer"))
	fmt.Fprintln(s.out, "Enter a news URL to summarize it, or type 'quit' to exit.")
	if len(s.sources) > 0 {
		fmt.Fprintln(s.out, s.st.info.Render("Feeds you can try:"))
		for _, src := range s.sources {
			fmt.Fprintln(s.out, s.st.info.Render(fmt.Sprintf("  %-12s %s", src.Name, src.URL)))
		}
	}
}

// Handle processes one line of input. It returns true when the user quits.
func (s *Session) Handle(ctx context.Context, line string) bool {
	input := strings.TrimSpace(line)

	switch strings.ToLower(input) {
	case "quit", "exit":
		fmt.Fprintln(s.out, "👋 Exiting. Goodbye!")
		return true
	}

	if !strings.HasPrefix(input, "http") {
		fmt.Fprintln(s.out, s.st.err.Render("❌ Please enter a valid URL starting with 'http'"))
		return false
	}

	var saved bool
	if IsFeedURL(input) {
		saved = s.handleFeed(ctx, input)
	} else {
		saved = s.handleArticle(ctx, input)
	}
	// A failed save already marked the process unhealthy.
	if saved {
		s.metrics.SetLastRun()
	}
	return false
}

// handleFeed reports false when any article could not be saved.
func (s *Session) handleFeed(ctx context.Context, feedURL string) bool {
	fmt.Fprintln(s.out, s.st.info.Render("📡 Detected RSS feed URL. Processing multiple articles..."))

	articles := s.processor.ProcessFeed(ctx, feedURL, s.maxFeedArticles)
	if len(articles) == 0 {
		fmt.Fprintln(s.out, s.st.err.Render("❌ Failed to process RSS feed. Try another URL."))
		return true
	}

	fmt.Fprintln(s.out, s.st.success.Render(fmt.Sprintf("\n✅ Successfully processed %d articles from RSS feed!", len(articles))))
	saved := true
	for i, a := range articles {
		if !s.save(ctx, a) {
			saved = false
		}
		fmt.Fprintln(s.out, s.st.title.Render(fmt.Sprintf("\n--- Article %d ---", i+1)))
		s.printArticle(a, true)
	}
	return saved
}

func (s *Session) handleArticle(ctx context.Context, url string) bool {
	article, outcome := s.processor.ProcessArticle(ctx, url, news.ManualSource)
	if outcome != news.OutcomeDone {
		fmt.Fprintln(s.out, s.st.err.Render("❌ Failed to summarize. Try another URL."))
		return true
	}
	saved := s.save(ctx, article)
	fmt.Fprintln(s.out)
	s.printArticle(article, false)
	return saved
}

// save never stops the session; a failed save is reported and counted.
func (s *Session) save(ctx context.Context, a *news.Article) bool {
	if err := s.store.Save(ctx, a); err != nil {
		s.metrics.IncrementSaveFailures()
		s.metrics.SetError(err.Error())
		fmt.Fprintln(s.out, s.st.warn.Render("⚠️ Processed but not saved: "+truncateTitle(a.Title)))
		return false
	}
	s.metrics.IncrementArticlesSaved()
	logger.Info("✅ Saved", "title", truncateTitle(a.Title))
	return true
}

func (s *Session) printArticle(a *news.Article, withURL bool) {
	fmt.Fprintf(s.out, "%s %s\n", s.st.label.Render("✅ Title:"), a.Title)
	fmt.Fprintf(s.out, "%s %s\n", s.st.label.Render("🎭 Sentiment:"), sentimentStyle(s.st, a.Sentiment).Render(a.Sentiment))
	fmt.Fprintf(s.out, "%s %s\n", s.st.label.Render("🏷️ Keywords:"), strings.Join(a.Keywords, ", "))
	if withURL {
		fmt.Fprintf(s.out, "%s %s\n", s.st.label.Render("📄 Summary:"), a.Summary)
		fmt.Fprintf(s.out, "%s %s\n", s.st.label.Render("🔗 URL:"), a.URL)
		return
	}
	fmt.Fprintf(s.out, "\n%s\n%s\n", s.st.label.Render("📄 Summary:"), a.Summary)
}

func truncateTitle(title string) string {
	r := []rune(title)
	if len(r) > 50 {
		return string(r[:50]) + "..."
	}
	return title
}
