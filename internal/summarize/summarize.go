package summarize

import (
	"context"
	"strings"

	"github.com/Mathusayini/News-Summarizer/internal/llm"
	"github.com/Mathusayini/News-Summarizer/internal/logger"
	"github.com/Mathusayini/News-Summarizer/internal/metrics"
)

const (
	// Fallback is returned whenever the model gives nothing usable.
	Fallback = "Summary unavailable"

	// MaxInputChars bounds the article text placed in the prompt.
	MaxInputChars = 5000

	promptPrefix = "Summarize this news article in 3-4 sentences:\n\n"
)

type Summarizer struct {
	model   llm.Asker
	metrics *metrics.Metrics
}

func New(model llm.Asker) *Summarizer {
	return &Summarizer{model: model, metrics: metrics.Global}
}

// WithMetrics swaps the metrics sink, mostly for tests.
func (s *Summarizer) WithMetrics(m *metrics.Metrics) *Summarizer {
	s.metrics = m
	return s
}

// Summarize returns a 3-4 sentence synopsis of text, or Fallback.
func (s *Summarizer) Summarize(ctx context.Context, text string) string {
	reply, err := s.model.Ask(ctx, BuildPrompt(text))
	if err != nil {
		logger.Warn("❌ Summary request failed", "error", err)
		s.metrics.IncrementSummaryFallbacks()
		return Fallback
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		logger.Warn("❌ Model returned an empty summary")
		s.metrics.IncrementSummaryFallbacks()
		return Fallback
	}
	return reply
}

func BuildPrompt(text string) string {
	return promptPrefix + llm.Truncate(text, MaxInputChars)
}
