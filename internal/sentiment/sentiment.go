package sentiment

import (
	"context"
	"strings"

	"github.com/Mathusayini/News-Summarizer/internal/llm"
	"github.com/Mathusayini/News-Summarizer/internal/logger"
	"github.com/Mathusayini/News-Summarizer/internal/metrics"
)

const (
	Positive = "positive"
	Negative = "negative"
	Neutral  = "neutral"
)

// MaxInputChars bounds the text placed in the prompt.
const MaxInputChars = 1000

const promptPrefix = "What is the sentiment of this text? Reply with only: positive, negative, or neutral\n\n"

// Valid reports whether label is one of the accepted sentiment labels.
func Valid(label string) bool {
	switch label {
	case Positive, Negative, Neutral:
		return true
	}
	return false
}

type Classifier struct {
	model   llm.Asker
	metrics *metrics.Metrics
}

func New(model llm.Asker) *Classifier {
	return &Classifier{model: model, metrics: metrics.Global}
}

// WithMetrics swaps the metrics sink, mostly for tests.
func (c *Classifier) WithMetrics(m *metrics.Metrics) *Classifier {
	c.metrics = m
	return c
}

// Classify asks the model for a label. Anything but an exact label maps to Neutral.
func (c *Classifier) Classify(ctx context.Context, text string) string {
	reply, err := c.model.Ask(ctx, BuildPrompt(text))
	if err != nil {
		logger.Warn("⚠️ Sentiment request failed, using neutral", "error", err)
		c.metrics.IncrementSentimentFallbacks()
		return Neutral
	}

	label := strings.ToLower(strings.TrimSpace(reply))
	if !Valid(label) {
		logger.Debug("Unexpected sentiment reply, using neutral", "reply", reply)
		c.metrics.IncrementSentimentFallbacks()
		return Neutral
	}
	return label
}

func BuildPrompt(text string) string {
	return promptPrefix + llm.Truncate(text, MaxInputChars)
}
