package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	ArticlesProcessed  int64
	ArticlesFailed     int64
	ArticlesRejected   int64
	SummaryFallbacks   int64
	SentimentFallbacks int64
	ArticlesSaved      int64
	SaveFailures       int64
	FeedsProcessed     int64

	// Timings
	LastProcessingTime    time.Duration
	AverageProcessingTime time.Duration
	TotalProcessingTime   time.Duration
	ProcessingCount       int64

	// Status
	StartTime     time.Time
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = New()

func New() *Metrics {
	return &Metrics{IsHealthy: true, StartTime: time.Now()}
}

func (m *Metrics) IncrementArticlesProcessed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArticlesProcessed++
}

func (m *Metrics) IncrementArticlesFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArticlesFailed++
}

func (m *Metrics) IncrementArticlesRejected() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArticlesRejected++
}

func (m *Metrics) IncrementSummaryFallbacks() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SummaryFallbacks++
}

func (m *Metrics) IncrementSentimentFallbacks() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SentimentFallbacks++
}

func (m *Metrics) IncrementArticlesSaved() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArticlesSaved++
}

func (m *Metrics) IncrementSaveFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveFailures++
}

func (m *Metrics) IncrementFeedsProcessed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FeedsProcessed++
}

func (m *Metrics) RecordProcessingTime(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastProcessingTime = duration
	m.TotalProcessingTime += duration
	m.ProcessingCount++

	if m.ProcessingCount > 0 {
		m.AverageProcessingTime = m.TotalProcessingTime / time.Duration(m.ProcessingCount)
	}
}

func (m *Metrics) SetLastRun() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"articles_processed":         m.ArticlesProcessed,
		"articles_failed":            m.ArticlesFailed,
		"articles_rejected":          m.ArticlesRejected,
		"summary_fallbacks":          m.SummaryFallbacks,
		"sentiment_fallbacks":        m.SentimentFallbacks,
		"articles_saved":             m.ArticlesSaved,
		"save_failures":              m.SaveFailures,
		"feeds_processed":            m.FeedsProcessed,
		"last_processing_time_ms":    m.LastProcessingTime.Milliseconds(),
		"average_processing_time_ms": m.AverageProcessingTime.Milliseconds(),
		"uptime_seconds":             int64(time.Since(m.StartTime).Seconds()),
		"last_run_time":              m.LastRunTime.Format(time.RFC3339),
		"last_error_time":            m.LastErrorTime.Format(time.RFC3339),
		"last_error":                 m.LastError,
		"is_healthy":                 m.IsHealthy,
	}
}
