package ratelimit

import (
	"sync"
	"time"

	"github.com/Mathusayini/News-Summarizer/internal/logger"
)

// Budget caps the number of model requests within a reset window. A max of
// zero means unlimited.
type Budget struct {
	mu        sync.Mutex
	count     int
	max       int
	window    time.Duration
	resetTime time.Time
	denied    int
	now       func() time.Time
}

// NewBudget creates a budget of max requests per window (daily when window is zero).
func NewBudget(max int, window time.Duration) *Budget {
	if window <= 0 {
		window = 24 * time.Hour
	}
	b := &Budget{
		max:    max,
		window: window,
		now:    time.Now,
	}
	b.resetTime = b.now().Add(window)
	return b
}

// Allow reserves one request. It returns false once the budget is spent.
func (b *Budget) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.checkReset()

	if b.max > 0 && b.count >= b.max {
		b.denied++
		logger.Warn("⚠️ Model request budget reached", "used", b.count, "max", b.max)
		return false
	}

	b.count++
	return true
}

// Remaining returns how many requests are left, or -1 when unlimited.
func (b *Budget) Remaining() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.checkReset()

	if b.max <= 0 {
		return -1
	}
	return b.max - b.count
}

// GetStats returns current usage
func (b *Budget) GetStats() map[string]interface{} {
	b.mu.Lock()
	defer b.mu.Unlock()

	return map[string]interface{}{
		"requests_used":   b.count,
		"requests_max":    b.max,
		"requests_denied": b.denied,
		"reset_time":      b.resetTime.Format(time.RFC3339),
	}
}

// checkReset must be called with mu held.
func (b *Budget) checkReset() {
	if b.now().After(b.resetTime) {
		logger.Info("🔄 Resetting model request budget", "used", b.count)
		b.count = 0
		b.denied = 0
		b.resetTime = b.now().Add(b.window)
	}
}
