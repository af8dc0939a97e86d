// Package monitor serves health and usage data over HTTP while the prompt
// loop runs.
package monitor

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Mathusayini/News-Summarizer/internal/logger"
	"github.com/Mathusayini/News-Summarizer/internal/metrics"
	"github.com/Mathusayini/News-Summarizer/internal/ratelimit"
	"github.com/Mathusayini/News-Summarizer/internal/storage"
)

// ArticleLister is the read side of the store.
type ArticleLister interface {
	Recent(ctx context.Context, limit int) ([]storage.ArticleRecord, error)
	GetStats(ctx context.Context) (map[string]interface{}, error)
}

const maxListLimit = 100

// NewRouter builds the monitoring routes. budget may be nil.
func NewRouter(m *metrics.Metrics, store ArticleLister, budget *ratelimit.Budget) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", healthHandler(m))
	r.GET("/metrics", metricsHandler(m, store, budget))
	r.GET("/articles", articlesHandler(store))
	return r
}

func healthHandler(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats := m.GetStats()

		status := "ok"
		code := http.StatusOK
		if healthy, _ := stats["is_healthy"].(bool); !healthy {
			status = "error"
			code = http.StatusServiceUnavailable
		}

		c.JSON(code, gin.H{
			"status":     status,
			"last_run":   stats["last_run_time"],
			"last_error": stats["last_error"],
		})
	}
}

func metricsHandler(m *metrics.Metrics, store ArticleLister, budget *ratelimit.Budget) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats := m.GetStats()
		if budget != nil {
			stats["model_budget"] = budget.GetStats()
		}
		if store != nil {
			if storeStats, err := store.GetStats(c.Request.Context()); err == nil {
				stats["store"] = storeStats
			} else {
				logger.Warn("⚠️ Can't read store stats", "error", err)
			}
		}
		c.JSON(http.StatusOK, stats)
	}
}

func articlesHandler(store ArticleLister) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 10
		if v := c.Query("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
				return
			}
			limit = n
		}
		if limit > maxListLimit {
			limit = maxListLimit
		}

		recs, err := store.Recent(c.Request.Context(), limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"articles": recs, "count": len(recs)})
	}
}

// Serve runs the monitoring server until ctx is done.
func Serve(ctx context.Context, port string, handler http.Handler) {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Info("Starting monitoring server", "port", port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Monitoring server error", "error", err)
	}
}
