package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/Mathusayini/News-Summarizer/internal/app"
	"github.com/Mathusayini/News-Summarizer/internal/config"
	"github.com/Mathusayini/News-Summarizer/internal/logger"
	"github.com/Mathusayini/News-Summarizer/internal/metrics"
	"github.com/Mathusayini/News-Summarizer/internal/monitor"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Configuration error: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.Debug)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		logger.Error("❌ Startup failed", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	// Check if we should start HTTP server for monitoring
	if cfg.MonitoringEnabled {
		if !cfg.Debug {
			gin.SetMode(gin.ReleaseMode)
		}
		router := monitor.NewRouter(metrics.Global, a.Store, a.Model.Budget())
		go monitor.Serve(ctx, cfg.MonitoringPort, router)
	}

	if err := a.Run(ctx, os.Stdin, os.Stdout); err != nil && ctx.Err() == nil {
		logger.Error("Prompt loop stopped", "error", err)
	}
}
