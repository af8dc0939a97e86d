package app

import (
	"context"
	"io"

	"github.com/Mathusayini/News-Summarizer/internal/config"
	"github.com/Mathusayini/News-Summarizer/internal/llm"
	"github.com/Mathusayini/News-Summarizer/internal/logger"
	"github.com/Mathusayini/News-Summarizer/internal/news"
	"github.com/Mathusayini/News-Summarizer/internal/rss"
	"github.com/Mathusayini/News-Summarizer/internal/scraper"
	"github.com/Mathusayini/News-Summarizer/internal/sentiment"
	"github.com/Mathusayini/News-Summarizer/internal/storage"
	"github.com/Mathusayini/News-Summarizer/internal/summarize"
)

// App holds everything the prompt loop needs.
type App struct {
	cfg      *config.Config
	Model    *llm.Client
	Store    *storage.Store
	Pipeline *news.Pipeline
	sources  []rss.Source
}

// New opens the store, builds the model client and wires the pipeline.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	store, err := storage.Open(cfg.DatabasePath, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	model, err := llm.New(ctx, cfg)
	if err != nil {
		store.Close()
		return nil, err
	}

	pipeline := news.NewPipeline(
		scraper.NewExtractor(cfg.RequestTimeout, cfg.UserAgent),
		summarize.New(model),
		sentiment.New(model),
		rss.NewFetcher(cfg.RequestTimeout, cfg.UserAgent),
	)

	sources, err := rss.LoadSources(cfg.SourcesPath)
	if err != nil {
		logger.Warn("⚠️ Can't load preset sources", "path", cfg.SourcesPath, "error", err)
	}

	return &App{
		cfg:      cfg,
		Model:    model,
		Store:    store,
		Pipeline: pipeline,
		sources:  sources,
	}, nil
}

// Run starts the interactive loop on in/out.
func (a *App) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	return NewSession(a.Pipeline, a.Store, out, a.cfg.MaxFeedArticles).
		WithSources(a.sources).
		Run(ctx, in)
}

func (a *App) Close() {
	if err := a.Model.Close(); err != nil {
		logger.Warn("Model client close error", "error", err)
	}
	if err := a.Store.Close(); err != nil {
		logger.Warn("Store close error", "error", err)
	}
}
