package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/clause"

	"github.com/Mathusayini/News-Summarizer/internal/logger"
	"github.com/Mathusayini/News-Summarizer/internal/news"
)

// ArticleRecord is one row of the articles table.
type ArticleRecord struct {
	ID        uint                        `gorm:"primaryKey" json:"id"`
	URL       string                      `gorm:"uniqueIndex;not null" json:"url"`
	Title     string                      `json:"title"`
	Summary   string                      `json:"summary"`
	Keywords  datatypes.JSONSlice[string] `json:"keywords"`
	Sentiment string                      `json:"sentiment"`
	Source    string                      `json:"source"`
	CreatedAt time.Time                   `json:"created_at"`
	UpdatedAt time.Time                   `json:"updated_at"`
}

func (ArticleRecord) TableName() string {
	return "articles"
}

// Store persists processed articles, one row per URL.
type Store struct {
	db       *gorm.DB
	backend  string
	initOnce sync.Once
	initErr  error
}

// Open connects to postgres when databaseURL is set, otherwise to the
// sqlite file at path, and initializes the schema.
func Open(path, databaseURL string) (*Store, error) {
	var (
		dialector gorm.Dialector
		backend   string
	)
	if databaseURL != "" {
		dialector = postgres.Open(databaseURL)
		backend = "postgres"
	} else {
		dialector = sqlite.Open(path)
		backend = "sqlite"
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &Store{db: db, backend: backend}
	if err := s.Init(); err != nil {
		return nil, err
	}

	logger.Info("✅ Article store ready", "backend", backend)
	return s, nil
}

// NewWithDB wraps an existing connection. Init must still be called.
func NewWithDB(db *gorm.DB) *Store {
	return &Store{db: db, backend: db.Dialector.Name()}
}

// Init creates the articles table. Only the first call does any work.
func (s *Store) Init() error {
	s.initOnce.Do(func() {
		if err := s.db.AutoMigrate(&ArticleRecord{}); err != nil {
			s.initErr = fmt.Errorf("failed to initialize schema: %w", err)
			return
		}
		logger.Debug("Database schema initialized")
	})
	return s.initErr
}

// Save inserts the article or, when its URL is already stored, replaces
// the stored fields. The error is logged here; callers only report it.
func (s *Store) Save(ctx context.Context, a *news.Article) error {
	if a == nil || a.URL == "" {
		return errors.New("article without URL")
	}

	keywords := a.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	rec := ArticleRecord{
		URL:       a.URL,
		Title:     a.Title,
		Summary:   a.Summary,
		Keywords:  datatypes.JSONSlice[string](keywords),
		Sentiment: a.Sentiment,
		Source:    a.Source,
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "url"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "summary", "keywords", "sentiment", "source", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		logger.Error("❌ Save error", "url", a.URL, "error", err)
		return fmt.Errorf("failed to save article: %w", err)
	}

	logger.Debug("Saved article", "url", a.URL)
	return nil
}

// Get returns the stored record for url, or nil when there is none.
func (s *Store) Get(ctx context.Context, url string) (*ArticleRecord, error) {
	var rec ArticleRecord
	err := s.db.WithContext(ctx).Where("url = ?", url).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get article: %w", err)
	}
	return &rec, nil
}

// Recent returns the most recently written articles.
func (s *Store) Recent(ctx context.Context, limit int) ([]ArticleRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	var recs []ArticleRecord
	err := s.db.WithContext(ctx).Order("updated_at DESC").Order("id DESC").Limit(limit).Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	return recs, nil
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&ArticleRecord{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count articles: %w", err)
	}
	return n, nil
}

// GetStats returns store statistics
func (s *Store) GetStats(ctx context.Context) (map[string]interface{}, error) {
	total, err := s.Count(ctx)
	if err != nil {
		return nil, err
	}
	stats := map[string]interface{}{
		"backend":     s.backend,
		"total_items": total,
	}

	type row struct {
		Sentiment string
		N         int64
	}
	var rows []row
	err = s.db.WithContext(ctx).Model(&ArticleRecord{}).
		Select("sentiment, COUNT(*) AS n").Group("sentiment").Scan(&rows).Error
	if err == nil {
		for _, r := range rows {
			stats["sentiment_"+r.Sentiment] = r.N
		}
	}
	return stats, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
