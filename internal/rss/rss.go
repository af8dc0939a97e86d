package rss

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"gopkg.in/yaml.v3"
)

// DefaultSourceName labels articles from feeds that declare no title.
const DefaultSourceName = "RSS Feed"

// ErrNoEntries is returned for a feed that parsed but lists nothing.
var ErrNoEntries = errors.New("no articles found in feed")

// Source is a named feed from the sources file.
type Source struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// SourcesConfig is YAML config structure
// sources:
//   - name: bbc
//     url: https://...
type SourcesConfig struct {
	Sources []Source `yaml:"sources"`
}

// LoadSources reads preset feeds from a YAML file. A missing file yields no sources.
func LoadSources(path string) ([]Source, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var cfg SourcesConfig
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("error decoding %s: %w", path, err)
	}
	return cfg.Sources, nil
}

// Feed is the part of a parsed feed the pipeline uses.
type Feed struct {
	Title   string
	Entries []Entry
}

type Entry struct {
	Title string
	Link  string
}

// SourceName returns the feed title, or DefaultSourceName.
func (f *Feed) SourceName() string {
	if t := strings.TrimSpace(f.Title); t != "" {
		return t
	}
	return DefaultSourceName
}

type Fetcher struct {
	parser *gofeed.Parser
}

func NewFetcher(timeout time.Duration, userAgent string) *Fetcher {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: timeout}
	if userAgent != "" {
		parser.UserAgent = userAgent
	}
	return &Fetcher{parser: parser}
}

// Fetch downloads and parses the RSS, Atom or JSON feed at url.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Feed, error) {
	parsed, err := f.parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, fmt.Errorf("error parsing feed %s: %w", url, err)
	}

	feed := &Feed{Title: parsed.Title}
	for _, item := range parsed.Items {
		if item == nil {
			continue
		}
		feed.Entries = append(feed.Entries, Entry{
			Title: item.Title,
			Link:  strings.TrimSpace(item.Link),
		})
	}

	if len(feed.Entries) == 0 {
		return feed, ErrNoEntries
	}
	return feed, nil
}
