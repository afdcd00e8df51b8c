package search

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/stratsearch/internal/model"
	"github.com/ppiankov/stratsearch/internal/util"
)

// Cascade asks its searchers in priority order and keeps the first
// non-empty answer
type Cascade struct {
	searchers []Searcher
	logger    *zap.Logger
}

// NewCascade creates a cascade over searchers in the given order. Nil
// searchers are skipped.
func NewCascade(logger *zap.Logger, searchers ...Searcher) *Cascade {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Cascade{logger: logger}
	for _, s := range searchers {
		if s != nil {
			c.searchers = append(c.searchers, s)
		}
	}
	return c
}

// Len returns the number of searchers in the cascade
func (c *Cascade) Len() int {
	return len(c.searchers)
}

// Names returns the searcher names in cascade order
func (c *Cascade) Names() []string {
	names := make([]string, len(c.searchers))
	for i, s := range c.searchers {
		names[i] = s.Name()
	}
	return names
}

// Resolve returns the name of the winning searcher and its candidates.
// A searcher error counts as zero candidates. Both results are empty when no
// searcher produced anything.
func (c *Cascade) Resolve(ctx context.Context, query string) (string, []string) {
	for _, s := range c.searchers {
		if ctx.Err() != nil {
			return "", nil
		}

		urls, err := s.Search(ctx, query)
		if err != nil {
			c.logger.Warn("search failed",
				zap.String("searcher", s.Name()),
				zap.String("query", query),
				zap.Error(err))
			continue
		}

		urls = collect(urls, 0)
		if len(urls) == 0 {
			c.logger.Debug("no candidates",
				zap.String("searcher", s.Name()),
				zap.String("query", query))
			continue
		}
		return s.Name(), urls
	}
	return "", nil
}

// NewCascadeFromConfig builds the cascade listed in cfg.Providers. Providers
// without an API key are left out; unknown names are an error.
func NewCascadeFromConfig(cfg model.SearchConfig, httpCfg model.HTTPConfig, logger *zap.Logger) (*Cascade, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	client := util.NewHTTPClient(httpCfg.Timeout, util.NewProxyFunc(httpCfg.HTTPProxy, httpCfg.HTTPSProxy, httpCfg.NoProxy))

	var searchers []Searcher
	for _, name := range cfg.Providers {
		name = strings.ToLower(strings.TrimSpace(name))

		var (
			key  string
			ctor func(Options) (Searcher, error)
		)
		switch name {
		case "tavily":
			key = cfg.TavilyAPIKey
			ctor = func(o Options) (Searcher, error) { return NewTavily(o) }
		case "firecrawl":
			key = cfg.FirecrawlAPIKey
			ctor = func(o Options) (Searcher, error) { return NewFirecrawl(o) }
		case "serper":
			key = cfg.SerperAPIKey
			ctor = func(o Options) (Searcher, error) { return NewSerper(o) }
		case "brave":
			key = cfg.BraveAPIKey
			ctor = func(o Options) (Searcher, error) { return NewBrave(o) }
		case "":
			continue
		default:
			return nil, fmt.Errorf("unknown search provider: %s (supported: tavily, firecrawl, serper, brave)", name)
		}

		if key == "" {
			logger.Debug("search provider skipped, no API key", zap.String("searcher", name))
			continue
		}

		s, err := ctor(Options{APIKey: key, MaxResults: cfg.MaxResults, HTTPClient: client})
		if err != nil {
			return nil, err
		}
		searchers = append(searchers, s)
	}

	return NewCascade(logger, searchers...), nil
}
