package pipeline

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/stratsearch/internal/extract"
	"github.com/ppiankov/stratsearch/internal/model"
)

// ContentFetcher fills RawText from each record's primary link
type ContentFetcher struct {
	fetcher           DocumentFetcher
	placeholderDomain string
	maxChars          int
	maxPDFPages       int
	markdown          bool
	logger            *zap.Logger
}

// NewContentFetcher creates a content fetcher. A nil fetcher treats every
// link as unreachable.
func NewContentFetcher(fetcher DocumentFetcher, cfg model.FetchConfig, logger *zap.Logger) *ContentFetcher {
	defaults := model.DefaultConfig().Fetch
	if cfg.MaxChars <= 0 {
		cfg.MaxChars = defaults.MaxChars
	}
	if cfg.MaxPDFPages <= 0 {
		cfg.MaxPDFPages = defaults.MaxPDFPages
	}
	if cfg.PlaceholderDomain == "" {
		cfg.PlaceholderDomain = defaults.PlaceholderDomain
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContentFetcher{
		fetcher:           fetcher,
		placeholderDomain: cfg.PlaceholderDomain,
		maxChars:          cfg.MaxChars,
		maxPDFPages:       cfg.MaxPDFPages,
		markdown:          strings.EqualFold(cfg.Format, "markdown"),
		logger:            logger,
	}
}

// Fetch sets RawText on rec. Placeholder links are never requested, and
// every failure becomes explanatory text. It never fails.
func (c *ContentFetcher) Fetch(ctx context.Context, rec *model.StrategyRecord) error {
	link := strings.TrimSpace(rec.PrimaryLink)

	var text string
	switch {
	case IsPlaceholder(link, c.placeholderDomain):
		text = placeholderText(rec)
		rec.SetNote("content", "placeholder")
	case c.fetcher == nil:
		text = failureText(rec, errors.New("no document fetcher configured"))
		rec.SetNote("content", "error")
	default:
		var err error
		text, err = c.retrieve(ctx, link)
		if err != nil {
			c.logger.Warn("content fetch failed",
				zap.String("stage", "fetch"),
				zap.String("country", rec.Country),
				zap.String("strategy", rec.StrategyName),
				zap.String("url", link),
				zap.Error(err))
			text = failureText(rec, err)
			rec.SetNote("content", "error")
		} else if strings.TrimSpace(text) == "" {
			text = fmt.Sprintf("No main content was extracted from %s.", link)
			rec.SetNote("content", "empty")
		} else {
			rec.SetNote("content", "fetched")
		}
	}

	rec.RawText = extract.Truncate(text, c.maxChars)
	return nil
}

func (c *ContentFetcher) retrieve(ctx context.Context, link string) (string, error) {
	result, err := c.fetcher.Fetch(ctx, link)
	if err != nil {
		return "", err
	}

	if isPDF(link, result.ContentType) {
		return extract.PDFText(result.Body, c.maxPDFPages)
	}

	finalURL := result.FinalURL
	if finalURL == "" {
		finalURL = link
	}
	if c.markdown {
		return extract.HTMLMarkdown(result.Body)
	}
	return extract.HTMLText(result.Body, finalURL)
}

// isPDF decides the document kind from the declared content type, then the
// URL path suffix
func isPDF(link, contentType string) bool {
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		if mediaType == "application/pdf" {
			return true
		}
	}
	if parsed, err := url.Parse(link); err == nil {
		return strings.HasSuffix(strings.ToLower(parsed.Path), ".pdf")
	}
	return strings.HasSuffix(strings.ToLower(link), ".pdf")
}

func placeholderText(rec *model.StrategyRecord) string {
	link := rec.PrimaryLink
	if link == "" {
		link = "a missing URL"
	}
	return fmt.Sprintf("This is placeholder content for %s in %s. No real strategy document was found; the link %s is a placeholder.",
		rec.StrategyName, rec.Country, link)
}

func failureText(rec *model.StrategyRecord, err error) string {
	var statusErr *StatusError
	var tooLarge *TooLargeError
	switch {
	case errors.As(err, &tooLarge):
		return fmt.Sprintf("Could not retrieve content for %s in %s: the document at %s is larger than the %d byte limit.",
			rec.StrategyName, rec.Country, rec.PrimaryLink, tooLarge.Limit)
	case errors.As(err, &statusErr):
		return fmt.Sprintf("Could not retrieve content for %s in %s: the server answered HTTP %d.",
			rec.StrategyName, rec.Country, statusErr.Code)
	case errors.Is(err, ErrDisallowed):
		return fmt.Sprintf("Could not retrieve content for %s in %s: the site does not allow automated access to %s.",
			rec.StrategyName, rec.Country, rec.PrimaryLink)
	default:
		return fmt.Sprintf("Could not retrieve content for %s in %s. Error: %v",
			rec.StrategyName, rec.Country, err)
	}
}
