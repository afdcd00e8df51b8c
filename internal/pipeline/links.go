package pipeline

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/stratsearch/internal/model"
	"github.com/ppiankov/stratsearch/internal/score"
)

// BuildQuery returns the search query for a record
func BuildQuery(rec *model.StrategyRecord, qualifier string) string {
	q := fmt.Sprintf("%q %s", rec.StrategyName, rec.Country)
	if qualifier = strings.TrimSpace(qualifier); qualifier != "" {
		q += " " + qualifier
	}
	return q
}

// PlaceholderURL builds the sentinel link used when no search found anything
func PlaceholderURL(domain, country, strategy string) string {
	return fmt.Sprintf("https://%s/%s/%s", domain, slug(country), slug(strategy))
}

// IsPlaceholder reports whether link is empty or points at the sentinel domain
func IsPlaceholder(link, domain string) bool {
	link = strings.TrimSpace(link)
	if link == "" {
		return true
	}
	parsed, err := url.Parse(link)
	if err != nil {
		return false
	}
	return strings.EqualFold(parsed.Hostname(), domain)
}

// slug lower-cases and hyphenates s, then escapes it as one path segment
func slug(s string) string {
	return url.PathEscape(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "-"))
}

// LinkResolver picks a primary document link and secondary candidates for
// each record
type LinkResolver struct {
	searcher          LinkSearcher
	checker           LinkChecker
	scorer            *score.LinkScorer
	qualifier         string
	placeholderDomain string
	logger            *zap.Logger
}

// NewLinkResolver creates a link resolver. A nil searcher resolves every
// record to its placeholder.
func NewLinkResolver(searcher LinkSearcher, scorer *score.LinkScorer, qualifier, placeholderDomain string, logger *zap.Logger) *LinkResolver {
	if scorer == nil {
		scorer = score.NewLinkScorer(nil)
	}
	if placeholderDomain == "" {
		placeholderDomain = model.DefaultConfig().Fetch.PlaceholderDomain
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LinkResolver{
		searcher:          searcher,
		scorer:            scorer,
		qualifier:         qualifier,
		placeholderDomain: placeholderDomain,
		logger:            logger,
	}
}

// SetChecker makes Resolve drop dead candidates before ranking. nil disables
// the check.
func (r *LinkResolver) SetChecker(checker LinkChecker) {
	r.checker = checker
}

// Resolve sets PrimaryLink and SecondaryLinks on rec. It never fails.
func (r *LinkResolver) Resolve(ctx context.Context, rec *model.StrategyRecord) error {
	var (
		source     string
		candidates []string
	)
	if r.searcher != nil {
		source, candidates = r.searcher.Resolve(ctx, BuildQuery(rec, r.qualifier))
	}
	if r.checker != nil && len(candidates) > 0 {
		alive := r.checker.Alive(ctx, candidates)
		if dropped := len(candidates) - len(alive); dropped > 0 {
			r.logger.Debug("dropped dead links",
				zap.String("country", rec.Country),
				zap.Int("dropped", dropped))
		}
		candidates = alive
	}

	primary, secondary := r.scorer.Rank(candidates)
	if primary == "" {
		rec.PrimaryLink = PlaceholderURL(r.placeholderDomain, rec.Country, rec.StrategyName)
		rec.SecondaryLinks = nil
		rec.SetNote("link_source", "placeholder")
		r.logger.Warn("no link candidates, using placeholder",
			zap.String("stage", "links"),
			zap.String("country", rec.Country),
			zap.String("strategy", rec.StrategyName))
		return nil
	}

	rec.PrimaryLink = primary
	rec.SecondaryLinks = secondary
	rec.SetNote("link_source", source)
	r.logger.Debug("link resolved",
		zap.String("country", rec.Country),
		zap.String("searcher", source),
		zap.String("link", primary),
		zap.Int("score", r.scorer.Score(primary)))
	return nil
}
