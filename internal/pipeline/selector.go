package pipeline

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/stratsearch/internal/model"
)

// FallbackStrategies returns the fixed seed list used when strategy
// generation fails or yields nothing usable
func FallbackStrategies() []*model.StrategyRecord {
	return []*model.StrategyRecord{
		model.NewStrategyRecord("Germany", "National Transport Strategy 2030"),
		model.NewStrategyRecord("Japan", "Comprehensive Mobility Plan"),
	}
}

// ParseStrategies reads "Country | Strategy" lines. Lines without a pipe or
// with an empty half are skipped; only the first pipe separates the fields.
func ParseStrategies(raw string) []*model.StrategyRecord {
	var records []*model.StrategyRecord
	for _, line := range strings.Split(raw, "\n") {
		country, strategy, ok := strings.Cut(line, "|")
		if !ok {
			continue
		}
		country = strings.TrimSpace(country)
		strategy = strings.TrimSpace(strategy)
		if country == "" || strategy == "" {
			continue
		}
		records = append(records, model.NewStrategyRecord(country, strategy))
	}
	return records
}

// Selector expands a research focus into seed records
type Selector struct {
	generator     StrategyGenerator
	fallbackFocus string
	maxStrategies int
	logger        *zap.Logger
}

// NewSelector creates a selector. A nil generator always yields the
// fallback list.
func NewSelector(generator StrategyGenerator, cfg model.PipelineConfig, logger *zap.Logger) *Selector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Selector{
		generator:     generator,
		fallbackFocus: cfg.FallbackFocus,
		maxStrategies: cfg.MaxStrategies,
		logger:        logger,
	}
}

// Select returns an ordered, non-empty list of seed records
func (s *Selector) Select(ctx context.Context, focus string) []*model.StrategyRecord {
	focus = strings.TrimSpace(focus)
	if focus == "" {
		focus = s.fallbackFocus
	}

	if s.generator == nil {
		s.logger.Warn("no strategy generator, using fallback list", zap.String("stage", "select"))
		return FallbackStrategies()
	}

	raw, err := s.generator.Generate(ctx, focus)
	if err != nil {
		s.logger.Warn("strategy generation failed, using fallback list",
			zap.String("stage", "select"), zap.Error(err))
		return FallbackStrategies()
	}

	records := ParseStrategies(raw)
	if len(records) == 0 {
		s.logger.Warn("no strategies parsed, using fallback list",
			zap.String("stage", "select"), zap.Int("output_bytes", len(raw)))
		return FallbackStrategies()
	}

	if s.maxStrategies > 0 && len(records) > s.maxStrategies {
		records = records[:s.maxStrategies]
	}
	return records
}
