package pipeline

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/stratsearch/internal/extract"
	"github.com/ppiankov/stratsearch/internal/model"
)

// DefaultMaxSentences caps the sentences kept per summary
const DefaultMaxSentences = 5

var listMarkerRe = regexp.MustCompile(`^\s*(?:[-*•]+|\d+[.)])\s+`)

// FallbackSentence is the templated summary used when generation fails
func FallbackSentence(rec *model.StrategyRecord) string {
	return fmt.Sprintf("%s's %q focuses on transport and mobility policy.", rec.Country, rec.StrategyName)
}

// ParseSentences splits model output into at most max sentences, one per
// non-blank line, with list markers removed
func ParseSentences(raw string, max int) []model.SummarySentence {
	if max <= 0 {
		max = DefaultMaxSentences
	}

	var out []model.SummarySentence
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(listMarkerRe.ReplaceAllString(line, ""))
		if line == "" {
			continue
		}
		out = append(out, model.SummarySentence{Sentence: line})
		if len(out) == max {
			break
		}
	}
	return out
}

// Summarizer turns each record's RawText into summary sentences
type Summarizer struct {
	generator    SummaryGenerator
	promptChars  int
	maxSentences int
	logger       *zap.Logger
}

// NewSummarizer creates a summarizer. A nil generator always yields the
// fallback sentence.
func NewSummarizer(generator SummaryGenerator, cfg model.PipelineConfig, logger *zap.Logger) *Summarizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Summarizer{
		generator:    generator,
		promptChars:  cfg.PromptChars,
		maxSentences: cfg.MaxSentences,
		logger:       logger,
	}
}

// Summarize replaces rec's sentences with freshly generated ones, all
// unverified. Records without RawText are skipped.
func (s *Summarizer) Summarize(ctx context.Context, rec *model.StrategyRecord) error {
	if !rec.HasRawText() {
		s.logger.Debug("no raw text, skipping summary", zap.String("country", rec.Country))
		return nil
	}

	sentences, err := s.generate(ctx, rec)
	if err != nil {
		s.logger.Warn("summary generation failed, using fallback sentence",
			zap.String("stage", "summarize"),
			zap.String("country", rec.Country),
			zap.String("strategy", rec.StrategyName),
			zap.Error(err))
		sentences = []model.SummarySentence{{Sentence: FallbackSentence(rec)}}
		rec.SetNote("summary", "fallback")
	}

	rec.SummarySentences = sentences
	return nil
}

func (s *Summarizer) generate(ctx context.Context, rec *model.StrategyRecord) ([]model.SummarySentence, error) {
	if s.generator == nil {
		return nil, fmt.Errorf("no summary generator configured")
	}

	raw, err := s.generator.Summarize(ctx, rec.Country, rec.StrategyName, extract.Truncate(rec.RawText, s.promptChars))
	if err != nil {
		return nil, err
	}

	sentences := ParseSentences(raw, s.maxSentences)
	if len(sentences) == 0 {
		return nil, fmt.Errorf("no sentences generated")
	}
	return sentences, nil
}
