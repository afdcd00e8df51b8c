package pipeline

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/stratsearch/internal/extract"
	"github.com/ppiankov/stratsearch/internal/model"
)

// NumberSentences renders "1. first\n2. second" for the verification prompt
func NumberSentences(sentences []model.SummarySentence) string {
	var b strings.Builder
	for i, s := range sentences {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d. %s", i+1, s.Sentence)
	}
	return b.String()
}

// ParseLabels reads one label per non-blank line. The label is the text
// before the first "|"; anything that is not exactly a canonical label
// becomes Partially verified.
func ParseLabels(raw string) []model.VerificationStatus {
	var labels []model.VerificationStatus
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		token, _, _ := strings.Cut(line, "|")
		status, ok := model.ParseStatus(strings.TrimSpace(token))
		if !ok {
			status = model.StatusPartiallyVerified
		}
		labels = append(labels, status)
	}
	return labels
}

// AssignLabels applies labels by position. Sentences that already carry a
// status keep it; sentences without a matching label get Partially verified.
func AssignLabels(sentences []model.SummarySentence, labels []model.VerificationStatus) {
	for i := range sentences {
		if sentences[i].Status.IsSet() {
			continue
		}
		if i < len(labels) {
			sentences[i].Status = labels[i]
		} else {
			sentences[i].Status = model.StatusPartiallyVerified
		}
	}
}

// Verifier labels every summary sentence against the record's RawText
type Verifier struct {
	verifier    SentenceVerifier
	promptChars int
	logger      *zap.Logger
}

// NewVerifier creates a verifier. A nil SentenceVerifier labels everything
// Partially verified.
func NewVerifier(verifier SentenceVerifier, cfg model.PipelineConfig, logger *zap.Logger) *Verifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Verifier{
		verifier:    verifier,
		promptChars: cfg.PromptChars,
		logger:      logger,
	}
}

// Verify labels rec's sentences. Records without RawText or sentences are
// left untouched.
func (v *Verifier) Verify(ctx context.Context, rec *model.StrategyRecord) error {
	if !rec.HasRawText() || len(rec.SummarySentences) == 0 {
		return nil
	}

	labels, err := v.labels(ctx, rec)
	if err != nil {
		v.logger.Warn("verification failed, marking sentences partially verified",
			zap.String("stage", "verify"),
			zap.String("country", rec.Country),
			zap.String("strategy", rec.StrategyName),
			zap.Error(err))
		rec.SetNote("verification", "fallback")
	} else if len(labels) < len(rec.SummarySentences) {
		v.logger.Debug("fewer labels than sentences",
			zap.String("country", rec.Country),
			zap.Int("labels", len(labels)),
			zap.Int("sentences", len(rec.SummarySentences)))
	}

	AssignLabels(rec.SummarySentences, labels)
	return nil
}

func (v *Verifier) labels(ctx context.Context, rec *model.StrategyRecord) ([]model.VerificationStatus, error) {
	if v.verifier == nil {
		return nil, fmt.Errorf("no sentence verifier configured")
	}
	raw, err := v.verifier.Verify(ctx, rec.Country, rec.StrategyName,
		extract.Truncate(rec.RawText, v.promptChars), NumberSentences(rec.SummarySentences))
	if err != nil {
		return nil, err
	}
	return ParseLabels(raw), nil
}
