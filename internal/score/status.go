package score

import (
	"strings"

	"github.com/ppiankov/stratsearch/internal/model"
)

// DefaultMaxWords caps a compressed description
const DefaultMaxWords = 30

// OverallStatus collapses per-sentence labels into one record label.
//
// Precedence: no sentences is Not verified; all unset is Verified;
// only Verified is Verified; only Not verified is Not verified;
// any other mixture is Partially verified.
func OverallStatus(sentences []model.SummarySentence) model.VerificationStatus {
	if len(sentences) == 0 {
		return model.StatusNotVerified
	}

	seen := make(map[model.VerificationStatus]bool, 3)
	for _, s := range sentences {
		if s.Status.IsSet() {
			seen[s.Status] = true
		}
	}

	switch {
	case len(seen) == 0:
		return model.StatusVerified
	case len(seen) == 1 && seen[model.StatusVerified]:
		return model.StatusVerified
	case len(seen) == 1 && seen[model.StatusNotVerified]:
		return model.StatusNotVerified
	default:
		return model.StatusPartiallyVerified
	}
}

// Describe joins every sentence not marked Not verified and compresses the
// result to one displayed sentence
func Describe(sentences []model.SummarySentence, maxWords int) string {
	parts := make([]string, 0, len(sentences))
	for _, s := range sentences {
		if s.Status == model.StatusNotVerified {
			continue
		}
		parts = append(parts, s.Sentence)
	}
	return Compress(strings.Join(parts, " "), maxWords)
}

// Compress cuts text after its first period, then caps it at maxWords words.
// A capped result loses trailing punctuation and gets exactly one period.
func Compress(text string, maxWords int) string {
	if maxWords <= 0 {
		maxWords = DefaultMaxWords
	}

	candidate := strings.TrimSpace(text)
	if candidate == "" {
		return ""
	}

	if idx := strings.Index(candidate, "."); idx >= 0 {
		candidate = candidate[:idx+1]
	}

	words := strings.Fields(candidate)
	if len(words) <= maxWords {
		return candidate
	}

	short := strings.Join(words[:maxWords], " ")
	short = strings.TrimRight(short, ".,;: \t\n")
	return short + "."
}

// Aggregator turns finished records into export rows. It never mutates records.
type Aggregator struct {
	maxWords int
}

// NewAggregator creates an aggregator with the given description word cap
func NewAggregator(maxWords int) *Aggregator {
	if maxWords <= 0 {
		maxWords = DefaultMaxWords
	}
	return &Aggregator{maxWords: maxWords}
}

// Row builds the export row for one record
func (a *Aggregator) Row(rec *model.StrategyRecord) model.Row {
	return model.Row{
		Country:      rec.Country,
		StrategyName: rec.StrategyName,
		Description:  Describe(rec.SummarySentences, a.maxWords),
		Link:         rec.PrimaryLink,
		Status:       OverallStatus(rec.SummarySentences),
	}
}

// Rows builds one row per record, in record order
func (a *Aggregator) Rows(records []*model.StrategyRecord) []model.Row {
	rows := make([]model.Row, 0, len(records))
	for _, rec := range records {
		if rec == nil {
			continue
		}
		rows = append(rows, a.Row(rec))
	}
	return rows
}

// Overview lists the distinct sentence labels of a record, sorted,
// or "unknown" when none are set
func Overview(rec *model.StrategyRecord) string {
	seen := make(map[model.VerificationStatus]bool)
	for _, s := range rec.SummarySentences {
		if s.Status.IsSet() {
			seen[s.Status] = true
		}
	}
	if len(seen) == 0 {
		return "unknown"
	}

	labels := make([]string, 0, len(seen))
	for _, st := range []model.VerificationStatus{
		model.StatusNotVerified,
		model.StatusPartiallyVerified,
		model.StatusVerified,
	} {
		if seen[st] {
			labels = append(labels, string(st))
		}
	}
	return strings.Join(labels, ", ")
}
