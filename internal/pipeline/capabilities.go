package pipeline

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/ppiankov/stratsearch/internal/model"
)

// FocusClarifier rewrites a free-text request as one research-focus sentence
type FocusClarifier interface {
	Clarify(ctx context.Context, request string) (string, error)
}

// StrategyGenerator proposes "Country | Strategy" lines for a focus
type StrategyGenerator interface {
	Generate(ctx context.Context, focus string) (string, error)
}

// SummaryGenerator writes one factual sentence per line, grounded in text
type SummaryGenerator interface {
	Summarize(ctx context.Context, country, strategy, text string) (string, error)
}

// SentenceVerifier returns one "STATUS | reason" line per numbered sentence
type SentenceVerifier interface {
	Verify(ctx context.Context, country, strategy, text, numbered string) (string, error)
}

// DocumentFetcher retrieves a document by URL
type DocumentFetcher interface {
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}

// LinkSearcher returns the winning searcher's name and its candidate URLs.
// Empty results mean nothing was found.
type LinkSearcher interface {
	Resolve(ctx context.Context, query string) (string, []string)
}

// LinkChecker filters out candidate links known to be dead, keeping order
type LinkChecker interface {
	Alive(ctx context.Context, links []string) []string
}

// Approver is the human checkpoint between stages. Each gate returns
// proceed=false to halt the run; review gates may return a shorter
// collection but never add or reorder records.
type Approver interface {
	ApproveFocus(ctx context.Context, focus string) (string, bool, error)
	ReviewStrategies(ctx context.Context, records []*model.StrategyRecord) ([]*model.StrategyRecord, bool, error)
	ApproveLinks(ctx context.Context, records []*model.StrategyRecord) ([]*model.StrategyRecord, bool, error)
	ApproveExport(ctx context.Context, records []*model.StrategyRecord) ([]*model.StrategyRecord, bool, error)
}

// ParsePositions reads a comma-separated list of 1-based positions.
// Tokens that are not positive integers are ignored; duplicates collapse.
func ParsePositions(input string) []int {
	seen := make(map[int]bool)
	var out []int
	for _, tok := range strings.Split(input, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(tok))
		if err != nil || n < 1 || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// RemovePositions returns records without the given 1-based positions,
// keeping the order of the rest. Out-of-range positions are ignored.
func RemovePositions(records []*model.StrategyRecord, positions []int) []*model.StrategyRecord {
	if len(positions) == 0 {
		return records
	}
	drop := make(map[int]bool, len(positions))
	for _, p := range positions {
		drop[p] = true
	}

	kept := make([]*model.StrategyRecord, 0, len(records))
	for i, rec := range records {
		if !drop[i+1] {
			kept = append(kept, rec)
		}
	}
	return kept
}
