package pipeline

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/ppiankov/stratsearch/internal/model"
)

var errCapability = errors.New("capability unavailable")

type fakeClarifier struct {
	focus string
	err   error
}

func (f *fakeClarifier) Clarify(ctx context.Context, request string) (string, error) {
	return f.focus, f.err
}

type fakeGenerator struct {
	output string
	err    error
	focus  string
}

func (f *fakeGenerator) Generate(ctx context.Context, focus string) (string, error) {
	f.focus = focus
	return f.output, f.err
}

type fakeSearcher struct {
	byQuery map[string][]string
	calls   atomic.Int32
}

func (f *fakeSearcher) Resolve(ctx context.Context, query string) (string, []string) {
	f.calls.Add(1)
	if urls := f.byQuery[query]; len(urls) > 0 {
		return "fake", urls
	}
	return "", nil
}

// fakeChecker treats every link listed in dead as dead
type fakeChecker struct {
	dead map[string]bool
}

func (f *fakeChecker) Alive(ctx context.Context, links []string) []string {
	var out []string
	for _, l := range links {
		if !f.dead[l] {
			out = append(out, l)
		}
	}
	return out
}

type fakeFetcher struct {
	mu      sync.Mutex
	results map[string]*FetchResult
	errs    map[string]error
	urls    []string
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (*FetchResult, error) {
	f.mu.Lock()
	f.urls = append(f.urls, url)
	f.mu.Unlock()

	if err := f.errs[url]; err != nil {
		return nil, err
	}
	if r, ok := f.results[url]; ok {
		return r, nil
	}
	return nil, &StatusError{Code: 404, Status: "404 Not Found"}
}

func (f *fakeFetcher) requested() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.urls...)
}

type fakeSummary struct {
	output map[string]string
	err    error
	texts  sync.Map
}

func (f *fakeSummary) Summarize(ctx context.Context, country, strategy, text string) (string, error) {
	f.texts.Store(country, text)
	if f.err != nil {
		return "", f.err
	}
	return f.output[country], nil
}

type fakeVerifier struct {
	output   map[string]string
	err      error
	numbered sync.Map
}

func (f *fakeVerifier) Verify(ctx context.Context, country, strategy, text, numbered string) (string, error) {
	f.numbered.Store(country, numbered)
	if f.err != nil {
		return "", f.err
	}
	return f.output[country], nil
}

// scriptedApprover answers each gate from its fields and records what it saw
type scriptedApprover struct {
	rejectAt      string
	focusOverride string
	removeAt      map[string][]int
	seen          map[string]int
}

func (a *scriptedApprover) note(gate string, n int) {
	if a.seen == nil {
		a.seen = make(map[string]int)
	}
	a.seen[gate] = n
}

func (a *scriptedApprover) ApproveFocus(ctx context.Context, focus string) (string, bool, error) {
	a.note(GateFocus, 1)
	if a.focusOverride != "" {
		focus = a.focusOverride
	}
	return focus, a.rejectAt != GateFocus, nil
}

func (a *scriptedApprover) review(gate string, records []*model.StrategyRecord) ([]*model.StrategyRecord, bool, error) {
	a.note(gate, len(records))
	return RemovePositions(records, a.removeAt[gate]), a.rejectAt != gate, nil
}

func (a *scriptedApprover) ReviewStrategies(ctx context.Context, records []*model.StrategyRecord) ([]*model.StrategyRecord, bool, error) {
	return a.review(GateStrategies, records)
}

func (a *scriptedApprover) ApproveLinks(ctx context.Context, records []*model.StrategyRecord) ([]*model.StrategyRecord, bool, error) {
	return a.review(GateLinks, records)
}

func (a *scriptedApprover) ApproveExport(ctx context.Context, records []*model.StrategyRecord) ([]*model.StrategyRecord, bool, error) {
	return a.review(GateExport, records)
}

type memorySink struct {
	rows  []model.Row
	err   error
	calls int
}

func (s *memorySink) Write(rows []model.Row) error {
	s.calls++
	s.rows = rows
	return s.err
}
