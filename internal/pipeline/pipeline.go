package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/stratsearch/internal/model"
	"github.com/ppiankov/stratsearch/internal/score"
	"github.com/ppiankov/stratsearch/internal/worker"
)

// ErrHalted is returned when an approval gate stops the run
var ErrHalted = errors.New("run halted")

// Gate names reported in RunResult.HaltedAt
const (
	GateFocus      = "focus"
	GateStrategies = "strategies"
	GateLinks      = "links"
	GateExport     = "export"
)

// Capabilities are the external collaborators of a run. Any of them may be
// nil; the matching stage then uses its deterministic fallback.
type Capabilities struct {
	Clarifier FocusClarifier
	Generator StrategyGenerator
	Searcher  LinkSearcher
	Checker   LinkChecker
	Fetcher   DocumentFetcher
	Summary   SummaryGenerator
	Verifier  SentenceVerifier
}

// Sink persists the final rows
type Sink interface {
	Write(rows []model.Row) error
}

// RunResult is the outcome of one run
type RunResult struct {
	Request  string
	Focus    string
	Records  []*model.StrategyRecord
	Rows     []model.Row
	Halted   bool
	HaltedAt string
	Duration time.Duration
}

// Pipeline threads the record collection through every stage in order:
// select, resolve links, fetch content, summarize, verify, aggregate.
// Approval gates sit after focus clarification, selection, link resolution
// and verification.
type Pipeline struct {
	clarifier    FocusClarifier
	selector     *Selector
	links        *LinkResolver
	content      *ContentFetcher
	summarizer   *Summarizer
	verifier     *Verifier
	aggregator   *score.Aggregator
	batch        *worker.BatchProcessor
	approver     Approver
	sink         Sink
	defaultFocus string
	progress     io.Writer
	logger       *zap.Logger
}

// NewPipeline wires the stages from cfg and caps. A nil approver approves
// everything; a nil sink skips the export write.
func NewPipeline(cfg *model.Config, caps Capabilities, approver Approver, sink Sink, logger *zap.Logger) *Pipeline {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if approver == nil {
		approver = AutoApprover{}
	}

	links := NewLinkResolver(caps.Searcher, score.NewLinkScorer(&cfg.Authority),
		cfg.Search.TopicQualifier, cfg.Fetch.PlaceholderDomain, logger)
	links.SetChecker(caps.Checker)

	return &Pipeline{
		clarifier:    caps.Clarifier,
		selector:     NewSelector(caps.Generator, cfg.Pipeline, logger),
		links:        links,
		content:      NewContentFetcher(caps.Fetcher, cfg.Fetch, logger),
		summarizer:   NewSummarizer(caps.Summary, cfg.Pipeline, logger),
		verifier:     NewVerifier(caps.Verifier, cfg.Pipeline, logger),
		aggregator:   score.NewAggregator(cfg.Pipeline.MaxWords),
		batch:        worker.NewBatchProcessor(cfg.Concurrency.Workers),
		approver:     approver,
		sink:         sink,
		defaultFocus: cfg.Pipeline.DefaultFocus,
		progress:     io.Discard,
		logger:       logger,
	}
}

// SetProgress sends human-readable progress lines to w
func (p *Pipeline) SetProgress(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	p.progress = w
}

// Run executes the pipeline for one request. A halt at an approval gate
// returns the partial result and an error wrapping ErrHalted.
func (p *Pipeline) Run(ctx context.Context, request string) (*RunResult, error) {
	start := time.Now()
	result := &RunResult{Request: request}
	defer func() { result.Duration = time.Since(start) }()

	if err := ctx.Err(); err != nil {
		return result, err
	}

	focus := p.clarify(ctx, request)
	focus, ok, err := p.approver.ApproveFocus(ctx, focus)
	if err != nil {
		return result, fmt.Errorf("approve focus: %w", err)
	}
	result.Focus = focus
	if !ok || strings.TrimSpace(focus) == "" {
		return p.halt(result, GateFocus)
	}

	records := p.selector.Select(ctx, focus)
	p.logf("Proposed %d strategies\n", len(records))

	records, ok, err = p.approver.ReviewStrategies(ctx, records)
	if err != nil {
		return result, fmt.Errorf("review strategies: %w", err)
	}
	result.Records = records
	if !ok || len(records) == 0 {
		return p.halt(result, GateStrategies)
	}

	if err := p.stage(ctx, "links", records, p.links.Resolve); err != nil {
		return result, err
	}
	p.logf("✓ Links resolved for %d strategies\n", len(records))

	records, ok, err = p.approver.ApproveLinks(ctx, records)
	if err != nil {
		return result, fmt.Errorf("approve links: %w", err)
	}
	result.Records = records
	if !ok || len(records) == 0 {
		return p.halt(result, GateLinks)
	}

	if err := p.stage(ctx, "fetch", records, p.content.Fetch); err != nil {
		return result, err
	}
	p.logf("✓ Raw text fetched\n")

	if err := p.stage(ctx, "summarize", records, p.summarizer.Summarize); err != nil {
		return result, err
	}
	p.logf("✓ Summaries created\n")

	if err := p.stage(ctx, "verify", records, p.verifier.Verify); err != nil {
		return result, err
	}
	p.logf("✓ Verification completed\n")

	records, ok, err = p.approver.ApproveExport(ctx, records)
	if err != nil {
		return result, fmt.Errorf("approve export: %w", err)
	}
	result.Records = records
	if !ok || len(records) == 0 {
		return p.halt(result, GateExport)
	}

	result.Rows = p.aggregator.Rows(records)
	if p.sink != nil {
		if err := p.sink.Write(result.Rows); err != nil {
			return result, fmt.Errorf("export: %w", err)
		}
	}

	return result, nil
}

// clarify returns the research focus for request. An empty request uses
// the default focus; a failed clarification passes the request through.
func (p *Pipeline) clarify(ctx context.Context, request string) string {
	request = strings.TrimSpace(request)
	if request == "" {
		return p.defaultFocus
	}
	if p.clarifier == nil {
		return request
	}

	focus, err := p.clarifier.Clarify(ctx, request)
	focus = strings.TrimSpace(focus)
	if err != nil || focus == "" {
		p.logger.Warn("focus clarification failed, using request as focus",
			zap.String("stage", "clarify"), zap.Error(err))
		return request
	}
	return focus
}

// stage applies fn to every record. Per-record errors, including recovered
// panics, are logged and never stop siblings. Only cancellation of the run
// context is returned.
func (p *Pipeline) stage(ctx context.Context, name string, records []*model.StrategyRecord, fn worker.RecordFunc) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	started := time.Now()
	for _, res := range p.batch.Process(ctx, records, fn) {
		if res.Error != nil {
			p.logger.Error("stage failed for record",
				zap.String("stage", name),
				zap.String("country", res.Record.Country),
				zap.String("strategy", res.Record.StrategyName),
				zap.Error(res.Error))
		}
	}
	p.logger.Debug("stage done",
		zap.String("stage", name),
		zap.Int("records", len(records)),
		zap.Duration("elapsed", time.Since(started)))

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func (p *Pipeline) halt(result *RunResult, gate string) (*RunResult, error) {
	result.Halted = true
	result.HaltedAt = gate
	p.logger.Info("run halted", zap.String("gate", gate))
	return result, fmt.Errorf("%w at %s", ErrHalted, gate)
}

func (p *Pipeline) logf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.progress, format, args...)
}

// AutoApprover approves every gate unchanged
type AutoApprover struct{}

func (AutoApprover) ApproveFocus(ctx context.Context, focus string) (string, bool, error) {
	return focus, true, nil
}

func (AutoApprover) ReviewStrategies(ctx context.Context, records []*model.StrategyRecord) ([]*model.StrategyRecord, bool, error) {
	return records, true, nil
}

func (AutoApprover) ApproveLinks(ctx context.Context, records []*model.StrategyRecord) ([]*model.StrategyRecord, bool, error) {
	return records, true, nil
}

func (AutoApprover) ApproveExport(ctx context.Context, records []*model.StrategyRecord) ([]*model.StrategyRecord, bool, error) {
	return records, true, nil
}
