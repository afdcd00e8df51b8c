package cli

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/stratsearch/internal/cache"
	"github.com/ppiankov/stratsearch/internal/llm"
	"github.com/ppiankov/stratsearch/internal/model"
	"github.com/ppiankov/stratsearch/internal/pipeline"
	"github.com/ppiankov/stratsearch/internal/search"
	"github.com/ppiankov/stratsearch/internal/util"
	"github.com/ppiankov/stratsearch/internal/validate"
	"github.com/ppiankov/stratsearch/internal/worker"
)

// buildCapabilities wires the LLM, search cascade and document fetcher
// described by cfg. Missing credentials disable a capability with a warning
// instead of failing the run.
func buildCapabilities(cfg *model.Config, logger *zap.Logger) (pipeline.Capabilities, error) {
	var caps pipeline.Capabilities

	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM, cfg.HTTP))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: LLM disabled: %v\n", err)
		provider = nil
	}
	if provider != nil {
		assistant := llm.NewAssistant(provider, cfg.Pipeline.MaxStrategies)
		caps.Clarifier = assistant
		caps.Generator = assistant
		caps.Summary = assistant
		caps.Verifier = assistant
		logger.Debug("llm enabled", zap.String("provider", assistant.ProviderName()), zap.String("model", cfg.LLM.Model))
	} else {
		fmt.Fprintf(os.Stderr, "Warning: no LLM configured, using fallback strategies and summaries\n")
	}

	cascade, err := search.NewCascadeFromConfig(cfg.Search, cfg.HTTP, logger)
	if err != nil {
		return caps, fmt.Errorf("search: %w", err)
	}
	if cascade.Len() > 0 {
		caps.Searcher = cascade
		logger.Debug("search enabled", zap.Strings("providers", cascade.Names()))
	} else {
		fmt.Fprintf(os.Stderr, "Warning: no search API key configured, links will be placeholders\n")
	}
	if cfg.Search.CheckLinks && caps.Searcher != nil {
		caps.Checker = validate.NewLinkChecker(cfg.HTTP, cfg.Search.MaxResults)
	}

	var robots *util.RobotsChecker
	if cfg.HTTP.RespectRobots {
		client := util.NewHTTPClient(cfg.HTTP.Timeout, util.NewProxyFunc(cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy, cfg.HTTP.NoProxy))
		robots = util.NewRobotsChecker(cfg.HTTP.UserAgent, client, cache.NewMemoryCache(time.Hour, 10*time.Minute), cfg.HTTP.Timeout)
	}
	limiter := worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)
	caps.Fetcher = pipeline.NewFetcher(cfg.HTTP, limiter, robots)

	return caps, nil
}

// buildPipeline assembles a ready-to-run pipeline reporting progress on stderr
func buildPipeline(cfg *model.Config, approver pipeline.Approver, sink pipeline.Sink, logger *zap.Logger) (*pipeline.Pipeline, error) {
	caps, err := buildCapabilities(cfg, logger)
	if err != nil {
		return nil, err
	}
	p := pipeline.NewPipeline(cfg, caps, approver, sink, logger)
	p.SetProgress(os.Stderr)
	return p, nil
}

// printSummary writes the final banner for a finished run
func printSummary(result *pipeline.RunResult, out string) {
	counts := make(map[model.VerificationStatus]int)
	for _, row := range result.Rows {
		counts[row.Status]++
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Research Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Strategies:          %d\n", len(result.Rows))
	for _, status := range []model.VerificationStatus{model.StatusVerified, model.StatusPartiallyVerified, model.StatusNotVerified} {
		fmt.Fprintf(os.Stderr, "  %-20s %d\n", status.String()+":", counts[status])
	}
	fmt.Fprintf(os.Stderr, "  Duration:            %v\n", result.Duration.Round(time.Second))
	if out != "" {
		fmt.Fprintf(os.Stderr, "  Output:              %s\n", out)
	}
	fmt.Fprintf(os.Stderr, "\n")
}
