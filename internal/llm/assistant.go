package llm

import (
	"context"
)

// Assistant adapts a Provider to the four generative capabilities of the
// research pipeline. It returns raw model text; parsing and fallbacks are
// the caller's job.
type Assistant struct {
	provider      Provider
	maxStrategies int
}

// NewAssistant creates an assistant. A nil provider makes every call fail
// with ErrNoProvider so callers fall back deterministically.
func NewAssistant(provider Provider, maxStrategies int) *Assistant {
	if maxStrategies <= 0 {
		maxStrategies = 10
	}
	return &Assistant{provider: provider, maxStrategies: maxStrategies}
}

// IsEnabled returns true if a provider is configured
func (a *Assistant) IsEnabled() bool {
	return a.provider != nil
}

// ProviderName returns the provider name, or "" when disabled
func (a *Assistant) ProviderName() string {
	if a.provider == nil {
		return ""
	}
	return a.provider.Name()
}

// Clarify rewrites free text as one research-focus sentence
func (a *Assistant) Clarify(ctx context.Context, request string) (string, error) {
	return a.complete(ctx, clarifySystem, BuildClarifyPrompt(request))
}

// Generate proposes "Country | Strategy" lines for a focus
func (a *Assistant) Generate(ctx context.Context, focus string) (string, error) {
	return a.complete(ctx, strategySystem, BuildStrategyPrompt(focus, a.maxStrategies))
}

// Summarize writes short factual sentences grounded in text
func (a *Assistant) Summarize(ctx context.Context, country, strategy, text string) (string, error) {
	return a.complete(ctx, summarizeSystem, BuildSummaryPrompt(country, strategy, text))
}

// Verify labels each numbered sentence against text
func (a *Assistant) Verify(ctx context.Context, country, strategy, text, numbered string) (string, error) {
	return a.complete(ctx, verifySystem, BuildVerifyPrompt(country, strategy, text, numbered))
}

func (a *Assistant) complete(ctx context.Context, system, prompt string) (string, error) {
	if a.provider == nil {
		return "", ErrNoProvider
	}

	resp, err := a.provider.Complete(ctx, CompletionRequest{
		System: system,
		Prompt: prompt,
	})
	if err != nil {
		return "", err
	}
	if resp == nil || resp.Text == "" {
		return "", ErrEmptyResponse
	}
	return resp.Text, nil
}
