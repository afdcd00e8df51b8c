package model

import "time"

// Config is the complete runtime configuration.
// Keys are shared by YAML files, viper and STRATSEARCH_* environment variables.
type Config struct {
	HTTP         HTTPConfig        `yaml:"http" mapstructure:"http"`
	LLM          LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Search       SearchConfig      `yaml:"search" mapstructure:"search"`
	Fetch        FetchConfig       `yaml:"fetch" mapstructure:"fetch"`
	Pipeline     PipelineConfig    `yaml:"pipeline" mapstructure:"pipeline"`
	Concurrency  ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimiting RateLimitConfig   `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Authority    AuthorityConfig   `yaml:"authority" mapstructure:"authority"`
	Output       OutputConfig      `yaml:"output" mapstructure:"output"`
}

// HTTPConfig controls outbound document fetches
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	HTTPProxy     string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy       string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// LLMConfig selects the language model backing the generative stages
type LLMConfig struct {
	Provider    string  `yaml:"provider" mapstructure:"provider"` // openai, anthropic, ollama, "" = disabled
	Model       string  `yaml:"model" mapstructure:"model"`
	APIKey      string  `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL     string  `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout     int     `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens   int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`
}

// SearchConfig lists the search capabilities in cascade order
type SearchConfig struct {
	Providers       []string `yaml:"providers" mapstructure:"providers"`
	MaxResults      int      `yaml:"max_results" mapstructure:"max_results"`
	TopicQualifier  string   `yaml:"topic_qualifier" mapstructure:"topic_qualifier"`
	CheckLinks      bool     `yaml:"check_links" mapstructure:"check_links"` // drop 404/410 candidates before ranking
	TavilyAPIKey    string   `yaml:"tavily_api_key,omitempty" mapstructure:"tavily_api_key"`
	FirecrawlAPIKey string   `yaml:"firecrawl_api_key,omitempty" mapstructure:"firecrawl_api_key"`
	SerperAPIKey    string   `yaml:"serper_api_key,omitempty" mapstructure:"serper_api_key"`
	BraveAPIKey     string   `yaml:"brave_api_key,omitempty" mapstructure:"brave_api_key"`
}

// FetchConfig bounds content extraction
type FetchConfig struct {
	MaxChars          int    `yaml:"max_chars" mapstructure:"max_chars"`
	MaxPDFPages       int    `yaml:"max_pdf_pages" mapstructure:"max_pdf_pages"`
	Format            string `yaml:"format" mapstructure:"format"` // text or markdown
	PlaceholderDomain string `yaml:"placeholder_domain" mapstructure:"placeholder_domain"`
}

// PipelineConfig holds stage limits and default focus sentences
type PipelineConfig struct {
	PromptChars   int    `yaml:"prompt_chars" mapstructure:"prompt_chars"`
	MaxSentences  int    `yaml:"max_sentences" mapstructure:"max_sentences"`
	MaxWords      int    `yaml:"max_words" mapstructure:"max_words"`
	MaxStrategies int    `yaml:"max_strategies" mapstructure:"max_strategies"`
	DefaultFocus  string `yaml:"default_focus" mapstructure:"default_focus"`
	FallbackFocus string `yaml:"fallback_focus" mapstructure:"fallback_focus"`
}

// ConcurrencyConfig bounds per-stage fan-out
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"` // 1 = sequential
}

// RateLimitConfig applies per document host
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// AuthorityConfig drives link scoring in the link resolver
type AuthorityConfig struct {
	GovernmentMarkers []string `yaml:"government_markers" mapstructure:"government_markers"`
	TopicKeywords     []string `yaml:"topic_keywords" mapstructure:"topic_keywords"`
	GovernmentWeight  int      `yaml:"government_weight" mapstructure:"government_weight"`
	TopicWeight       int      `yaml:"topic_weight" mapstructure:"topic_weight"`
}

// OutputConfig controls the export sink
type OutputConfig struct {
	Path    string `yaml:"path" mapstructure:"path"`
	Format  string `yaml:"format" mapstructure:"format"` // xlsx, csv, json
	Verbose bool   `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "stratsearch/0.1 (+https://github.com/ppiankov/stratsearch)",
			MaxBodyBytes:  20_000_000,
			RespectRobots: true,
		},
		LLM: LLMConfig{
			Provider:    "openai",
			Model:       "gpt-4.1-mini",
			Timeout:     60,
			MaxTokens:   1000,
			Temperature: 0.2,
		},
		Search: SearchConfig{
			Providers:      []string{"tavily", "firecrawl", "serper", "brave"},
			MaxResults:     5,
			TopicQualifier: "national transport strategy official document",
			CheckLinks:     true,
		},
		Fetch: FetchConfig{
			MaxChars:          10_000,
			MaxPDFPages:       5,
			Format:            "text",
			PlaceholderDomain: "example.com",
		},
		Pipeline: PipelineConfig{
			PromptChars:   8_000,
			MaxSentences:  5,
			MaxWords:      30,
			MaxStrategies: 10,
			DefaultFocus:  "Provide an overview of national public transport and mobility strategies for major economies.",
			FallbackFocus: "National transport and mobility strategies of major economies.",
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimiting: RateLimitConfig{
			RequestsPerSecond: 1,
			BurstSize:         2,
		},
		Authority: AuthorityConfig{
			GovernmentMarkers: []string{"gov", "gouv", "go.jp", "gc.ca", "govt", "gob", "bund.de", "admin.ch", "europa.eu"},
			TopicKeywords:     []string{"transport", "mobility", "infrastructure", "ministry"},
			GovernmentWeight:  2,
			TopicWeight:       1,
		},
		Output: OutputConfig{
			Path:   "deep_search_results.xlsx",
			Format: "xlsx",
		},
	}
}
