package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/stratsearch/internal/model"
)

// envPrefix scopes environment overrides, e.g. STRATSEARCH_LLM_MODEL
const envPrefix = "STRATSEARCH"

// secretKeys are omitted from the YAML defaults but still need env binding
var secretKeys = []string{
	"llm.api_key",
	"llm.base_url",
	"search.tavily_api_key",
	"search.firecrawl_api_key",
	"search.serper_api_key",
	"search.brave_api_key",
	"http.http_proxy",
	"http.https_proxy",
	"http.no_proxy",
}

// prepareViper registers every config key as a default so STRATSEARCH_*
// variables apply to nested keys. defaults nil means model.DefaultConfig().
func prepareViper(v *viper.Viper, defaults *model.Config) error {
	if defaults == nil {
		defaults = model.DefaultConfig()
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	data, err := yaml.Marshal(defaults)
	if err != nil {
		return fmt.Errorf("marshal defaults: %w", err)
	}
	var tree map[string]interface{}
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("unmarshal defaults: %w", err)
	}
	for key, value := range flatten("", tree) {
		v.SetDefault(key, value)
	}
	for _, key := range secretKeys {
		v.SetDefault(key, "")
	}
	return nil
}

func flatten(prefix string, tree map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{})
	for k, val := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if sub, ok := val.(map[string]interface{}); ok {
			for sk, sv := range flatten(key, sub) {
				out[sk] = sv
			}
			continue
		}
		out[key] = val
	}
	return out
}

// loadConfig resolves the effective configuration from v and fills
// credentials from the well-known provider variables
func loadConfig(v *viper.Viper) (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	applyCredentials(cfg)
	return cfg, nil
}

// applyCredentials reads API keys from the provider environment variables
// for every key the config does not already carry
func applyCredentials(cfg *model.Config) {
	fill := func(dst *string, env string) {
		if *dst == "" {
			*dst = os.Getenv(env)
		}
	}

	switch strings.ToLower(cfg.LLM.Provider) {
	case "openai":
		fill(&cfg.LLM.APIKey, "OPENAI_API_KEY")
	case "anthropic", "claude":
		fill(&cfg.LLM.APIKey, "ANTHROPIC_API_KEY")
	case "ollama":
		fill(&cfg.LLM.BaseURL, "OLLAMA_BASE_URL")
	}

	fill(&cfg.Search.TavilyAPIKey, "TAVILY_API_KEY")
	fill(&cfg.Search.FirecrawlAPIKey, "FIRECRAWL_API_KEY")
	fill(&cfg.Search.SerperAPIKey, "SERPER_API_KEY")
	fill(&cfg.Search.BraveAPIKey, "BRAVE_API_KEY")
}

// loadEnvFile exports the KEY=value pairs of a dotenv file into the process
// environment. Variables already set win. A missing file is only an error
// when it was named explicitly.
func loadEnvFile(path string, explicit bool) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return nil
		}
		return fmt.Errorf("env file: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read env file %s: %w", path, err)
	}

	for _, key := range v.AllKeys() {
		name := strings.ToUpper(key)
		if _, set := os.LookupEnv(name); set {
			continue
		}
		if err := os.Setenv(name, v.GetString(key)); err != nil {
			return fmt.Errorf("set %s: %w", name, err)
		}
	}
	return nil
}

// redacted returns a copy of cfg with secrets masked for display
func redacted(cfg *model.Config) *model.Config {
	out := *cfg
	mask := func(s string) string {
		if s == "" {
			return ""
		}
		if len(s) <= 8 {
			return "****"
		}
		return s[:3] + "****" + s[len(s)-2:]
	}
	out.LLM.APIKey = mask(cfg.LLM.APIKey)
	out.Search.TavilyAPIKey = mask(cfg.Search.TavilyAPIKey)
	out.Search.FirecrawlAPIKey = mask(cfg.Search.FirecrawlAPIKey)
	out.Search.SerperAPIKey = mask(cfg.Search.SerperAPIKey)
	out.Search.BraveAPIKey = mask(cfg.Search.BraveAPIKey)
	return &out
}
