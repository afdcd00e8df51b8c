package search

import (
	"context"
	"fmt"
)

const tavilyBaseURL = "https://api.tavily.com"

// Tavily queries the Tavily search API
type Tavily struct {
	opts Options
}

type tavilyRequest struct {
	Query       string `json:"query"`
	MaxResults  int    `json:"max_results"`
	SearchDepth string `json:"search_depth"`
}

type tavilyResponse struct {
	Results []struct {
		URL   string  `json:"url"`
		Title string  `json:"title"`
		Score float64 `json:"score"`
	} `json:"results"`
}

// NewTavily creates a Tavily client
func NewTavily(opts Options) (*Tavily, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("tavily: API key is required")
	}
	return &Tavily{opts: opts.withDefaults(tavilyBaseURL)}, nil
}

// Name returns the provider name
func (t *Tavily) Name() string {
	return "tavily"
}

// Search runs an advanced-depth search
func (t *Tavily) Search(ctx context.Context, query string) ([]string, error) {
	payload := tavilyRequest{
		Query:       query,
		MaxResults:  t.opts.MaxResults,
		SearchDepth: "advanced",
	}
	headers := map[string]string{"Authorization": "Bearer " + t.opts.APIKey}

	var resp tavilyResponse
	if err := postJSON(ctx, t.opts.HTTPClient, t.Name(), t.opts.BaseURL+"/search", headers, payload, &resp); err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(resp.Results))
	for _, r := range resp.Results {
		urls = append(urls, r.URL)
	}
	return collect(urls, t.opts.MaxResults), nil
}
