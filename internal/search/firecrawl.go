package search

import (
	"context"
	"fmt"
)

const firecrawlBaseURL = "https://api.firecrawl.dev"

// Firecrawl queries the Firecrawl search endpoint
type Firecrawl struct {
	opts Options
}

type firecrawlRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

type firecrawlResponse struct {
	Success bool `json:"success"`
	Data    []struct {
		URL    string `json:"url"`
		Link   string `json:"link"`
		Source string `json:"source"`
	} `json:"data"`
}

// NewFirecrawl creates a Firecrawl client
func NewFirecrawl(opts Options) (*Firecrawl, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("firecrawl: API key is required")
	}
	return &Firecrawl{opts: opts.withDefaults(firecrawlBaseURL)}, nil
}

// Name returns the provider name
func (f *Firecrawl) Name() string {
	return "firecrawl"
}

// Search runs a web search. Items may carry their address under url, link
// or source.
func (f *Firecrawl) Search(ctx context.Context, query string) ([]string, error) {
	payload := firecrawlRequest{Query: query, Limit: f.opts.MaxResults}
	headers := map[string]string{"Authorization": "Bearer " + f.opts.APIKey}

	var resp firecrawlResponse
	if err := postJSON(ctx, f.opts.HTTPClient, f.Name(), f.opts.BaseURL+"/v1/search", headers, payload, &resp); err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(resp.Data))
	for _, item := range resp.Data {
		switch {
		case item.URL != "":
			urls = append(urls, item.URL)
		case item.Link != "":
			urls = append(urls, item.Link)
		default:
			urls = append(urls, item.Source)
		}
	}
	return collect(urls, f.opts.MaxResults), nil
}
