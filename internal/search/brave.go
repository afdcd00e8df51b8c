package search

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

const braveBaseURL = "https://api.search.brave.com"

// Brave queries the Brave web search API
type Brave struct {
	opts Options
}

type braveResponse struct {
	Web struct {
		Results []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			Description string `json:"description"`
		} `json:"results"`
	} `json:"web"`
}

// NewBrave creates a Brave client
func NewBrave(opts Options) (*Brave, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("brave: API key is required")
	}
	return &Brave{opts: opts.withDefaults(braveBaseURL)}, nil
}

// Name returns the provider name
func (b *Brave) Name() string {
	return "brave"
}

// Search returns web result URLs
func (b *Brave) Search(ctx context.Context, query string) ([]string, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("count", strconv.Itoa(b.opts.MaxResults))
	endpoint := b.opts.BaseURL + "/res/v1/web/search?" + params.Encode()

	headers := map[string]string{"X-Subscription-Token": b.opts.APIKey}

	var resp braveResponse
	if err := getJSON(ctx, b.opts.HTTPClient, b.Name(), endpoint, headers, &resp); err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(resp.Web.Results))
	for _, r := range resp.Web.Results {
		urls = append(urls, r.URL)
	}
	return collect(urls, b.opts.MaxResults), nil
}
