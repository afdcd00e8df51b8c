package search

import (
	"context"
	"fmt"
)

const serperBaseURL = "https://google.serper.dev"

// Serper queries Google results through serper.dev
type Serper struct {
	opts Options
}

type serperRequest struct {
	Q   string `json:"q"`
	Num int    `json:"num"`
}

type serperResponse struct {
	Organic []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic"`
}

// NewSerper creates a Serper client
func NewSerper(opts Options) (*Serper, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("serper: API key is required")
	}
	return &Serper{opts: opts.withDefaults(serperBaseURL)}, nil
}

// Name returns the provider name
func (s *Serper) Name() string {
	return "serper"
}

// Search returns the organic result links
func (s *Serper) Search(ctx context.Context, query string) ([]string, error) {
	payload := serperRequest{Q: query, Num: s.opts.MaxResults}
	headers := map[string]string{"X-API-KEY": s.opts.APIKey}

	var resp serperResponse
	if err := postJSON(ctx, s.opts.HTTPClient, s.Name(), s.opts.BaseURL+"/search", headers, payload, &resp); err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(resp.Organic))
	for _, r := range resp.Organic {
		urls = append(urls, r.Link)
	}
	return collect(urls, s.opts.MaxResults), nil
}
