package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultMaxResults is the number of candidates requested from each API
const DefaultMaxResults = 5

// maxResponseBytes bounds a search API response body
const maxResponseBytes = 4 << 20

// Searcher turns a query into an ordered list of candidate URLs.
// An empty list with a nil error means "no candidates".
type Searcher interface {
	Name() string
	Search(ctx context.Context, query string) ([]string, error)
}

// Options configures a search API client
type Options struct {
	APIKey     string
	BaseURL    string
	MaxResults int
	HTTPClient *http.Client
}

func (o Options) withDefaults(baseURL string) Options {
	if o.BaseURL == "" {
		o.BaseURL = baseURL
	}
	o.BaseURL = strings.TrimSuffix(o.BaseURL, "/")
	if o.MaxResults <= 0 {
		o.MaxResults = DefaultMaxResults
	}
	if o.HTTPClient == nil {
		o.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	return o
}

// APIError is returned when a search API answers with a non-2xx status
type APIError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: status %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// postJSON sends payload as a JSON body and decodes the JSON answer into out
func postJSON(ctx context.Context, client *http.Client, provider, endpoint string, headers map[string]string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%s: marshal request: %w", provider, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: create request: %w", provider, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return do(client, req, provider, headers, out)
}

// getJSON issues a GET and decodes the JSON answer into out
func getJSON(ctx context.Context, client *http.Client, provider, endpoint string, headers map[string]string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", provider, err)
	}
	return do(client, req, provider, headers, out)
}

func do(client *http.Client, req *http.Request, provider string, headers map[string]string, out any) error {
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: request failed: %w", provider, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%s: read response: %w", provider, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := strings.TrimSpace(string(data))
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		return &APIError{Provider: provider, StatusCode: resp.StatusCode, Body: snippet}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", provider, err)
	}
	return nil
}

// collect keeps non-blank URLs, at most limit of them
func collect(urls []string, limit int) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		out = append(out, u)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
