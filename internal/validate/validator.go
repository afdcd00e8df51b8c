package validate

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/ppiankov/stratsearch/internal/model"
	"github.com/ppiankov/stratsearch/internal/util"
)

const checkMaxRetries = 3

// checkSleepFunc is the sleep function used between retries (injectable for tests)
var checkSleepFunc = time.Sleep

// DefaultWorkers bounds concurrent probes per Check call
const DefaultWorkers = 8

// LinkStatus is the outcome of probing one candidate link
type LinkStatus struct {
	URL         string
	StatusCode  int
	Accessible  bool   // 2xx or 3xx
	Dead        bool   // 404, 410 or unreachable host
	RedirectURL string // final URL when it differs
	Error       string
}

// LinkChecker probes candidate document links with HEAD requests
type LinkChecker struct {
	httpClient *http.Client
	userAgent  string
	maxWorkers int
}

// NewLinkChecker creates a checker using the proxy and user agent of cfg
func NewLinkChecker(cfg model.HTTPConfig, maxWorkers int) *LinkChecker {
	if maxWorkers <= 0 {
		maxWorkers = DefaultWorkers
	}
	timeout := cfg.Timeout
	if timeout <= 0 || timeout > 10*time.Second {
		timeout = 10 * time.Second
	}

	client := util.NewHTTPClient(timeout, util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy))
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= 5 {
			return fmt.Errorf("stopped after 5 redirects")
		}
		return nil
	}

	return &LinkChecker{
		httpClient: client,
		userAgent:  cfg.UserAgent,
		maxWorkers: maxWorkers,
	}
}

// Check probes every link concurrently. Results keep the input order.
func (c *LinkChecker) Check(ctx context.Context, links []string) []LinkStatus {
	results := make([]LinkStatus, len(links))
	var wg sync.WaitGroup

	// Create semaphore to limit concurrent requests
	semaphore := make(chan struct{}, c.maxWorkers)

	for i, link := range links {
		wg.Add(1)
		go func(idx int, link string) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				results[idx] = LinkStatus{URL: link, Error: "context cancelled"}
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			results[idx] = c.checkWithRetry(ctx, link)
		}(i, link)
	}

	wg.Wait()
	return results
}

// Alive returns the links that are not known to be dead, in input order.
// When ctx is done the input is returned unchanged.
func (c *LinkChecker) Alive(ctx context.Context, links []string) []string {
	if len(links) == 0 {
		return links
	}
	statuses := c.Check(ctx, links)
	if ctx.Err() != nil {
		return links
	}

	alive := make([]string, 0, len(links))
	for _, st := range statuses {
		if !st.Dead {
			alive = append(alive, st.URL)
		}
	}
	return alive
}

// checkOne probes a single link
func (c *LinkChecker) checkOne(ctx context.Context, link string) LinkStatus {
	result := LinkStatus{URL: link}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, link, nil)
	if err != nil {
		result.Error = fmt.Sprintf("create request: %v", err)
		result.Dead = true
		return result
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		result.Error = fmt.Sprintf("request failed: %v", err)
		// A timeout says nothing about the document
		result.Dead = !isTimeout(err) && ctx.Err() == nil
		return result
	}
	defer func() { _ = resp.Body.Close() }()

	result.StatusCode = resp.StatusCode
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 400:
		result.Accessible = true
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		result.Dead = true
	}

	if final := resp.Request.URL.String(); final != link {
		result.RedirectURL = final
	}
	return result
}

// checkWithRetry retries transient failures with exponential backoff
func (c *LinkChecker) checkWithRetry(ctx context.Context, link string) LinkStatus {
	var result LinkStatus
	for attempt := 0; attempt < checkMaxRetries; attempt++ {
		result = c.checkOne(ctx, link)
		if !isRetryableStatus(result) || ctx.Err() != nil {
			return result
		}
		if attempt < checkMaxRetries-1 {
			backoff := time.Duration(1<<uint(attempt)) * time.Second
			checkSleepFunc(backoff)
		}
	}
	return result
}

// isRetryableStatus returns true for results that indicate transient failures
func isRetryableStatus(result LinkStatus) bool {
	if result.StatusCode >= 500 && result.StatusCode < 600 {
		return true
	}
	if result.StatusCode == http.StatusTooManyRequests {
		return true
	}
	// Unanswered requests that were not classified dead timed out
	return result.StatusCode == 0 && result.Error != "" && !result.Dead
}

func isTimeout(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
