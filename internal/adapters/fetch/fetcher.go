package fetch

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tour-route-service/internal/domain"
)

// Options bound a single logical fetch: per-attempt timeout, attempt
// budget, and the base of the exponential backoff between attempts.
type Options struct {
	Timeout     time.Duration
	MaxRetries  int
	BaseBackoff time.Duration
}

// Fetcher executes a single outbound GET with bounded retries,
// exponential backoff with jitter, and retryable-status classification.
// It has no state beyond its parameters and the injected client, so a
// fake http.RoundTripper makes it fully testable.
type Fetcher struct {
	client *http.Client
}

func New(client *http.Client) *Fetcher {
	if client == nil {
		client = &http.Client{}
	}
	return &Fetcher{client: client}
}

// retryable: 429 and any 5xx. Everything else non-2xx is terminal.
func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

// Get issues the request, retrying transport errors and retryable
// statuses up to opts.MaxRetries attempts. The returned response has
// a 2xx status; the caller owns the body. All terminal failures are
// *domain.FetchError values.
func (f *Fetcher) Get(
	ctx context.Context,
	rawURL string,
	params url.Values,
	header http.Header,
	opts Options,
) (*http.Response, error) {
	if opts.MaxRetries < 1 {
		opts.MaxRetries = 1
	}
	if opts.BaseBackoff <= 0 {
		opts.BaseBackoff = 200 * time.Millisecond
	}

	// Per-attempt timeout covers the body read too, so a shallow copy
	// of the injected client carries it.
	client := *f.client
	if opts.Timeout > 0 {
		client.Timeout = opts.Timeout
	}

	var lastErr error

	for attempt := 1; attempt <= opts.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := newGetRequest(ctx, rawURL, params, header)
		if err != nil {
			return nil, fmt.Errorf("fetch: build request: %w", err)
		}

		resp, err := client.Do(req)
		if err == nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp, nil
		}

		if err != nil {
			// Transport failures (DNS, connect, timeout) are retryable.
			lastErr = err
		} else {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			resp.Body.Close()
			statusErr := &domain.FetchError{
				Kind:   domain.FetchHTTPStatus,
				Status: resp.StatusCode,
				Body:   strings.TrimSpace(string(body)),
			}
			if !retryableStatus(resp.StatusCode) {
				return nil, statusErr
			}
			lastErr = statusErr
		}

		if attempt == opts.MaxRetries {
			break
		}

		if err := sleepBackoff(ctx, opts.BaseBackoff, attempt); err != nil {
			return nil, err
		}
	}

	return nil, &domain.FetchError{
		Kind:     domain.FetchExhausted,
		Attempts: opts.MaxRetries,
		Cause:    lastErr,
	}
}

func newGetRequest(
	ctx context.Context,
	rawURL string,
	params url.Values,
	header http.Header,
) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	if len(params) > 0 {
		q := req.URL.Query()
		for k, vs := range params {
			for _, v := range vs {
				q.Set(k, v)
			}
		}
		req.URL.RawQuery = q.Encode()
	}
	req.Header.Set("Accept", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Set(k, v)
		}
	}
	return req, nil
}

// sleepBackoff waits baseBackoff × 2^(attempt-1) plus up to ±25% jitter,
// respecting context cancellation.
func sleepBackoff(ctx context.Context, base time.Duration, attempt int) error {
	backoff := base << (attempt - 1)
	jitter := time.Duration((rand.Float64() - 0.5) * 0.5 * float64(backoff))

	timer := time.NewTimer(backoff + jitter)
	select {
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
