package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	// maxResponseBytes caps provider response bodies.
	maxResponseBytes = 10 << 20

	maxAttempts  = 3
	retryBackoff = 500 * time.Millisecond
)

// apiClient wraps an http.Client with rate limiting, a response size cap and
// retries on transient failures.
type apiClient struct {
	httpClient *http.Client
	limiter    *rate.Limiter
}

func newAPIClient(requestsPerSecond float64, burst int) *apiClient {
	return &apiClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

// do executes a request built by build, retrying transient failures. A fresh
// request is built per attempt because bodies are single-use.
func (c *apiClient) do(ctx context.Context, build func() (*http.Request, error)) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryBackoff * time.Duration(attempt)):
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := build()
		if err != nil {
			return nil, fmt.Errorf("failed to build request: %w", err)
		}
		req = req.WithContext(ctx)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("failed to read response body: %w", err)
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return body, nil
		}

		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return nil, fmt.Errorf("%w: status %d", ErrUnauthorized, resp.StatusCode)
		}

		statusErr := &StatusError{StatusCode: resp.StatusCode, Body: truncate(string(body), 256)}
		if !statusErr.Transient() {
			return nil, statusErr
		}
		lastErr = statusErr
	}

	return nil, lastErr
}

// IsTransient reports whether an error from a provider call is retryable.
func IsTransient(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Transient()
	}
	// Network-level failures (timeouts, refused connections) surface as
	// non-status errors and are treated as transient.
	return err != nil && !errors.Is(err, ErrUnauthorized) && !errors.Is(err, context.Canceled)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
