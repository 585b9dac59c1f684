package mangabaka

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/comictalker/mangabaka/internal/errors"
)

// httpStatusError is a non-2xx HTTP response. 5xx values are retried; 429
// carries the parsed Retry-After hint.
type httpStatusError struct {
	StatusCode int
	Body       string
	RetryAfter time.Duration
}

func (e *httpStatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("unexpected status %d", e.StatusCode)
}

// getJSON performs a GET against path with params and decodes the JSON body
// into target. It waits on the local rate limiter before every request,
// retries transient failures with exponential backoff, and absorbs a bounded
// number of 429 responses before surfacing a RateLimitError.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, target any) error {
	requestURL := c.endpoint(path)
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}

	rateLimitWaits := 0

	for attempt := 1; attempt <= c.retryAttempts; {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return err
		}

		slog.Debug("Requesting", "url", requestURL, "attempt", attempt)
		err := c.doJSONRequest(ctx, requestURL, target)
		if err == nil {
			return nil
		}

		var statusErr *httpStatusError
		if stdErrors.As(err, &statusErr) && statusErr.StatusCode == http.StatusTooManyRequests {
			rateLimitWaits++
			if rateLimitWaits > c.maxRateLimitWaits {
				return errors.NewRateLimitErrorWithRetry("MangaBaka rate limit exceeded", statusErr.RetryAfter)
			}
			delay := statusErr.RetryAfter
			if delay <= 0 {
				delay = c.rateLimitPause
			}
			slog.Info("Rate limit encountered, pausing", "delay", delay)
			if err := sleepContext(ctx, delay); err != nil {
				return err
			}
			// A rate-limit pause does not consume a retry attempt.
			continue
		}

		if !isRetryable(err) || attempt == c.retryAttempts {
			if errors.IsParseError(err) {
				return err
			}
			return errors.NewNetworkError(requestURL, attempt, err)
		}

		if err := sleepContext(ctx, backoffDelay(attempt)); err != nil {
			return err
		}
		attempt++
	}

	return errors.NewNetworkError(requestURL, c.retryAttempts, stdErrors.New("retry attempts exhausted"))
}

func (c *Client) doJSONRequest(ctx context.Context, requestURL string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &httpStatusError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return errors.NewParseError("body", "response is not valid JSON: "+err.Error())
	}
	return nil
}

// download streams a GET response body without JSON decoding. The caller owns
// closing the returned body.
func (c *Client) download(ctx context.Context, path string) (*http.Response, error) {
	requestURL := c.endpoint(path)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewNetworkError(requestURL, 1, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_ = resp.Body.Close()
		return nil, errors.NewNetworkError(requestURL, 1, &httpStatusError{StatusCode: resp.StatusCode})
	}
	return resp, nil
}

func isRetryable(err error) bool {
	var statusErr *httpStatusError
	if stdErrors.As(err, &statusErr) {
		return statusErr.StatusCode >= 500
	}

	var urlErr *url.Error
	if stdErrors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return true
		}
		// Network errors (connection resets etc.)
		if strings.Contains(urlErr.Error(), "connection") {
			return true
		}
	}
	return false
}

func backoffDelay(attempt int) time.Duration {
	// exponential backoff capped at 10 seconds
	delay := time.Duration(1<<uint(attempt-1)) * time.Second
	if delay > 10*time.Second {
		return 10 * time.Second
	}
	return delay
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// parseRetryAfter reads a Retry-After header value, either delay-seconds or
// an HTTP date.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	if secs, err := strconv.Atoi(value); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}
