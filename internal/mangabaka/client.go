// Package mangabaka implements a comictalker metadata source backed by the
// MangaBaka aggregation API (https://mangabaka.dev). MangaBaka collates
// series data from AniList, Kitsu, MangaDex, MangaUpdates, MyAnimeList and
// Anime News Network. The provider has no issue-level records, so a series
// stands in for its single "issue" everywhere the host expects one.
package mangabaka

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/comictalker/mangabaka/internal/errors"
	"github.com/comictalker/mangabaka/internal/ratelimit"
)

const (
	// DefaultBaseURL is the production API endpoint.
	DefaultBaseURL = "https://api.mangabaka.dev/v1/"

	defaultMaxAttempts   = 4
	defaultTimeout       = 30 * time.Second
	defaultRatePerMinute = 60 // published MangaBaka limit
	searchPageLimit      = 50

	// defaultRateLimitWaits bounds how many 429 responses the client absorbs
	// before surfacing a RateLimitError.
	defaultRateLimitWaits = 3
	// defaultRateLimitPause is how long to back off after a 429 with no
	// Retry-After header.
	defaultRateLimitPause = 10 * time.Second
)

// HTTPDoer is an interface for making HTTP requests.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client is a MangaBaka API client.
type Client struct {
	baseURL           string
	apiKey            string
	userAgent         string
	httpClient        HTTPDoer
	rateLimiter       *ratelimit.Limiter
	retryAttempts     int
	maxRateLimitWaits int
	rateLimitPause    time.Duration
}

// NewClient creates a new MangaBaka API client. The base URL must parse as an
// absolute http(s) URL; an invalid one is a configuration error.
func NewClient(opts ...Option) (*Client, error) {
	client := &Client{
		baseURL:           DefaultBaseURL,
		userAgent:         "mangabaka-talker/" + Version,
		httpClient:        &http.Client{Timeout: defaultTimeout},
		rateLimiter:       ratelimit.NewPerMinute("MangaBaka", defaultRatePerMinute),
		retryAttempts:     defaultMaxAttempts,
		maxRateLimitWaits: defaultRateLimitWaits,
		rateLimitPause:    defaultRateLimitPause,
	}

	for _, opt := range opts {
		opt(client)
	}

	parsed, err := url.Parse(client.baseURL)
	if err != nil || !parsed.IsAbs() || parsed.Host == "" {
		return nil, errors.NewConfigError("mangabaka.url", "not a valid absolute URL: "+client.baseURL)
	}

	return client, nil
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c HTTPDoer) Option {
	return func(client *Client) {
		if c != nil {
			client.httpClient = c
		}
	}
}

// WithBaseURL sets a custom base URL for the MangaBaka API.
func WithBaseURL(base string) Option {
	return func(client *Client) {
		if base != "" {
			client.baseURL = strings.TrimSuffix(base, "/") + "/"
		}
	}
}

// WithAPIKey sets the optional bearer credential sent with every request.
func WithAPIKey(key string) Option {
	return func(client *Client) {
		client.apiKey = key
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(client *Client) {
		if ua != "" {
			client.userAgent = ua
		}
	}
}

// WithRetryAttempts sets the number of attempts for transient failures.
func WithRetryAttempts(attempts int) Option {
	return func(client *Client) {
		if attempts > 0 {
			client.retryAttempts = attempts
		}
	}
}

// WithRateLimiter sets a custom rate limiter for the client.
func WithRateLimiter(limiter *ratelimit.Limiter) Option {
	return func(client *Client) {
		if limiter != nil {
			client.rateLimiter = limiter
		}
	}
}

// endpoint resolves a path like "series/123" against the base URL.
func (c *Client) endpoint(path string) string {
	return c.baseURL + strings.TrimPrefix(path, "/")
}
