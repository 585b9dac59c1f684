package mangabaka

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comictalker/mangabaka/internal/errors"
)

func TestNewClientRejectsInvalidBaseURL(t *testing.T) {
	for _, base := range []string{"://missing-scheme", "not-a-url", "/relative/only"} {
		_, err := NewClient(WithBaseURL(base))
		require.Error(t, err, "base URL %q", base)
		assert.True(t, errors.IsConfigError(err), "base URL %q", base)
	}
}

func TestNewClientDefaults(t *testing.T) {
	client, err := NewClient()
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, client.baseURL)
	assert.Equal(t, "mangabaka-talker/"+Version, client.userAgent)
	assert.Equal(t, defaultMaxAttempts, client.retryAttempts)
	assert.Equal(t, defaultRateLimitWaits, client.maxRateLimitWaits)
	assert.Equal(t, defaultRateLimitPause, client.rateLimitPause)
}

func TestOptionsIgnoreZeroValues(t *testing.T) {
	client, err := NewClient(
		WithHTTPClient(nil),
		WithBaseURL(""),
		WithUserAgent(""),
		WithRetryAttempts(0),
		WithRateLimiter(nil),
	)
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, client.baseURL)
	assert.Equal(t, "mangabaka-talker/"+Version, client.userAgent)
	assert.Equal(t, defaultMaxAttempts, client.retryAttempts)
	assert.NotNil(t, client.httpClient)
	assert.NotNil(t, client.rateLimiter)
}

func TestEndpointJoinsPaths(t *testing.T) {
	client, err := NewClient(WithBaseURL("http://api.test/v1"))
	require.NoError(t, err)

	assert.Equal(t, "http://api.test/v1/series/1", client.endpoint("series/1"))
	assert.Equal(t, "http://api.test/v1/series/1", client.endpoint("/series/1"))
}

func TestSearchPageSendsQueryAndHeaders(t *testing.T) {
	var captured *http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Clone(r.Context())
		writeJSON(t, w, searchEnvelope(2, "", testSeries(1, "Naruto")))
	}))
	defer server.Close()

	client := newTestClient(t, server, WithAPIKey("sekrit"))

	env, err := client.SearchPage(context.Background(), "naruto", 2)
	require.NoError(t, err)
	require.Len(t, env.Data, 1)

	require.NotNil(t, captured)
	assert.Equal(t, "/series/search", captured.URL.Path)

	query := captured.URL.Query()
	assert.Equal(t, "naruto", query.Get("q"))
	assert.Equal(t, "2", query.Get("page"))
	assert.Equal(t, "50", query.Get("limit"))
	assert.ElementsMatch(t, ContentRatings, query["content_rating"])

	assert.Equal(t, "mangabaka-talker/"+Version, captured.Header.Get("User-Agent"))
	assert.Equal(t, "Bearer sekrit", captured.Header.Get("Authorization"))
}

func TestGetSeriesReportsEnvelopeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":500,"message":"boom","data":null}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)

	_, err := client.GetSeries(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500: boom")
	assert.NotErrorIs(t, err, ErrSeriesNotFound)
}

func TestGetSeriesEnvelopeNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":404,"message":"Not Found","data":null}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)

	_, err := client.GetSeries(context.Background(), 999999)
	assert.ErrorIs(t, err, ErrSeriesNotFound)
}
