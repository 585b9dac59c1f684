package mangabaka

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/comictalker/mangabaka/internal/cache"
	"github.com/comictalker/mangabaka/internal/ratelimit"
	"github.com/comictalker/mangabaka/internal/testutil"
)

// setupTestCache points the global cache at a throwaway database so cached
// lookups in tests never touch a real one.
func setupTestCache(t *testing.T) {
	t.Helper()

	if err := cache.ResetGlobalCache(); err != nil {
		t.Fatalf("Failed to reset global cache: %v", err)
	}
	viper.Reset()
	t.Cleanup(func() {
		_ = cache.ResetGlobalCache()
		viper.Reset()
	})

	env := testutil.NewTestEnv(t)
	viper.Set("cache.dbfile", filepath.Join(env.RootDir(), "mangabaka-cache.db"))
	viper.Set("cache.ttl", "24h")

	cacheDB, err := cache.GetGlobalCache()
	if err != nil {
		t.Fatalf("Failed to init cache: %v", err)
	}
	for table := range cache.ValidCacheTableNames {
		if err := cacheDB.ClearAll(table); err != nil {
			t.Fatalf("Failed to reset %s: %v", table, err)
		}
	}
}

// newTestClient builds a client against a fake provider with a limiter
// generous enough to never block a test.
func newTestClient(t *testing.T, server *httptest.Server, opts ...Option) *Client {
	t.Helper()

	base := []Option{
		WithBaseURL(server.URL),
		WithHTTPClient(server.Client()),
		WithRateLimiter(ratelimit.New("test", 1000)),
	}
	client, err := NewClient(append(base, opts...)...)
	require.NoError(t, err)
	client.rateLimitPause = time.Millisecond
	return client
}

func newTestTalker(t *testing.T, server *httptest.Server, settings Settings, opts ...Option) *Talker {
	t.Helper()

	talker, err := NewTalker(newTestClient(t, server, opts...), settings)
	require.NoError(t, err)
	return talker
}

// testSeries builds a plausible active record; tests override what they need.
func testSeries(id int64, title string) Series {
	return Series{
		ID:            id,
		State:         StateActive,
		Title:         title,
		Cover:         CoverImage{Default: fmt.Sprintf("https://img.test/%d.jpg", id)},
		Year:          2000,
		Status:        "releasing",
		ContentRating: "safe",
		Type:          "manga",
	}
}

func searchEnvelope(page int, next string, records ...Series) Envelope[[]Series] {
	if records == nil {
		records = []Series{}
	}
	return Envelope[[]Series]{
		Status:  http.StatusOK,
		Message: "OK",
		Pagination: &Pagination{
			Count: len(records),
			Page:  page,
			Limit: searchPageLimit,
			Next:  next,
		},
		Data: records,
	}
}

func seriesEnvelope(record Series) Envelope[Series] {
	return Envelope[Series]{Status: http.StatusOK, Message: "OK", Data: record}
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("Failed to encode response: %v", err)
	}
}
