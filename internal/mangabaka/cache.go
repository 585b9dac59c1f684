package mangabaka

import (
	"context"
	stdErrors "errors"
	"strconv"

	"github.com/comictalker/mangabaka/internal/cache"
	"github.com/comictalker/mangabaka/internal/match"
)

// cachedSeriesRecord wraps one raw series payload for caching. NotFound
// marks IDs the provider answered 404 for, so repeat lookups are negatively
// cached with the shorter TTL.
type cachedSeriesRecord struct {
	Series   *Series `json:"series"`
	NotFound bool    `json:"not_found"`
}

// cachedSearchRecords wraps the raw records of one title search for caching.
type cachedSearchRecords struct {
	Records []Series `json:"records"`
}

// cachedSearch runs a title search through the search cache. The cache key
// is the folded query, so "NARUTO" and "naruto" share an entry. Raw records
// are cached before any filtering, letting later calls with different filter
// settings reuse them. Literal searches bypass the cache entirely.
func (t *Talker) cachedSearch(ctx context.Context, title string, literal bool) ([]Series, error) {
	if literal {
		return t.searchAllPages(ctx, title, true)
	}

	cacheKey := match.Fold(title)
	result, _, err := cache.GetOrFetchWithPolicy("mangabaka_search_cache", cacheKey, func() (*cachedSearchRecords, error) {
		records, searchErr := t.searchAllPages(ctx, title, false)
		if searchErr != nil {
			return nil, searchErr
		}
		return &cachedSearchRecords{Records: records}, nil
	}, func(result *cachedSearchRecords) bool {
		return result != nil && len(result.Records) > 0
	})
	if err != nil {
		return nil, err
	}

	return result.Records, nil
}

// cachedSeries fetches one raw series record through the series cache.
// Not-found answers are cached too, so hosts retrying a dead ID do not hammer
// the provider.
func (t *Talker) cachedSeries(ctx context.Context, id int64) (*Series, error) {
	cacheKey := strconv.FormatInt(id, 10)

	result, _, err := cache.GetOrFetchWithTTL("mangabaka_series_cache", cacheKey, func() (*cachedSeriesRecord, error) {
		record, fetchErr := t.client.GetSeries(ctx, id)
		if fetchErr != nil {
			if stdErrors.Is(fetchErr, ErrSeriesNotFound) {
				return &cachedSeriesRecord{NotFound: true}, nil
			}
			return nil, fetchErr
		}
		return &cachedSeriesRecord{Series: record}, nil
	}, cache.SelectNegativeCacheTTL(func(r *cachedSeriesRecord) bool {
		return r.NotFound
	}))
	if err != nil {
		return nil, err
	}

	if result.NotFound || result.Series == nil {
		return nil, ErrSeriesNotFound
	}
	return result.Series, nil
}
