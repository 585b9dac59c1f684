package mangabaka

import (
	"context"
	stdErrors "errors"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/comictalker/mangabaka/internal/comicmeta"
	"github.com/comictalker/mangabaka/internal/comictalker"
	"github.com/comictalker/mangabaka/internal/errors"
	"github.com/comictalker/mangabaka/internal/match"
)

// maxSearchPages caps how many result pages one search may fetch. Provider
// pages hold 50 records; anything past page 5 is noise for a title search.
const maxSearchPages = 6

// SearchSeries runs a title search and, when the query carries a known
// series ID, an ID lookup in parallel, then merges, filters, and ranks the
// candidates. An empty result is a valid outcome.
func (t *Talker) SearchSeries(ctx context.Context, q comictalker.SearchQuery) ([]comicmeta.Series, error) {
	title := strings.TrimSpace(q.Title)
	if q.Literal {
		title = q.Title
	}
	if strings.TrimSpace(title) == "" && q.SeriesID == "" {
		// Nothing to ask the provider for.
		return []comicmeta.Series{}, nil
	}

	slog.Info("Searching MangaBaka", "title", title, "series_id", q.SeriesID, "literal", q.Literal)

	var (
		titleRecords []Series
		titleErr     error
		idRecord     *Series
		idErr        error
	)

	searchTitle := strings.TrimSpace(title) != ""
	lookupID := q.SeriesID != ""

	// Each source records its own error so one failing source never cancels
	// the other; Wait is only the join point.
	g, gctx := errgroup.WithContext(ctx)
	if searchTitle {
		g.Go(func() error {
			titleRecords, titleErr = t.cachedSearch(gctx, title, q.Literal)
			return nil
		})
	}
	if lookupID {
		g.Go(func() error {
			idRecord, idErr = t.lookupByID(gctx, q.SeriesID)
			return nil
		})
	}
	_ = g.Wait()

	allFailed := true
	if searchTitle && titleErr == nil {
		allFailed = false
	}
	if lookupID && idErr == nil {
		allFailed = false
	}
	if allFailed {
		return nil, stdErrors.Join(titleErr, idErr)
	}
	if titleErr != nil {
		slog.Warn("Title search failed, continuing with ID lookup", "title", title, "error", titleErr)
	}
	if idErr != nil {
		slog.Warn("Series ID lookup failed, continuing with title results", "series_id", q.SeriesID, "error", idErr)
	}

	records := make([]Series, 0, len(titleRecords)+1)
	records = append(records, titleRecords...)
	if idRecord != nil {
		records = append(records, *idRecord)
	}

	records = dedupeRecords(records)
	records = t.applyFilters(records)

	results := make([]comicmeta.Series, 0, len(records))
	for i := range records {
		s, err := NormalizeSeries(&records[i], t.normalizeOpts())
		if err != nil {
			slog.Warn("Skipping malformed series record", "series_id", records[i].ID, "error", err)
			continue
		}
		results = append(results, s)
	}

	rankSeries(title, results)

	// A rate-limited source with nothing from the other one must surface the
	// rate limit, not read as an empty success.
	if len(results) == 0 {
		for _, srcErr := range []error{titleErr, idErr} {
			if errors.IsRateLimitError(srcErr) {
				return nil, srcErr
			}
		}
	}
	return results, nil
}

// lookupByID resolves an explicit series ID hint. A missing record is a
// valid empty outcome for a search, not a failure.
func (t *Talker) lookupByID(ctx context.Context, seriesID string) (*Series, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(seriesID), 10, 64)
	if err != nil || id <= 0 {
		return nil, errors.NewParseError("series_id", "not a numeric series ID: "+seriesID)
	}
	record, err := t.cachedSeries(ctx, id)
	if err != nil {
		if stdErrors.Is(err, ErrSeriesNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return record, nil
}

// searchAllPages walks the provider's search pagination. The provider
// returns results relevance-ordered, so once any title on a page falls below
// the match threshold the remaining pages are skipped. Literal searches
// always walk every page up to the cap.
func (t *Talker) searchAllPages(ctx context.Context, title string, literal bool) ([]Series, error) {
	env, err := t.client.SearchPage(ctx, title, 1)
	if err != nil {
		return nil, err
	}
	records := append([]Series(nil), env.Data...)

	for env.Pagination != nil && env.Pagination.Next != "" && env.Pagination.Page < maxSearchPages {
		if !literal && anyBelowThreshold(title, env.Data) {
			break
		}
		env, err = t.client.SearchPage(ctx, title, env.Pagination.Page+1)
		if err != nil {
			return nil, err
		}
		records = append(records, env.Data...)
	}

	slog.Debug("Search fetched", "title", title, "records", len(records))
	return records, nil
}

// anyBelowThreshold reports whether any title on the page misses the fuzzy
// match threshold against the query.
func anyBelowThreshold(query string, page []Series) bool {
	for i := range page {
		if !match.Matches(query, page[i].Title, nil) {
			return true
		}
	}
	return false
}

// dedupeRecords drops repeat IDs (first occurrence wins) and records in the
// deleted state.
func dedupeRecords(records []Series) []Series {
	seen := make(map[int64]bool, len(records))
	out := make([]Series, 0, len(records))
	for _, record := range records {
		if record.State == StateDeleted || seen[record.ID] {
			continue
		}
		seen[record.ID] = true
		out = append(out, record)
	}
	return out
}

// applyFilters runs the configured search filters on raw records. Filtering
// happens after cache storage so cached searches can be re-filtered under
// new settings.
func (t *Talker) applyFilters(records []Series) []Series {
	records = filterByAgeRating(records, t.ageRange)
	if t.settings.FilterType != "" {
		records = filterByType(records, t.settings.FilterType)
	}
	if t.settings.FilterDoujin {
		records = filterDoujinshi(records)
	}
	return records
}

// rankSeries orders candidates best match first. Ties fall back to provider
// rating, then to the provider's own order.
func rankSeries(query string, series []comicmeta.Series) {
	if strings.TrimSpace(query) == "" {
		return
	}
	scores := make(map[string]int, len(series))
	for i := range series {
		scores[series[i].ID] = match.BestScore(query, series[i].Name, series[i].Aliases)
	}
	sort.SliceStable(series, func(i, j int) bool {
		si, sj := scores[series[i].ID], scores[series[j].ID]
		if si != sj {
			return si > sj
		}
		return series[i].Rating > series[j].Rating
	})
}
