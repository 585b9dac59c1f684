package mangabaka

import (
	"context"
	stdErrors "errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// ErrSeriesNotFound is returned when the provider has no record for an ID.
// It is a valid empty outcome, not a failure.
var ErrSeriesNotFound = stdErrors.New("series not found")

// checkProbeSeriesID is a record known to exist, fetched by availability
// checks.
const checkProbeSeriesID = 10023

// bodyStatusError is an error reported inside the response envelope. The API
// can answer HTTP 200 with a failing body status.
type bodyStatusError struct {
	Status  int
	Message string
}

func (e *bodyStatusError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// fetchEnvelope gets one API response and enforces the envelope contract: a
// body status other than 200 is an error even on HTTP 200.
func fetchEnvelope[T any](ctx context.Context, c *Client, path string, params url.Values) (*Envelope[T], error) {
	var env Envelope[T]
	if err := c.getJSON(ctx, path, params, &env); err != nil {
		return nil, err
	}
	if env.Status != http.StatusOK {
		return nil, &bodyStatusError{Status: env.Status, Message: env.Message}
	}
	return &env, nil
}

// SearchPage fetches one page of title-search results. The request always
// asks for every content rating so cached pages can be re-filtered locally
// when the age ceiling changes.
func (c *Client) SearchPage(ctx context.Context, query string, page int) (*Envelope[[]Series], error) {
	params := url.Values{}
	params.Set("q", query)
	for _, rating := range ContentRatings {
		params.Add("content_rating", rating)
	}
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(searchPageLimit))

	return fetchEnvelope[[]Series](ctx, c, "series/search", params)
}

// GetSeries fetches one raw series record by ID. A missing record yields
// ErrSeriesNotFound.
func (c *Client) GetSeries(ctx context.Context, id int64) (*Series, error) {
	env, err := fetchEnvelope[Series](ctx, c, fmt.Sprintf("series/%d", id), nil)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrSeriesNotFound
		}
		return nil, err
	}
	record := env.Data
	return &record, nil
}

// CheckAvailability verifies the configured endpoint by fetching a record
// known to exist.
func (c *Client) CheckAvailability(ctx context.Context) error {
	_, err := c.GetSeries(ctx, checkProbeSeriesID)
	return err
}

// isNotFound reports whether err is a 404, at either the HTTP or the
// envelope level.
func isNotFound(err error) bool {
	var bodyErr *bodyStatusError
	if stdErrors.As(err, &bodyErr) && bodyErr.Status == http.StatusNotFound {
		return true
	}
	var statusErr *httpStatusError
	if stdErrors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
		return true
	}
	return false
}
