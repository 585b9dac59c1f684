package mangabaka

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/comictalker/mangabaka/internal/comicmeta"
	"github.com/comictalker/mangabaka/internal/comictalker"
	"github.com/comictalker/mangabaka/internal/errors"
)

// Talker identity as reported to hosts.
const (
	TalkerID   = "mangabaka"
	TalkerName = "MangaBaka"

	websiteURL     = "https://mangabaka.dev"
	logoURL        = "https://mangabaka.dev/images/logo.png"
	minHostVersion = "1.6.0b7"
)

// Check messages. Hosts show these verbatim in their settings UI, so the
// wording is part of the contract.
const (
	checkOKMessage      = "The URL is valid"
	checkInvalidMessage = "The URL is INVALID!"
	checkConnectMessage = "Failed to connect to the URL!"
)

// Settings holds the user-facing knobs of the talker.
type Settings struct {
	// APIURL overrides the provider endpoint. Blank means the default.
	APIURL string
	// APIKey is sent as a bearer token when set.
	APIKey string
	// AgeFilter is the highest content rating let through: safe, suggestive,
	// erotica or pornographic. Blank means safe. Relies on correct tagging
	// upstream, so it is best-effort.
	AgeFilter string
	// FilterType keeps only records of one publication type (manga, manhwa,
	// ...). Blank keeps everything.
	FilterType string
	// FilterDoujin drops records carrying the Doujinshi genre.
	FilterDoujin bool
	// UseOriginalPublisher selects Original-type publishers instead of the
	// English-language ones.
	UseOriginalPublisher bool
	// UseSeriesStartAsVolume copies the series start year into the volume
	// field, a convention some libraries use for long-running manga.
	UseSeriesStartAsVolume bool
}

// DefaultSettings returns the settings a fresh install starts from.
func DefaultSettings() Settings {
	return Settings{
		AgeFilter:    "safe",
		FilterDoujin: true,
	}
}

// Talker adapts the MangaBaka client to the comictalker contract. It is safe
// for concurrent use: shared state is limited to the HTTP client, the rate
// limiter, and the cache database.
type Talker struct {
	client   *Client
	settings Settings
	ageRange []string
}

var (
	_ comictalker.Talker             = (*Talker)(nil)
	_ comictalker.DatabaseDownloader = (*Talker)(nil)
)

// NewTalker wires a client and settings into a host-facing talker. Settings
// are validated up front so a bad filter value fails at startup, not in the
// middle of a tagging run.
func NewTalker(client *Client, settings Settings) (*Talker, error) {
	if client == nil {
		return nil, errors.NewConfigError("mangabaka.client", "no API client configured")
	}

	if settings.AgeFilter == "" {
		settings.AgeFilter = "safe"
	}
	ageRange, err := ageRatingRange(settings.AgeFilter)
	if err != nil {
		return nil, err
	}

	if settings.FilterType != "" && !validSeriesType(settings.FilterType) {
		return nil, errors.NewConfigError("mangabaka.filter-type",
			fmt.Sprintf("unknown publication type %q; valid types are: %s",
				settings.FilterType, strings.Join(Types[1:], ", ")))
	}

	return &Talker{
		client:   client,
		settings: settings,
		ageRange: ageRange,
	}, nil
}

// NewTalkerFromSettings builds the API client from the settings' endpoint and
// credential. Hosts that manage their own transport use NewTalker instead.
func NewTalkerFromSettings(settings Settings) (*Talker, error) {
	var opts []Option
	if settings.APIURL != "" {
		opts = append(opts, WithBaseURL(settings.APIURL))
	}
	if settings.APIKey != "" {
		opts = append(opts, WithAPIKey(settings.APIKey))
	}

	client, err := NewClient(opts...)
	if err != nil {
		return nil, err
	}
	return NewTalker(client, settings)
}

// Info reports the talker's identity and capabilities.
func (t *Talker) Info() comictalker.Info {
	return comictalker.Info{
		ID:          TalkerID,
		Name:        TalkerName,
		Website:     websiteURL,
		LogoURL:     logoURL,
		Attribution: fmt.Sprintf("Metadata provided by <a href='%s'>%s</a>", websiteURL, TalkerName),
		About: fmt.Sprintf("<a href='%s'>%s</a> collates and cleanses the data from multiple sources: "+
			"AniList, Kitsu, MangaDex, MangaUpdates, MyAnimeList and Anime News Network.",
			websiteURL, TalkerName),
		MinHostVersion: minHostVersion,
		Version:        Version,
		Capabilities: comictalker.Capabilities{
			TitleSearch:     true,
			FetchByID:       true,
			IssueFetch:      true,
			CoverDownload:   true,
			OfflineDatabase: true,
		},
	}
}

// FetchSeries returns the candidate summary for a known series ID.
func (t *Talker) FetchSeries(ctx context.Context, seriesID string) (comicmeta.Series, error) {
	id, err := parseSeriesID(seriesID)
	if err != nil {
		return comicmeta.Series{}, err
	}

	record, err := t.getSeries(ctx, id)
	if err != nil {
		return comicmeta.Series{}, err
	}

	return NormalizeSeries(record, t.normalizeOpts())
}

// FetchComic returns full metadata for the selected candidate. The provider
// has no issue-level records, so a bare IssueID is treated as a series ID.
func (t *Talker) FetchComic(ctx context.Context, req comictalker.FetchRequest) (comicmeta.Metadata, error) {
	seriesID := req.SeriesID
	if seriesID == "" {
		seriesID = req.IssueID
	}
	if seriesID == "" {
		return comicmeta.Metadata{}, errors.NewParseError("series_id",
			"fetch request carries neither a series nor an issue ID")
	}

	id, err := parseSeriesID(seriesID)
	if err != nil {
		return comicmeta.Metadata{}, err
	}

	record, err := t.getSeries(ctx, id)
	if err != nil {
		return comicmeta.Metadata{}, err
	}

	return Normalize(record, t.normalizeOpts())
}

// FetchIssues returns the series-level record mapped as the single "issue".
func (t *Talker) FetchIssues(ctx context.Context, seriesID string) ([]comicmeta.Metadata, error) {
	md, err := t.FetchComic(ctx, comictalker.FetchRequest{SeriesID: seriesID})
	if err != nil {
		return nil, err
	}
	return []comicmeta.Metadata{md}, nil
}

// Check verifies the configured endpoint by fetching a record known to
// exist. Network and payload failures read as unreachable; a reachable
// server answering with a failing body status reads as a wrong URL.
func (t *Talker) Check(ctx context.Context) comictalker.CheckResult {
	err := t.client.CheckAvailability(ctx)
	switch {
	case err == nil:
		return comictalker.CheckResult{OK: true, Message: checkOKMessage}
	case errors.IsNetworkError(err) || errors.IsParseError(err):
		slog.Debug("Availability check failed", "error", err)
		return comictalker.CheckResult{OK: false, Message: checkConnectMessage}
	default:
		slog.Debug("Availability check rejected", "error", err)
		return comictalker.CheckResult{OK: false, Message: checkInvalidMessage}
	}
}

// getSeries resolves one series ID through the cache, following a merged
// record to its replacement once. Deleted records read as not found.
func (t *Talker) getSeries(ctx context.Context, id int64) (*Series, error) {
	record, err := t.cachedSeries(ctx, id)
	if err != nil {
		return nil, err
	}

	if record.State == StateMerged && record.MergedWith > 0 {
		slog.Debug("Series merged, following replacement", "series_id", id, "merged_with", record.MergedWith)
		record, err = t.cachedSeries(ctx, record.MergedWith)
		if err != nil {
			return nil, err
		}
	}

	if record.State == StateDeleted {
		return nil, ErrSeriesNotFound
	}
	return record, nil
}

func (t *Talker) normalizeOpts() NormalizeOptions {
	return NormalizeOptions{
		UseOriginalPublisher:   t.settings.UseOriginalPublisher,
		UseSeriesStartAsVolume: t.settings.UseSeriesStartAsVolume,
	}
}

func parseSeriesID(seriesID string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(seriesID), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewParseError("series_id", fmt.Sprintf("not a valid series ID: %q", seriesID))
	}
	return id, nil
}

func validSeriesType(seriesType string) bool {
	for _, t := range Types {
		if t != "" && t == seriesType {
			return true
		}
	}
	return false
}
