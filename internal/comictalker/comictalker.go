// Package comictalker defines the contract between a comic-tagging host and
// the metadata sources ("talkers") it can query. Hosts depend only on this
// package; provider packages implement Talker and register themselves so
// hosts can discover them by ID.
package comictalker

import (
	"context"

	"github.com/comictalker/mangabaka/internal/comicmeta"
)

// SearchQuery is one host search request. Title is free text; the remaining
// fields are optional hints.
type SearchQuery struct {
	Title string
	// Year and Volume are structured hints from the host. Talkers whose
	// provider cannot search by them may ignore them.
	Year   int
	Volume int
	// SeriesID is an identifier the host already holds; when set, the talker
	// looks it up alongside the title search.
	SeriesID string
	// Literal disables query cleanup, result caching, and pagination
	// early-stop: the title is sent to the provider exactly as given.
	Literal bool
}

// FetchRequest identifies the comic the host wants full metadata for. A
// talker without issue-level records may treat a bare IssueID as a series
// identifier.
type FetchRequest struct {
	IssueID  string
	SeriesID string
}

// Capabilities describes the operations a talker actually supports.
type Capabilities struct {
	TitleSearch     bool
	FetchByID       bool
	IssueFetch      bool
	CoverDownload   bool
	OfflineDatabase bool
}

// Info identifies a talker to the host and its users.
type Info struct {
	ID          string
	Name        string
	Website     string
	LogoURL     string
	Attribution string
	About       string
	// MinHostVersion is the oldest host release this talker works with.
	MinHostVersion string
	Version        string
	Capabilities   Capabilities
}

// CheckResult reports whether the talker's remote endpoint is reachable and
// answering sensibly.
type CheckResult struct {
	OK      bool
	Message string
}

// DatabaseDownloader is implemented by talkers whose provider publishes an
// offline database dump. Hosts check Capabilities.OfflineDatabase and assert
// to this interface.
type DatabaseDownloader interface {
	// DownloadDatabase fetches the provider's dump into destDir and returns
	// the path of the extracted database file.
	DownloadDatabase(ctx context.Context, destDir string) (string, error)
}

// Talker is the host-facing interface every metadata source implements.
// Implementations must be safe for concurrent use: the host may run several
// lookups at once.
type Talker interface {
	// Info reports identity and capabilities.
	Info() Info
	// SearchSeries returns candidates ranked by match confidence. An empty
	// result is a valid outcome, not an error.
	SearchSeries(ctx context.Context, q SearchQuery) ([]comicmeta.Series, error)
	// FetchSeries returns the summary for a known series ID.
	FetchSeries(ctx context.Context, seriesID string) (comicmeta.Series, error)
	// FetchComic returns full metadata for the selected candidate.
	FetchComic(ctx context.Context, req FetchRequest) (comicmeta.Metadata, error)
	// FetchIssues returns the issue-level records of a series.
	FetchIssues(ctx context.Context, seriesID string) ([]comicmeta.Metadata, error)
	// Check verifies the talker's remote endpoint.
	Check(ctx context.Context) CheckResult
}
