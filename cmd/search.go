package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/comictalker/mangabaka/internal/comicmeta"
	"github.com/comictalker/mangabaka/internal/comictalker"
	"github.com/comictalker/mangabaka/internal/errors"
	"github.com/comictalker/mangabaka/internal/tui"
)

// SearchCmd searches the provider by title, the same call path a tagging
// host uses for its "search for this comic" action.
type SearchCmd struct {
	Title string `arg:"" help:"Series title to search for"`

	SeriesID string `help:"Known series ID to look up alongside the title search"`
	Year     int    `help:"Publication year hint from the host"`
	Volume   int    `help:"Volume number hint from the host"`
	Literal  bool   `help:"Send the title to the provider exactly as given (no cleanup, no caching)"`

	Interactive bool          `short:"i" help:"Pick one candidate interactively and print its full metadata"`
	Format      string        `help:"Output format" enum:"table,json,yaml" default:"table"`
	Limit       int           `help:"Maximum number of candidates to print (0 = all)" default:"0"`
	Timeout     time.Duration `help:"Overall search timeout" default:"2m"`
}

func (c *SearchCmd) Run() error {
	talker, err := lookupTalker()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.Timeout)
	defer cancel()

	candidates, err := talker.SearchSeries(ctx, comictalker.SearchQuery{
		Title:    c.Title,
		Year:     c.Year,
		Volume:   c.Volume,
		SeriesID: c.SeriesID,
		Literal:  c.Literal,
	})
	if err != nil {
		if errors.IsRateLimitError(err) {
			return fmt.Errorf("provider rate limit hit, try again later: %w", err)
		}
		return fmt.Errorf("search failed: %w", err)
	}

	if c.Limit > 0 && len(candidates) > c.Limit {
		candidates = candidates[:c.Limit]
	}

	if c.Interactive {
		return c.pickAndFetch(ctx, talker, candidates)
	}
	return renderSeriesList(stdout, c.Format, candidates)
}

// pickAndFetch lets the user choose one candidate and prints its full
// metadata. A single remaining candidate is taken without drawing the UI.
func (c *SearchCmd) pickAndFetch(ctx context.Context, talker comictalker.Talker, candidates []comicmeta.Series) error {
	if len(candidates) == 0 {
		fmt.Fprintln(stdout, "No results.")
		return nil
	}

	var selected *comicmeta.Series
	if len(candidates) == 1 {
		slog.Debug("Single candidate, skipping picker", "series_id", candidates[0].ID)
		selected = &candidates[0]
	} else {
		result, err := selectSeries(c.Title, candidates)
		if err != nil {
			return err
		}
		switch result.Action {
		case tui.ActionSelected:
			selected = result.Selection
		case tui.ActionStopped:
			return errors.NewStopProcessingError("selection aborted by user")
		default:
			fmt.Fprintln(stdout, "Skipped.")
			return nil
		}
	}

	md, err := talker.FetchComic(ctx, comictalker.FetchRequest{SeriesID: selected.ID})
	if err != nil {
		return fmt.Errorf("failed to fetch metadata for series %s: %w", selected.ID, err)
	}

	format := c.Format
	if format == "table" {
		format = "yaml"
	}
	return renderMetadata(stdout, format, md)
}

// selectSeries is a seam so tests can run the interactive path headless.
var selectSeries = tui.SelectSeries
