package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/viper"

	"github.com/comictalker/mangabaka/internal/comictalker"
	"github.com/comictalker/mangabaka/internal/config"
	"github.com/comictalker/mangabaka/internal/fileutil"
)

// SeriesCmd fetches the full metadata record for one series, the call a
// host makes after the user picks a search candidate.
type SeriesCmd struct {
	ID string `arg:"" help:"MangaBaka series ID"`

	Format   string        `help:"Output format" enum:"yaml,json" default:"yaml"`
	Cover    bool          `help:"Download the cover image as well"`
	CoverDir string        `help:"Directory for downloaded covers (defaults to covers.dir from config)"`
	Timeout  time.Duration `help:"Fetch timeout" default:"1m"`
}

func (c *SeriesCmd) Run() error {
	talker, err := lookupTalker()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.Timeout)
	defer cancel()

	md, err := talker.FetchComic(ctx, comictalker.FetchRequest{SeriesID: c.ID})
	if err != nil {
		return fmt.Errorf("failed to fetch series %s: %w", c.ID, err)
	}

	if err := renderMetadata(stdout, c.Format, md); err != nil {
		return err
	}

	if c.Cover {
		return c.downloadCover(ctx, md.Series, md.CoverURL)
	}
	return nil
}

func (c *SeriesCmd) downloadCover(ctx context.Context, title, coverURL string) error {
	if coverURL == "" {
		slog.Warn("Series has no cover image", "series_id", c.ID)
		return nil
	}

	dir := c.CoverDir
	if dir == "" {
		dir = viper.GetString("covers.dir")
	}

	result, err := fileutil.DownloadCover(ctx, fileutil.CoverDownloadOptions{
		URL:          coverURL,
		OutputDir:    dir,
		Filename:     fileutil.BuildCoverFilename(title),
		MaxWidth:     viper.GetInt("covers.max-width"),
		UpdateCovers: config.UpdateCovers,
	})
	if err != nil {
		return fmt.Errorf("failed to download cover: %w", err)
	}
	if result.Downloaded {
		slog.Info("Cover downloaded", "path", result.LocalPath)
	} else {
		slog.Info("Cover already present", "path", result.LocalPath)
	}
	return nil
}
