package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/comictalker/mangabaka/internal/comictalker"
)

// DownloadDBCmd fetches the provider's full series dump for offline use.
type DownloadDBCmd struct {
	Dest    string        `help:"Destination directory for the extracted database" default:"./mangabaka-db"`
	Timeout time.Duration `help:"Download timeout; the dump is large" default:"30m"`
}

func (c *DownloadDBCmd) Run() error {
	talker, err := lookupTalker()
	if err != nil {
		return err
	}

	downloader, ok := talker.(comictalker.DatabaseDownloader)
	if !ok || !talker.Info().Capabilities.OfflineDatabase {
		return fmt.Errorf("talker %s does not publish an offline database", talker.Info().ID)
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.Timeout)
	defer cancel()

	dbPath, err := downloader.DownloadDatabase(ctx, c.Dest)
	if err != nil {
		return fmt.Errorf("database download failed: %w", err)
	}

	fmt.Fprintf(stdout, "Series database extracted to %s\n", dbPath)
	return nil
}
