// Package cmd implements the diagnostic CLI around the MangaBaka talker. It
// drives the talker through the same comictalker contract a tagging host
// would use.
package cmd

import (
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/humanlog"
	"github.com/spf13/viper"

	"github.com/comictalker/mangabaka/internal/cache"
	"github.com/comictalker/mangabaka/internal/comictalker"
	"github.com/comictalker/mangabaka/internal/config"
	"github.com/comictalker/mangabaka/internal/mangabaka"
)

// CLI represents the complete command structure for the mangabaka application
type CLI struct {
	// Global flags
	APIURL       string `name:"api-url" help:"MangaBaka API base URL (defaults to the production endpoint)"`
	APIKey       string `help:"MangaBaka API key (the public API needs none)"`
	UpdateCovers bool   `help:"Re-download cover images even if they already exist"`

	// Filter flags
	AgeFilter         string `help:"Highest content rating to keep: safe, suggestive, erotica, pornographic"`
	FilterType        string `help:"Only keep series of one publication type (manga, novel, manhwa, manhua, oel, other)"`
	KeepDoujin        bool   `help:"Keep doujinshi results instead of filtering them out"`
	OriginalPublisher bool   `help:"Report Original-type publishers instead of English-language ones"`
	StartYearAsVolume bool   `help:"Copy the series start year into the volume field"`

	// Cache flags
	CacheDBFile string `help:"Path to cache SQLite database file" default:"./cache.db"`
	CacheTTL    string `help:"Cache time-to-live duration (e.g., 720h for 30 days)" default:"720h"`

	Search     SearchCmd     `cmd:"" help:"Search for series by title"`
	Series     SeriesCmd     `cmd:"" help:"Fetch full metadata for one series by ID"`
	Check      CheckCmd      `cmd:"" help:"Verify the configured API endpoint is reachable"`
	DownloadDB DownloadDBCmd `cmd:"" name:"download-db" help:"Download the provider's full series database dump"`
	Cache      CacheCmd      `cmd:"" help:"Cache maintenance"`
}

// CacheCmd groups cache maintenance subcommands.
type CacheCmd struct {
	Clear cache.InvalidateCacheCmd `cmd:"" help:"Clear cached provider responses"`
}

// Execute runs the Kong-based CLI
func Execute() {
	initLogging()
	initConfig()

	// Create CLI instance
	var cli CLI

	// Parse command line with Kong
	ctx := kong.Parse(&cli,
		kong.Name("mangabaka"),
		kong.Description("A MangaBaka metadata talker: search, fetch and inspect comic series metadata."),
		kong.UsageOnError(),
	)

	// Update global config based on parsed flags
	updateGlobalConfig(&cli)

	// Execute the selected command
	err := ctx.Run()
	if err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func initConfig() {
	config.InitConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			slog.Debug("Config file not found, using defaults")
		} else {
			slog.Error("Fatal error config file", "error", err)
			os.Exit(1)
		}
	}
}

func updateGlobalConfig(cli *CLI) {
	// Update config based on CLI flags
	config.SetUpdateCovers(cli.UpdateCovers)

	// Update cache config
	viper.Set("cache.dbfile", cli.CacheDBFile)
	viper.Set("cache.ttl", cli.CacheTTL)

	// Provider flags override the config file only when given
	if cli.APIURL != "" {
		viper.Set("mangabaka.url", cli.APIURL)
	}
	if cli.APIKey != "" {
		viper.Set("mangabaka.key", cli.APIKey)
	}
	if cli.AgeFilter != "" {
		viper.Set("mangabaka.age-filter", cli.AgeFilter)
	}
	if cli.FilterType != "" {
		viper.Set("mangabaka.filter-type", cli.FilterType)
	}
	if cli.KeepDoujin {
		viper.Set("mangabaka.filter-doujin", false)
	}
	if cli.OriginalPublisher {
		viper.Set("mangabaka.use-original-publisher", true)
	}
	if cli.StartYearAsVolume {
		viper.Set("mangabaka.series-start-as-volume", true)
	}
}

// lookupTalker resolves the talker through the process registry, building and
// registering it on first use. Commands reach the talker the same way a host
// would: by ID.
var lookupTalker = func() (comictalker.Talker, error) {
	if talker, ok := comictalker.Lookup(mangabaka.TalkerID); ok {
		return talker, nil
	}

	talker, err := mangabaka.NewTalkerFromSettings(talkerSettings())
	if err != nil {
		return nil, err
	}
	if err := comictalker.Register(talker); err != nil {
		return nil, err
	}
	return talker, nil
}

// talkerSettings assembles the talker settings from the loaded config.
func talkerSettings() mangabaka.Settings {
	return mangabaka.Settings{
		APIURL:                 viper.GetString("mangabaka.url"),
		APIKey:                 viper.GetString("mangabaka.key"),
		AgeFilter:              viper.GetString("mangabaka.age-filter"),
		FilterType:             viper.GetString("mangabaka.filter-type"),
		FilterDoujin:           viper.GetBool("mangabaka.filter-doujin"),
		UseOriginalPublisher:   viper.GetBool("mangabaka.use-original-publisher"),
		UseSeriesStartAsVolume: viper.GetBool("mangabaka.series-start-as-volume"),
	}
}

func initLogging() {
	level := slog.LevelInfo
	switch strings.ToLower(os.Getenv("MANGABAKA_LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	// Create a human-readable handler for logging
	handler := humanlog.NewHandler(os.Stdout, &humanlog.Options{
		Level: level,
	})

	// Set the default logger
	slog.SetDefault(slog.New(handler))
}
