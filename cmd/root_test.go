package cmd

import (
	"os"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comictalker/mangabaka/internal/config"
)

func resetCmdState(t *testing.T) {
	t.Helper()

	origUpdate := config.UpdateCovers
	t.Cleanup(func() {
		config.UpdateCovers = origUpdate
		viper.Reset()
	})
	viper.Reset()
}

func parseCLI(t *testing.T, args ...string) (*CLI, *kong.Context) {
	t.Helper()

	originalArgs := os.Args
	os.Args = append([]string{"mangabaka"}, args...)
	t.Cleanup(func() { os.Args = originalArgs })

	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("mangabaka"),
		kong.UsageOnError(),
		kong.Exit(func(code int) {
			t.Fatalf("unexpected Kong exit %d", code)
		}),
	)

	return cli, ctx
}

func TestUpdateGlobalConfig(t *testing.T) {
	resetCmdState(t)

	cli := &CLI{
		UpdateCovers: true,
		CacheDBFile:  "/tmp/cache.db",
		CacheTTL:     "12h",
		APIURL:       "http://localhost:9999/v1",
		APIKey:       "secret",
		AgeFilter:    "suggestive",
		FilterType:   "manga",
		KeepDoujin:   true,
	}

	updateGlobalConfig(cli)

	assert.True(t, config.UpdateCovers)
	assert.Equal(t, "/tmp/cache.db", viper.GetString("cache.dbfile"))
	assert.Equal(t, "12h", viper.GetString("cache.ttl"))
	assert.Equal(t, "http://localhost:9999/v1", viper.GetString("mangabaka.url"))
	assert.Equal(t, "secret", viper.GetString("mangabaka.key"))
	assert.Equal(t, "suggestive", viper.GetString("mangabaka.age-filter"))
	assert.Equal(t, "manga", viper.GetString("mangabaka.filter-type"))
	assert.False(t, viper.GetBool("mangabaka.filter-doujin"))
}

func TestUpdateGlobalConfigLeavesUnsetFlagsAlone(t *testing.T) {
	resetCmdState(t)

	viper.Set("mangabaka.url", "http://configured")
	viper.Set("mangabaka.age-filter", "erotica")

	updateGlobalConfig(&CLI{CacheDBFile: "./cache.db", CacheTTL: "720h"})

	assert.Equal(t, "http://configured", viper.GetString("mangabaka.url"))
	assert.Equal(t, "erotica", viper.GetString("mangabaka.age-filter"))
}

func TestSearchCommandParsing(t *testing.T) {
	resetCmdState(t)

	cli, _ := parseCLI(t, "search", "Naruto",
		"--series-id", "10023",
		"--literal",
		"--format", "json",
		"--limit", "5")

	assert.Equal(t, "Naruto", cli.Search.Title)
	assert.Equal(t, "10023", cli.Search.SeriesID)
	assert.True(t, cli.Search.Literal)
	assert.Equal(t, "json", cli.Search.Format)
	assert.Equal(t, 5, cli.Search.Limit)
	assert.False(t, cli.Search.Interactive)
}

func TestSeriesCommandParsing(t *testing.T) {
	resetCmdState(t)

	cli, _ := parseCLI(t, "series", "10023", "--cover", "--cover-dir", "/tmp/covers")

	assert.Equal(t, "10023", cli.Series.ID)
	assert.True(t, cli.Series.Cover)
	assert.Equal(t, "/tmp/covers", cli.Series.CoverDir)
	assert.Equal(t, "yaml", cli.Series.Format)
}

func TestCLIDefaultFlags(t *testing.T) {
	resetCmdState(t)

	cli, _ := parseCLI(t, "check")

	assert.Equal(t, "./cache.db", cli.CacheDBFile)
	assert.Equal(t, "720h", cli.CacheTTL)
	assert.Empty(t, cli.APIURL)
	assert.Empty(t, cli.AgeFilter)
	assert.False(t, cli.KeepDoujin)
	assert.False(t, cli.OriginalPublisher)
}

func TestCacheClearCommandParsing(t *testing.T) {
	resetCmdState(t)

	cli, _ := parseCLI(t, "cache", "clear", "all")

	assert.Equal(t, "all", cli.Cache.Clear.Source)
}

func TestTalkerSettingsFromConfig(t *testing.T) {
	resetCmdState(t)

	viper.Set("mangabaka.url", "http://localhost:1234/v1")
	viper.Set("mangabaka.key", "token")
	viper.Set("mangabaka.age-filter", "erotica")
	viper.Set("mangabaka.filter-type", "manhwa")
	viper.Set("mangabaka.filter-doujin", true)
	viper.Set("mangabaka.use-original-publisher", true)
	viper.Set("mangabaka.series-start-as-volume", true)

	settings := talkerSettings()

	assert.Equal(t, "http://localhost:1234/v1", settings.APIURL)
	assert.Equal(t, "token", settings.APIKey)
	assert.Equal(t, "erotica", settings.AgeFilter)
	assert.Equal(t, "manhwa", settings.FilterType)
	assert.True(t, settings.FilterDoujin)
	assert.True(t, settings.UseOriginalPublisher)
	assert.True(t, settings.UseSeriesStartAsVolume)
}

func TestEnvironmentVariableBinding(t *testing.T) {
	resetCmdState(t)

	t.Setenv("MANGABAKA_API_KEY", "env-key")

	config.InitConfig()

	assert.Equal(t, "env-key", viper.GetString("mangabaka.key"))
}

func TestInitLogging(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
	}{
		{"default", ""},
		{"debug", "debug"},
		{"warn", "warn"},
		{"error", "error"},
		{"invalid", "nonsense"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				t.Setenv("MANGABAKA_LOG_LEVEL", tt.envValue)
			}
			require.NotPanics(t, func() {
				initLogging()
			})
		})
	}
}
