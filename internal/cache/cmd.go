package cache

import (
	"fmt"
	"log/slog"

	"github.com/spf13/viper"
)

// InvalidateCacheCmd represents the cache invalidate subcommand
type InvalidateCacheCmd struct {
	Source string `arg:"" help:"Cache source to invalidate: series, search, all" required:""`
}

func (i *InvalidateCacheCmd) Run() error {
	cacheDB := viper.GetString("cache.dbfile")

	slog.Info("Invalidating cache", "source", i.Source, "database", cacheDB)

	// Map source name to cache table names
	var tables []string
	switch i.Source {
	case "series":
		tables = []string{"mangabaka_series_cache"}
	case "search":
		tables = []string{"mangabaka_search_cache"}
	case "all":
		tables = []string{"mangabaka_series_cache", "mangabaka_search_cache"}
	default:
		return fmt.Errorf("invalid cache source '%s'; valid sources are: series, search, all", i.Source)
	}

	// Get or create cache database
	cacheInstance, err := GetGlobalCache()
	if err != nil {
		return fmt.Errorf("failed to open cache database: %w", err)
	}

	var total int64
	for _, table := range tables {
		rowsDeleted, err := cacheInstance.InvalidateSource(table)
		if err != nil {
			return fmt.Errorf("failed to invalidate cache: %w", err)
		}
		total += rowsDeleted
	}

	slog.Info("Cache invalidated", "source", i.Source, "rows_deleted", total)
	return nil
}
