// Package config centralizes viper defaults and environment bindings for the
// CLI. Library packages read viper directly; this keeps every key and its
// default in one place.
package config

import (
	"log/slog"

	"github.com/spf13/viper"
)

// Global configuration variables
var (
	// UpdateCovers controls whether existing cover files are re-downloaded
	UpdateCovers bool
)

// InitConfig registers defaults and environment bindings. An empty
// mangabaka.url keeps the client's built-in endpoint.
func InitConfig() {
	// Provider defaults
	viper.SetDefault("mangabaka.url", "")
	viper.SetDefault("mangabaka.key", "")
	viper.SetDefault("mangabaka.age-filter", "safe")
	viper.SetDefault("mangabaka.filter-type", "")
	viper.SetDefault("mangabaka.filter-doujin", true)
	viper.SetDefault("mangabaka.use-original-publisher", false)
	viper.SetDefault("mangabaka.series-start-as-volume", false)

	// Cache defaults
	viper.SetDefault("cache.dbfile", "./cache.db")
	viper.SetDefault("cache.ttl", "720h") // 30 days

	// Cover download defaults
	viper.SetDefault("covers.dir", "./covers")
	viper.SetDefault("covers.max-width", 0)

	// Enable environment variable support
	viper.AutomaticEnv()
	// Bind specific environment variables to config keys
	if err := viper.BindEnv("mangabaka.key", "MANGABAKA_API_KEY"); err != nil {
		slog.Error("Failed to bind environment variable", "error", err)
	}

	UpdateCovers = viper.GetBool("covers.update")
}

// SetUpdateCovers sets the UpdateCovers flag
func SetUpdateCovers(update bool) {
	UpdateCovers = update
}
