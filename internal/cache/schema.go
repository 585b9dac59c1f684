package cache

// SQL schemas for cache tables
// All cache tables use "cache_key" as the primary key column for consistency

// SeriesCacheSchema defines the schema for individual series record cache
const SeriesCacheSchema = `
CREATE TABLE IF NOT EXISTS mangabaka_series_cache (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_mangabaka_series_cached_at ON mangabaka_series_cache(cached_at);
`

// SearchCacheSchema defines the schema for search result page cache
const SearchCacheSchema = `
CREATE TABLE IF NOT EXISTS mangabaka_search_cache (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_mangabaka_search_cached_at ON mangabaka_search_cache(cached_at);
`

// AllCacheSchemas contains all cache table schemas for easy initialization
var AllCacheSchemas = []string{
	SeriesCacheSchema,
	SearchCacheSchema,
}

// ValidCacheTableNames is the whitelist of allowed cache table names
// Used to prevent SQL injection when interpolating table names
var ValidCacheTableNames = map[string]bool{
	"mangabaka_series_cache": true,
	"mangabaka_search_cache": true,
}
