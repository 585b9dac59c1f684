package cache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/spf13/viper"
	_ "modernc.org/sqlite"
)

const (
	// DefaultCacheTTL keeps provider responses for 30 days.
	DefaultCacheTTL = 720 * time.Hour
	// NegativeCacheTTL keeps "not found" responses for 7 days so a series
	// added to the provider later is picked up without a manual flush.
	NegativeCacheTTL = 168 * time.Hour
)

// FetchFunc fetches a value from the provider on a cache miss.
type FetchFunc[T any] func() (T, error)

// CacheDB wraps the SQLite database holding cached provider responses.
type CacheDB struct {
	db   *sql.DB
	mu   sync.RWMutex
	path string
}

var (
	globalCache     *CacheDB
	globalCacheOnce sync.Once
)

// ResetGlobalCache closes the current global cache and resets the singleton
// so the next call to GetGlobalCache creates a new instance. Used by tests.
func ResetGlobalCache() error {
	if globalCache != nil {
		if err := globalCache.Close(); err != nil {
			return err
		}
	}
	globalCache = nil
	globalCacheOnce = sync.Once{}
	return nil
}

// GetGlobalCache returns the singleton cache database, opening it and
// creating the cache tables on first use. The database path comes from the
// cache.dbfile config key.
func GetGlobalCache() (*CacheDB, error) {
	var initErr error
	globalCacheOnce.Do(func() {
		dbPath := viper.GetString("cache.dbfile")
		if dbPath == "" {
			dbPath = "./cache.db"
		}
		globalCache, initErr = NewCacheDB(dbPath)
		if initErr != nil {
			return
		}
		for _, schema := range AllCacheSchemas {
			if err := globalCache.CreateTable(schema); err != nil {
				initErr = fmt.Errorf("failed to create cache table: %w", err)
				return
			}
		}
	})
	if initErr != nil {
		return nil, initErr
	}
	return globalCache, nil
}

// NewCacheDB opens the SQLite database at dbPath, creating it if needed.
func NewCacheDB(dbPath string) (*CacheDB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	if err := db.Ping(); err != nil {
		closeErr := db.Close()
		return nil, errors.Join(fmt.Errorf("failed to connect to cache database: %w", err), closeErr)
	}

	return &CacheDB{
		db:   db,
		path: dbPath,
	}, nil
}

// CreateTable runs the given schema statement.
func (c *CacheDB) CreateTable(schema string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (c *CacheDB) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// InvalidateSource deletes every entry in the given cache table and returns
// the number of rows removed.
func (c *CacheDB) InvalidateSource(tableName string) (int64, error) {
	if err := validateTableName(tableName); err != nil {
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	result, err := c.db.Exec(fmt.Sprintf("DELETE FROM %s", tableName))
	if err != nil {
		return 0, fmt.Errorf("failed to delete cache entries: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	slog.Debug("Cache table cleared", "table", tableName, "rows_deleted", rowsAffected)
	return rowsAffected, nil
}

// validateTableName rejects table names outside the whitelist. Table names
// are interpolated into SQL, so everything else must be refused.
func validateTableName(tableName string) error {
	if !ValidCacheTableNames[tableName] {
		return fmt.Errorf("invalid cache table name: %s", tableName)
	}
	return nil
}

// GetOrFetchWithPolicy returns the cached value for cacheKey, or calls fetch
// and stores the result. shouldCache can veto storing a fetched value, which
// keeps empty search pages out of the cache; nil stores everything.
func GetOrFetchWithPolicy[T any](tableName, cacheKey string, fetch FetchFunc[T], shouldCache func(T) bool) (T, bool, error) {
	return getOrFetch(tableName, cacheKey, fetch, shouldCache, nil)
}

// GetOrFetchWithTTL is GetOrFetchWithPolicy with a per-value TTL. ttlFor is
// applied to cached values as well as freshly fetched ones, so entries given
// a short TTL (negative caching) expire early on read too.
func GetOrFetchWithTTL[T any](tableName, cacheKey string, fetch FetchFunc[T], ttlFor func(T) time.Duration) (T, bool, error) {
	return getOrFetch(tableName, cacheKey, fetch, nil, ttlFor)
}

// SelectNegativeCacheTTL builds a TTL selector that gives "not found"
// results NegativeCacheTTL and everything else DefaultCacheTTL.
func SelectNegativeCacheTTL[T any](isNotFound func(T) bool) func(T) time.Duration {
	return func(result T) time.Duration {
		if isNotFound(result) {
			return NegativeCacheTTL
		}
		return DefaultCacheTTL
	}
}

func getOrFetch[T any](tableName, cacheKey string, fetch FetchFunc[T], shouldCache func(T) bool, ttlFor func(T) time.Duration) (T, bool, error) {
	var zero T

	db, err := GetGlobalCache()
	if err != nil {
		// A broken cache must not block the lookup itself.
		slog.Warn("Cache unavailable, fetching directly", "error", err)
		value, fetchErr := fetch()
		return value, false, fetchErr
	}

	defaultTTL := configuredTTL()

	raw, age, found, err := db.lookup(tableName, cacheKey)
	if err == nil && found {
		var value T
		if err := json.Unmarshal([]byte(raw), &value); err == nil {
			ttl := defaultTTL
			if ttlFor != nil {
				ttl = ttlFor(value)
			}
			if age <= ttl {
				slog.Debug("Cache hit", "table", tableName, "key", cacheKey, "age", age)
				return value, true, nil
			}
			slog.Debug("Cache entry expired", "table", tableName, "key", cacheKey, "age", age)
		} else {
			slog.Warn("Discarding unreadable cache entry", "table", tableName, "key", cacheKey, "error", err)
		}
	}

	slog.Debug("Cache miss, fetching data", "table", tableName, "key", cacheKey)
	value, err := fetch()
	if err != nil {
		return zero, false, fmt.Errorf("failed to fetch data: %w", err)
	}

	if shouldCache != nil && !shouldCache(value) {
		slog.Debug("Skipping cache store per policy", "table", tableName, "key", cacheKey)
		return value, false, nil
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		slog.Warn("Failed to encode value for caching", "table", tableName, "key", cacheKey, "error", err)
		return value, false, nil
	}
	if err := db.Set(tableName, cacheKey, string(encoded)); err != nil {
		// A failed store is not fatal, the fetched value is still good.
		slog.Warn("Failed to store cache entry", "table", tableName, "key", cacheKey, "error", err)
	}
	return value, false, nil
}

// configuredTTL reads cache.ttl from the config, falling back to the 30-day
// default when unset or malformed.
func configuredTTL() time.Duration {
	raw := viper.GetString("cache.ttl")
	if raw == "" {
		return DefaultCacheTTL
	}
	ttl, err := time.ParseDuration(raw)
	if err != nil {
		slog.Warn("Invalid cache.ttl, using default", "ttl", raw, "error", err)
		return DefaultCacheTTL
	}
	return ttl
}

// lookup reads a raw entry and its age without applying a TTL. Callers decide
// freshness, which lets negative entries expire earlier than positive ones.
func (c *CacheDB) lookup(tableName, key string) (string, time.Duration, bool, error) {
	if err := validateTableName(tableName); err != nil {
		return "", 0, false, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	query := fmt.Sprintf("SELECT data, cached_at FROM %s WHERE cache_key = ?", tableName)

	var data string
	var cachedAt time.Time
	err := c.db.QueryRow(query, key).Scan(&data, &cachedAt)
	if err == sql.ErrNoRows {
		return "", 0, false, nil
	}
	if err != nil {
		return "", 0, false, fmt.Errorf("failed to query cache: %w", err)
	}

	return data, time.Now().UTC().Sub(cachedAt), true, nil
}

// Get returns a cached value no older than ttl. The boolean reports whether
// a fresh entry was found.
func (c *CacheDB) Get(tableName, key string, ttl time.Duration) (string, bool, error) {
	data, age, found, err := c.lookup(tableName, key)
	if err != nil || !found {
		return "", false, err
	}
	if age > ttl {
		slog.Debug("Cache expired", "table", tableName, "key", key, "age", age)
		return "", false, nil
	}
	return data, true, nil
}

// Set stores a value under key, replacing any previous entry.
func (c *CacheDB) Set(tableName, key, data string) error {
	if err := validateTableName(tableName); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	query := fmt.Sprintf(`
		INSERT OR REPLACE INTO %s (cache_key, data, cached_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
	`, tableName)

	if _, err := c.db.Exec(query, key, data); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}

	return nil
}

// ClearAll removes every entry from the given cache table.
func (c *CacheDB) ClearAll(tableName string) error {
	if err := validateTableName(tableName); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.db.Exec(fmt.Sprintf("DELETE FROM %s", tableName)); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	slog.Info("Cache cleared", "table", tableName)
	return nil
}
