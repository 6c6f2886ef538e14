package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Cache is a string key/value store with per-entry expiry, kept in one table.
type Cache struct {
	db        *Database
	tableName string
}

// NewCache creates a new cache instance
func NewCache(db *Database, tableName string) *Cache {
	return &Cache{
		db:        db,
		tableName: tableName,
	}
}

// OpenCache opens the database at path and prepares the named cache table in it.
func OpenCache(path, tableName string) (*Cache, error) {
	db, err := NewDatabase(Config{Path: path})
	if err != nil {
		return nil, err
	}

	cache := NewCache(db, tableName)
	if err := cache.InitializeCache(); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("Failed to close database", "error", closeErr)
		}
		return nil, err
	}

	if err := cache.CleanupExpired(); err != nil {
		slog.Warn("Failed to clean up cache", "path", path, "error", err)
	}

	return cache, nil
}

// InitializeCache creates the cache table if it doesn't exist
func (c *Cache) InitializeCache() error {
	schema := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			expires_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_%s_expires ON %s(expires_at);
	`, c.tableName, c.tableName, c.tableName)

	if err := c.db.ExecuteSchema(schema); err != nil {
		return fmt.Errorf("failed to initialize cache table %s: %w", c.tableName, err)
	}
	return nil
}

// Get retrieves a value from the cache. Expired entries are reported as missing.
func (c *Cache) Get(key string) (string, bool, error) {
	query := fmt.Sprintf(`SELECT value FROM %s WHERE key = ? AND expires_at > ?`, c.tableName)

	var value string
	err := c.db.DB().QueryRow(query, key, time.Now().UnixNano()).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get cache value: %w", err)
	}

	return value, true, nil
}

// Set stores a value in the cache
func (c *Cache) Set(key, value string, ttl time.Duration) error {
	now := time.Now()

	query := fmt.Sprintf(`
		INSERT OR REPLACE INTO %s (key, value, expires_at, updated_at)
		VALUES (?, ?, ?, ?)
	`, c.tableName)

	if _, err := c.db.DB().Exec(query, key, value, now.Add(ttl).UnixNano(), now.UnixNano()); err != nil {
		return fmt.Errorf("failed to set cache value: %w", err)
	}

	return nil
}

// Delete removes a value from the cache
func (c *Cache) Delete(key string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE key = ?`, c.tableName)

	if _, err := c.db.DB().Exec(query, key); err != nil {
		return fmt.Errorf("failed to delete cache value: %w", err)
	}

	return nil
}

// CleanupExpired removes expired entries from the cache
func (c *Cache) CleanupExpired() error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE expires_at <= ?`, c.tableName)

	result, err := c.db.DB().Exec(query, time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("failed to cleanup expired entries: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected > 0 {
		slog.Debug("Cleaned up expired cache entries", "table", c.tableName, "count", rowsAffected)
	}

	return nil
}

// Clear removes all entries from the cache
func (c *Cache) Clear() error {
	query := fmt.Sprintf(`DELETE FROM %s`, c.tableName)

	if _, err := c.db.DB().Exec(query); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	return nil
}

// Close closes the database backing the cache.
func (c *Cache) Close() error {
	return c.db.Close()
}
