// Package database wraps SQLite connections and the key/value cache built on them.
package database

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/lepinkainen/babble/pkg/filesystem"
)

var (
	// dbCache stores active database connections, keyed by path
	dbCache = make(map[string]*Database)
	// cacheMutex protects the dbCache
	cacheMutex = &sync.Mutex{}
)

// Database represents a thread-safe database connection
type Database struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
}

// Config holds database configuration
type Config struct {
	Path   string
	Driver string
}

// NewDatabase opens the database at config.Path, creating its directory when needed.
// Opening the same path twice returns the same connection.
func NewDatabase(config Config) (*Database, error) {
	cacheMutex.Lock()
	defer cacheMutex.Unlock()

	if db, ok := dbCache[config.Path]; ok {
		return db, nil
	}

	if config.Driver == "" {
		config.Driver = "sqlite"
	}

	if config.Path != ":memory:" {
		if err := filesystem.EnsureDirectoryExists(config.Path); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open(config.Driver, config.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", config.Path, err)
	}

	if err := configure(db); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("Failed to close database", "error", closeErr)
		}
		return nil, fmt.Errorf("failed to configure database %s: %w", config.Path, err)
	}

	database := &Database{
		db:     db,
		dbPath: config.Path,
	}
	dbCache[config.Path] = database

	slog.Debug("Opened database", "path", config.Path)
	return database, nil
}

// configure applies the SQLite pragmas for a small single-user cache file.
func configure(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		return err
	}

	var journalMode string
	if err := db.QueryRow("PRAGMA journal_mode;").Scan(&journalMode); err != nil {
		return err
	}
	if !strings.EqualFold(journalMode, "wal") && !strings.EqualFold(journalMode, "memory") {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			return err
		}
	}

	if _, err := db.Exec("PRAGMA synchronous=NORMAL"); err != nil {
		return err
	}

	// A single connection keeps :memory: databases shared across queries.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(time.Hour)

	return db.Ping()
}

// Close closes the database connection
func (db *Database) Close() error {
	cacheMutex.Lock()
	defer cacheMutex.Unlock()

	delete(dbCache, db.dbPath)

	db.mu.Lock()
	defer db.mu.Unlock()

	if db.db != nil {
		err := db.db.Close()
		db.db = nil
		return err
	}
	return nil
}

// DB returns the underlying sql.DB instance (thread-safe)
func (db *Database) DB() *sql.DB {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.db
}

// Path returns the database file path
func (db *Database) Path() string {
	return db.dbPath
}

// ExecuteSchema executes a schema statement
func (db *Database) ExecuteSchema(schema string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	_, err := db.db.Exec(schema)
	return err
}

// Transaction executes a function within a database transaction
func (db *Database) Transaction(fn func(*sql.Tx) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	tx, err := db.db.Begin()
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			slog.Error("Failed to rollback transaction", "error", rollbackErr)
		}
		return err
	}

	return tx.Commit()
}
