// Package storage provides SQLite persistence for the result cache.
//
// Information Hiding:
// - SQLite connection management hidden behind cache.Store
// - Schema and serialization details encapsulated
// - Thread-safe via sql.DB's built-in connection pooling
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/richinex/scribe/cache"
)

// SqliteStore implements cache.Store using a SQLite database file.
// Entries are stored as serialized JSON keyed by fingerprint.
type SqliteStore struct {
	db *sql.DB
}

// OpenSqlite opens or creates a SQLite database at the given path.
// Creates parent directories if they don't exist.
func OpenSqlite(path string) (*SqliteStore, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	store := &SqliteStore{db: db}
	if err := store.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// NewSqliteInMemory creates an in-memory database (useful for testing).
func NewSqliteInMemory() (*SqliteStore, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory SQLite: %w", err)
	}

	store := &SqliteStore{db: db}
	if err := store.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *SqliteStore) Close() error {
	return s.db.Close()
}

func (s *SqliteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS cache_entries (
			fingerprint TEXT PRIMARY KEY,
			result TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			ttl_seconds INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_cache_created
		ON cache_entries(created_at);
	`

	_, err := s.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Save persists one entry, replacing any prior record for the fingerprint.
func (s *SqliteStore) Save(ctx context.Context, entry cache.Entry) error {
	serialized, err := json.Marshal(entry.Result)
	if err != nil {
		return fmt.Errorf("failed to serialize cached result: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO cache_entries
		(fingerprint, result, created_at, ttl_seconds)
		VALUES (?, ?, ?, ?)`,
		string(entry.Fingerprint),
		string(serialized),
		entry.CreatedAt.Unix(),
		int64(entry.TTL/time.Second),
	)
	if err != nil {
		return fmt.Errorf("failed to store cache entry: %w", err)
	}
	return nil
}

// Load returns all persisted entries, newest first.
func (s *SqliteStore) Load(ctx context.Context) ([]cache.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT fingerprint, result, created_at, ttl_seconds
		FROM cache_entries
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query cache entries: %w", err)
	}
	defer rows.Close()

	entries := []cache.Entry{} // Start with empty slice, not nil
	for rows.Next() {
		var (
			fp         string
			serialized string
			createdAt  int64
			ttlSeconds int64
		)
		if err := rows.Scan(&fp, &serialized, &createdAt, &ttlSeconds); err != nil {
			return nil, fmt.Errorf("failed to scan cache entry: %w", err)
		}

		entry := cache.Entry{
			Fingerprint: cache.Fingerprint(fp),
			CreatedAt:   time.Unix(createdAt, 0),
			TTL:         time.Duration(ttlSeconds) * time.Second,
		}
		if err := json.Unmarshal([]byte(serialized), &entry.Result); err != nil {
			// Corrupt row indicates schema mismatch. Return error rather
			// than silently skipping.
			return nil, fmt.Errorf("invalid cached result for %q: %w", fp, err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cache entries: %w", err)
	}

	return entries, nil
}

// Delete removes the record for a fingerprint, if present.
func (s *SqliteStore) Delete(ctx context.Context, fp cache.Fingerprint) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM cache_entries WHERE fingerprint = ?",
		string(fp))
	if err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

// Prune removes entries whose TTL elapsed before the given time.
func (s *SqliteStore) Prune(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM cache_entries WHERE created_at + ttl_seconds <= ?",
		now.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to prune cache entries: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned entries: %w", err)
	}
	return n, nil
}

// Verify SqliteStore implements the cache persistence interface
var _ cache.Store = (*SqliteStore)(nil)
