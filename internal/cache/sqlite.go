// Copyright (c) 2025 SceneForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrDatabaseError wraps SQLite failures.
var ErrDatabaseError = errors.New("database error")

const schema = `
CREATE TABLE IF NOT EXISTS generations (
	key        TEXT PRIMARY KEY,
	code       TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	expires_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_generations_expires ON generations(expires_at);
`

// SQLiteCache persists generation results across restarts.
type SQLiteCache struct {
	db      *sql.DB
	ttl     time.Duration
	maxSize int

	now func() time.Time
}

// NewSQLiteCache opens (creating if needed) a cache database at path.
func NewSQLiteCache(path string, ttl time.Duration, maxSize int) (*SQLiteCache, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}

	// SQLite only supports one writer at a time, so limit connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}

	return &SQLiteCache{
		db:      db,
		ttl:     ttl,
		maxSize: maxSize,
		now:     time.Now,
	}, nil
}

// Get returns the cached code for a prompt, or ok=false on a miss or an
// expired entry.
func (c *SQLiteCache) Get(prompt string) (string, bool) {
	var code string
	var expiresAt int64

	err := c.db.QueryRow(
		"SELECT code, expires_at FROM generations WHERE key = ?",
		Key(prompt),
	).Scan(&code, &expiresAt)
	if err != nil {
		return "", false
	}
	if c.now().Unix() > expiresAt {
		c.db.Exec("DELETE FROM generations WHERE key = ?", Key(prompt))
		return "", false
	}
	return code, true
}

// Put stores generated code for a prompt, then trims expired and excess rows.
func (c *SQLiteCache) Put(prompt string, code string) error {
	now := c.now()

	_, err := c.db.Exec(
		`INSERT INTO generations (key, code, created_at, expires_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
		   code = excluded.code,
		   created_at = excluded.created_at,
		   expires_at = excluded.expires_at`,
		Key(prompt), code, now.Unix(), now.Add(c.ttl).Unix(),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}

	return c.trim()
}

// trim removes expired rows and, when over the size bound, the oldest rows.
func (c *SQLiteCache) trim() error {
	if _, err := c.db.Exec("DELETE FROM generations WHERE expires_at < ?", c.now().Unix()); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}

	_, err := c.db.Exec(
		`DELETE FROM generations WHERE key IN (
			SELECT key FROM generations
			ORDER BY created_at DESC
			LIMIT -1 OFFSET ?
		)`, c.maxSize)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return nil
}

// Len returns the number of stored rows.
func (c *SQLiteCache) Len() (int, error) {
	var n int
	if err := c.db.QueryRow("SELECT COUNT(*) FROM generations").Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return n, nil
}

// Close closes the underlying database.
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}
