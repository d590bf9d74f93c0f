// Package lite opens an embedded SQLite database through modernc.org/sqlite
package lite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// Config configures the database file
type Config struct {
	Path     string // file path or ":memory:"
	ReadOnly bool
	BusyMs   int
}

// DB wraps *sql.DB with a write lock; SQLite allows a single writer
type DB struct {
	SQL     *sql.DB
	writeMu sync.Mutex
}

// tuning applied after connect; failures are ignored
var tuning = []string{
	"PRAGMA synchronous = NORMAL",
	"PRAGMA temp_store = MEMORY",
	"PRAGMA cache_size = -20000",
}

// DSN builds the modernc connection string for cfg
func DSN(cfg Config) string {
	busy := cfg.BusyMs
	if busy <= 0 {
		busy = 5000
	}
	q := url.Values{}
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", busy))
	q.Add("_pragma", "foreign_keys(1)")
	if cfg.Path != ":memory:" {
		q.Add("_pragma", "journal_mode(WAL)")
	}
	if cfg.ReadOnly {
		q.Set("mode", "ro")
	}
	path := cfg.Path
	if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}
	return path + "?" + q.Encode()
}

// Open connects, pins the pool to one connection and applies tuning pragmas
func Open(ctx context.Context, cfg Config) (*DB, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, fmt.Errorf("sqlite: empty path")
	}
	conn, err := sql.Open("sqlite", DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(time.Hour)

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("sqlite ping: %w", err)
	}
	for _, p := range tuning {
		_, _ = conn.ExecContext(ctx, p)
	}
	return &DB{SQL: conn}, nil
}

// LockWrite serialises writers; pair with the returned unlock
func (d *DB) LockWrite() (unlock func()) {
	d.writeMu.Lock()
	return d.writeMu.Unlock
}

// Close closes the database
func (d *DB) Close() error {
	if d == nil || d.SQL == nil {
		return nil
	}
	return d.SQL.Close()
}
