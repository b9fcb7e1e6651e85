package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"pauta-cli/internal/model"

	_ "modernc.org/sqlite"
)

// The sqlite cache keeps the last successful read-API snapshot per status so
// the panel degrades to "scrape + stale snapshot" instead of scrape-only when
// the backend is unreachable, and persists the origin ledger across sessions.

const cacheFileName = "cache.db"

var ErrNoSnapshot = errors.New("no cached snapshot")

func (s Store) cachePath() string {
	return filepath.Join(s.Dir, cacheFileName)
}

func (s Store) OpenCache(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.cachePath())
	if err != nil {
		return nil, err
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateCache(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateCache(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS snapshots (
			status TEXT PRIMARY KEY,
			fetched_at TEXT NOT NULL,
			payload TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS origins (
			key TEXT PRIMARY KEY,
			date TEXT NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate cache: %w", err)
		}
	}
	// Stable per-workspace cache id, handy when debugging copied workspaces.
	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO meta (key, value) VALUES ('cache_id', ?)`, uuid.NewString())
	return err
}

// SaveSnapshot stores the raw read-endpoint payload for a status filter.
func (s Store) SaveSnapshot(ctx context.Context, db *sql.DB, status string, entries []model.RawAPIEntry) error {
	payload, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO snapshots (status, fetched_at, payload) VALUES (?, ?, ?)
		 ON CONFLICT(status) DO UPDATE SET fetched_at=excluded.fetched_at, payload=excluded.payload`,
		status, time.Now().UTC().Format(time.RFC3339), string(payload))
	if err != nil {
		return fmt.Errorf("save snapshot %q: %w", status, err)
	}
	return nil
}

// LoadSnapshot returns the cached payload and its fetch time.
func (s Store) LoadSnapshot(ctx context.Context, db *sql.DB, status string) ([]model.RawAPIEntry, time.Time, error) {
	var fetchedAt, payload string
	err := db.QueryRowContext(ctx,
		`SELECT fetched_at, payload FROM snapshots WHERE status = ?`, status).Scan(&fetchedAt, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, ErrNoSnapshot
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("load snapshot %q: %w", status, err)
	}
	var entries []model.RawAPIEntry
	if err := json.Unmarshal([]byte(payload), &entries); err != nil {
		return nil, time.Time{}, fmt.Errorf("decode snapshot %q: %w", status, err)
	}
	ts, _ := time.Parse(time.RFC3339, fetchedAt)
	return entries, ts, nil
}

// SaveOrigins persists the ledger. INSERT OR IGNORE keeps first-write-wins:
// an origin already on disk is never replaced by a later one.
func (s Store) SaveOrigins(ctx context.Context, db *sql.DB, origins map[string]string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for key, date := range origins {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO origins (key, date) VALUES (?, ?)`, key, date); err != nil {
			return fmt.Errorf("save origin %q: %w", key, err)
		}
	}
	return tx.Commit()
}

func (s Store) LoadOrigins(ctx context.Context, db *sql.DB) (map[string]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT key, date FROM origins`)
	if err != nil {
		return nil, fmt.Errorf("load origins: %w", err)
	}
	defer rows.Close()
	out := map[string]string{}
	for rows.Next() {
		var key, date string
		if err := rows.Scan(&key, &date); err != nil {
			return nil, err
		}
		out[key] = date
	}
	return out, rows.Err()
}
