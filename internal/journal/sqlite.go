package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"slotgate/pkg/plugincfg"
)

// SQLite persists decisions to a single local table. It is the standalone
// deployment default.
type SQLite struct {
	db   *sql.DB
	path string
}

// NewSQLite opens (and if necessary creates) the journal database at path.
func NewSQLite(path string) (*SQLite, error) {
	if path == "" {
		path = "slotgate-journal.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS decisions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		at TEXT NOT NULL,
		plugin TEXT NOT NULL,
		slot TEXT NOT NULL DEFAULT '',
		enabled INTEGER NOT NULL,
		reason TEXT NOT NULL DEFAULT ''
	)`); err != nil {
		return nil, fmt.Errorf("create decisions table: %w", err)
	}
	return &SQLite{db: db, path: path}, nil
}

// Append implements Journal.
func (s *SQLite) Append(ctx context.Context, entries ...Entry) (retErr error) {
	if len(entries) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	for _, e := range entries {
		enabled := 0
		if e.Enabled {
			enabled = 1
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO decisions(at, plugin, slot, enabled, reason) VALUES(?,?,?,?,?)`,
			e.At.UTC().Format(time.RFC3339Nano), string(e.Plugin), string(e.Slot), enabled, e.Reason,
		); err != nil {
			retErr = fmt.Errorf("insert decision: %w", err)
			return retErr
		}
	}
	return tx.Commit()
}

// Recent implements Journal.
func (s *SQLite) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT at, plugin, slot, enabled, reason FROM decisions ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("select decisions: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanEntries(rows)
}

// Close implements Journal.
func (s *SQLite) Close() error { return s.db.Close() }

// Path returns the configured database path.
func (s *SQLite) Path() string { return s.path }

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *SQLite) DB() *sql.DB { return s.db }

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var out []Entry
	for rows.Next() {
		var (
			at      string
			plugin  string
			slot    string
			enabled int
			reason  string
		)
		if err := rows.Scan(&at, &plugin, &slot, &enabled, &reason); err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		ts, err := time.Parse(time.RFC3339Nano, at)
		if err != nil {
			return nil, fmt.Errorf("parse decision timestamp: %w", err)
		}
		out = append(out, Entry{
			At:      ts,
			Plugin:  plugincfg.PluginID(plugin),
			Slot:    plugincfg.SlotName(slot),
			Enabled: enabled != 0,
			Reason:  reason,
		})
	}
	return out, rows.Err()
}
