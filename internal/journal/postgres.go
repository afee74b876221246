package journal

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"slotgate/pkg/plugincfg"
)

const (
	postgresDriver = "pgx"
	// Default DSN keeps parity with local development while allowing overrides via env.
	defaultPostgresDSN = "postgres://localhost/slotgate?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// Postgres persists decisions to a Postgres table for managed deployments.
type Postgres struct {
	db *sql.DB
}

// NewPostgres opens a Postgres-backed journal using the provided DSN (falls
// back to defaultPostgresDSN) and ensures the decisions table exists.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	if dsn == "" {
		dsn = defaultPostgresDSN
	}
	openMu.Lock()
	db, err := sqlOpen(postgresDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	ddl := `CREATE TABLE IF NOT EXISTS decisions (
		id BIGSERIAL PRIMARY KEY,
		at TIMESTAMPTZ NOT NULL,
		plugin TEXT NOT NULL,
		slot TEXT NOT NULL DEFAULT '',
		enabled BOOLEAN NOT NULL,
		reason TEXT NOT NULL DEFAULT ''
	)`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return nil, fmt.Errorf("ensure decisions table: %w", err)
	}
	return &Postgres{db: db}, nil
}

// Append implements Journal.
func (p *Postgres) Append(ctx context.Context, entries ...Entry) (retErr error) {
	if len(entries) == 0 {
		return nil
	}
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	for _, e := range entries {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO decisions(at, plugin, slot, enabled, reason) VALUES($1,$2,$3,$4,$5)`,
			e.At.UTC(), string(e.Plugin), string(e.Slot), e.Enabled, e.Reason,
		); err != nil {
			retErr = fmt.Errorf("insert decision: %w", err)
			return retErr
		}
	}
	return tx.Commit()
}

// Recent implements Journal.
func (p *Postgres) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := p.db.QueryContext(ctx,
		`SELECT at, plugin, slot, enabled, reason FROM decisions ORDER BY id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("select decisions: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanPostgresEntries(rows)
}

// Close implements Journal.
func (p *Postgres) Close() error { return p.db.Close() }

// DB exposes the underlying sql.DB for integration testing hooks.
func (p *Postgres) DB() *sql.DB { return p.db }

func scanPostgresEntries(rows *sql.Rows) ([]Entry, error) {
	var out []Entry
	for rows.Next() {
		var (
			e  Entry
			at time.Time
		)
		var plugin, slot string
		if err := rows.Scan(&at, &plugin, &slot, &e.Enabled, &e.Reason); err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		e.At = at
		e.Plugin = plugincfg.PluginID(plugin)
		e.Slot = plugincfg.SlotName(slot)
		out = append(out, e)
	}
	return out, rows.Err()
}
