package journal

import (
	"context"
	"fmt"
	"os"
)

// Driver identifies a journal backend.
type Driver string

const (
	// DriverMemory keeps decisions in process memory (tests, ephemeral runs).
	DriverMemory Driver = "memory"
	// DriverSQLite stores decisions in a local database (standalone default).
	DriverSQLite Driver = "sqlite"
	// DriverPostgres stores decisions in Postgres (managed deployments).
	DriverPostgres Driver = "postgres"
)

// Open selects a Journal implementation using environment variables.
//
//	SLOTGATE_JOURNAL_DRIVER: memory|sqlite|postgres (default sqlite)
//	SLOTGATE_JOURNAL_SQLITE_PATH: database path when driver=sqlite
//	SLOTGATE_JOURNAL_POSTGRES_DSN: DSN when driver=postgres
func Open(ctx context.Context) (Journal, error) {
	driver := os.Getenv("SLOTGATE_JOURNAL_DRIVER")
	if driver == "" {
		driver = string(DriverSQLite)
	}
	switch Driver(driver) {
	case DriverMemory:
		return NewMemory(), nil
	case DriverSQLite:
		return NewSQLite(os.Getenv("SLOTGATE_JOURNAL_SQLITE_PATH"))
	case DriverPostgres:
		return NewPostgres(ctx, os.Getenv("SLOTGATE_JOURNAL_POSTGRES_DSN"))
	default:
		return nil, fmt.Errorf("unknown journal driver %s", driver)
	}
}
