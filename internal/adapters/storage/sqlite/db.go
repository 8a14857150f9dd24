// Package sqlite is the persistent storage adapter, backed by the pure-Go
// modernc SQLite driver. It implements the quote and source repository ports
// and doubles as a health checker for readiness probes.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps the shared connection pool so the repositories, the migration
// runner and the health check all use one handle.
type DB struct {
	*sql.DB
}

// DefaultBusyTimeout is applied when Open is called with a zero busy timeout.
const DefaultBusyTimeout = 5 * time.Second

// Open opens (or creates) the database file at path. SQLite permits a single
// writer, so the pool is capped at one connection; WAL keeps readers from
// blocking behind it and busy_timeout absorbs short write contention.
func Open(path string, busyTimeout time.Duration) (*DB, error) {
	if busyTimeout <= 0 {
		busyTimeout = DefaultBusyTimeout
	}

	dsn := fmt.Sprintf(
		"file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)",
		path, busyTimeout.Milliseconds(),
	)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}

	db.SetMaxOpenConns(1)
	db.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database %s: %w", path, err)
	}

	return &DB{DB: db}, nil
}

// Name implements ports.HealthChecker.
func (d *DB) Name() string { return "sqlite" }

// Check implements ports.HealthChecker.
func (d *DB) Check(ctx context.Context) error {
	return d.PingContext(ctx)
}
