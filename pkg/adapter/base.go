package adapter

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"

	"github.com/leapstack-labs/leapmeta/pkg/core"
)

// Opener opens a database handle. It matches sql.Open.
type Opener func(driver, dsn string) (*sql.DB, error)

// BaseSQLAdapter provides common database/sql functionality for adapters.
// Embed this struct in concrete adapter implementations to get standard
// Close, Exec, and Query implementations.
//
// The handle is created on first use and shared by every later call, so an
// adapter owns at most one *sql.DB.
type BaseSQLAdapter struct {
	Cfg    core.AdapterConfig
	Logger *slog.Logger

	// Driver and DSN are passed to Opener when the handle is created.
	Driver string
	DSN    string

	// Opener defaults to sql.Open.
	Opener Opener

	// AfterOpen runs once on the fresh handle, after the ping succeeds.
	AfterOpen func(ctx context.Context, db *sql.DB) error

	mu sync.Mutex
	db *sql.DB
}

// Handle returns the shared database handle, opening it on first use.
func (b *BaseSQLAdapter) Handle(ctx context.Context) (*sql.DB, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.db != nil {
		return b.db, nil
	}
	if b.Driver == "" {
		return nil, fmt.Errorf("database connection not established")
	}

	open := b.Opener
	if open == nil {
		open = sql.Open
	}
	db, err := open(b.Driver, b.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", b.Driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s: %w", b.Driver, err)
	}
	if b.AfterOpen != nil {
		if err := b.AfterOpen(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	b.logger().Debug("database handle opened", slog.String("driver", b.Driver))
	b.db = db
	return db, nil
}

// Close closes the database connection.
func (b *BaseSQLAdapter) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.db == nil {
		return nil
	}
	b.logger().Debug("closing database connection")
	err := b.db.Close()
	b.db = nil
	return err
}

// Exec executes a SQL statement that doesn't return rows.
func (b *BaseSQLAdapter) Exec(ctx context.Context, sqlStr string) error {
	db, err := b.Handle(ctx)
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, sqlStr); err != nil {
		return fmt.Errorf("failed to execute SQL: %w", err)
	}
	return nil
}

// Query executes a SQL statement that returns rows.
func (b *BaseSQLAdapter) Query(ctx context.Context, sqlStr string) (*sql.Rows, error) {
	db, err := b.Handle(ctx)
	if err != nil {
		return nil, err
	}
	//nolint:rowserrcheck // rows.Err() must be checked by caller after iteration completes
	rows, err := db.QueryContext(ctx, sqlStr)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	return rows, nil
}

// Exists runs a single-row count query and reports whether the count is positive.
// Concrete adapters use it to implement TableExists.
func (b *BaseSQLAdapter) Exists(ctx context.Context, query string, args ...any) (bool, error) {
	db, err := b.Handle(ctx)
	if err != nil {
		return false, err
	}
	var n int
	if err := db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to query catalog: %w", err)
	}
	return n > 0, nil
}

// IsConnected returns true if the database handle has been opened.
func (b *BaseSQLAdapter) IsConnected() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.db != nil
}

// SchemaOr returns the configured schema, or fallback when none is set.
func (b *BaseSQLAdapter) SchemaOr(fallback string) string {
	if b.Cfg.Schema != "" {
		return b.Cfg.Schema
	}
	return fallback
}

func (b *BaseSQLAdapter) logger() *slog.Logger {
	if b.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return b.Logger
}
