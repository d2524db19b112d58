// Package duckdb provides a DuckDB connection adapter.
package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/leapmeta/pkg/adapter"
	"github.com/leapstack-labs/leapmeta/pkg/dialect"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver
)

// Adapter implements the adapter.Adapter interface for DuckDB.
type Adapter struct {
	adapter.BaseSQLAdapter
	params *Params
}

// New creates a new DuckDB adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	a := &Adapter{BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger}}
	a.AfterOpen = a.applyParams
	return a
}

// Profile returns the duckdb dialect profile.
func (a *Adapter) Profile() *dialect.Profile { return dialect.MustGet("duckdb") }

// Connect establishes a connection to DuckDB.
// Use ":memory:" as the path for an in-memory database.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	params, err := parseParams(cfg.Params)
	if err != nil {
		return err
	}

	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}

	a.Cfg = cfg
	a.params = params
	a.Driver = "duckdb"
	a.DSN = path

	a.Logger.Debug("connecting to duckdb", slog.String("path", path))
	_, err = a.Handle(ctx)
	return err
}

// TableExists reports whether table exists in the configured schema.
func (a *Adapter) TableExists(ctx context.Context, table string) (bool, error) {
	return a.Exists(ctx,
		`SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = ? AND lower(table_name) = lower(?)`,
		a.SchemaOr(a.Profile().DefaultSchema), table)
}

func (a *Adapter) applyParams(ctx context.Context, db *sql.DB) error {
	if a.params == nil {
		return nil
	}
	// settings are per connection
	db.SetMaxOpenConns(1)
	for _, stmt := range a.params.statements() {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply duckdb param %q: %w", stmt, err)
		}
		a.Logger.Debug("applied duckdb param", slog.String("sql", stmt))
	}
	return nil
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
