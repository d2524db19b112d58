// Package adapter defines the connection side of a dialect profile.
//
// A profile in pkg/dialect only knows how to render DDL. An Adapter opens a
// database/sql handle for the same profile and can apply rendered tables to
// a live database. Concrete adapters live in pkg/adapters/ subdirectories
// and register themselves from init().
package adapter

import (
	"context"
	"database/sql"

	"github.com/leapstack-labs/leapmeta/pkg/core"
	"github.com/leapstack-labs/leapmeta/pkg/dialect"
)

// Config is an alias for core.AdapterConfig.
type Config = core.AdapterConfig

// Adapter defines the interface that all database adapters must implement.
type Adapter interface {
	// Connect records the configuration and verifies the database is reachable.
	Connect(ctx context.Context, cfg Config) error

	// Close closes the database connection and releases resources.
	Close() error

	// Exec executes a SQL statement that doesn't return rows.
	Exec(ctx context.Context, sql string) error

	// Query executes a SQL statement that returns rows.
	// The caller closes the rows and checks rows.Err().
	Query(ctx context.Context, sql string) (*sql.Rows, error)

	// TableExists reports whether a table with the given name exists in the
	// configured schema.
	TableExists(ctx context.Context, table string) (bool, error)

	// Profile returns the dialect profile used to render DDL for this adapter.
	Profile() *dialect.Profile
}
