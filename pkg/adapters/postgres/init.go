// Package postgres provides a PostgreSQL connection adapter.
//
// This file registers the adapter for the postgres and greenplum profiles.
// Import this package with a blank identifier to register it:
//
//	import _ "github.com/leapstack-labs/leapmeta/pkg/adapters/postgres"
package postgres

import (
	"log/slog"

	"github.com/leapstack-labs/leapmeta/pkg/adapter"
)

func init() {
	adapter.Register("postgres", func(logger *slog.Logger) adapter.Adapter { return New(logger) })
	adapter.Register("greenplum", func(logger *slog.Logger) adapter.Adapter {
		return NewForProfile("greenplum", logger)
	})
}
