// Package sqlite provides a SQLite connection adapter built on mattn/go-sqlite3.
package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/go-viper/mapstructure/v2"
	"github.com/leapstack-labs/leapmeta/pkg/adapter"
	"github.com/leapstack-labs/leapmeta/pkg/dialect"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver (cgo)
)

// Params holds SQLite-specific configuration.
// Parsed from adapter.Config.Params using mapstructure.
type Params struct {
	// ForeignKeys enables foreign key enforcement. Defaults to true.
	ForeignKeys *bool `mapstructure:"foreign_keys"`
	// BusyTimeout is the lock wait in milliseconds.
	BusyTimeout int `mapstructure:"busy_timeout"`
	// JournalMode sets the journal mode, e.g. "WAL".
	JournalMode string `mapstructure:"journal_mode"`
}

func parseParams(raw map[string]any) (*Params, error) {
	p := &Params{}
	if len(raw) == 0 {
		return p, nil
	}
	if err := mapstructure.WeakDecode(raw, p); err != nil {
		return nil, fmt.Errorf("failed to parse sqlite params: %w", err)
	}
	return p, nil
}

// Adapter implements the adapter.Adapter interface for SQLite.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new SQLite adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger}}
}

// Profile returns the sqlite dialect profile.
func (a *Adapter) Profile() *dialect.Profile { return dialect.MustGet("sqlite") }

// Connect opens the database file at cfg.Path.
// Use ":memory:" as the path for an in-memory database.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	params, err := parseParams(cfg.Params)
	if err != nil {
		return err
	}

	a.Cfg = cfg
	a.Driver = a.Profile().Driver
	a.DSN = buildDSN(cfg.Path, params)
	a.Logger.Debug("connecting to sqlite", slog.String("dsn", a.DSN))

	db, err := a.Handle(ctx)
	if err != nil {
		return err
	}
	if cfg.Path == "" || cfg.Path == ":memory:" {
		// every pooled connection would see its own empty database
		db.SetMaxOpenConns(1)
	}
	return nil
}

// TableExists reports whether table exists. SQLite has no schemas, so the
// configured schema is ignored.
func (a *Adapter) TableExists(ctx context.Context, table string) (bool, error) {
	return a.Exists(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ? COLLATE NOCASE`,
		table)
}

// buildDSN returns a go-sqlite3 file URI carrying params as query options.
func buildDSN(path string, p *Params) string {
	if path == "" {
		path = ":memory:"
	}

	q := url.Values{}
	fk := p.ForeignKeys == nil || *p.ForeignKeys
	if fk {
		q.Set("_foreign_keys", "1")
	} else {
		q.Set("_foreign_keys", "0")
	}
	if p.BusyTimeout > 0 {
		q.Set("_busy_timeout", fmt.Sprint(p.BusyTimeout))
	}
	if p.JournalMode != "" {
		q.Set("_journal_mode", p.JournalMode)
	}
	return fmt.Sprintf("file:%s?%s", path, q.Encode())
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
