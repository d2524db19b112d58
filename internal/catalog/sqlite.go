package catalog

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/leapmeta/pkg/core"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // SQLite driver (pure Go)
)

//go:embed migrations/*.sql
var migrations embed.FS

// SQLiteStore implements Store on a SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite catalog store instance.
func NewSQLiteStore(logger *slog.Logger) *SQLiteStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SQLiteStore{logger: logger}
}

// Open opens the database at path and runs pending migrations.
// Use ":memory:" for an in-memory database.
func (s *SQLiteStore) Open(ctx context.Context, path string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open catalog database: %w", err)
	}
	if path == ":memory:" {
		// every pooled connection would see its own empty database
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping catalog database: %w", err)
	}

	s.db = db
	s.path = path
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		s.db = nil
		return err
	}

	s.logger.Debug("catalog opened", slog.String("path", path))
	return nil
}

// Migrate runs all pending migrations.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	if err := goose.UpContext(ctx, s.db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Version returns the current migration version.
func (s *SQLiteStore) Version() (int64, error) {
	if s.db == nil {
		return 0, fmt.Errorf("database not opened")
	}
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return 0, fmt.Errorf("failed to set dialect: %w", err)
	}
	return goose.GetDBVersion(s.db)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Put adds or replaces an entry.
func (s *SQLiteStore) Put(ctx context.Context, obj core.CodeObject) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	if err := validate(obj); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO code_objects (kind, code, label) VALUES (?, ?, ?)
		 ON CONFLICT(kind, code) DO UPDATE SET label = excluded.label`,
		obj.Kind, obj.Code, obj.Label,
	)
	if err != nil {
		return fmt.Errorf("failed to put code object %s: %w", obj.Key(), err)
	}
	return nil
}

// Resolve returns the entry for key.
func (s *SQLiteStore) Resolve(ctx context.Context, key string) (core.CodeObject, error) {
	if s.db == nil {
		return core.CodeObject{}, fmt.Errorf("database not opened")
	}
	kind, code, err := core.ParseCodeKey(key)
	if err != nil {
		return core.CodeObject{}, err
	}

	obj := core.CodeObject{Kind: kind, Code: code}
	err = s.db.QueryRowContext(ctx,
		`SELECT label FROM code_objects WHERE kind = ? AND code = ?`,
		kind, code,
	).Scan(&obj.Label)
	if errors.Is(err, sql.ErrNoRows) {
		return core.CodeObject{}, fmt.Errorf("%w: %s", core.ErrCodeNotFound, key)
	}
	if err != nil {
		return core.CodeObject{}, fmt.Errorf("failed to resolve %s: %w", key, err)
	}
	return obj, nil
}

// List returns the entries of one kind, or all entries when kind is empty,
// ordered by kind and code.
func (s *SQLiteStore) List(ctx context.Context, kind string) ([]core.CodeObject, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT kind, code, label FROM code_objects
		 WHERE ? = '' OR kind = ?
		 ORDER BY kind, code`,
		kind, kind,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list code objects: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []core.CodeObject
	for rows.Next() {
		var obj core.CodeObject
		if err := rows.Scan(&obj.Kind, &obj.Code, &obj.Label); err != nil {
			return nil, fmt.Errorf("failed to scan code object: %w", err)
		}
		out = append(out, obj)
	}
	return out, rows.Err()
}

// Delete removes an entry. Deleting an unknown key is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	kind, code, err := core.ParseCodeKey(key)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM code_objects WHERE kind = ? AND code = ?`, kind, code); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}
