// Package postgres provides a PostgreSQL connection adapter.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/leapstack-labs/leapmeta/pkg/adapter"
	"github.com/leapstack-labs/leapmeta/pkg/dialect"
)

// Params holds PostgreSQL-specific configuration.
// Parsed from adapter.Config.Params using mapstructure.
type Params struct {
	// SearchPath is sent as the search_path run-time parameter.
	SearchPath string `mapstructure:"search_path"`
	// ApplicationName identifies the session in pg_stat_activity.
	ApplicationName string `mapstructure:"application_name"`
	// ConnectTimeout is the dial timeout in seconds. Zero means no timeout.
	ConnectTimeout int `mapstructure:"connect_timeout"`
}

func parseParams(raw map[string]any) (*Params, error) {
	p := &Params{}
	if len(raw) == 0 {
		return p, nil
	}
	if err := mapstructure.WeakDecode(raw, p); err != nil {
		return nil, fmt.Errorf("failed to parse postgres params: %w", err)
	}
	return p, nil
}

// Adapter implements the adapter.Adapter interface for PostgreSQL and the
// PostgreSQL-compatible profiles.
type Adapter struct {
	adapter.BaseSQLAdapter
	profile *dialect.Profile
}

// New creates a new PostgreSQL adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	return NewForProfile("postgres", logger)
}

// NewForProfile creates an adapter that renders with the named profile but
// connects through the pgx driver. Greenplum uses it.
func NewForProfile(name string, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger},
		profile:        dialect.MustGet(name),
	}
}

// Profile returns the dialect profile for this adapter.
func (a *Adapter) Profile() *dialect.Profile { return a.profile }

// Connect establishes a connection to PostgreSQL.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	params, err := parseParams(cfg.Params)
	if err != nil {
		return err
	}

	a.Cfg = cfg
	a.Driver = a.profile.Driver
	a.DSN = buildPostgresDSN(cfg, a.profile.DefaultPort, params)

	a.Logger.Debug("connecting to postgres",
		slog.String("profile", a.profile.Name),
		slog.String("host", cfg.Host),
		slog.String("database", cfg.Database))

	_, err = a.Handle(ctx)
	return err
}

// TableExists reports whether table exists in the configured schema.
func (a *Adapter) TableExists(ctx context.Context, table string) (bool, error) {
	return a.Exists(ctx,
		`SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = $1 AND lower(table_name) = lower($2)`,
		a.SchemaOr(a.profile.DefaultSchema), table)
}

// buildPostgresDSN constructs a PostgreSQL connection string.
func buildPostgresDSN(cfg adapter.Config, defaultPort int, params *Params) string {
	// Build key=value format: host=localhost port=5432 user=postgres ...
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}

	port := cfg.Port
	if port == 0 {
		port = defaultPort
	}

	sslmode := "disable"
	if mode, ok := cfg.Options["sslmode"]; ok {
		sslmode = mode
	}

	dsn := fmt.Sprintf("host=%s port=%d dbname=%s sslmode=%s",
		host, port, quoteValue(cfg.Database), sslmode)

	if cfg.Credentials.User != "" {
		dsn += " user=" + quoteValue(cfg.Credentials.User)
	}
	if cfg.Credentials.Password != "" {
		dsn += " password=" + quoteValue(cfg.Credentials.Password)
	}

	if params != nil {
		if params.SearchPath != "" {
			dsn += " search_path=" + quoteValue(params.SearchPath)
		}
		if params.ApplicationName != "" {
			dsn += " application_name=" + quoteValue(params.ApplicationName)
		}
		if params.ConnectTimeout > 0 {
			dsn += fmt.Sprintf(" connect_timeout=%d", params.ConnectTimeout)
		}
	}

	// remaining options pass through as run-time parameters
	keys := make([]string, 0, len(cfg.Options))
	for k := range cfg.Options {
		if k != "sslmode" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		dsn += fmt.Sprintf(" %s=%s", k, quoteValue(cfg.Options[k]))
	}

	return dsn
}

// quoteValue single-quotes a DSN value when it is empty or contains spaces or quotes.
func quoteValue(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
