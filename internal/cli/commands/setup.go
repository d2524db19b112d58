// Package commands implements the leapmeta subcommands.
package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/leapmeta/internal/cli/output"
	"github.com/leapstack-labs/leapmeta/internal/config"
	"github.com/leapstack-labs/leapmeta/internal/declare"
	"github.com/leapstack-labs/leapmeta/pkg/dialect"
	"github.com/leapstack-labs/leapmeta/pkg/schema"
	"github.com/spf13/cobra"
)

type configKey struct{}

type loggerKey struct{}

// WithConfig stores the loaded configuration and logger in ctx.
func WithConfig(ctx context.Context, cfg *config.Config, logger *slog.Logger) context.Context {
	ctx = context.WithValue(ctx, configKey{}, cfg)
	return context.WithValue(ctx, loggerKey{}, logger)
}

// GetConfig retrieves the config from the command context.
// Returns a default config if none was stored.
func GetConfig(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c
	}
	c := &config.Config{}
	c.ApplyDefaults()
	return c
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	// Return discard logger as safe fallback
	return slog.New(slog.DiscardHandler)
}

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the command's context.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := GetConfig(ctx)
	return &CommandContext{
		Cfg:      cfg,
		Logger:   GetLogger(ctx),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.Output)),
	}
}

// Registry loads the configured declarations and builds the registry.
func (c *CommandContext) Registry() (*schema.Registry, error) {
	reg, err := declare.Build(c.Logger, c.Cfg.Schema...)
	if err != nil {
		return nil, fmt.Errorf("failed to load declarations: %w", err)
	}
	return reg, nil
}

// Profile returns the configured dialect profile.
func (c *CommandContext) Profile() (*dialect.Profile, error) {
	return dialect.Lookup(c.Cfg.Profile)
}

// selectTables returns the tables named in args, or every table when args is
// empty. Names may be fully-qualified or unambiguous short names.
func selectTables(reg *schema.Registry, args []string) ([]*schema.Table, error) {
	if len(args) == 0 {
		return reg.Tables(), nil
	}
	out := make([]*schema.Table, 0, len(args))
	for _, name := range args {
		t, ok := reg.ByName(name)
		if !ok {
			return nil, fmt.Errorf("unknown or ambiguous type %q", name)
		}
		out = append(out, t)
	}
	return out, nil
}
