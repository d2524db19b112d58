package commands

import (
	"context"
	"os"
	"os/signal"
	"strings"

	"github.com/leapstack-labs/leapmeta/internal/declare"
	"github.com/leapstack-labs/leapmeta/pkg/schema"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// NewRenderCommand creates the render command.
func NewRenderCommand() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "render [type...]",
		Short: "Render CREATE TABLE statements",
		Long: `Render the CREATE TABLE statement of each concrete record type for the
configured dialect profile. Abstract types are skipped unless named explicitly.

Without arguments every declared type is rendered, parents before children.
With --watch, render again whenever a declaration file changes.`,
		Example: `  # Render every table for the default profile
  leapmeta render

  # Render two tables for H2
  leapmeta render --profile h2 qa.core.Foo Bar

  # Re-render while editing declarations
  leapmeta render --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if watch {
				return watchRender(cmd, args)
			}
			return runRender(cmd, args)
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Render again when declarations change")
	return cmd
}

func runRender(cmd *cobra.Command, args []string) error {
	cc := NewCommandContext(cmd)
	reg, err := cc.Registry()
	if err != nil {
		return err
	}
	return renderRegistry(cmd.Context(), cc, reg, args)
}

func watchRender(cmd *cobra.Command, args []string) error {
	cc := NewCommandContext(cmd)
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	return declare.Watch(ctx, cc.Logger, func(reg *schema.Registry, err error) {
		if err == nil {
			err = renderRegistry(ctx, cc, reg, args)
		}
		if err != nil {
			cc.Renderer.Warn("%v", err)
			return
		}
		cc.Renderer.Success("rendered %d declaration(s), watching for changes", reg.Len())
	}, cc.Cfg.Schema...)
}

func renderRegistry(ctx context.Context, cc *CommandContext, reg *schema.Registry, args []string) error {
	profile, err := cc.Profile()
	if err != nil {
		return err
	}
	tables, err := selectTables(reg, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		tables = concrete(tables)
	}

	ddl, err := renderTables(ctx, tables, func(t *schema.Table) (string, error) {
		return t.Render(profile)
	})
	if err != nil {
		return err
	}
	if len(ddl) > 0 {
		cc.Renderer.Println(strings.Join(ddl, "\n\n"))
	}
	return nil
}

// renderTables renders tables concurrently and returns the results in input order.
func renderTables(ctx context.Context, tables []*schema.Table, render func(*schema.Table) (string, error)) ([]string, error) {
	out := make([]string, len(tables))
	g, ctx := errgroup.WithContext(ctx)
	for i, t := range tables {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ddl, err := render(t)
			if err != nil {
				return err
			}
			out[i] = ddl
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func concrete(tables []*schema.Table) []*schema.Table {
	out := tables[:0:0]
	for _, t := range tables {
		if !t.Abstract() {
			out = append(out, t)
		}
	}
	return out
}
