package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/leapmeta/internal/catalog"
	"github.com/leapstack-labs/leapmeta/internal/cli/output"
	"github.com/leapstack-labs/leapmeta/pkg/core"
	"github.com/spf13/cobra"
)

// NewCatalogCommand creates the catalog command group.
func NewCatalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the code-object catalog",
		Long: `Manage the code objects that CODEREF fields point at. Each object is
identified by a "kind.code" key, for example sex.F, and carries a label.

The catalog is a SQLite database at the configured catalog path.`,
	}

	cmd.AddCommand(newCatalogListCommand())
	cmd.AddCommand(newCatalogPutCommand())
	cmd.AddCommand(newCatalogGetCommand())
	cmd.AddCommand(newCatalogDeleteCommand())
	return cmd
}

func newCatalogListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list [kind]",
		Short: "List code objects, optionally of one kind",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := ""
			if len(args) == 1 {
				kind = args[0]
			}
			return withCatalog(cmd, func(ctx context.Context, cc *CommandContext, store *catalog.SQLiteStore) error {
				objs, err := store.List(ctx, kind)
				if err != nil {
					return err
				}
				return printCodeObjects(cc.Renderer, objs)
			})
		},
	}
}

func newCatalogPutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "put <kind> <code> [label...]",
		Short: "Add or relabel a code object",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			obj := core.CodeObject{Kind: args[0], Code: args[1], Label: strings.Join(args[2:], " ")}
			return withCatalog(cmd, func(ctx context.Context, cc *CommandContext, store *catalog.SQLiteStore) error {
				if err := store.Put(ctx, obj); err != nil {
					return err
				}
				cc.Renderer.Success("stored %s", obj)
				return nil
			})
		},
	}
}

func newCatalogGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <kind.code>",
		Short: "Resolve one code object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCatalog(cmd, func(ctx context.Context, cc *CommandContext, store *catalog.SQLiteStore) error {
				obj, err := store.Resolve(ctx, args[0])
				if err != nil {
					return err
				}
				return printCodeObjects(cc.Renderer, []core.CodeObject{obj})
			})
		},
	}
}

func newCatalogDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <kind.code>",
		Short: "Remove a code object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCatalog(cmd, func(ctx context.Context, cc *CommandContext, store *catalog.SQLiteStore) error {
				if err := store.Delete(ctx, args[0]); err != nil {
					return err
				}
				cc.Renderer.Success("deleted %s", args[0])
				return nil
			})
		},
	}
}

// withCatalog opens the configured catalog, creating its directory if needed,
// and closes it after fn returns.
func withCatalog(cmd *cobra.Command, fn func(context.Context, *CommandContext, *catalog.SQLiteStore) error) error {
	cc := NewCommandContext(cmd)
	path := cc.Cfg.Catalog
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create catalog directory: %w", err)
		}
	}

	ctx := cmd.Context()
	store := catalog.NewSQLiteStore(cc.Logger)
	if err := store.Open(ctx, path); err != nil {
		return err
	}
	defer func() { _ = store.Close() }()
	return fn(ctx, cc, store)
}

func printCodeObjects(r *output.Renderer, objs []core.CodeObject) error {
	if r.EffectiveMode() == output.ModeYAML {
		type entry struct {
			Key   string `yaml:"key"`
			Label string `yaml:"label"`
		}
		entries := make([]entry, 0, len(objs))
		for _, o := range objs {
			entries = append(entries, entry{Key: o.Key(), Label: o.Label})
		}
		return r.YAML(entries)
	}

	if len(objs) == 0 {
		r.Println(r.Muted("(no code objects)"))
		return nil
	}
	t := newTable(r.Writer())
	t.AppendHeader(table.Row{"Kind", "Code", "Label"})
	for _, o := range objs {
		t.AppendRow(table.Row{o.Kind, o.Code, o.Label})
	}
	t.Render()
	return nil
}
