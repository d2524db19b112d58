package commands

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/leapmeta/internal/cli/output"
	"github.com/leapstack-labs/leapmeta/internal/deps"
	"github.com/spf13/cobra"
)

// DepsView is the YAML form of a type's dependency report.
type DepsView struct {
	Type         string      `yaml:"type"`
	Dependencies []deps.Edge `yaml:"dependencies"`
	Dependents   []deps.Edge `yaml:"dependents"`
	Affected     []string    `yaml:"affected"`
	Upstream     []string    `yaml:"upstream"`
}

// NewDepsCommand creates the deps command.
func NewDepsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deps <type>...",
		Short: "Show which types depend on a type",
		Long: `Show the dependencies between record types. A type depends on its parent
and on the types its REF fields point at.

For each named type, list its direct dependencies and dependents, the types
affected when it changes, and everything it relies on.`,
		Example: `  # What breaks if Foo changes?
  leapmeta deps Foo

  # Machine-readable report
  leapmeta deps qa.core.Foo -o yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeps(cmd, args)
		},
	}
	return cmd
}

func runDeps(cmd *cobra.Command, args []string) error {
	cc := NewCommandContext(cmd)
	reg, err := cc.Registry()
	if err != nil {
		return err
	}
	tables, err := selectTables(reg, args)
	if err != nil {
		return err
	}

	g := deps.Build(reg)
	views := make([]DepsView, 0, len(tables))
	for _, t := range tables {
		views = append(views, DepsView{
			Type:         t.Name(),
			Dependencies: nonNilEdges(g.Dependencies(t.Name())),
			Dependents:   nonNilEdges(g.Dependents(t.Name())),
			Affected:     g.Affected(t.Name()),
			Upstream:     g.Upstream(t.Name()),
		})
	}

	r := cc.Renderer
	if r.EffectiveMode() == output.ModeYAML {
		return r.YAML(views)
	}
	for i, v := range views {
		if i > 0 {
			r.Println()
		}
		depsText(r, v)
	}
	return nil
}

func depsText(r *output.Renderer, v DepsView) {
	r.Println(r.Header(v.Type))
	edges := slices.Concat(v.Dependencies, v.Dependents)
	if len(edges) > 0 {
		t := newTable(r.Writer())
		t.AppendHeader(table.Row{"From", "Kind", "To", "Field"})
		for _, e := range edges {
			t.AppendRow(table.Row{e.From, e.Kind, e.To, e.Field})
		}
		t.Render()
	}
	r.Println(r.Muted(fmt.Sprintf("affected (%d): %s", len(v.Affected), strings.Join(v.Affected, ", "))))
	if len(v.Upstream) > 0 {
		r.Println(r.Muted("upstream: " + strings.Join(v.Upstream, ", ")))
	}
}

func nonNilEdges(e []deps.Edge) []deps.Edge {
	if e == nil {
		return []deps.Edge{}
	}
	return e
}
