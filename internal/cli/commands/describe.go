package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapmeta/internal/cli/output"
	"github.com/leapstack-labs/leapmeta/pkg/dialect"
	"github.com/leapstack-labs/leapmeta/pkg/schema"
	"github.com/spf13/cobra"
)

// TableView is the YAML form of a table descriptor.
type TableView struct {
	ID        int            `yaml:"id"`
	Name      string         `yaml:"name"`
	Parent    string         `yaml:"parent,omitempty"`
	Abstract  bool           `yaml:"abstract,omitempty"`
	Bytes     int            `yaml:"bytes,omitempty"`
	Fields    []FieldView    `yaml:"fields"`
	Computed  []ComputedView `yaml:"computed,omitempty"`
	Transient []string       `yaml:"transient,omitempty"`
}

// FieldView is the YAML form of a field descriptor.
type FieldView struct {
	Index    int    `yaml:"index"`
	Name     string `yaml:"name"`
	Member   string `yaml:"member,omitempty"`
	Variant  string `yaml:"variant"`
	Type     string `yaml:"type,omitempty"`
	Target   string `yaml:"target,omitempty"`
	Length   int    `yaml:"length"`
	Required bool   `yaml:"required"`
	Deferred bool   `yaml:"deferred,omitempty"`
	Pattern  string `yaml:"pattern,omitempty"`
	Owner    string `yaml:"owner"`
}

// ComputedView is the YAML form of a computed member.
type ComputedView struct {
	Name     string `yaml:"name"`
	Function string `yaml:"function"`
	Source   string `yaml:"source"`
	Massive  bool   `yaml:"massive,omitempty"`
}

// NewDescribeCommand creates the describe command.
func NewDescribeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe [type...]",
		Short: "Describe record types and their fields",
		Long: `Describe declared record types: inherited and own fields in column order,
computed members and transient members. Schema types and the estimated row
size come from the configured profile when it maps every variant.

Output adapts to environment:
  - Terminal: Styled text
  - Piped/Scripted: YAML`,
		Example: `  # Describe every type
  leapmeta describe

  # Describe one type as YAML
  leapmeta describe Foo -o yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDescribe(cmd, args)
		},
	}
	return cmd
}

func runDescribe(cmd *cobra.Command, args []string) error {
	cc := NewCommandContext(cmd)
	reg, err := cc.Registry()
	if err != nil {
		return err
	}
	tables, err := selectTables(reg, args)
	if err != nil {
		return err
	}
	profile, err := cc.Profile()
	if err != nil {
		return err
	}

	r := cc.Renderer
	if r.EffectiveMode() == output.ModeYAML {
		views := make([]TableView, 0, len(tables))
		for _, t := range tables {
			views = append(views, tableView(t, profile))
		}
		return r.YAML(views)
	}

	for i, t := range tables {
		if i > 0 {
			r.Println()
		}
		describeText(r, t, profile)
	}
	return nil
}

func describeText(r *output.Renderer, t *schema.Table, p *dialect.Profile) {
	lines := strings.Split(t.String(), "\n")
	info := t.Name()
	if t.Parent() != nil {
		info += " extends " + t.Parent().ShortName()
	}
	if t.Abstract() {
		info += ", abstract"
	}
	if n, err := t.StorageLength(p); err == nil {
		info += fmt.Sprintf(", %d bytes on %s", n, p.Name)
	}
	r.Println(r.Header(lines[0]), r.Muted(info))

	for _, line := range lines[1:] {
		r.Println("  " + line)
	}
	for _, c := range t.Computed() {
		r.Println("  " + c.String())
	}
	if members := t.TransientMembers(); len(members) > 0 {
		r.Println(r.Muted("  transient: " + strings.Join(members, ", ")))
	}
}

func tableView(t *schema.Table, p *dialect.Profile) TableView {
	v := TableView{
		ID:        t.ID(),
		Name:      t.Name(),
		Abstract:  t.Abstract(),
		Transient: t.TransientMembers(),
	}
	if t.Parent() != nil {
		v.Parent = t.Parent().Name()
	}
	if n, err := t.StorageLength(p); err == nil {
		v.Bytes = n
	}

	for _, f := range t.Fields() {
		fv := FieldView{
			Index:    f.Index(),
			Name:     f.Name(),
			Variant:  f.Variant().String(),
			Target:   f.Target(),
			Length:   f.Length(),
			Required: f.Required(),
			Deferred: f.Deferred(),
			Pattern:  f.Pattern(),
			Owner:    f.Owner(),
		}
		if f.Member() != f.Name() {
			fv.Member = f.Member()
		}
		if typ, err := p.SchemaType(f); err == nil {
			fv.Type = typ
		}
		v.Fields = append(v.Fields, fv)
	}

	for _, c := range t.Computed() {
		v.Computed = append(v.Computed, ComputedView{
			Name:     c.Name(),
			Function: c.Function(),
			Source:   c.Source().Name(),
			Massive:  c.Massive(),
		})
	}
	return v
}
