package commands

import (
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/leapmeta/internal/cli/output"
	"github.com/leapstack-labs/leapmeta/pkg/adapter"
	"github.com/leapstack-labs/leapmeta/pkg/core"
	"github.com/leapstack-labs/leapmeta/pkg/dialect"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// sampleLength is the declared length used to show sized type mappings.
const sampleLength = 10

// ProfileView is the YAML form of a dialect profile.
type ProfileView struct {
	Name          string            `yaml:"name"`
	Driver        string            `yaml:"driver"`
	DefaultPort   int               `yaml:"default_port,omitempty"`
	DefaultSchema string            `yaml:"default_schema,omitempty"`
	Renders       bool              `yaml:"renders"`
	Connects      bool              `yaml:"connects"`
	Types         map[string]string `yaml:"types,omitempty"`
}

// NewProfilesCommand creates the profiles command.
func NewProfilesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles [name]",
		Short: "List dialect profiles and their type mappings",
		Long: `List the registered dialect profiles. A profile renders DDL when it maps
every variant, and connects when a connection adapter is registered for it.

With a profile name, show the schema type and stored bytes of each variant.
Sized types are shown for a declared length of 10.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			if len(args) == 1 {
				return showProfile(cc.Renderer, args[0])
			}
			return listProfiles(cc.Renderer)
		},
	}
	return cmd
}

func listProfiles(r *output.Renderer) error {
	names := dialect.List()
	if r.EffectiveMode() == output.ModeYAML {
		views := make([]ProfileView, 0, len(names))
		for _, name := range names {
			views = append(views, profileView(dialect.MustGet(name), false))
		}
		return r.YAML(views)
	}

	title := cases.Title(language.English)
	t := newTable(r.Writer())
	t.AppendHeader(table.Row{"Profile", "Driver", "Port", "Schema", "Renders", "Connects"})
	for _, name := range names {
		p := dialect.MustGet(name)
		port := ""
		if p.DefaultPort > 0 {
			port = strconv.Itoa(p.DefaultPort)
		}
		t.AppendRow(table.Row{title.String(p.Name), p.Driver, port, p.DefaultSchema,
			yesNo(p.CanRender()), yesNo(adapter.IsRegistered(p.Name))})
	}
	t.Render()
	return nil
}

func showProfile(r *output.Renderer, name string) error {
	p, err := dialect.Lookup(name)
	if err != nil {
		return err
	}
	if r.EffectiveMode() == output.ModeYAML {
		return r.YAML(profileView(p, true))
	}

	r.Println(r.Header(cases.Title(language.English).String(p.Name)), r.Muted(p.URL("host", 0, "database")))
	t := newTable(r.Writer())
	t.AppendHeader(table.Row{"Variant", "Type", "Bytes"})
	for _, v := range core.Variants() {
		if v == core.FUNC {
			continue
		}
		typ, bytes := "-", "-"
		if p.Supports(v) {
			c := sampleColumn{variant: v}
			typ, _ = p.SchemaType(c)
			n, _ := p.StorageLength(c)
			bytes = strconv.Itoa(n)
		}
		t.AppendRow(table.Row{v, typ, bytes})
	}
	t.Render()
	return nil
}

func profileView(p *dialect.Profile, withTypes bool) ProfileView {
	v := ProfileView{
		Name:          p.Name,
		Driver:        p.Driver,
		DefaultPort:   p.DefaultPort,
		DefaultSchema: p.DefaultSchema,
		Renders:       p.CanRender(),
		Connects:      adapter.IsRegistered(p.Name),
	}
	if withTypes {
		v.Types = make(map[string]string)
		for _, variant := range p.Variants() {
			typ, err := p.SchemaType(sampleColumn{variant: variant})
			if err == nil {
				v.Types[variant.String()] = typ
			}
		}
	}
	return v
}

// sampleColumn is a stand-in column for showing type mappings.
type sampleColumn struct {
	variant core.Variant
}

func (c sampleColumn) Name() string          { return "sample" }
func (c sampleColumn) Variant() core.Variant { return c.variant }
func (c sampleColumn) Length() int           { return sampleLength }

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
