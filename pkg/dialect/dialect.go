// Package dialect provides database profiles and their per-variant type adapters.
//
// A Profile pairs connection parameters (driver, URL template, default port) with
// the mapping from each field Variant to a concrete schema type. Rendering uses
// only the mapping; connection adapters in pkg/adapters use only the connection
// parameters. Concrete profiles are registered from builtin.go.
package dialect

import (
	"fmt"
	"sort"

	"github.com/leapstack-labs/leapmeta/pkg/core"
)

// Column is the read-only view of a field descriptor that type adapters need.
type Column interface {
	Name() string
	Variant() core.Variant
	Length() int
}

// TypeAdapter maps one variant to a schema type string and a storage estimate.
// Implementations must be stateless.
type TypeAdapter interface {
	SchemaType(c Column) string
	StorageLength(c Column) int
}

// Profile represents a database dialect profile.
type Profile struct {
	Name          string
	Driver        string // database/sql driver name
	URLTemplate   string // fmt template over (host, port, database)
	DefaultPort   int
	DefaultSchema string

	adapters map[core.Variant]TypeAdapter
}

// Adapter returns the type adapter for a variant.
func (p *Profile) Adapter(v core.Variant) (TypeAdapter, error) {
	if a, ok := p.adapters[v]; ok {
		return a, nil
	}
	return nil, &core.NoAdapterError{Profile: p.Name, Variant: v}
}

// SchemaType renders the schema type for a column.
func (p *Profile) SchemaType(c Column) (string, error) {
	a, err := p.Adapter(c.Variant())
	if err != nil {
		return "", err
	}
	return a.SchemaType(c), nil
}

// StorageLength estimates the stored byte length of a column.
func (p *Profile) StorageLength(c Column) (int, error) {
	a, err := p.Adapter(c.Variant())
	if err != nil {
		return 0, err
	}
	return a.StorageLength(c), nil
}

// Supports reports whether the profile maps a variant.
func (p *Profile) Supports(v core.Variant) bool {
	_, ok := p.adapters[v]
	return ok
}

// Variants returns the mapped variants in tag order.
func (p *Profile) Variants() []core.Variant {
	out := make([]core.Variant, 0, len(p.adapters))
	for v := range p.adapters {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// CanRender reports whether the profile carries any type mapping at all.
// Connection-only profiles return false.
func (p *Profile) CanRender() bool {
	return len(p.adapters) > 0
}

// URL formats the connection URL. A zero port selects the default port.
func (p *Profile) URL(host string, port int, database string) string {
	if port == 0 {
		port = p.DefaultPort
	}
	return fmt.Sprintf(p.URLTemplate, host, port, database)
}

// Builder provides a fluent API for constructing profiles.
type Builder struct {
	profile *Profile
}

// NewProfile creates a new profile builder with the given name.
func NewProfile(name string) *Builder {
	return &Builder{
		profile: &Profile{
			Name:     name,
			adapters: make(map[core.Variant]TypeAdapter),
		},
	}
}

// Driver sets the database/sql driver name.
func (b *Builder) Driver(name string) *Builder {
	b.profile.Driver = name
	return b
}

// URLTemplate sets the connection URL template. It receives host, port and
// database in that order; use explicit argument indexes to skip any of them.
func (b *Builder) URLTemplate(format string) *Builder {
	b.profile.URLTemplate = format
	return b
}

// DefaultPort sets the port used when a connection does not name one.
func (b *Builder) DefaultPort(port int) *Builder {
	b.profile.DefaultPort = port
	return b
}

// DefaultSchema sets the schema used for unqualified table names.
func (b *Builder) DefaultSchema(schema string) *Builder {
	b.profile.DefaultSchema = schema
	return b
}

// Adapter maps one variant.
func (b *Builder) Adapter(v core.Variant, a TypeAdapter) *Builder {
	b.profile.adapters[v] = a
	return b
}

// Adapters maps several variants at once.
func (b *Builder) Adapters(m map[core.Variant]TypeAdapter) *Builder {
	for v, a := range m {
		b.profile.adapters[v] = a
	}
	return b
}

// Extends copies every type mapping of base. Later calls override.
func (b *Builder) Extends(base *Profile) *Builder {
	for v, a := range base.adapters {
		b.profile.adapters[v] = a
	}
	return b
}

// Build returns the constructed profile. The builder must not be reused.
func (b *Builder) Build() *Profile {
	p := b.profile
	b.profile = nil
	return p
}
