package schema

import (
	"fmt"
	"slices"
	"strings"

	"github.com/leapstack-labs/leapmeta/pkg/dialect"
)

// Table is an immutable descriptor of one record type, including inherited
// columns. Safe for concurrent reads.
type Table struct {
	id       int
	name     string
	abstract bool
	parent   *Table
	fields   []*Field
	byName   map[string]*Field
	computed []*Computed
	members  []string
}

// ID returns the table id.
func (t *Table) ID() int { return t.id }

// Name returns the fully-qualified type name.
func (t *Table) Name() string { return t.name }

// ShortName returns the last segment of the type name.
func (t *Table) ShortName() string { return shortName(t.name) }

// Abstract reports whether the type cannot be instantiated.
func (t *Table) Abstract() bool { return t.abstract }

// Parent returns the supertype descriptor, or nil for root types.
func (t *Table) Parent() *Table { return t.parent }

// Fields returns the column descriptors in column order, inherited first.
func (t *Table) Fields() []*Field { return slices.Clone(t.fields) }

// NumFields returns the column count.
func (t *Table) NumFields() int { return len(t.fields) }

// Field returns the column descriptor at index i.
func (t *Table) Field(i int) *Field { return t.fields[i] }

// FieldByName looks a field up by column name, then by member name.
func (t *Table) FieldByName(name string) (*Field, bool) {
	f, ok := t.byName[name]
	return f, ok
}

// Computed returns the derived projections, inherited first.
func (t *Table) Computed() []*Computed { return slices.Clone(t.computed) }

// ComputedByName looks a computed projection up by name.
func (t *Table) ComputedByName(name string) (*Computed, bool) {
	for _, c := range t.computed {
		if c.name == name {
			return c, true
		}
	}
	return nil, false
}

// TransientMembers returns the names of the declared non-persistent members.
func (t *Table) TransientMembers() []string { return slices.Clone(t.members) }

// IsA reports whether the type is name or inherits from it.
func (t *Table) IsA(name string) bool {
	for cur := t; cur != nil; cur = cur.parent {
		if cur.name == name {
			return true
		}
	}
	return false
}

// String returns the debug form: "Short(id)" followed by one line per field.
func (t *Table) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s(%d)", t.ShortName(), t.id)
	for _, f := range t.fields {
		sb.WriteByte('\n')
		sb.WriteString(f.String())
	}
	return sb.String()
}

// Render returns the CREATE TABLE statement for profile p.
func (t *Table) Render(p *dialect.Profile) (string, error) {
	return Render(t, p)
}

// StorageLength sums the estimated stored byte length of every column.
func (t *Table) StorageLength(p *dialect.Profile) (int, error) {
	total := 0
	for _, f := range t.fields {
		n, err := p.StorageLength(f)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

func shortName(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}
