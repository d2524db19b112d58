package schema

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapmeta/pkg/dialect"
)

// Render returns the CREATE TABLE statement for t against profile p.
// Columns appear in field order, inherited first. A variant the profile does
// not map yields *core.NoAdapterError.
func Render(t *Table, p *dialect.Profile) (string, error) {
	if p == nil {
		return "", dialect.ErrProfileRequired
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "CREATE TABLE %s (", t.ShortName())
	comma := ""
	for _, f := range t.fields {
		schemaType, err := p.SchemaType(f)
		if err != nil {
			return "", fmt.Errorf("%s.%s: %w", t.ShortName(), f.name, err)
		}
		fmt.Fprintf(&sb, "%s\n\t%s %s %s", comma, f.name, schemaType, nullability(f.required))
		comma = ","
	}
	sb.WriteString("\n)")
	return sb.String(), nil
}
