package schema

import (
	"fmt"
	"regexp"

	"github.com/leapstack-labs/leapmeta/pkg/core"
)

// Field is an immutable column descriptor. It implements dialect.Column.
type Field struct {
	name     string
	member   string
	variant  core.Variant
	target   string
	index    int
	length   int
	required bool
	deferred bool
	pattern  *regexp.Regexp
	owner    string
}

// Name returns the column name.
func (f *Field) Name() string { return f.name }

// Member returns the declared member name.
func (f *Field) Member() string { return f.member }

// Variant returns the logical storage class.
func (f *Field) Variant() core.Variant { return f.variant }

// Target returns the REF target type or CODEREF catalog kind.
func (f *Field) Target() string { return f.target }

// Index returns the column position.
func (f *Field) Index() int { return f.index }

// Length returns the maximum length. Zero for variants without one.
func (f *Field) Length() int { return f.length }

// Required reports whether null is rejected.
func (f *Field) Required() bool { return f.required }

// Deferred reports whether consumers may skip loading the field eagerly.
func (f *Field) Deferred() bool { return f.deferred }

// Owner returns the name of the declaring type.
func (f *Field) Owner() string { return f.owner }

// Pattern returns the value pattern source, or "".
func (f *Field) Pattern() string {
	if f.pattern == nil {
		return ""
	}
	return f.pattern.String()
}

// Matches reports whether s satisfies the field pattern. Fields without a
// pattern match everything.
func (f *Field) Matches(s string) bool {
	return f.pattern == nil || f.pattern.MatchString(s)
}

// Title returns "name:VARIANT[index]", with "<Target>" after the variant for
// reference fields.
func (f *Field) Title() string {
	if f.target != "" {
		return fmt.Sprintf("%s:%s<%s>[%d]", f.name, f.variant, shortName(f.target), f.index)
	}
	return fmt.Sprintf("%s:%s[%d]", f.name, f.variant, f.index)
}

func (f *Field) String() string {
	sep := " "
	if f.deferred {
		sep = " DEFERRED "
	}
	return fmt.Sprintf("%s:%s[%d] %s%s%d", f.name, f.variant, f.index, nullability(f.required), sep, f.length)
}

func nullability(required bool) string {
	if required {
		return "NOT NULL"
	}
	return "NULL"
}

// Computed is an immutable descriptor of a derived projection.
type Computed struct {
	name     string
	function string
	massive  bool
	source   *Field
	owner    string
}

// Name returns the projection name.
func (c *Computed) Name() string { return c.name }

// Function returns the function name, lower case.
func (c *Computed) Function() string { return c.function }

// Massive reports whether the function aggregates over many records.
func (c *Computed) Massive() bool { return c.massive }

// Source returns the field the projection reads.
func (c *Computed) Source() *Field { return c.source }

// Owner returns the name of the declaring type.
func (c *Computed) Owner() string { return c.owner }

func (c *Computed) String() string {
	kind := "row"
	if c.massive {
		kind = "massive"
	}
	return fmt.Sprintf("%s:%s %s(%s) %s", c.name, core.FUNC, c.function, c.source.name, kind)
}
