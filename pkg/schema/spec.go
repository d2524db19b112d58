// Package schema builds immutable table descriptors from record type declarations.
//
// Declarations are plain values (TypeSpec, FieldSpec, MemberSpec, ComputedSpec)
// constructed once, either as Go literals or loaded from YAML by internal/declare.
// Build validates them, merges single-inheritance field lists and returns a
// Registry. No partial registry is ever returned.
package schema

import "github.com/leapstack-labs/leapmeta/pkg/core"

// TypeSpec declares one record type.
type TypeSpec struct {
	// ID is the positive table id, unique within a registry.
	ID int `mapstructure:"id" yaml:"id"`
	// Name is the fully-qualified, dot-separated type identity.
	Name string `mapstructure:"name" yaml:"name"`
	// Parent names the supertype. Empty for root record types.
	Parent   string `mapstructure:"parent" yaml:"parent,omitempty"`
	Abstract bool   `mapstructure:"abstract" yaml:"abstract,omitempty"`

	Fields   []FieldSpec    `mapstructure:"fields" yaml:"fields,omitempty"`
	Members  []MemberSpec   `mapstructure:"members" yaml:"members,omitempty"`
	Computed []ComputedSpec `mapstructure:"computed" yaml:"computed,omitempty"`
}

// FieldSpec declares one persistent field member. Zero values mean "use the
// variant default" for Length and Pattern; nil means the same for Required and
// Deferred.
type FieldSpec struct {
	Member  string       `mapstructure:"member" yaml:"member"`
	Column  string       `mapstructure:"column" yaml:"column,omitempty"`
	Variant core.Variant `mapstructure:"variant" yaml:"variant"`
	// Target is the referenced type name for REF, or the catalog kind for CODEREF.
	Target   string `mapstructure:"target" yaml:"target,omitempty"`
	Required *bool  `mapstructure:"required" yaml:"required,omitempty"`
	Deferred *bool  `mapstructure:"deferred" yaml:"deferred,omitempty"`
	Length   int    `mapstructure:"length" yaml:"length,omitempty"`
	Pattern  string `mapstructure:"pattern" yaml:"pattern,omitempty"`
	// Mutable marks a field member that may be reassigned after construction.
	// Such declarations are rejected.
	Mutable bool `mapstructure:"mutable" yaml:"mutable,omitempty"`
	// Index, when set, must equal the statically assigned column index.
	Index *int `mapstructure:"index" yaml:"index,omitempty"`
}

// MemberSpec declares a non-field member of a record type. Only members marked
// Transient are accepted; they are excluded from persistence.
type MemberSpec struct {
	Name      string `mapstructure:"name" yaml:"name"`
	Transient bool   `mapstructure:"transient" yaml:"transient,omitempty"`
}

// ComputedSpec declares a derived, read-only projection over another field.
type ComputedSpec struct {
	Name     string `mapstructure:"name" yaml:"name"`
	Function string `mapstructure:"function" yaml:"function"`
	Source   string `mapstructure:"source" yaml:"source"`
}

// Bool returns a pointer to b, for Required and Deferred overrides.
func Bool(b bool) *bool { return &b }

// Int returns a pointer to i, for explicit Index declarations.
func Int(i int) *int { return &i }
