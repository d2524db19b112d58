package dialect

import "fmt"

type fixed struct {
	schemaType string
	bytes      int
}

func (f fixed) SchemaType(Column) string { return f.schemaType }
func (f fixed) StorageLength(Column) int { return f.bytes }
func (f fixed) String() string           { return f.schemaType }

// Fixed maps a variant to a constant schema type with a constant storage size.
func Fixed(schemaType string, bytes int) TypeAdapter {
	return fixed{schemaType: schemaType, bytes: bytes}
}

type sized struct {
	format  string
	perUnit int
}

func (s sized) SchemaType(c Column) string { return fmt.Sprintf(s.format, c.Length()) }
func (s sized) StorageLength(c Column) int { return c.Length() * s.perUnit }

// Sized maps a variant to a length-parameterised schema type such as
// "varchar(%d)". Storage is the declared length times perUnit bytes.
func Sized(format string, perUnit int) TypeAdapter {
	return sized{format: format, perUnit: perUnit}
}

type scaled struct {
	schemaType string
	perUnit    int
}

func (s scaled) SchemaType(Column) string   { return s.schemaType }
func (s scaled) StorageLength(c Column) int { return c.Length() * s.perUnit }

// Scaled maps a variant to a constant schema type whose storage estimate still
// follows the declared length, as for unbounded text and binary payloads.
func Scaled(schemaType string, perUnit int) TypeAdapter {
	return scaled{schemaType: schemaType, perUnit: perUnit}
}

// AdapterFunc adapts two plain functions to TypeAdapter.
type AdapterFunc struct {
	Type   func(Column) string
	Length func(Column) int
}

// SchemaType calls f.Type.
func (f AdapterFunc) SchemaType(c Column) string { return f.Type(c) }

// StorageLength calls f.Length, or returns 0 when it is nil.
func (f AdapterFunc) StorageLength(c Column) int {
	if f.Length == nil {
		return 0
	}
	return f.Length(c)
}
