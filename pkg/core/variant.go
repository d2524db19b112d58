package core

import (
	"fmt"
	"strings"
)

// Variant is the logical storage class of a declared field.
type Variant int

const (
	// VariantInvalid is the zero value and never valid in a declaration.
	VariantInvalid Variant = iota
	// UUID is the identity variant. Values are uuid.UUID.
	UUID
	INT
	LONG
	NUMERIC
	DATE
	TIME
	TIMESTAMP
	BOOL
	STR
	VARCHAR
	CHAR
	LONGSTR
	IMAGE
	REF
	CODEREF
	// FUNC marks a computed projection over another field. Never stored.
	FUNC
)

var variantNames = [...]string{
	VariantInvalid: "INVALID",
	UUID:           "UUID",
	INT:            "INT",
	LONG:           "LONG",
	NUMERIC:        "NUMERIC",
	DATE:           "DATE",
	TIME:           "TIME",
	TIMESTAMP:      "TIMESTAMP",
	BOOL:           "BOOL",
	STR:            "STR",
	VARCHAR:        "VARCHAR",
	CHAR:           "CHAR",
	LONGSTR:        "LONGSTR",
	IMAGE:          "IMAGE",
	REF:            "REF",
	CODEREF:        "CODEREF",
	FUNC:           "FUNC",
}

// String returns the upper-case variant name.
func (v Variant) String() string {
	if v < 0 || int(v) >= len(variantNames) {
		return fmt.Sprintf("Variant(%d)", int(v))
	}
	return variantNames[v]
}

// ParseVariant resolves a variant by name, case-insensitively.
// "IDENTITY" is accepted as an alias for UUID.
func ParseVariant(name string) (Variant, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	if upper == "IDENTITY" {
		return UUID, nil
	}
	for v := UUID; v <= FUNC; v++ {
		if variantNames[v] == upper {
			return v, nil
		}
	}
	return VariantInvalid, fmt.Errorf("unknown variant %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (v Variant) MarshalText() ([]byte, error) {
	if !v.IsValid() {
		return nil, fmt.Errorf("cannot marshal %s", v)
	}
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using ParseVariant.
func (v *Variant) UnmarshalText(text []byte) error {
	parsed, err := ParseVariant(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Variants returns every declarable variant in tag order.
func Variants() []Variant {
	out := make([]Variant, 0, int(FUNC))
	for v := UUID; v <= FUNC; v++ {
		out = append(out, v)
	}
	return out
}

// Defaults holds the per-variant values used when a field declaration does not
// override them.
type Defaults struct {
	Required bool
	Deferred bool
	Length   int
	Pattern  string
}

// Defaults returns the variant's declaration defaults.
func (v Variant) Defaults() Defaults {
	switch v {
	case UUID, BOOL:
		return Defaults{Required: true}
	case LONGSTR, IMAGE:
		return Defaults{Deferred: true}
	default:
		return Defaults{}
	}
}

// IsValid reports whether v is a declarable variant.
func (v Variant) IsValid() bool {
	return v >= UUID && v <= FUNC
}

// IsBoundedText reports whether the variant requires a positive length.
func (v Variant) IsBoundedText() bool {
	return v == STR || v == VARCHAR || v == CHAR
}

// IsText reports whether values of the variant are strings held in the record.
func (v Variant) IsText() bool {
	return v.IsBoundedText() || v == LONGSTR
}

// MustBeRequired reports whether a declaration may never make the field nullable.
func (v Variant) MustBeRequired() bool {
	return v == UUID || v == BOOL
}

// IsComparable reports whether containers of this variant support ordering.
func (v Variant) IsComparable() bool {
	switch v {
	case LONGSTR, IMAGE, FUNC, VariantInvalid:
		return false
	default:
		return v.IsValid()
	}
}

// IsReference reports whether the variant stores an indirect key rather than
// the value itself.
func (v Variant) IsReference() bool {
	return v == REF || v == CODEREF
}
