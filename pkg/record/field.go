package record

import (
	"fmt"

	"github.com/leapstack-labs/leapmeta/pkg/core"
	"github.com/leapstack-labs/leapmeta/pkg/schema"
)

// Container is the capability set shared by every field container.
type Container interface {
	Owner() *Record
	Descriptor() *schema.Field
	Index() int
	Variant() core.Variant
	IsRequired() bool
	MaxLength() int
	IsNull() bool
	SetNull() error
	IsRead() bool
	IsDirty() bool
	String() string
}

// noCompare makes any struct embedding it fail to compile under ==.
// Containers are accessors, not values.
type noCompare [0]func()

type base struct {
	_   noCompare
	rec *Record
	f   *schema.Field
}

// Owner returns the record the container is bound to.
func (b base) Owner() *Record { return b.rec }

// Descriptor returns the column descriptor.
func (b base) Descriptor() *schema.Field { return b.f }

// Index returns the column index.
func (b base) Index() int { return b.f.Index() }

// Variant returns the column variant.
func (b base) Variant() core.Variant { return b.f.Variant() }

// IsRequired reports whether null is rejected.
func (b base) IsRequired() bool { return b.f.Required() }

// MaxLength returns the declared length, or 0.
func (b base) MaxLength() int { return b.f.Length() }

// IsNull reports whether the slot holds no value. It does not mark the column read.
func (b base) IsNull() bool { return b.rec.IsNull(b.f.Index()) }

// IsRead reports whether the column has been read.
func (b base) IsRead() bool { return b.rec.IsRead(b.f.Index()) }

// IsDirty reports whether the column has been written.
func (b base) IsDirty() bool { return b.rec.IsDirty(b.f.Index()) }

// SetNull clears the slot. Required fields reject it.
func (b base) SetNull() error {
	if b.f.Required() {
		return &core.NullabilityError{Type: b.rec.table.ShortName(), Field: b.f.Name()}
	}
	b.rec.put(b.f.Index(), nil)
	return nil
}

// String returns the field title and raw slot value. It does not mark the
// column read.
func (b base) String() string {
	return b.f.Title() + " " + formatValue(b.rec.slots[b.f.Index()])
}

func (b base) load() any { return b.rec.get(b.f.Index()) }

func (b base) store(v any) { b.rec.put(b.f.Index(), v) }

func (b base) raw() any { return b.rec.slots[b.f.Index()] }

func bind(rec *Record, name, want string, accept func(core.Variant) bool) (base, error) {
	f, ok := rec.table.FieldByName(name)
	if !ok {
		return base{}, &core.BindError{Type: rec.table.ShortName(), Field: name, Want: want}
	}
	if !accept(f.Variant()) {
		return base{}, &core.BindError{Type: rec.table.ShortName(), Field: name, Want: want, Got: f.Variant()}
	}
	return base{rec: rec, f: f}, nil
}

func is(vs ...core.Variant) func(core.Variant) bool {
	return func(v core.Variant) bool {
		for _, x := range vs {
			if v == x {
				return true
			}
		}
		return false
	}
}

// Must panics if err is non-nil. It is meant for typed wrappers whose field
// names are fixed at compile time.
func Must[C any](c C, err error) C {
	if err != nil {
		panic(fmt.Sprintf("record: %v", err))
	}
	return c
}
