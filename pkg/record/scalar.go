package record

import (
	"time"

	"github.com/google/uuid"
	"github.com/leapstack-labs/leapmeta/pkg/core"
)

// Scalar is a container for directly stored values: numbers, temporal values,
// identities and booleans.
type Scalar[T any] struct {
	base
}

// Get returns the value and marks the column read. ok is false for null.
func (s Scalar[T]) Get() (v T, ok bool) {
	x := s.load()
	if x == nil {
		return v, false
	}
	return x.(T), true
}

// Set stores v and marks the column dirty.
func (s Scalar[T]) Set(v T) { s.store(v) }

// Compare orders s against o by value, null first.
func (s Scalar[T]) Compare(o Scalar[T]) int {
	return compareNullable(s.raw(), o.raw())
}

func scalar[T any](rec *Record, name, want string, vs ...core.Variant) (Scalar[T], error) {
	b, err := bind(rec, name, want, is(vs...))
	if err != nil {
		return Scalar[T]{}, err
	}
	return Scalar[T]{base: b}, nil
}

// IntField binds an INT column.
func IntField(rec *Record, name string) (Scalar[int32], error) {
	return scalar[int32](rec, name, "INT", core.INT)
}

// LongField binds a LONG column.
func LongField(rec *Record, name string) (Scalar[int64], error) {
	return scalar[int64](rec, name, "LONG", core.LONG)
}

// NumericField binds a NUMERIC column.
func NumericField(rec *Record, name string) (Scalar[float64], error) {
	return scalar[float64](rec, name, "NUMERIC", core.NUMERIC)
}

// TimeField binds a DATE, TIME or TIMESTAMP column.
func TimeField(rec *Record, name string) (Scalar[time.Time], error) {
	return scalar[time.Time](rec, name, "DATE, TIME or TIMESTAMP", core.DATE, core.TIME, core.TIMESTAMP)
}

// UUIDField binds an identity column.
func UUIDField(rec *Record, name string) (Scalar[uuid.UUID], error) {
	return scalar[uuid.UUID](rec, name, "UUID", core.UUID)
}

// BoolField binds a BOOL column.
func BoolField(rec *Record, name string) (Scalar[bool], error) {
	return scalar[bool](rec, name, "BOOL", core.BOOL)
}
