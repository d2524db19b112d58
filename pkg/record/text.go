package record

import (
	"unicode/utf8"

	"github.com/leapstack-labs/leapmeta/pkg/core"
)

type textBase struct {
	base
}

// Get returns the value and marks the column read. ok is false for null.
func (t textBase) Get() (string, bool) {
	x := t.load()
	if x == nil {
		return "", false
	}
	return x.(string), true
}

// Set validates and stores s. A value longer than the declared length, counted
// in characters, is rejected and the slot is left untouched. So is a value
// that does not match the field pattern.
func (t textBase) Set(s string) error {
	if t.f.Variant().IsBoundedText() {
		if n := utf8.RuneCountInString(s); n > t.f.Length() {
			return &core.LengthError{Type: t.rec.table.ShortName(), Field: t.f.Name(), Max: t.f.Length(), Got: n}
		}
	}
	if !t.f.Matches(s) {
		return &core.PatternError{Type: t.rec.table.ShortName(), Field: t.f.Name(), Pattern: t.f.Pattern()}
	}
	t.store(s)
	return nil
}

// Text is a container for bounded text: STR, VARCHAR and CHAR.
type Text struct {
	textBase
}

// Compare orders t against o by value, null first.
func (t Text) Compare(o Text) int {
	return compareNullable(t.raw(), o.raw())
}

// LongText is a container for unbounded LONGSTR text. It has no ordering.
type LongText struct {
	textBase
}

// TextField binds a STR, VARCHAR or CHAR column.
func TextField(rec *Record, name string) (Text, error) {
	b, err := bind(rec, name, "bounded text", core.Variant.IsBoundedText)
	if err != nil {
		return Text{}, err
	}
	return Text{textBase{b}}, nil
}

// LongTextField binds a LONGSTR column.
func LongTextField(rec *Record, name string) (LongText, error) {
	b, err := bind(rec, name, "LONGSTR", is(core.LONGSTR))
	if err != nil {
		return LongText{}, err
	}
	return LongText{textBase{b}}, nil
}

// Blob is a container for IMAGE payloads. Length is not checked.
type Blob struct {
	base
}

// Get returns a copy of the payload and marks the column read.
func (b Blob) Get() ([]byte, bool) {
	x := b.load()
	if x == nil {
		return nil, false
	}
	return append([]byte(nil), x.([]byte)...), true
}

// Set stores a copy of p. A nil p stores an empty payload; use SetNull to clear.
func (b Blob) Set(p []byte) {
	b.store(append([]byte{}, p...))
}

// Len returns the payload size without marking the column read.
func (b Blob) Len() int {
	if x, ok := b.raw().([]byte); ok {
		return len(x)
	}
	return 0
}

// BlobField binds an IMAGE column.
func BlobField(rec *Record, name string) (Blob, error) {
	b, err := bind(rec, name, "IMAGE", is(core.IMAGE))
	if err != nil {
		return Blob{}, err
	}
	return Blob{b}, nil
}
