package record

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/leapstack-labs/leapmeta/pkg/core"
	"github.com/leapstack-labs/leapmeta/pkg/schema"
)

// Handle is a weak reference to a record: its table id and identity key.
type Handle struct {
	Table int
	Key   uuid.UUID
}

// IsZero reports whether h refers to nothing.
func (h Handle) IsZero() bool {
	return h.Table == 0 && h.Key == uuid.Nil
}

func (h Handle) String() string {
	return fmt.Sprintf("%d:%s", h.Table, h.Key)
}

// Record is one instance of a record type: a value slot per column plus read
// and dirty bits. A nil slot is null.
type Record struct {
	table *schema.Table
	sess  *Session
	key   uuid.UUID
	slots []any
	read  bitset
	dirty bitset
}

func newRecord(s *Session, t *schema.Table) *Record {
	n := t.NumFields()
	r := &Record{
		table: t,
		sess:  s,
		key:   uuid.New(),
		slots: make([]any, n),
		read:  newBitset(n),
		dirty: newBitset(n),
	}
	for i := 0; i < n; i++ {
		switch t.Field(i).Variant() {
		case core.BOOL:
			r.slots[i] = false
		case core.UUID:
			r.slots[i] = uuid.New()
		}
	}
	return r
}

// Table returns the record's descriptor.
func (r *Record) Table() *schema.Table { return r.table }

// Session returns the session that created the record.
func (r *Record) Session() *Session { return r.sess }

// Key returns the record's identity key.
func (r *Record) Key() uuid.UUID { return r.key }

// Handle returns a weak reference to the record.
func (r *Record) Handle() Handle {
	return Handle{Table: r.table.ID(), Key: r.key}
}

// IsNull reports whether column i holds no value. It does not mark the
// column read.
func (r *Record) IsNull(i int) bool { return r.slots[i] == nil }

// IsRead reports whether column i has been read.
func (r *Record) IsRead(i int) bool { return r.read.has(i) }

// IsDirty reports whether column i has been written.
func (r *Record) IsDirty(i int) bool { return r.dirty.has(i) }

// DirtyFields returns the written columns in column order.
func (r *Record) DirtyFields() []*schema.Field { return r.fields(r.dirty) }

// ReadFields returns the read columns in column order.
func (r *Record) ReadFields() []*schema.Field { return r.fields(r.read) }

// ClearDirty resets every dirty bit.
func (r *Record) ClearDirty() { r.dirty.reset() }

// ClearRead resets every read bit.
func (r *Record) ClearRead() { r.read.reset() }

func (r *Record) fields(b bitset) []*schema.Field {
	idx := b.indices()
	out := make([]*schema.Field, len(idx))
	for i, n := range idx {
		out[i] = r.table.Field(n)
	}
	return out
}

// Save hands the dirty columns to the session's save hook. Nothing is persisted
// by default.
func (r *Record) Save(ctx context.Context) error {
	if err := r.sess.save(ctx, r, r.DirtyFields()); err != nil {
		return fmt.Errorf("failed to save %s: %w", r.table.ShortName(), err)
	}
	return nil
}

// String returns "Short@key" followed by each field title and raw value.
func (r *Record) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s@%s", r.table.ShortName(), r.key)
	for i, v := range r.slots {
		sb.WriteByte(' ')
		sb.WriteString(r.table.Field(i).Title())
		sb.WriteByte(' ')
		sb.WriteString(formatValue(v))
	}
	return sb.String()
}

func (r *Record) get(i int) any {
	r.read.set(i)
	return r.slots[i]
}

func (r *Record) put(i int, v any) {
	r.slots[i] = v
	r.dirty.set(i)
}
