package record

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/leapstack-labs/leapmeta/pkg/core"
)

// ErrNoResolver is the cause of a CODEREF resolution attempted in a session
// without a code-object catalog.
var ErrNoResolver = errors.New("session has no code resolver")

// Ref is a container for REF columns. It stores a Handle and resolves it
// through the owning session.
type Ref struct {
	base
}

// Set stores a handle to target. A nil target clears the slot. The target must
// belong to the same session and be of the declared type or a subtype.
func (r Ref) Set(target *Record) error {
	if target == nil {
		return r.SetNull()
	}
	field := r.rec.table.ShortName() + "." + r.f.Name()
	if target.sess != r.rec.sess {
		return &core.TargetError{Field: field, Got: target.table.Name(), Reason: "record belongs to another session"}
	}
	if !target.table.IsA(r.f.Target()) {
		return &core.TargetError{Field: field, Want: r.f.Target(), Got: target.table.Name()}
	}
	r.store(target.Handle())
	return nil
}

// Get resolves the stored handle and marks the column read. A null slot
// yields (nil, nil). A handle whose record is gone yields *core.ResolutionError.
func (r Ref) Get() (*Record, error) {
	x := r.load()
	if x == nil {
		return nil, nil
	}
	h := x.(Handle)
	target, ok := r.rec.sess.Lookup(h)
	if !ok {
		return nil, &core.ResolutionError{Field: r.rec.table.ShortName() + "." + r.f.Name(), Key: h.String()}
	}
	return target, nil
}

// Handle returns the raw stored handle without resolving it.
func (r Ref) Handle() (Handle, bool) {
	h, ok := r.raw().(Handle)
	return h, ok
}

// Compare orders r against o by handle, null first.
func (r Ref) Compare(o Ref) int {
	return compareNullable(r.raw(), o.raw())
}

// RefField binds a REF column.
func RefField(rec *Record, name string) (Ref, error) {
	b, err := bind(rec, name, "REF", is(core.REF))
	if err != nil {
		return Ref{}, err
	}
	return Ref{b}, nil
}

// CodeRef is a container for CODEREF columns. It stores a catalog key.
type CodeRef struct {
	base
}

// Set stores the key of obj. obj needs a kind and a dot-free code. When the
// field names a catalog kind, obj must be of that kind.
func (c CodeRef) Set(obj core.CodeObject) error {
	field := c.rec.table.ShortName() + "." + c.f.Name()
	switch {
	case obj.Kind == "" || obj.Code == "":
		return &core.TargetError{Field: field, Got: strconv.Quote(obj.Key()), Reason: "code object needs a kind and a code"}
	case strings.Contains(obj.Code, "."):
		return &core.TargetError{Field: field, Got: strconv.Quote(obj.Key()), Reason: "code must not contain a dot"}
	}
	if kind := c.f.Target(); kind != "" && obj.Kind != kind {
		return &core.TargetError{Field: field, Want: kind, Got: obj.Kind}
	}
	c.store(obj.Key())
	return nil
}

// Key returns the stored key and marks the column read.
func (c CodeRef) Key() (string, bool) {
	x := c.load()
	if x == nil {
		return "", false
	}
	return x.(string), true
}

// Get resolves the stored key through the session's catalog. ok is false for
// null. Unknown keys, a failing catalog or a missing catalog yield
// *core.ResolutionError.
func (c CodeRef) Get(ctx context.Context) (obj core.CodeObject, ok bool, err error) {
	key, ok := c.Key()
	if !ok {
		return obj, false, nil
	}
	field := c.rec.table.ShortName() + "." + c.f.Name()
	res := c.rec.sess.resolver
	if res == nil {
		return obj, false, &core.ResolutionError{Field: field, Key: key, Cause: ErrNoResolver}
	}
	obj, err = res.Resolve(ctx, key)
	if err != nil {
		return core.CodeObject{}, false, &core.ResolutionError{Field: field, Key: key, Cause: err}
	}
	return obj, true, nil
}

// Compare orders c against o by key, null first.
func (c CodeRef) Compare(o CodeRef) int {
	return compareNullable(c.raw(), o.raw())
}

// CodeRefField binds a CODEREF column.
func CodeRefField(rec *Record, name string) (CodeRef, error) {
	b, err := bind(rec, name, "CODEREF", is(core.CODEREF))
	if err != nil {
		return CodeRef{}, err
	}
	return CodeRef{b}, nil
}
