package record

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/leapstack-labs/leapmeta/internal/testutil"
	"github.com/leapstack-labs/leapmeta/pkg/core"
	"github.com/leapstack-labs/leapmeta/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureRegistry(t *testing.T) *schema.Registry {
	t.Helper()
	reg, err := schema.Build([]schema.TypeSpec{
		{
			ID: 1, Name: "qa.core.Entity", Abstract: true,
			Fields: []schema.FieldSpec{{Member: "id", Variant: core.UUID}},
		},
		{
			ID: 2, Name: "qa.core.Foo", Parent: "qa.core.Entity",
			Fields: []schema.FieldSpec{
				{Member: "name", Variant: core.VARCHAR, Length: 5},
				{Member: "code", Variant: core.CHAR, Length: 3, Pattern: "^[A-Z]+$"},
				{Member: "age", Variant: core.INT},
				{Member: "income", Variant: core.LONG},
				{Member: "rate", Variant: core.NUMERIC},
				{Member: "born", Variant: core.DATE},
				{Member: "sex", Variant: core.CODEREF, Target: "sex"},
				{Member: "flag", Variant: core.BOOL},
				{Member: "bio", Variant: core.LONGSTR},
				{Member: "photo", Variant: core.IMAGE},
			},
			Computed: []schema.ComputedSpec{
				{Name: "nameLength", Function: "length", Source: "name"},
				{Name: "loud", Function: "upper", Source: "name"},
				{Name: "noAge", Function: "isnull", Source: "age"},
				{Name: "people", Function: "count", Source: "age"},
				{Name: "totalAge", Function: "sum", Source: "age"},
				{Name: "totalRate", Function: "sum", Source: "rate"},
				{Name: "youngest", Function: "min", Source: "age"},
				{Name: "oldest", Function: "max", Source: "age"},
			},
		},
		{
			ID: 3, Name: "qa.core.Bar", Parent: "qa.core.Foo",
			Fields: []schema.FieldSpec{{Member: "note", Variant: core.VARCHAR, Length: 20}},
		},
		{
			ID: 4, Name: "qa.core.Zoo", Parent: "qa.core.Entity",
		},
		{
			ID: 8, Name: "qa.core.Poo", Parent: "qa.core.Entity",
			Fields: []schema.FieldSpec{
				{Member: "foo", Variant: core.REF, Target: "qa.core.Foo", Required: schema.Bool(true)},
				{Member: "other", Variant: core.REF, Target: "qa.core.Entity"},
			},
		},
	})
	require.NoError(t, err)
	return reg
}

func newSession(t *testing.T, opts ...Option) *Session {
	t.Helper()
	opts = append([]Option{WithLogger(testutil.NewTestLogger(t))}, opts...)
	return NewSession(fixtureRegistry(t), opts...)
}

func mustNew(t *testing.T, s *Session, typeName string) *Record {
	t.Helper()
	r, err := s.New(typeName)
	require.NoError(t, err)
	return r
}

func TestNewRecord(t *testing.T) {
	s := newSession(t)

	foo := mustNew(t, s, "Foo")
	assert.Equal(t, 11, len(foo.slots), "slots sized to the inherited field set")
	assert.Same(t, s, foo.Session())
	assert.Equal(t, 1, s.Len())

	flag := Must(BoolField(foo, "flag"))
	v, ok := flag.Get()
	require.True(t, ok, "required booleans are never null")
	assert.False(t, v)

	id := Must(UUIDField(foo, "id"))
	key, ok := id.Get()
	require.True(t, ok)
	assert.NotEqual(t, uuid.Nil, key)

	assert.True(t, Must(IntField(foo, "age")).IsNull())
	assert.Empty(t, foo.DirtyFields(), "initial values are not changes")
}

func TestNewRecordErrors(t *testing.T) {
	s := newSession(t)

	_, err := s.New("Entity")
	assert.ErrorContains(t, err, "abstract")

	_, err = s.New("Nope")
	assert.ErrorContains(t, err, "unknown record type")

	_, err = s.NewByID(99)
	assert.ErrorContains(t, err, "unknown table id")

	other := fixtureRegistry(t)
	foreign, _ := other.ByName("Foo")
	_, err = s.NewRecord(foreign)
	assert.ErrorContains(t, err, "not part of this registry")

	poo, err := s.NewByID(8)
	require.NoError(t, err)
	assert.Equal(t, "Poo", poo.Table().ShortName())
}

func TestSetNullOnRequired(t *testing.T) {
	s := newSession(t)
	foo := mustNew(t, s, "Foo")
	poo := mustNew(t, s, "Poo")
	require.NoError(t, Must(RefField(poo, "foo")).Set(foo))
	poo.ClearDirty()

	tests := []struct {
		name string
		c    Container
	}{
		{"bool", Must(BoolField(foo, "flag"))},
		{"identity", Must(UUIDField(foo, "id"))},
		{"required ref", Must(RefField(poo, "foo"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.c.SetNull()
			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrNullability)
			assert.False(t, tt.c.IsNull())
			assert.False(t, tt.c.IsDirty())
		})
	}

	err := Must(RefField(poo, "foo")).Set(nil)
	assert.ErrorIs(t, err, core.ErrNullability, "a nil target is a null write")

	age := Must(IntField(foo, "age"))
	age.Set(3)
	require.NoError(t, age.SetNull())
	assert.True(t, age.IsNull())
}

func TestScalarRoundTrip(t *testing.T) {
	s := newSession(t)
	foo := mustNew(t, s, "Foo")

	age := Must(IntField(foo, "age"))
	age.Set(42)
	v, ok := age.Get()
	require.True(t, ok)
	assert.Equal(t, int32(42), v)

	income := Must(LongField(foo, "income"))
	income.Set(1500)
	n, _ := income.Get()
	assert.Equal(t, int64(1500), n)

	rate := Must(NumericField(foo, "rate"))
	rate.Set(0.25)
	f, _ := rate.Get()
	assert.InDelta(t, 0.25, f, 1e-9)

	day := time.Date(1970, 1, 2, 0, 0, 0, 0, time.UTC)
	born := Must(TimeField(foo, "born"))
	born.Set(day)
	got, _ := born.Get()
	assert.True(t, day.Equal(got))

	flag := Must(BoolField(foo, "flag"))
	flag.Set(true)
	b, _ := flag.Get()
	assert.True(t, b)

	assert.Equal(t, core.INT, age.Variant())
	assert.Equal(t, 3, age.Index())
	assert.Same(t, foo, age.Owner())
	assert.False(t, age.IsRequired())
	assert.Zero(t, age.MaxLength())
	assert.Equal(t, "age:INT[3] 42", age.String())
}

func TestTextLengthIsRejected(t *testing.T) {
	s := newSession(t)
	foo := mustNew(t, s, "Foo")
	name := Must(TextField(foo, "name"))

	require.NoError(t, name.Set("héllo"), "length counts characters, not bytes")
	foo.ClearDirty()

	err := name.Set("toolong")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrLength)

	var le *core.LengthError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, 5, le.Max)
	assert.Equal(t, 7, le.Got)

	v, _ := name.Get()
	assert.Equal(t, "héllo", v, "rejected value leaves the slot untouched")
	assert.False(t, name.IsDirty())

	require.NoError(t, name.Set(""), "empty text is a value, not null")
	v, ok := name.Get()
	assert.True(t, ok)
	assert.Empty(t, v)
	assert.Equal(t, 5, name.MaxLength())
}

func TestTextPattern(t *testing.T) {
	s := newSession(t)
	foo := mustNew(t, s, "Foo")
	code := Must(TextField(foo, "code"))

	require.NoError(t, code.Set("ABC"))

	err := code.Set("abc")
	assert.ErrorIs(t, err, core.ErrPattern)
	v, _ := code.Get()
	assert.Equal(t, "ABC", v)
}

func TestLongTextAndBlob(t *testing.T) {
	s := newSession(t)
	foo := mustNew(t, s, "Foo")

	bio := Must(LongTextField(foo, "bio"))
	long := strings.Repeat("x", 10000)
	require.NoError(t, bio.Set(long))
	v, _ := bio.Get()
	assert.Len(t, v, 10000)

	photo := Must(BlobField(foo, "photo"))
	payload := []byte{1, 2, 3}
	photo.Set(payload)
	payload[0] = 9
	got, ok := photo.Get()
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3}, got, "payload is copied on write")
	assert.Equal(t, 3, photo.Len())
	assert.Equal(t, "photo:IMAGE[10] [3 bytes]", photo.String())
}

func TestChangeTracking(t *testing.T) {
	s := newSession(t)
	foo := mustNew(t, s, "Foo")
	age := Must(IntField(foo, "age"))
	name := Must(TextField(foo, "name"))

	assert.False(t, age.IsRead())
	assert.False(t, age.IsDirty())

	_, _ = age.Get()
	assert.True(t, age.IsRead())
	assert.False(t, age.IsDirty())

	require.NoError(t, name.Set("bla"))
	age.Set(1)
	assert.True(t, age.IsDirty())

	var dirty []string
	for _, f := range foo.DirtyFields() {
		dirty = append(dirty, f.Name())
	}
	assert.Equal(t, []string{"name", "age"}, dirty, "column order")

	var read []string
	for _, f := range foo.ReadFields() {
		read = append(read, f.Name())
	}
	assert.Equal(t, []string{"age"}, read)

	foo.ClearDirty()
	foo.ClearRead()
	assert.Empty(t, foo.DirtyFields())
	assert.Empty(t, foo.ReadFields())

	_ = age.IsNull()
	_ = age.String()
	assert.False(t, age.IsRead(), "inspection does not count as a read")
}

func TestWideRecordBitsets(t *testing.T) {
	fields := make([]schema.FieldSpec, 130)
	for i := range fields {
		fields[i] = schema.FieldSpec{Member: fmt.Sprintf("c%d", i), Variant: core.INT}
	}
	reg, err := schema.Build([]schema.TypeSpec{{ID: 1, Name: "Wide", Fields: fields}})
	require.NoError(t, err)

	r := mustNew(t, NewSession(reg), "Wide")
	for _, i := range []int{0, 63, 64, 129} {
		Must(IntField(r, fmt.Sprintf("c%d", i))).Set(int32(i))
	}

	var got []int
	for _, f := range r.DirtyFields() {
		got = append(got, f.Index())
	}
	assert.Equal(t, []int{0, 63, 64, 129}, got)
	assert.False(t, r.IsDirty(65))
}

func TestCompareNullOrdering(t *testing.T) {
	s := newSession(t)
	a := Must(IntField(mustNew(t, s, "Foo"), "age"))
	b := Must(IntField(mustNew(t, s, "Foo"), "age"))

	assert.Equal(t, 0, a.Compare(b), "both null")

	b.Set(-100)
	assert.Equal(t, -1, a.Compare(b), "null first")
	assert.Equal(t, 1, b.Compare(a), "null first regardless of operand order")

	a.Set(5)
	assert.Equal(t, 1, a.Compare(b))
	b.Set(5)
	assert.Equal(t, 0, a.Compare(b))

	x := Must(TextField(mustNew(t, s, "Foo"), "name"))
	y := Must(TextField(mustNew(t, s, "Foo"), "name"))
	require.NoError(t, y.Set("a"))
	assert.Equal(t, -1, x.Compare(y))
	require.NoError(t, x.Set("b"))
	assert.Equal(t, 1, x.Compare(y))

	f1 := Must(BoolField(mustNew(t, s, "Foo"), "flag"))
	f2 := Must(BoolField(mustNew(t, s, "Foo"), "flag"))
	f2.Set(true)
	assert.Equal(t, -1, f1.Compare(f2), "false before true")
}

func TestContainersAreNotComparable(t *testing.T) {
	for _, c := range []any{
		Scalar[int32]{}, Text{}, LongText{}, Blob{}, Ref{}, CodeRef{}, Computed{},
	} {
		typ := reflect.TypeOf(c)
		assert.False(t, typ.Comparable(), "%s must not support ==", typ)
	}
}

func TestBindErrors(t *testing.T) {
	s := newSession(t)
	foo := mustNew(t, s, "Foo")

	_, err := TextField(foo, "age")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrBind)
	assert.Equal(t, "Foo.age is INT, not bounded text", err.Error())

	_, err = IntField(foo, "missing")
	assert.ErrorIs(t, err, core.ErrBind)
	assert.Contains(t, err.Error(), `no field "missing"`)

	_, err = ComputedField(foo, "age")
	assert.ErrorContains(t, err, "is INT, not FUNC")

	_, err = LongTextField(foo, "name")
	assert.ErrorIs(t, err, core.ErrBind)

	_, err = TimeField(foo, "born")
	assert.NoError(t, err)

	assert.Panics(t, func() { Must(BoolField(foo, "age")) })
}

func TestSave(t *testing.T) {
	var seen []string
	hook := func(_ context.Context, r *Record, dirty []*schema.Field) error {
		for _, f := range dirty {
			seen = append(seen, f.Name())
		}
		return nil
	}
	s := newSession(t, WithSaveHook(hook))
	foo := mustNew(t, s, "Foo")
	Must(IntField(foo, "age")).Set(3)

	require.NoError(t, foo.Save(context.Background()))
	assert.Equal(t, []string{"age"}, seen)
	assert.Len(t, foo.DirtyFields(), 1, "saving does not clear dirty bits")

	failing := newSession(t, WithSaveHook(func(context.Context, *Record, []*schema.Field) error {
		return errors.New("disk full")
	}))
	err := mustNew(t, failing, "Foo").Save(context.Background())
	assert.ErrorContains(t, err, "failed to save Foo: disk full")

	require.NoError(t, mustNew(t, newSession(t), "Foo").Save(context.Background()), "default hook only logs")
}

func TestRecordString(t *testing.T) {
	s := newSession(t)
	foo := mustNew(t, s, "Foo")
	require.NoError(t, Must(TextField(foo, "name")).Set("bla"))

	out := foo.String()
	assert.True(t, strings.HasPrefix(out, "Foo@"+foo.Key().String()+" id:UUID[0] "))
	assert.Contains(t, out, ` name:VARCHAR[1] "bla"`)
	assert.Contains(t, out, " age:INT[3] null")
	assert.Contains(t, out, " sex:CODEREF<sex>[7] null")
}

func TestSessionConcurrentLookup(t *testing.T) {
	s := newSession(t)
	records := make([]*Record, 20)
	for i := range records {
		records[i] = mustNew(t, s, "Foo")
	}

	var wg sync.WaitGroup
	for _, r := range records {
		wg.Add(1)
		go func(r *Record) {
			defer wg.Done()
			got, ok := s.Lookup(r.Handle())
			assert.True(t, ok)
			assert.Same(t, r, got)
		}(r)
	}
	wg.Wait()

	_, ok := s.Lookup(Handle{Table: 3, Key: records[0].Key()})
	assert.False(t, ok, "table id must match")
}
