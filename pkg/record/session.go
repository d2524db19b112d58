// Package record holds the data phase: records allocated from a built schema
// registry, and typed field containers over their value slots.
//
// A Session owns an identity map of the records it created. REF fields store a
// Handle and resolve it through that map, so records may reference each other
// without owning one another. Records themselves are not safe for concurrent
// mutation; callers serialise access per record.
package record

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/leapstack-labs/leapmeta/pkg/core"
	"github.com/leapstack-labs/leapmeta/pkg/schema"
)

// SaveHook receives a record and its dirty fields on Save.
type SaveHook func(ctx context.Context, r *Record, dirty []*schema.Field) error

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithResolver sets the code-object catalog used by CODEREF fields.
func WithResolver(r core.CodeResolver) Option {
	return func(s *Session) {
		s.resolver = r
	}
}

// WithSaveHook replaces the default save hook, which only logs.
func WithSaveHook(h SaveHook) Option {
	return func(s *Session) {
		if h != nil {
			s.save = h
		}
	}
}

// Session creates records for one registry and resolves references between them.
type Session struct {
	reg      *schema.Registry
	resolver core.CodeResolver
	save     SaveHook
	logger   *slog.Logger

	mu      sync.RWMutex
	records map[uuid.UUID]*Record
}

// NewSession returns a session over a built registry.
func NewSession(reg *schema.Registry, opts ...Option) *Session {
	s := &Session{
		reg:     reg,
		logger:  slog.New(slog.DiscardHandler),
		records: make(map[uuid.UUID]*Record),
	}
	s.save = s.logSave
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Registry returns the registry the session allocates from.
func (s *Session) Registry() *schema.Registry { return s.reg }

// New allocates a record of the named type. Abstract types cannot be
// instantiated.
func (s *Session) New(typeName string) (*Record, error) {
	t, ok := s.reg.ByName(typeName)
	if !ok {
		return nil, fmt.Errorf("unknown record type %q", typeName)
	}
	return s.NewRecord(t)
}

// NewByID allocates a record of the type with the given table id.
func (s *Session) NewByID(id int) (*Record, error) {
	t, ok := s.reg.ByID(id)
	if !ok {
		return nil, fmt.Errorf("unknown table id %d", id)
	}
	return s.NewRecord(t)
}

// NewRecord allocates a record of table t, which must belong to the session's
// registry.
func (s *Session) NewRecord(t *schema.Table) (*Record, error) {
	if own, ok := s.reg.ByID(t.ID()); !ok || own != t {
		return nil, fmt.Errorf("table %s is not part of this registry", t.Name())
	}
	if t.Abstract() {
		return nil, fmt.Errorf("cannot instantiate abstract type %s", t.Name())
	}

	r := newRecord(s, t)
	s.mu.Lock()
	s.records[r.key] = r
	s.mu.Unlock()

	s.logger.Debug("record created", slog.String("type", t.Name()), slog.String("key", r.key.String()))
	return r, nil
}

// Lookup resolves a handle to a record of this session.
func (s *Session) Lookup(h Handle) (*Record, bool) {
	s.mu.RLock()
	r, ok := s.records[h.Key]
	s.mu.RUnlock()
	if !ok || r.table.ID() != h.Table {
		return nil, false
	}
	return r, true
}

// Forget removes a record from the identity map. Handles to it no longer
// resolve.
func (s *Session) Forget(r *Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.records[r.key]; ok && cur == r {
		delete(s.records, r.key)
	}
}

// Len returns the number of live records.
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *Session) logSave(_ context.Context, r *Record, dirty []*schema.Field) error {
	names := make([]string, len(dirty))
	for i, f := range dirty {
		names[i] = f.Name()
	}
	s.logger.Debug("save",
		slog.String("type", r.table.Name()),
		slog.String("key", r.key.String()),
		slog.Any("dirty", names))
	return nil
}
