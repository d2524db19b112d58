// Package catalog provides code-object catalogs that resolve CODEREF keys.
//
// Memory is a map guarded by a RWMutex, suitable for tests and seeded
// configuration. SQLiteStore persists entries with migrations managed by goose.
package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/leapstack-labs/leapmeta/pkg/core"
)

// Store is a writable code-object catalog.
type Store interface {
	core.CodeResolver
	Put(ctx context.Context, obj core.CodeObject) error
	List(ctx context.Context, kind string) ([]core.CodeObject, error)
	Delete(ctx context.Context, key string) error
}

// Memory is an in-memory catalog.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]core.CodeObject
}

// NewMemory returns a catalog holding objs.
func NewMemory(objs ...core.CodeObject) *Memory {
	m := &Memory{entries: make(map[string]core.CodeObject, len(objs))}
	for _, obj := range objs {
		m.entries[obj.Key()] = obj
	}
	return m
}

// Resolve returns the entry for key.
func (m *Memory) Resolve(_ context.Context, key string) (core.CodeObject, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.entries[key]
	if !ok {
		return core.CodeObject{}, fmt.Errorf("%w: %s", core.ErrCodeNotFound, key)
	}
	return obj, nil
}

// Put adds or replaces an entry.
func (m *Memory) Put(_ context.Context, obj core.CodeObject) error {
	if err := validate(obj); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[obj.Key()] = obj
	return nil
}

// List returns the entries of one kind, or all entries when kind is empty,
// ordered by kind and code.
func (m *Memory) List(_ context.Context, kind string) ([]core.CodeObject, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]core.CodeObject, 0, len(m.entries))
	for _, obj := range m.entries {
		if kind == "" || obj.Kind == kind {
			out = append(out, obj)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].Code < out[j].Code
	})
	return out, nil
}

// Delete removes an entry. Deleting an unknown key is not an error.
func (m *Memory) Delete(_ context.Context, key string) error {
	if _, _, err := core.ParseCodeKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

func validate(obj core.CodeObject) error {
	if obj.Kind == "" || obj.Code == "" {
		return fmt.Errorf("code object needs a kind and a code, got %q", obj.Key())
	}
	if strings.Contains(obj.Code, ".") {
		return fmt.Errorf("code %q must not contain a dot", obj.Code)
	}
	return nil
}
