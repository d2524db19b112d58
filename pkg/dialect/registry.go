package dialect

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Profile registry
var (
	profilesMu sync.RWMutex
	profiles   = make(map[string]*Profile)
)

// ErrProfileRequired is returned when a profile is required but not provided.
var ErrProfileRequired = errors.New("profile is required")

// Get returns a profile by name.
func Get(name string) (*Profile, bool) {
	profilesMu.RLock()
	defer profilesMu.RUnlock()
	p, ok := profiles[strings.ToLower(name)]
	return p, ok
}

// MustGet returns a profile by name or panics. Intended for init-time wiring.
func MustGet(name string) *Profile {
	p, ok := Get(name)
	if !ok {
		panic(fmt.Sprintf("dialect: unknown profile %q", name))
	}
	return p
}

// Lookup returns a profile by name, or an error listing the known profiles.
func Lookup(name string) (*Profile, error) {
	if name == "" {
		return nil, ErrProfileRequired
	}
	if p, ok := Get(name); ok {
		return p, nil
	}
	return nil, fmt.Errorf("unknown profile %q (available: %s)", name, strings.Join(List(), ", "))
}

// Register registers a profile in the global registry.
// Called from init() in builtin.go and by embedding programs.
func Register(p *Profile) {
	profilesMu.Lock()
	defer profilesMu.Unlock()
	profiles[strings.ToLower(p.Name)] = p
}

// List returns all registered profile names (sorted).
func List() []string {
	profilesMu.RLock()
	defer profilesMu.RUnlock()
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
