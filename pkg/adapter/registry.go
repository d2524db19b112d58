package adapter

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/leapstack-labs/leapmeta/pkg/core"
)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]func(*slog.Logger) Adapter)
)

// Register adds an adapter factory to the registry under a profile name.
// Called by adapter implementations in their init() functions.
func Register(name string, factory func(*slog.Logger) Adapter) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[strings.ToLower(name)] = factory
}

// Get retrieves an adapter factory by profile name.
func Get(name string) (func(*slog.Logger) Adapter, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[strings.ToLower(name)]
	return f, ok
}

// NewAdapter creates a new adapter instance for cfg.Profile.
// The logger parameter is passed to the adapter constructor (nil uses discard logger).
func NewAdapter(cfg core.AdapterConfig, logger *slog.Logger) (Adapter, error) {
	if cfg.Profile == "" {
		return nil, fmt.Errorf("adapter profile not specified")
	}

	factory, ok := Get(cfg.Profile)
	if !ok {
		return nil, &UnknownAdapterError{
			Profile:   cfg.Profile,
			Available: ListAdapters(),
		}
	}
	return factory(logger), nil
}

// ListAdapters returns all registered adapter names (sorted).
func ListAdapters() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered checks if an adapter is registered for a profile.
func IsRegistered(name string) bool {
	_, ok := Get(name)
	return ok
}

// UnknownAdapterError is returned when no adapter is registered for a profile.
// Profiles such as oracle or db2 render DDL but have no connection adapter.
type UnknownAdapterError struct {
	Profile   string
	Available []string
}

func (e *UnknownAdapterError) Error() string {
	return fmt.Sprintf("no connection adapter for profile %q\nAvailable adapters: %v\nHint: use 'leapmeta render' to emit DDL for this profile instead", e.Profile, e.Available)
}
