package comictalker

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps talker IDs to implementations. It allows a host to discover
// the sources compiled into a build without importing them directly.
type Registry struct {
	mu      sync.RWMutex
	talkers map[string]Talker
}

// NewRegistry creates an empty talker registry.
func NewRegistry() *Registry {
	return &Registry{
		talkers: make(map[string]Talker),
	}
}

// Register adds a talker under its Info().ID. Registering an empty ID or an
// ID that is already taken is an error.
func (r *Registry) Register(t Talker) error {
	id := t.Info().ID
	if id == "" {
		return fmt.Errorf("talker has no ID")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.talkers[id]; exists {
		return fmt.Errorf("talker %q already registered", id)
	}
	r.talkers[id] = t
	return nil
}

// Lookup returns the talker registered under id.
func (r *Registry) Lookup(id string) (Talker, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.talkers[id]
	return t, ok
}

// IDs returns all registered talker IDs, sorted.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.talkers))
	for id := range r.talkers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// defaultRegistry backs the package-level functions.
var defaultRegistry = NewRegistry()

// Register adds a talker to the process-wide registry.
func Register(t Talker) error {
	return defaultRegistry.Register(t)
}

// Lookup finds a talker in the process-wide registry.
func Lookup(id string) (Talker, bool) {
	return defaultRegistry.Lookup(id)
}

// IDs lists the process-wide registry, sorted.
func IDs() []string {
	return defaultRegistry.IDs()
}
