package schema

import (
	"fmt"
	"sync"
)

// Registry manages all entity schemas known to a process. Each schema is
// registered once and memoized for the registry's lifetime; lookups never
// recompute. The registry is an explicit object handed to the session, not
// ambient global state.
type Registry struct {
	schemas map[string]*EntitySchema
	mu      sync.RWMutex
}

// NewRegistry creates an empty entity schema registry.
func NewRegistry() *Registry {
	return &Registry{schemas: make(map[string]*EntitySchema)}
}

// Register stores a built schema. Registering the same entity twice is an
// error; descriptions are immutable once computed.
func (r *Registry) Register(s *EntitySchema) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.schemas[s.Name]; exists {
		return fmt.Errorf("entity %s is already registered", s.Name)
	}

	// Relationship targets may be registered later (forward references),
	// so cross-entity validation happens in ValidateAll.
	r.schemas[s.Name] = s
	return nil
}

// Get retrieves an entity schema by name.
func (r *Registry) Get(name string) (*EntitySchema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, exists := r.schemas[name]
	return s, exists
}

// MustGet retrieves an entity schema by name and panics when absent.
// Intended for wiring code where a missing schema is a programming error.
func (r *Registry) MustGet(name string) *EntitySchema {
	s, ok := r.Get(name)
	if !ok {
		panic(fmt.Sprintf("entity %s is not registered", name))
	}
	return s
}

// List returns the names of all registered entities.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.schemas))
	for name := range r.schemas {
		names = append(names, name)
	}
	return names
}

// Count returns the number of registered entities.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.schemas)
}

// ValidateAll checks that every relationship target and mapped-by field
// resolves against the registered set.
func (r *Registry) ValidateAll() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for name, s := range r.schemas {
		for _, rel := range s.Relationships {
			target, ok := r.schemas[rel.Target]
			if !ok {
				return fmt.Errorf("entity %s: relationship %s targets unregistered entity %s",
					name, rel.Field, rel.Target)
			}
			if rel.Kind == OneToMany {
				if _, ok := target.Relationships[rel.MappedBy]; !ok {
					return fmt.Errorf("entity %s: relationship %s mapped by unknown field %s on %s",
						name, rel.Field, rel.MappedBy, rel.Target)
				}
			}
		}
	}
	return nil
}
