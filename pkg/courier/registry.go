package courier

import (
	"fmt"
	"sync"
)

// Registry manages registered courier integrations.
type Registry struct {
	couriers map[string]Courier
	mu       sync.RWMutex
}

// NewRegistry creates a new courier registry.
func NewRegistry() *Registry {
	return &Registry{
		couriers: make(map[string]Courier),
	}
}

// Register adds a courier to the registry.
func (r *Registry) Register(c Courier) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.couriers[c.Name()] = c
}

// Get returns a courier by name.
func (r *Registry) Get(name string) (Courier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if c, ok := r.couriers[name]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrCourierNotFound, name)
}

// Names returns the names of all registered couriers.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.couriers))
	for name := range r.couriers {
		names = append(names, name)
	}
	return names
}

// Count returns the number of registered couriers.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.couriers)
}
