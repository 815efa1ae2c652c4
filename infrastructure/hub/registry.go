package hub

import (
	"fmt"

	"github.com/miniDevOn/hubsync/domain"
)

// Registry manages all registered hub backend implementations.
type Registry struct {
	hubs map[string]Factory
}

// Factory is a constructor function that creates a Hub given an auth token
// and an optional endpoint override.
type Factory func(token, endpoint string) domain.Hub

// NewRegistry creates an empty hub registry.
func NewRegistry() *Registry {
	return &Registry{
		hubs: make(map[string]Factory),
	}
}

// Register adds a hub factory under the given name (e.g. "huggingface").
func (r *Registry) Register(name string, factory Factory) {
	r.hubs[name] = factory
}

// Get returns a configured hub instance for the given name, token and endpoint.
func (r *Registry) Get(name, token, endpoint string) (domain.Hub, error) {
	factory, ok := r.hubs[name]
	if !ok {
		return nil, fmt.Errorf("unknown hub type: %q", name)
	}
	return factory(token, endpoint), nil
}

// Names returns the list of registered hub names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.hubs))
	for name := range r.hubs {
		names = append(names, name)
	}
	return names
}
