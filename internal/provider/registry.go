package provider

import (
	"fmt"

	"BiasFeed/internal/ports"
)

// Registry keeps a mapping from provider names to their implementations.
type Registry[T any] struct {
	providers map[string]ports.ContentProvider[T]
}

// NewRegistry builds an empty registry.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{providers: map[string]ports.ContentProvider[T]{}}
}

// Register adds or replaces a provider implementation.
func (r *Registry[T]) Register(p ports.ContentProvider[T]) {
	if r.providers == nil {
		r.providers = map[string]ports.ContentProvider[T]{}
	}
	r.providers[p.Name()] = p
}

// Resolve returns a provider by name or an error if it is absent.
func (r *Registry[T]) Resolve(name string) (ports.ContentProvider[T], error) {
	if p, ok := r.providers[name]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("provider %s is not registered", name)
}

// ResolveAll resolves names in order, failing on the first unknown one.
func (r *Registry[T]) ResolveAll(names []string) ([]ports.ContentProvider[T], error) {
	out := make([]ports.ContentProvider[T], 0, len(names))
	for _, name := range names {
		p, err := r.Resolve(name)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
