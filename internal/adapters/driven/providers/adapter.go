package providers

import (
	"github.com/nexlink-labs/nexlink-core/internal/core/domain"
	"github.com/nexlink-labs/nexlink-core/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.ProviderRegistry = (*Registry)(nil)

// Registry holds the adapter for each supported provider
type Registry struct {
	adapters map[domain.ProviderType]driven.ProviderAdapter
}

// NewRegistry creates an empty adapter registry
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[domain.ProviderType]driven.ProviderAdapter)}
}

// Register adds an adapter for its provider type
func (r *Registry) Register(a driven.ProviderAdapter) {
	r.adapters[a.ProviderType()] = a
}

// Get returns the adapter for a provider type, or nil if unregistered
func (r *Registry) Get(providerType domain.ProviderType) driven.ProviderAdapter {
	return r.adapters[providerType]
}
