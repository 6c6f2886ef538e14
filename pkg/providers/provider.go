// Package providers keeps the registry of named timeline sources the CLI can poll.
package providers

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/lepinkainen/babble/pkg/poller"
)

// SourceFactory creates a timeline source. config is provider specific.
type SourceFactory func(ctx context.Context, config any) (poller.Source, error)

// ProviderInfo contains metadata about a provider.
type ProviderInfo struct {
	Name        string
	Description string
	Factory     SourceFactory
}

// ProviderRegistry manages registered timeline providers.
type ProviderRegistry struct {
	mu        sync.RWMutex
	providers map[string]*ProviderInfo
}

// NewProviderRegistry creates a new provider registry.
func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{
		providers: make(map[string]*ProviderInfo),
	}
}

// Register adds a provider to the registry.
func (r *ProviderRegistry) Register(name string, info *ProviderInfo) error {
	if info == nil || info.Factory == nil {
		return fmt.Errorf("provider %s has no factory", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[name]; exists {
		return fmt.Errorf("provider %s is already registered", name)
	}

	r.providers[name] = info
	return nil
}

// Get retrieves a provider by name.
func (r *ProviderRegistry) Get(name string) (*ProviderInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	info, exists := r.providers[name]
	if !exists {
		return nil, fmt.Errorf("provider %s not found", name)
	}

	return info, nil
}

// List returns all registered provider names, sorted.
func (r *ProviderRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	slices.Sort(names)

	return names
}

// CreateSource creates a new source from the specified provider.
func (r *ProviderRegistry) CreateSource(ctx context.Context, name string, config any) (poller.Source, error) {
	info, err := r.Get(name)
	if err != nil {
		return nil, err
	}

	source, err := info.Factory(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s source: %w", name, err)
	}
	return source, nil
}

// DefaultRegistry is the registry the timeline providers add themselves to.
var DefaultRegistry = NewProviderRegistry()
