package providers

import (
	"context"
	"log/slog"

	"github.com/lepinkainen/babble/pkg/poller"
)

// RegisterProvider is a convenience function to register a provider with the default registry.
func RegisterProvider(name string, info *ProviderInfo) {
	if err := DefaultRegistry.Register(name, info); err != nil {
		slog.Warn("Failed to register provider", "provider", name, "error", err)
	} else {
		slog.Debug("Registered provider", "provider", name, "description", info.Description)
	}
}

// GetProvider is a convenience function to get a provider from the default registry.
func GetProvider(name string) (*ProviderInfo, error) {
	return DefaultRegistry.Get(name)
}

// ListProviders is a convenience function to list all providers in the default registry.
func ListProviders() []string {
	return DefaultRegistry.List()
}

// CreateSource is a convenience function to create a source from the default registry.
func CreateSource(ctx context.Context, name string, config any) (poller.Source, error) {
	return DefaultRegistry.CreateSource(ctx, name, config)
}
