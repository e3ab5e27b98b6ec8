// Package provider holds the generation provider registry and the error
// types shared by the provider implementations.
package provider

import (
	"fmt"
	"sort"
	"sync"

	"rhai/internal/config"
	"rhai/internal/port"
)

// Factory creates a GenerationProvider from a provider config.
type Factory func(cfg *config.ProviderConfig) (port.GenerationProvider, error)

// registry of provider factories, populated by init() in each provider package
// or explicitly via RegisterProvider.
var (
	providersMu sync.RWMutex
	providers   = map[string]Factory{}
)

// RegisterProvider registers a provider factory by name.
func RegisterProvider(name string, factory Factory) {
	providersMu.Lock()
	defer providersMu.Unlock()
	providers[name] = factory
}

// NewProvider creates a GenerationProvider from a provider config using the registered factory.
func NewProvider(cfg *config.ProviderConfig) (port.GenerationProvider, error) {
	providersMu.RLock()
	factory, ok := providers[cfg.Provider]
	providersMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown generation provider: %s", cfg.Provider)
	}
	return factory(cfg)
}

// Registered returns the sorted names of all registered providers.
func Registered() []string {
	providersMu.RLock()
	defer providersMu.RUnlock()
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
