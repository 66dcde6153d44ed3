package provider

import (
	"fmt"
	"sort"
	"sync"

	"briefer/internal/domain"
	"briefer/internal/port"
)

// Factory builds a configured streamer for one provider.
type Factory func(opts Options) port.SummaryStreamer

var (
	registryMu sync.RWMutex
	registry   = map[domain.ProviderID]Factory{}
)

// Register makes a provider available by name. Provider packages call this
// from their init functions.
func Register(name domain.ProviderID, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// New builds a streamer for the named provider, or fails with
// domain.ErrUnknownProvider when the name is not registered.
func New(name domain.ProviderID, opts Options) (port.SummaryStreamer, error) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownProvider, name)
	}
	return factory(opts), nil
}

// Names returns the registered provider names in sorted order.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, string(name))
	}
	sort.Strings(names)
	return names
}
