package provider

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
)

// ErrUnknownProvider is returned when a requested service type is not registered.
var ErrUnknownProvider = errors.New("provider: unknown provider") //nolint:gochecknoglobals // sentinel error

// Registry maps service type names to providers.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Provider),
	}
}

// Register adds a provider under a service type name.
func (r *Registry) Register(name string, p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[name] = p
}

// Resolve returns the provider registered under name.
func (r *Registry) Resolve(name string) (Provider, error) {
	r.mu.RLock()
	p, ok := r.providers[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("provider.Registry.Resolve(%q): %w", name, ErrUnknownProvider)
	}
	return p, nil
}

// Available returns registered service type names in sorted order.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := slices.Collect(func(yield func(string) bool) {
		for name := range r.providers {
			if !yield(name) {
				return
			}
		}
	})
	sort.Strings(names)

	return names
}

// WithModels returns each registered provider's available models, keyed by
// service type name. A provider whose model listing fails is logged and
// omitted rather than failing the whole aggregation.
func (r *Registry) WithModels(ctx context.Context) map[string][]string {
	r.mu.RLock()
	snapshot := make(map[string]Provider, len(r.providers))
	for name, p := range r.providers {
		snapshot[name] = p
	}
	r.mu.RUnlock()

	result := make(map[string][]string, len(snapshot))
	for name, p := range snapshot {
		models, err := p.Models(ctx)
		if err != nil {
			log.Warn().Err(err).Str("provider", name).Msg("skipping provider with failing model listing")
			continue
		}
		if len(models) == 0 {
			log.Warn().Str("provider", name).Msg("provider reports no models")
			continue
		}
		result[name] = models
	}
	return result
}
