package provider

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/waabox/devopswatch/internal/domain"
)

// Registry maps DevOps system kinds (e.g., "github") to StatusProvider implementations.
type Registry struct {
	providers map[string]domain.StatusProvider
}

// Ensure Registry implements StatusProvider.
var _ domain.StatusProvider = (*Registry)(nil)

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]domain.StatusProvider)}
}

// Register associates a kind with a provider. Kinds are case-insensitive;
// registering a kind twice replaces the earlier provider.
func (r *Registry) Register(kind string, p domain.StatusProvider) {
	r.providers[normalizeKind(kind)] = p
}

// Lookup returns the provider registered for kind.
// Returns an error wrapping domain.ErrUnsupportedKind if none is registered.
func (r *Registry) Lookup(kind string) (domain.StatusProvider, error) {
	p, ok := r.providers[normalizeKind(kind)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedKind, kind)
	}
	return p, nil
}

// Kinds returns the registered kinds in sorted order.
func (r *Registry) Kinds() []string {
	kinds := make([]string, 0, len(r.providers))
	for k := range r.providers {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// FetchStatuses dispatches to the provider registered for the system's kind.
// A system of an unregistered kind gets one Unknown record per automation.
func (r *Registry) FetchStatuses(ctx context.Context, system domain.DevOpsSystem) []domain.StatusInformation {
	p, err := r.Lookup(system.Kind)
	if err != nil {
		return UnknownStatuses(system.Kind, system)
	}
	return p.FetchStatuses(ctx, system)
}

func normalizeKind(kind string) string {
	return strings.ToLower(strings.TrimSpace(kind))
}
