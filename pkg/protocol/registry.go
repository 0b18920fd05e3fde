package protocol

import (
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/haptic-protocol/haptic-go/pkg/wire"
)

// Factory builds the handler for one device.
type Factory func(attrs wire.AttributesMap) Handler

// Registry maps model identifiers to handler factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates a registry with the built-in models.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	r.Register(ModelJeJoue, NewJeJoue)
	return r
}

// Register adds or replaces the factory for model. Model identifiers are
// case-insensitive.
func (r *Registry) Register(model string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[strings.ToLower(model)] = factory
}

// Lookup returns the factory for model and whether one is registered.
func (r *Registry) Lookup(model string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[strings.ToLower(model)]
	return f, ok
}

// Models returns the registered model identifiers, sorted.
func (r *Registry) Models() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.factories))
}

// NewHandler builds the handler for model, falling back to Base with the
// IdentityEncoder for unknown models.
func (r *Registry) NewHandler(model string, attrs wire.AttributesMap) Handler {
	if f, ok := r.Lookup(model); ok {
		return f(attrs)
	}
	return NewBase(attrs, nil)
}
