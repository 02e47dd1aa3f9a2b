package plugin

import (
	"context"
	"sync"

	"git.home.luguber.info/inful/docpress/internal/logfields"
)

// Registry holds uniquely named plugins in registration order.
// There is no removal operation.
type Registry struct {
	mu      sync.RWMutex
	order   []Plugin
	byName  map[string]Plugin
	skipped int
}

// NewRegistry creates a new empty plugin registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Plugin)}
}

// Register appends plugin unless one with the same name is already present,
// in which case the first registration wins and Register reports false.
// Nil plugins and plugins with invalid metadata are ignored the same way.
func (r *Registry) Register(plugin Plugin) bool {
	if plugin == nil {
		return false
	}
	meta := plugin.Metadata()
	if meta.Validate() != nil {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[meta.Name]; exists {
		r.skipped++
		return false
	}
	r.byName[meta.Name] = plugin
	r.order = append(r.order, plugin)
	return true
}

// Use registers every plugin in order and returns the registry for chaining.
func (r *Registry) Use(plugins ...Plugin) *Registry {
	for _, p := range plugins {
		r.Register(p)
	}
	return r
}

// Get retrieves a plugin by name.
func (r *Registry) Get(name string) (Plugin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byName[name]
	return p, ok
}

// Has checks if a plugin with the given name exists.
func (r *Registry) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// List returns all registered plugins in registration order.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Plugin, len(r.order))
	copy(out, r.order)
	return out
}

// Names returns registered plugin names in order.
func (r *Registry) Names() []string {
	plugins := r.List()
	out := make([]string, 0, len(plugins))
	for _, p := range plugins {
		out = append(out, p.Metadata().Name)
	}
	return out
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Skipped returns how many duplicate registrations were ignored.
func (r *Registry) Skipped() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.skipped
}

// ApplyAll invokes Apply on every plugin in registration order, stopping at
// the first failure.
func (r *Registry) ApplyAll(ctx context.Context, bc *BuildContext) error {
	for _, p := range r.List() {
		name := p.Metadata().Name
		bc.Logger.Debug("Applying plugin", logfields.Plugin(name))
		if err := p.Apply(ctx, bc); err != nil {
			return NewPluginError(name, "apply", err)
		}
	}
	return nil
}
