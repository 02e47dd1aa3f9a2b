// Package plugin provides the extension system of the build pipeline: a registry
// of uniquely named plugins, two ordered hook points, and the build context
// passed to every callback.
package plugin

import (
	"context"
	"errors"
	"fmt"
)

// Plugin is an extension applied once per run, in registration order, before
// any hook point fires. Apply typically taps one or more hook points.
type Plugin interface {
	// Metadata returns the plugin's metadata (name, type, description).
	Metadata() PluginMetadata

	// Apply attaches the plugin's behavior to the live build context.
	Apply(ctx context.Context, bc *BuildContext) error
}

// PluginMetadata describes a plugin's identity.
type PluginMetadata struct {
	// Name is the unique plugin identifier (e.g., "layout", "minify").
	Name string

	// Type identifies the plugin category.
	Type PluginType

	// Description provides a human-readable summary of the plugin's purpose.
	Description string
}

// String returns a human-readable representation of the plugin metadata.
func (m PluginMetadata) String() string {
	return fmt.Sprintf("%s (%s)", m.Name, m.Type)
}

// Validate checks if the plugin metadata is valid.
func (m PluginMetadata) Validate() error {
	if m.Name == "" {
		return errors.New("plugin name is required")
	}
	if !m.Type.IsValid() {
		return fmt.Errorf("invalid plugin type: %s", m.Type)
	}
	return nil
}

// ApplyFunc is the signature of Plugin.Apply.
type ApplyFunc func(ctx context.Context, bc *BuildContext) error

type funcPlugin struct {
	meta  PluginMetadata
	apply ApplyFunc
}

func (p *funcPlugin) Metadata() PluginMetadata { return p.meta }

func (p *funcPlugin) Apply(ctx context.Context, bc *BuildContext) error {
	return p.apply(ctx, bc)
}

// New wraps fn as a transform plugin named name.
func New(name string, fn ApplyFunc) Plugin {
	return &funcPlugin{meta: PluginMetadata{Name: name, Type: PluginTypeTransform}, apply: fn}
}

// Tapper returns a plugin whose Apply taps fn on point under the plugin's name.
func Tapper(meta PluginMetadata, point Point, fn Callback) Plugin {
	return &funcPlugin{meta: meta, apply: func(_ context.Context, bc *BuildContext) error {
		bc.Hooks.Tap(point, meta.Name, fn)
		return nil
	}}
}
