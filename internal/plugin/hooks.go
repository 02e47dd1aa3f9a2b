package plugin

import (
	"context"
	"sync"
	"time"

	"git.home.luguber.info/inful/docpress/internal/logfields"
)

// Point names an extension point of the pipeline.
type Point string

const (
	// PreEmission fires after assets are rendered and before they are written.
	PreEmission Point = "preEmission"
	// PostEmission fires after assets are written.
	PostEmission Point = "postEmission"
)

// Points lists the hook points in firing order.
var Points = []Point{PreEmission, PostEmission}

// Callback is a tapped hook function. It must finish all of its work before
// returning; the next callback starts only afterwards.
type Callback func(ctx context.Context, bc *BuildContext) error

type tap struct {
	name string
	fn   Callback
}

// Hooks is an ordered multimap from point to tapped callbacks.
type Hooks struct {
	mu   sync.Mutex
	taps map[Point][]tap
}

// NewHooks creates hook points with no taps.
func NewHooks() *Hooks {
	return &Hooks{taps: make(map[Point][]tap)}
}

// Tap appends fn to point. Duplicate names are allowed.
func (h *Hooks) Tap(point Point, name string, fn Callback) {
	if fn == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.taps[point] = append(h.taps[point], tap{name: name, fn: fn})
}

// Names returns the names tapped on point in order.
func (h *Hooks) Names(point Point) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, 0, len(h.taps[point]))
	for _, t := range h.taps[point] {
		out = append(out, t.name)
	}
	return out
}

// Fire invokes every callback tapped on point strictly in order. The first
// failure stops the firing and is returned wrapped in a PluginError.
func (h *Hooks) Fire(ctx context.Context, point Point, bc *BuildContext) error {
	h.mu.Lock()
	taps := make([]tap, len(h.taps[point]))
	copy(taps, h.taps[point])
	h.mu.Unlock()

	for _, t := range taps {
		start := time.Now()
		if err := t.fn(ctx, bc); err != nil {
			return NewPluginError(t.name, string(point), err)
		}
		bc.Logger.Debug("Hook callback finished",
			logfields.Hook(string(point)),
			logfields.Plugin(t.name),
			logfields.Since(start))
	}
	return nil
}
