package plugin

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryFirstRegistrationWins(t *testing.T) {
	var calls []string
	first := New("layout", func(context.Context, *BuildContext) error {
		calls = append(calls, "first")
		return nil
	})
	second := New("layout", func(context.Context, *BuildContext) error {
		calls = append(calls, "second")
		return nil
	})

	r := NewRegistry()
	assert.True(t, r.Register(first))
	assert.False(t, r.Register(second))
	assert.Equal(t, 1, r.Count())
	assert.Equal(t, 1, r.Skipped())

	require.NoError(t, r.ApplyAll(context.Background(), newTestContext(t)))
	assert.Equal(t, []string{"first"}, calls)
}

func TestRegistryRejectsInvalid(t *testing.T) {
	r := NewRegistry()
	assert.False(t, r.Register(nil))
	assert.False(t, r.Register(New("", func(context.Context, *BuildContext) error { return nil })))
	assert.Zero(t, r.Count())
}

func TestRegistryApplyOrder(t *testing.T) {
	var order []string
	mk := func(name string) Plugin {
		return New(name, func(context.Context, *BuildContext) error {
			order = append(order, name)
			return nil
		})
	}

	r := NewRegistry().Use(mk("reset"), mk("layout"), mk("minify"))
	assert.Equal(t, []string{"reset", "layout", "minify"}, r.Names())

	require.NoError(t, r.ApplyAll(context.Background(), newTestContext(t)))
	assert.Equal(t, []string{"reset", "layout", "minify"}, order)
}

func TestRegistryApplyErrorStops(t *testing.T) {
	boom := errors.New("boom")
	ran := false
	r := NewRegistry().Use(
		New("bad", func(context.Context, *BuildContext) error { return boom }),
		New("after", func(context.Context, *BuildContext) error {
			ran = true
			return nil
		}),
	)

	err := r.ApplyAll(context.Background(), newTestContext(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	var pe *PluginError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "bad", pe.PluginName)
	assert.Equal(t, "apply", pe.Operation)
	assert.False(t, ran)
}

func TestRegistryGet(t *testing.T) {
	r := NewRegistry().Use(New("layout", func(context.Context, *BuildContext) error { return nil }))
	p, ok := r.Get("layout")
	require.True(t, ok)
	assert.Equal(t, "layout", p.Metadata().Name)
	assert.True(t, r.Has("layout"))
	assert.False(t, r.Has("minify"))
}

func TestPluginMetadataValidation(t *testing.T) {
	tests := []struct {
		name      string
		metadata  PluginMetadata
		expectErr bool
	}{
		{"valid", PluginMetadata{Name: "layout", Type: PluginTypeTransform}, false},
		{"missing name", PluginMetadata{Type: PluginTypeOutput}, true},
		{"invalid type", PluginMetadata{Name: "x", Type: PluginType("theme")}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.metadata.Validate()
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
