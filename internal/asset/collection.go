package asset

import "git.home.luguber.info/inful/docpress/internal/docs"

// Collection is the ordered list of assets shared across one run.
// It is not safe for concurrent use; its owner serializes access.
type Collection struct {
	items []*Asset
}

// NewCollection creates an empty collection.
func NewCollection() *Collection {
	return &Collection{}
}

// Len returns the number of assets.
func (c *Collection) Len() int { return len(c.items) }

// All returns the assets in order. The slice is a copy; the assets are shared.
func (c *Collection) All() []*Asset {
	out := make([]*Asset, len(c.items))
	copy(out, c.items)
	return out
}

// Documents returns the assets that originate from a document.
func (c *Collection) Documents() []*Asset {
	out := make([]*Asset, 0, len(c.items))
	for _, a := range c.items {
		if !a.Synthetic() {
			out = append(out, a)
		}
	}
	return out
}

func (c *Collection) indexOf(key string) int {
	for i, a := range c.items {
		if a.Key() == key {
			return i
		}
	}
	return -1
}

// Upsert replaces the asset sharing a's key at its position, or appends a.
// It reports whether a was appended.
func (c *Collection) Upsert(a *Asset) bool {
	if i := c.indexOf(a.Key()); i >= 0 {
		c.items[i] = a
		return false
	}
	c.items = append(c.items, a)
	return true
}

// Append is Upsert under its pipeline name: two assets for the same source
// path never coexist.
func (c *Collection) Append(a *Asset) bool {
	return c.Upsert(a)
}

// Replace swaps the asset sharing a's key in place. It reports false when no
// such asset exists.
func (c *Collection) Replace(a *Asset) bool {
	i := c.indexOf(a.Key())
	if i < 0 {
		return false
	}
	c.items[i] = a
	return true
}

// FindBySource returns the asset rendered from path, if any.
func (c *Collection) FindBySource(path string) (*Asset, bool) {
	if path == "" {
		return nil, false
	}
	if i := c.indexOf(path); i >= 0 {
		return c.items[i], true
	}
	return nil, false
}

// Remove deletes the asset rendered from path and reports whether it existed.
func (c *Collection) Remove(path string) bool {
	if path == "" {
		return false
	}
	i := c.indexOf(path)
	if i < 0 {
		return false
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	return true
}

// RemoveUnder deletes every document asset whose source lies under dir and
// returns them in their former order.
func (c *Collection) RemoveUnder(dir string) []*Asset {
	var removed []*Asset
	kept := c.items[:0]
	for _, a := range c.items {
		if !a.Synthetic() && a.Source.Path != dir && docs.Within(dir, a.Source.Path) {
			removed = append(removed, a)
			continue
		}
		kept = append(kept, a)
	}
	for i := len(kept); i < len(c.items); i++ {
		c.items[i] = nil
	}
	c.items = kept
	return removed
}

// HasUnder reports whether any document asset lies under dir.
func (c *Collection) HasUnder(dir string) bool {
	for _, a := range c.items {
		if !a.Synthetic() && a.Source.Path != dir && docs.Within(dir, a.Source.Path) {
			return true
		}
	}
	return false
}
