// Package asset holds the unit flowing through the pipeline and the ordered
// collection every stage reads and rewrites in place.
package asset

import (
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/docpress/internal/docs"
	"git.home.luguber.info/inful/docpress/internal/render"
)

// RootCategory is the category of pages written directly under the output root.
const RootCategory = "/"

// Asset is one rendered page.
type Asset struct {
	// Source is the originating document; zero for synthetic assets.
	Source   docs.Document
	Category string
	// Name is the base file name carrying the source extension ("setup.md").
	Name string
	// Body is the renderer output, never touched by extensions.
	Body string
	// Markup is the working copy extensions rewrite.
	Markup   string
	Metadata render.Metadata
	// Fingerprint identifies the source content the asset was rendered from.
	// Empty means unknown and never matches.
	Fingerprint string
}

// FromDocument builds the asset for a rendered document.
func FromDocument(doc docs.Document, res render.Result) *Asset {
	meta := res.Metadata
	if meta == nil {
		meta = render.Metadata{}
	}
	return &Asset{
		Source:   doc,
		Category: doc.Category,
		Name:     doc.Name,
		Body:     res.Markup,
		Markup:   res.Markup,
		Metadata: meta,
	}
}

// NewSynthetic builds an asset with no originating document.
func NewSynthetic(category, name, markup string, meta render.Metadata) *Asset {
	if meta == nil {
		meta = render.Metadata{}
	}
	return &Asset{
		Category: category,
		Name:     name,
		Body:     markup,
		Markup:   markup,
		Metadata: meta,
	}
}

// Synthetic reports whether the asset was produced by the pipeline itself.
func (a *Asset) Synthetic() bool {
	return a.Source.Path == ""
}

// Key identifies the asset within a collection.
func (a *Asset) Key() string {
	if !a.Synthetic() {
		return a.Source.Path
	}
	return "synthetic:" + a.Category + "/" + a.Name
}

// Reset restores Markup to the renderer output.
func (a *Asset) Reset() {
	a.Markup = a.Body
}

// Title returns the title metadata.
func (a *Asset) Title() string {
	return a.Metadata.String("title")
}

// OutputName returns the emitted file name.
func (a *Asset) OutputName() string {
	return strings.TrimSuffix(a.Name, filepath.Ext(a.Name)) + docs.TargetExt
}

// Href returns the site-relative URL of the emitted page.
func (a *Asset) Href() string {
	if a.Category == RootCategory || a.Category == "" {
		return "/" + a.OutputName()
	}
	return "/" + a.Category + "/" + a.OutputName()
}
