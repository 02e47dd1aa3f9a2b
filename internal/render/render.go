// Package render converts one document's raw text into markup plus metadata.
package render

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"

	"git.home.luguber.info/inful/docpress/internal/config"
	"git.home.luguber.info/inful/docpress/internal/foundation/errors"
	"git.home.luguber.info/inful/docpress/internal/frontmatter"
)

// Result is the output of rendering one document.
type Result struct {
	Markup   string
	Metadata Metadata
	// Heading is the text of the first level-one heading, if any.
	Heading string
}

// Renderer converts raw document text into markup and metadata.
type Renderer interface {
	Render(raw []byte) (Result, error)
}

// Func adapts a plain function to Renderer.
type Func func(raw []byte) (Result, error)

// Render implements Renderer.
func (f Func) Render(raw []byte) (Result, error) { return f(raw) }

// Markdown renders CommonMark with the configured extensions.
type Markdown struct {
	md goldmark.Markdown
}

// NewMarkdown builds a goldmark-backed renderer from the markdown options bag.
func NewMarkdown(opts config.MarkdownConfig) *Markdown {
	var exts []goldmark.Extender
	if opts.Tables {
		exts = append(exts, extension.Table)
	}
	if opts.Strikethrough {
		exts = append(exts, extension.Strikethrough)
	}
	if opts.Tasklists {
		exts = append(exts, extension.TaskList)
	}
	if opts.Autolink {
		exts = append(exts, extension.Linkify)
	}
	if opts.Typographer {
		exts = append(exts, extension.Typographer)
	}
	if opts.Footnotes {
		exts = append(exts, extension.Footnote)
	}
	if opts.DefinitionLists {
		exts = append(exts, extension.DefinitionList)
	}

	var parserOpts []parser.Option
	if opts.HeadingIDs {
		parserOpts = append(parserOpts, parser.WithAutoHeadingID())
	}

	var htmlOpts []renderer.Option
	if opts.HardWraps {
		htmlOpts = append(htmlOpts, html.WithHardWraps())
	}
	if opts.UnsafeHTML {
		htmlOpts = append(htmlOpts, html.WithUnsafe())
	}
	return &Markdown{md: goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithParserOptions(parserOpts...),
		goldmark.WithRendererOptions(htmlOpts...),
	)}
}

// Render implements Renderer.
func (m *Markdown) Render(raw []byte) (Result, error) {
	fields, body, err := frontmatter.Parse(raw)
	if err != nil {
		return Result{}, errors.WrapError(err, errors.CategoryRender, "invalid front matter").Build()
	}

	doc := m.md.Parser().Parse(text.NewReader(body))

	var buf bytes.Buffer
	if err := m.md.Renderer().Render(&buf, body, doc); err != nil {
		return Result{}, errors.WrapError(err, errors.CategoryRender, "render markdown").Build()
	}

	return Result{
		Markup:   buf.String(),
		Metadata: Normalize(fields),
		Heading:  firstHeading(doc, body),
	}, nil
}

func firstHeading(doc gmast.Node, source []byte) string {
	var heading string
	_ = gmast.Walk(doc, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if h, ok := n.(*gmast.Heading); ok && h.Level == 1 {
			heading = strings.TrimSpace(plainText(h, source))
			return gmast.WalkStop, nil
		}
		return gmast.WalkContinue, nil
	})
	return heading
}

func plainText(n gmast.Node, source []byte) string {
	var b strings.Builder
	_ = gmast.Walk(n, func(c gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *gmast.Text:
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *gmast.String:
			b.Write(t.Value)
		}
		return gmast.WalkContinue, nil
	})
	return b.String()
}
