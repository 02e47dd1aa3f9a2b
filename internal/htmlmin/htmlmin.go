// Package htmlmin reduces HTML markup size without changing rendered meaning.
package htmlmin

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"

	ferrors "git.home.luguber.info/inful/docpress/internal/foundation/errors"
)

// Options selects which reductions apply.
type Options struct {
	RemoveComments     bool
	CollapseWhitespace bool
}

// Minifier reduces markup.
type Minifier interface {
	Minify(markup string) (string, error)
}

// Reducer is the tokenizer-driven Minifier.
type Reducer struct {
	opts Options
}

// New returns a Reducer for opts.
func New(opts Options) *Reducer {
	return &Reducer{opts: opts}
}

// Minify implements Minifier.
func (r *Reducer) Minify(markup string) (string, error) {
	return Minify(markup, r.opts)
}

// preserved elements keep their text content byte for byte.
var preserved = map[string]struct{}{
	"pre": {}, "textarea": {}, "script": {}, "style": {}, "code": {},
}

// block elements tolerate dropping whitespace-only text around them.
var block = map[string]struct{}{
	"html": {}, "head": {}, "body": {}, "title": {}, "meta": {}, "link": {},
	"script": {}, "style": {}, "div": {}, "p": {}, "ul": {}, "ol": {}, "li": {},
	"section": {}, "article": {}, "header": {}, "footer": {}, "nav": {}, "main": {},
	"aside": {}, "h1": {}, "h2": {}, "h3": {}, "h4": {}, "h5": {}, "h6": {},
	"table": {}, "thead": {}, "tbody": {}, "tfoot": {}, "tr": {}, "td": {}, "th": {},
	"blockquote": {}, "pre": {}, "hr": {}, "br": {}, "figure": {}, "figcaption": {},
	"dl": {}, "dt": {}, "dd": {}, "form": {}, "details": {}, "summary": {},
}

// Minify tokenizes markup and re-emits it with comments and redundant
// whitespace removed according to opts. Tag bytes are copied unchanged.
func Minify(markup string, opts Options) (string, error) {
	m := &minifier{opts: opts}
	z := html.NewTokenizer(strings.NewReader(markup))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return "", ferrors.WrapError(err, ferrors.CategoryMinify, "tokenize markup").Build()
			}
			m.flushSpace(false)
			return m.out.String(), nil
		}
		raw := append([]byte(nil), z.Raw()...)
		switch tt {
		case html.CommentToken:
			if opts.RemoveComments && !isConditional(raw) {
				continue
			}
			m.flushSpace(false)
			m.out.Write(raw)
		case html.DoctypeToken:
			m.flushSpace(true)
			m.out.Write(raw)
			m.lastBlock = true
		case html.StartTagToken, html.SelfClosingTagToken, html.EndTagToken:
			name, _ := z.TagName()
			m.tag(tt, string(name), raw)
		case html.TextToken:
			m.text(raw)
		}
	}
}

type minifier struct {
	opts      Options
	out       bytes.Buffer
	preDepth  int
	lastBlock bool
	// pendingSpace holds a collapsed whitespace run awaiting the next token.
	pendingSpace bool
}

func (m *minifier) tag(tt html.TokenType, name string, raw []byte) {
	_, isBlock := block[name]
	m.flushSpace(isBlock)
	m.out.Write(raw)
	m.lastBlock = isBlock

	if _, ok := preserved[name]; !ok {
		return
	}
	switch tt {
	case html.StartTagToken:
		m.preDepth++
	case html.EndTagToken:
		if m.preDepth > 0 {
			m.preDepth--
		}
	}
}

func (m *minifier) text(raw []byte) {
	if !m.opts.CollapseWhitespace || m.preDepth > 0 {
		m.flushSpace(false)
		m.out.Write(raw)
		m.lastBlock = false
		return
	}
	collapsed := collapse(raw)
	if len(bytes.TrimSpace(collapsed)) == 0 {
		if len(collapsed) > 0 {
			m.pendingSpace = true
		}
		return
	}
	if collapsed[0] == ' ' {
		m.pendingSpace = true
		collapsed = collapsed[1:]
	}
	trailing := collapsed[len(collapsed)-1] == ' '
	if trailing {
		collapsed = collapsed[:len(collapsed)-1]
	}
	m.flushSpace(false)
	m.out.Write(collapsed)
	m.lastBlock = false
	m.pendingSpace = trailing
}

// flushSpace emits a pending space unless a block boundary makes it redundant.
func (m *minifier) flushSpace(nextIsBlock bool) {
	if !m.pendingSpace {
		return
	}
	m.pendingSpace = false
	if nextIsBlock || m.lastBlock || m.out.Len() == 0 {
		return
	}
	m.out.WriteByte(' ')
}

func collapse(raw []byte) []byte {
	out := make([]byte, 0, len(raw))
	inSpace := false
	for _, c := range raw {
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' {
			if !inSpace {
				out = append(out, ' ')
				inSpace = true
			}
			continue
		}
		inSpace = false
		out = append(out, c)
	}
	return out
}

func isConditional(raw []byte) bool {
	return bytes.HasPrefix(raw, []byte("<!--[if")) || bytes.HasPrefix(raw, []byte("<!--<![endif"))
}
