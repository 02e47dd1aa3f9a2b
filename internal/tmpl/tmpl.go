// Package tmpl compiles page templates and caches compiled results by source.
package tmpl

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"html/template"
	"os"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"git.home.luguber.info/inful/docpress/internal/foundation/errors"
)

// Func executes a compiled template with the given variables.
type Func func(vars map[string]any) (string, error)

// Compiler turns template source into an executable Func.
type Compiler interface {
	Compile(source string) (Func, error)
}

const defaultCacheSize = 64

// Engine is an html/template Compiler with an LRU cache of compiled templates.
type Engine struct {
	cache *lru.Cache[string, *template.Template]
	funcs template.FuncMap
}

// New creates an Engine caching up to size compiled templates.
func New(size int) (*Engine, error) {
	if size <= 0 {
		size = defaultCacheSize
	}
	cache, err := lru.New[string, *template.Template](size)
	if err != nil {
		return nil, err
	}
	return &Engine{cache: cache, funcs: defaultFuncs()}, nil
}

func defaultFuncs() template.FuncMap {
	return template.FuncMap{
		"join":  strings.Join,
		"lower": strings.ToLower,
		"upper": strings.ToUpper,
		"safe":  func(s string) template.HTML { return template.HTML(s) }, //nolint:gosec // caller opts in explicitly
	}
}

// Compile parses source, reusing a cached template when the same source was
// compiled before.
func (e *Engine) Compile(source string) (Func, error) {
	key := cacheKey(source)
	tpl, ok := e.cache.Get(key)
	if !ok {
		parsed, err := template.New("page").Funcs(e.funcs).Parse(source)
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryTemplate, "parse template").Build()
		}
		e.cache.Add(key, parsed)
		tpl = parsed
	}
	return func(vars map[string]any) (string, error) {
		var buf bytes.Buffer
		if err := tpl.Execute(&buf, vars); err != nil {
			return "", errors.WrapError(err, errors.CategoryTemplate, "execute template").Build()
		}
		return buf.String(), nil
	}, nil
}

// CompileFile reads path and compiles its content.
func (e *Engine) CompileFile(path string) (Func, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "read template").
			WithContext("path", path).
			Fatal().
			Build()
	}
	fn, err := e.Compile(string(source))
	if err != nil {
		if ce, ok := errors.AsClassified(err); ok {
			return nil, ce.WithContext("path", path)
		}
		return nil, err
	}
	return fn, nil
}

// Len reports how many compiled templates are cached.
func (e *Engine) Len() int { return e.cache.Len() }

func cacheKey(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])
}
