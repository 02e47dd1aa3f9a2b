package render

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Metadata maps front matter keys to a string or a []string.
type Metadata map[string]any

// String returns key as a string, joining sequences with ", ".
func (m Metadata) String(key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case []string:
		return strings.Join(v, ", ")
	default:
		return ""
	}
}

// Strings returns key as a sequence.
func (m Metadata) Strings(key string) []string {
	switch v := m[key].(type) {
	case []string:
		return v
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	default:
		return nil
	}
}

// Clone returns a shallow copy with sequences duplicated.
func (m Metadata) Clone() Metadata {
	out := make(Metadata, len(m))
	for k, v := range m {
		if s, ok := v.([]string); ok {
			v = append([]string(nil), s...)
		}
		out[k] = v
	}
	return out
}

// multiValued lists fields that may arrive as a single delimited string.
var multiValued = map[string]struct{}{
	"tags":       {},
	"categories": {},
	"keywords":   {},
}

// Normalize converts decoded front matter into Metadata: scalars become
// strings, sequences become []string, and delimited multi-valued fields are split.
func Normalize(fields map[string]any) Metadata {
	meta := make(Metadata, len(fields))
	for key, raw := range fields {
		k := strings.ToLower(strings.TrimSpace(key))
		if k == "" || raw == nil {
			continue
		}
		if _, multi := multiValued[k]; multi {
			meta[k] = toStrings(raw)
			continue
		}
		switch v := raw.(type) {
		case []any:
			meta[k] = toStrings(v)
		default:
			meta[k] = scalar(v)
		}
	}
	return meta
}

// SplitList splits on commas and whitespace, dropping empty items.
func SplitList(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func toStrings(raw any) []string {
	switch v := raw.(type) {
	case string:
		return SplitList(v)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if item == nil {
				continue
			}
			if s := strings.TrimSpace(scalar(item)); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return SplitList(scalar(v))
	}
}

func scalar(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case time.Time:
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
			return t.Format(time.DateOnly)
		}
		return t.Format(time.RFC3339)
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+"="+scalar(t[k]))
		}
		return strings.Join(parts, " ")
	default:
		return fmt.Sprint(t)
	}
}

// DefaultTitle fills "title" when absent: the first heading if present,
// otherwise the file name without extension title-cased.
func DefaultTitle(meta Metadata, heading, fileName string) {
	if strings.TrimSpace(meta.String("title")) != "" {
		return
	}
	if heading != "" {
		meta["title"] = heading
		return
	}
	stem := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	stem = strings.NewReplacer("-", " ", "_", " ").Replace(stem)
	meta["title"] = cases.Title(language.English).String(stem)
}
