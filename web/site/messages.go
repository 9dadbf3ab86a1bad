package site

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"
)

const (
	highlightStart = "##HIGHLIGHT_START##"
	highlightEnd   = "##HIGHLIGHT_END##"
	lineBreak      = "##BR##"
)

// Messages is the flattened message catalog of one locale.
// Nested JSON objects are joined with dots: {"hero": {"title": ""}} is "hero.title".
type Messages struct {
	locale  string
	entries map[string]string
}

// Locale returns the catalog's locale code.
func (m *Messages) Locale() string {
	return m.locale
}

// T returns the message for key, or key itself when the catalog has no entry.
func (m *Messages) T(key string) string {
	if v, ok := m.entries[key]; ok {
		return v
	}
	return key
}

// Prefixed returns every entry under prefix with the prefix removed.
func (m *Messages) Prefixed(prefix string) map[string]string {
	prefix += "."
	out := make(map[string]string)
	for k, v := range m.entries {
		if rest, ok := strings.CutPrefix(k, prefix); ok {
			out[rest] = v
		}
	}
	return out
}

// Catalogs maps locale codes to their messages.
type Catalogs map[string]*Messages

// LoadCatalogs reads <dir>/<locale>.json from fsys for each locale.
func LoadCatalogs(fsys fs.FS, dir string, locales []string) (Catalogs, error) {
	catalogs := make(Catalogs, len(locales))
	for _, locale := range locales {
		data, err := fs.ReadFile(fsys, path.Join(dir, locale+".json"))
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", locale, err)
		}

		var raw map[string]any
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", locale, err)
		}

		entries := make(map[string]string)
		flatten("", raw, entries)
		catalogs[locale] = &Messages{locale: locale, entries: entries}
	}
	return catalogs, nil
}

func flatten(prefix string, node map[string]any, out map[string]string) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case string:
			out[key] = val
		case map[string]any:
			flatten(key, val, out)
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}

// Highlight escapes text and renders highlight and line break markers as HTML.
func Highlight(text string) template.HTML {
	var b strings.Builder
	for i, line := range strings.Split(text, lineBreak) {
		if i > 0 {
			b.WriteString("<br>")
		}
		writeHighlighted(&b, line)
	}
	return template.HTML(b.String())
}

func writeHighlighted(b *strings.Builder, text string) {
	for {
		before, after, found := strings.Cut(text, highlightStart)
		b.WriteString(template.HTMLEscapeString(before))
		if !found {
			return
		}

		marked, rest, closed := strings.Cut(after, highlightEnd)
		b.WriteString(`<span class="highlight">`)
		b.WriteString(template.HTMLEscapeString(marked))
		b.WriteString(`</span>`)
		if !closed {
			return
		}
		text = rest
	}
}
